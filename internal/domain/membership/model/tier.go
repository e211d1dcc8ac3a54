package model

import "math"

// Tier 会员等级，积分区间为闭区间 [MinPoints, MaxPoints]
type Tier struct {
	Name      string `json:"name"`
	MinPoints int    `json:"minPoints"`
	MaxPoints int    `json:"maxPoints"`
}

// 等级名称
const (
	TierExplorer = "Explorer"
	TierInsider  = "Insider"
	TierElite    = "Elite"
	TierSupreme  = "Supreme"
)

// Unbounded 最高等级的积分上限
const Unbounded = math.MaxInt

// tiers 按 MinPoints 升序排列，区间连续且互不重叠
var tiers = []Tier{
	{Name: TierExplorer, MinPoints: 0, MaxPoints: 1999},
	{Name: TierInsider, MinPoints: 2000, MaxPoints: 4999},
	{Name: TierElite, MinPoints: 5000, MaxPoints: 9999},
	{Name: TierSupreme, MinPoints: 10000, MaxPoints: Unbounded},
}

// Tiers 返回等级表的副本
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// Lowest 最低等级
func Lowest() Tier {
	return tiers[0]
}

// Contains 判断积分是否落在该等级区间内
func (t Tier) Contains(points int) bool {
	return points >= t.MinPoints && points <= t.MaxPoints
}

// IsTop 是否为最高等级
func (t Tier) IsTop() bool {
	return t.Name == tiers[len(tiers)-1].Name
}

// Next 返回下一个等级，最高等级返回 false
func (t Tier) Next() (Tier, bool) {
	for i, candidate := range tiers {
		if candidate.Name == t.Name && i+1 < len(tiers) {
			return tiers[i+1], true
		}
	}
	return Tier{}, false
}

// Classify 返回积分所属等级
// 没有任何区间包含该积分时（负数）回落到最低等级
func Classify(points int) Tier {
	for _, t := range tiers {
		if t.Contains(points) {
			return t
		}
	}
	return Lowest()
}

// ProgressToNextTier 计算距离下一等级的进度，结果在 [0, 1]
func ProgressToNextTier(points int) float64 {
	current := Classify(points)
	if current.IsTop() {
		return 1.0
	}

	next, ok := current.Next()
	if !ok {
		return 1.0
	}

	// 转为 float64 计算，避免极小的负数积分溢出
	remaining := float64(next.MinPoints) - float64(points)
	span := float64(next.MinPoints - current.MinPoints)
	return clamp(1-remaining/span, 0, 1)
}

// PointsToNextTier 距离下一等级还差多少积分，最高等级返回 0
func PointsToNextTier(points int) int {
	next, ok := Classify(points).Next()
	if !ok {
		return 0
	}
	if points < 0 {
		points = 0
	}
	return max(0, next.MinPoints-points)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
