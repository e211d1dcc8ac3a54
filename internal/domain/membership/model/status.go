package model

// Status 某个积分余额对应的会员状态，供展示层直接渲染
type Status struct {
	Points           int     `json:"points"`
	Tier             Tier    `json:"tier"`
	NextTier         *Tier   `json:"nextTier,omitempty"`
	Progress         float64 `json:"progress"`
	PointsToNextTier int     `json:"pointsToNextTier"`
}

// StatusFor 汇总积分对应的等级、下一等级与进度
func StatusFor(points int) Status {
	current := Classify(points)
	s := Status{
		Points:           points,
		Tier:             current,
		Progress:         ProgressToNextTier(points),
		PointsToNextTier: PointsToNextTier(points),
	}
	if next, ok := current.Next(); ok {
		s.NextTier = &next
	}
	return s
}

// TierCount 等级人数统计
type TierCount struct {
	Tier  string `json:"tier"`
	Count int64  `json:"count"`
}
