package repository

import (
	"context"
	"fmt"
	"redcable_club/internal/domain/membership/model"

	"github.com/jmoiron/sqlx"
)

// StatsRepository 会员等级统计（只读）
type StatsRepository interface {
	CountByTier(ctx context.Context) ([]model.TierCount, error)
}

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository 基于共享连接池创建统计仓库
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

// pointsBucket 相同积分的档案数
type pointsBucket struct {
	Points int   `db:"points"`
	Count  int64 `db:"count"`
}

const countByPointsQuery = `SELECT points, COUNT(*) AS count FROM profiles WHERE deleted_at IS NULL GROUP BY points`

// CountByTier 按等级统计档案数，等级划分在应用层完成
func (r *statsRepository) CountByTier(ctx context.Context) ([]model.TierCount, error) {
	var buckets []pointsBucket
	if err := r.db.SelectContext(ctx, &buckets, countByPointsQuery); err != nil {
		return nil, fmt.Errorf("count profiles by points: %w", err)
	}

	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[model.Classify(b.Points).Name] += b.Count
	}

	// 按等级表顺序输出，没有档案的等级计为 0
	tiers := model.Tiers()
	result := make([]model.TierCount, 0, len(tiers))
	for _, t := range tiers {
		result = append(result, model.TierCount{Tier: t.Name, Count: counts[t.Name]})
	}
	return result, nil
}
