package service

import (
	"context"
	"redcable_club/internal/domain/membership/model"
	"redcable_club/internal/domain/membership/repository"
	profileModel "redcable_club/internal/domain/profile/model"
	"redcable_club/pkg/metrics"
)

// ProfileReader 读取档案积分
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*profileModel.Profile, error)
}

// MembershipService 会员等级服务接口
type MembershipService interface {
	Tiers() []model.Tier
	Classify(points int) model.Status
	StatusForProfile(ctx context.Context, profileID string) (model.Status, error)
	Stats(ctx context.Context) ([]model.TierCount, error)
}

type membershipService struct {
	profiles ProfileReader
	stats    repository.StatsRepository
	metrics  *metrics.MetricsCollector
}

// NewMembershipService 创建会员等级服务
func NewMembershipService(profiles ProfileReader, stats repository.StatsRepository, m *metrics.MetricsCollector) MembershipService {
	return &membershipService{profiles: profiles, stats: stats, metrics: m}
}

// Tiers 等级表
func (s *membershipService) Tiers() []model.Tier {
	return model.Tiers()
}

// Classify 计算积分对应的会员状态
func (s *membershipService) Classify(points int) model.Status {
	status := model.StatusFor(points)
	if s.metrics != nil {
		s.metrics.RecordClassification(status.Tier.Name)
	}
	return status
}

// StatusForProfile 档案当前积分对应的会员状态
func (s *membershipService) StatusForProfile(ctx context.Context, profileID string) (model.Status, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return model.Status{}, err
	}
	return s.Classify(profile.Points), nil
}

// Stats 各等级人数
func (s *membershipService) Stats(ctx context.Context) ([]model.TierCount, error) {
	return s.stats.CountByTier(ctx)
}
