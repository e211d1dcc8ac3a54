package service

import (
	"context"
	"errors"
	"fmt"
	couponModel "redcable_club/internal/domain/coupon/model"
	couponRepo "redcable_club/internal/domain/coupon/repository"
	membershipModel "redcable_club/internal/domain/membership/model"
	"redcable_club/internal/domain/profile/model"
	"redcable_club/internal/domain/profile/repository"
	"redcable_club/pkg/cache"
	"redcable_club/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// 缓存键常量
const (
	ProfileCacheKeyPrefix = "profile:"
	ProfileCacheTTL       = time.Minute * 10
)

// WalletReader 读取用户钱包
type WalletReader interface {
	ListByUser(ctx context.Context, userID string, filter couponRepo.ListFilter) ([]couponModel.Coupon, error)
}

// Overview 个人中心聚合视图：档案 + 会员等级 + 钱包
type Overview struct {
	Profile       *model.Profile         `json:"profile"`
	Membership    membershipModel.Status `json:"membership"`
	Wallet        []couponModel.Coupon   `json:"wallet"`
	ActiveCoupons int                    `json:"activeCoupons"`
}

// ProfileService 档案服务接口
type ProfileService interface {
	CreateProfile(ctx context.Context, nickname string, points, coins int) (*model.Profile, error)
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	ListProfiles(ctx context.Context, page, limit int) ([]model.Profile, int64, error)
	GetOverview(ctx context.Context, id string) (*Overview, error)
	AdjustBalance(ctx context.Context, id string, pointsDelta, coinsDelta int) (*model.Profile, error)
	FlushCache(ctx context.Context) error
}

type profileService struct {
	repo   repository.ProfileRepository
	wallet WalletReader
	cache  cache.CacheService
}

// NewProfileService 创建档案服务
func NewProfileService(repo repository.ProfileRepository, wallet WalletReader, cache cache.CacheService) ProfileService {
	return &profileService{repo: repo, wallet: wallet, cache: cache}
}

func (s *profileService) cacheKey(id string) string {
	return fmt.Sprintf("%s%s", ProfileCacheKeyPrefix, id)
}

// CreateProfile 创建档案
func (s *profileService) CreateProfile(ctx context.Context, nickname string, points, coins int) (*model.Profile, error) {
	profile, err := model.NewProfile(nickname, points, coins)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile 获取单个档案（带缓存）
func (s *profileService) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var cached model.Profile
	err := s.cache.Get(ctx, s.cacheKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Log.Warn("profile cache read failed", zap.String("profile_id", id), zap.Error(err))
	}

	// 缓存未命中，从数据库获取
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 缓存失败不影响业务逻辑，只记录日志
	if err := s.cache.Set(ctx, s.cacheKey(id), profile, ProfileCacheTTL); err != nil {
		logger.Log.Warn("failed to cache profile", zap.String("profile_id", id), zap.Error(err))
	}
	return profile, nil
}

// ListProfiles 获取档案列表（分页）
func (s *profileService) ListProfiles(ctx context.Context, page, limit int) ([]model.Profile, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.GetList(ctx, offset, limit)
}

// GetOverview 聚合档案、会员等级与钱包
func (s *profileService) GetOverview(ctx context.Context, id string) (*Overview, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	wallet, err := s.wallet.ListByUser(ctx, id, couponRepo.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}

	active := 0
	for i := range wallet {
		if !wallet[i].IsRedeemed() {
			active++
		}
	}

	return &Overview{
		Profile:       profile,
		Membership:    membershipModel.StatusFor(profile.Points),
		Wallet:        wallet,
		ActiveCoupons: active,
	}, nil
}

// AdjustBalance 增减积分与金币，更新后用最新档案覆盖缓存
func (s *profileService) AdjustBalance(ctx context.Context, id string, pointsDelta, coinsDelta int) (*model.Profile, error) {
	if err := s.repo.AdjustBalance(ctx, id, pointsDelta, coinsDelta); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.invalidate(ctx, id)
		return nil, err
	}

	// 覆盖写入，缓存中不留更新前的旧值
	if err := s.cache.Set(ctx, s.cacheKey(id), profile, ProfileCacheTTL); err != nil {
		logger.Log.Warn("failed to refresh profile cache", zap.String("profile_id", id), zap.Error(err))
		s.invalidate(ctx, id)
	}

	logger.Log.Info("profile balance adjusted",
		zap.String("profile_id", id),
		zap.Int("points_delta", pointsDelta),
		zap.Int("coins_delta", coinsDelta),
		zap.Int("points", profile.Points),
		zap.String("tier", membershipModel.Classify(profile.Points).Name),
	)
	return profile, nil
}

// FlushCache 清空全部档案缓存
func (s *profileService) FlushCache(ctx context.Context) error {
	if err := s.cache.InvalidatePattern(ctx, ProfileCacheKeyPrefix+"*"); err != nil {
		return fmt.Errorf("flush profile cache: %w", err)
	}
	logger.Log.Info("profile cache flushed")
	return nil
}

func (s *profileService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		logger.Log.Warn("failed to invalidate profile cache", zap.String("profile_id", id), zap.Error(err))
	}
}
