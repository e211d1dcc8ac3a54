package repository

import (
	"context"
	"errors"
	"redcable_club/internal/domain/profile/model"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInsufficientBalance = errors.New("insufficient points or coins")
)

// ProfileRepository 接口定义
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetList(ctx context.Context, offset, limit int) ([]model.Profile, int64, error)
	AdjustBalance(ctx context.Context, id string, pointsDelta, coinsDelta int) error
}

// profileRepository 实现
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建新的仓库实例
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create 创建档案
func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// GetByID 根据ID获取档案
func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetList 获取档案列表（分页）
func (r *profileRepository) GetList(ctx context.Context, offset, limit int) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Profile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at ASC").Offset(offset).Limit(limit).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// AdjustBalance 原子增减积分与金币，任一余额会变为负数时不更新
func (r *profileRepository) AdjustBalance(ctx context.Context, id string, pointsDelta, coinsDelta int) error {
	result := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ? AND points + ? >= 0 AND coins + ? >= 0", id, pointsDelta, coinsDelta).
		UpdateColumns(map[string]interface{}{
			"points": gorm.Expr("points + ?", pointsDelta),
			"coins":  gorm.Expr("coins + ?", coinsDelta),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 区分档案不存在与余额不足
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientBalance
	}
	return nil
}
