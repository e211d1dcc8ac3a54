package repository

import (
	"context"
	"errors"
	"redcable_club/internal/domain/coupon/model"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrDuplicateCode  = errors.New("coupon code already exists in wallet")
)

// ListFilter 钱包查询条件，Status 为 0 表示不过滤
type ListFilter struct {
	Status model.Status
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByID(ctx context.Context, id string) (*model.Coupon, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]model.Coupon, error)
	MarkRedeemed(ctx context.Context, couponID string, at time.Time) error
	CreateRedemptionRecord(ctx context.Context, record *model.RedemptionRecord) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, id string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// ListByUser 钱包按发放顺序返回
func (r *couponRepository) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]model.Coupon, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Status != 0 {
		q = q.Where("status = ?", filter.Status)
	}

	var coupons []model.Coupon
	if err := q.Order("created_at ASC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// MarkRedeemed 条件更新实现 Active -> Redeemed 的单向流转
// 并发核销时只有一个请求能更新成功，其余返回 ErrAlreadyRedeemed
func (r *couponRepository) MarkRedeemed(ctx context.Context, couponID string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ? AND status = ?", couponID, model.StatusActive).
		Updates(map[string]interface{}{
			"status":      model.StatusRedeemed,
			"redeemed_at": at,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrAlreadyRedeemed
	}
	return nil
}

func (r *couponRepository) CreateRedemptionRecord(ctx context.Context, record *model.RedemptionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// isUniqueViolation PostgreSQL 唯一约束冲突 (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
