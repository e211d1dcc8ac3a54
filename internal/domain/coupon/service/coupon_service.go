package service

import (
	"context"
	"errors"
	"fmt"
	"redcable_club/internal/domain/coupon/model"
	"redcable_club/internal/domain/coupon/repository"
	"redcable_club/pkg/logger"
	"redcable_club/pkg/metrics"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrCategoryMismatch = errors.New("coupon is not valid for this category")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrInvalidAmount    = errors.New("invalid argument: amount off must not be negative")
	ErrNoCategories     = errors.New("invalid argument: coupon needs at least one category")
)

// RedemptionQueue 核销流水的异步写入队列
type RedemptionQueue interface {
	AddTask(record model.RedemptionRecord)
}

// IssueInput 发券参数，Kind 决定使用 AmountOff 还是 PercentageOff
type IssueInput struct {
	UserID        string
	Code          string
	Description   string
	Kind          model.Kind
	AmountOff     decimal.Decimal
	PercentageOff decimal.Decimal
	Categories    model.Categories
}

// Quote 试算结果
type Quote struct {
	CouponID   string          `json:"couponId"`
	Category   model.Category  `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Discount   decimal.Decimal `json:"discount"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
}

type CouponService interface {
	IssueCoupon(ctx context.Context, in IssueInput) (*model.Coupon, error)
	ListWallet(ctx context.Context, userID string, filter repository.ListFilter) ([]model.Coupon, error)
	QuoteDiscount(ctx context.Context, userID, couponID string, price decimal.Decimal, category model.Category) (*Quote, error)
	RedeemCoupon(ctx context.Context, userID, couponID string, price decimal.Decimal, category model.Category) (*Quote, error)
}

type couponService struct {
	repo    repository.CouponRepository
	queue   RedemptionQueue
	metrics *metrics.MetricsCollector
	now     func() time.Time
}

func NewCouponService(repo repository.CouponRepository, queue RedemptionQueue, m *metrics.MetricsCollector) CouponService {
	return &couponService{
		repo:    repo,
		queue:   queue,
		metrics: m,
		now:     time.Now,
	}
}

func (s *couponService) IssueCoupon(ctx context.Context, in IssueInput) (*model.Coupon, error) {
	var (
		coupon *model.Coupon
		err    error
	)

	if len(in.Categories) == 0 {
		return nil, ErrNoCategories
	}

	switch in.Kind {
	case model.KindAmount:
		if in.AmountOff.IsNegative() {
			return nil, ErrInvalidAmount
		}
		coupon = model.NewAmountCoupon(in.Code, in.Description, in.AmountOff, in.Categories, model.WithOwner(in.UserID))
	case model.KindPercentage:
		coupon, err = model.NewPercentageCoupon(in.Code, in.Description, in.PercentageOff, in.Categories, model.WithOwner(in.UserID))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownKind, in.Kind)
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	logger.Log.Info("coupon issued",
		zap.String("coupon_id", coupon.ID),
		zap.String("user_id", coupon.UserID),
		zap.String("code", coupon.Code),
		zap.String("kind", string(coupon.Kind)),
	)
	return coupon, nil
}

func (s *couponService) ListWallet(ctx context.Context, userID string, filter repository.ListFilter) ([]model.Coupon, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

// loadOwned 只能操作自己钱包中的券，他人的券按不存在处理
func (s *couponService) loadOwned(ctx context.Context, userID, couponID string) (*model.Coupon, error) {
	coupon, err := s.repo.GetByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if coupon.UserID != userID {
		return nil, repository.ErrCouponNotFound
	}
	return coupon, nil
}

// quote 校验状态与品类并计算抵扣金额
func quote(coupon *model.Coupon, price decimal.Decimal, category model.Category) (*Quote, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if coupon.IsRedeemed() {
		return nil, model.ErrAlreadyRedeemed
	}
	if !coupon.IsValidFor(category) {
		return nil, ErrCategoryMismatch
	}

	discount := coupon.CalculateDiscount(price)
	return &Quote{
		CouponID:   coupon.ID,
		Category:   category,
		Price:      price,
		Discount:   discount,
		FinalPrice: price.Sub(discount),
	}, nil
}

func (s *couponService) QuoteDiscount(ctx context.Context, userID, couponID string, price decimal.Decimal, category model.Category) (*Quote, error) {
	coupon, err := s.loadOwned(ctx, userID, couponID)
	if err != nil {
		return nil, err
	}
	return quote(coupon, price, category)
}

func (s *couponService) RedeemCoupon(ctx context.Context, userID, couponID string, price decimal.Decimal, category model.Category) (*Quote, error) {
	coupon, err := s.loadOwned(ctx, userID, couponID)
	if err != nil {
		return nil, err
	}

	q, err := quote(coupon, price, category)
	if err != nil {
		s.recordRedemption(coupon.Kind, err)
		return nil, err
	}

	// 先在内存中完成状态流转，再用条件更新落库，防止并发重复核销
	at := s.now()
	if err := coupon.Redeem(at); err != nil {
		s.recordRedemption(coupon.Kind, err)
		return nil, err
	}
	if err := s.repo.MarkRedeemed(ctx, coupon.ID, at); err != nil {
		s.recordRedemption(coupon.Kind, err)
		return nil, err
	}
	s.recordRedemption(coupon.Kind, nil)

	s.queue.AddTask(model.RedemptionRecord{
		CouponID: coupon.ID,
		UserID:   userID,
		Category: category,
		Price:    q.Price,
		Discount: q.Discount,
	})

	logger.Log.Info("coupon redeemed",
		zap.String("coupon_id", coupon.ID),
		zap.String("user_id", userID),
		zap.String("discount", q.Discount.String()),
	)
	return q, nil
}

func (s *couponService) recordRedemption(kind model.Kind, err error) {
	if s.metrics == nil {
		return
	}
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, model.ErrAlreadyRedeemed):
		result = "already_redeemed"
	case errors.Is(err, ErrCategoryMismatch):
		result = "category_mismatch"
	case errors.Is(err, ErrNegativePrice):
		result = "invalid_price"
	default:
		result = "error"
	}
	s.metrics.RecordRedemption(string(kind), result)
}
