package model

import (
	"encoding/json"
	"errors"
	"fmt"
	baseModel "redcable_club/pkg/model"
	"time"

	"github.com/shopspring/decimal"
)

// Kind 优惠类型
type Kind string

const (
	KindAmount     Kind = "amount"     // 固定金额
	KindPercentage Kind = "percentage" // 按比例折扣
)

// Status 优惠券状态，只允许 Active -> Redeemed 单向流转
type Status int

const (
	StatusActive   Status = 1 // 未使用
	StatusRedeemed Status = 2 // 已核销
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusRedeemed:
		return "redeemed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseStatus 解析 active / redeemed
func ParseStatus(s string) (Status, error) {
	switch s {
	case "active":
		return StatusActive, nil
	case "redeemed":
		return StatusRedeemed, nil
	}
	return 0, fmt.Errorf("unknown coupon status %q", s)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

var (
	ErrInvalidPercentage = errors.New("invalid argument: percentage off must be within [0, 1]")
	ErrAlreadyRedeemed   = errors.New("coupon already redeemed")
	ErrUnknownKind       = errors.New("unknown coupon kind")
)

var one = decimal.NewFromInt(1)

// Coupon 钱包中的优惠券
// Kind 决定 AmountOff 与 PercentageOff 中哪一个生效
type Coupon struct {
	baseModel.BaseModel
	UserID        string          `gorm:"type:uuid;index;not null;uniqueIndex:idx_coupons_user_code" json:"userId"`
	Code          string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_coupons_user_code" json:"code"`
	Description   string          `gorm:"type:varchar(255)" json:"description"`
	Kind          Kind            `gorm:"type:varchar(16);not null" json:"kind"`
	AmountOff     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"amountOff"`
	PercentageOff decimal.Decimal `gorm:"type:numeric(5,4);not null;default:0" json:"percentageOff"`
	Categories    Categories      `gorm:"type:text;not null" json:"categories"`
	Status        Status          `gorm:"not null;default:1" json:"status"`
	RedeemedAt    *time.Time      `json:"redeemedAt,omitempty"`
}

// Option 创建优惠券时的可选参数
type Option func(*Coupon)

// WithRedeemed 以已核销状态创建（例如导入历史数据）
func WithRedeemed(at time.Time) Option {
	return func(c *Coupon) {
		c.Status = StatusRedeemed
		c.RedeemedAt = &at
	}
}

// WithOwner 指定所属用户钱包
func WithOwner(userID string) Option {
	return func(c *Coupon) {
		c.UserID = userID
	}
}

// NewAmountCoupon 创建固定金额优惠券
func NewAmountCoupon(code, description string, amountOff decimal.Decimal, categories Categories, opts ...Option) *Coupon {
	c := &Coupon{
		Code:        code,
		Description: description,
		Kind:        KindAmount,
		AmountOff:   amountOff,
		Categories:  NewCategories(categories...),
		Status:      StatusActive,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewPercentageCoupon 创建折扣优惠券，percentageOff 超出 [0, 1] 时返回 ErrInvalidPercentage
func NewPercentageCoupon(code, description string, percentageOff decimal.Decimal, categories Categories, opts ...Option) (*Coupon, error) {
	if percentageOff.IsNegative() || percentageOff.GreaterThan(one) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPercentage, percentageOff)
	}

	c := &Coupon{
		Code:          code,
		Description:   description,
		Kind:          KindPercentage,
		PercentageOff: percentageOff,
		Categories:    NewCategories(categories...),
		Status:        StatusActive,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CalculateDiscount 计算给定价格可抵扣的金额
// 固定金额券的抵扣不超过价格本身
func (c *Coupon) CalculateDiscount(price decimal.Decimal) decimal.Decimal {
	switch c.Kind {
	case KindAmount:
		return decimal.Min(c.AmountOff, price)
	case KindPercentage:
		return price.Mul(c.PercentageOff)
	default:
		return decimal.Zero
	}
}

// IsValidFor 品类是否在适用范围内
func (c *Coupon) IsValidFor(category Category) bool {
	return c.Categories.Contains(category)
}

func (c *Coupon) IsRedeemed() bool {
	return c.Status == StatusRedeemed
}

// Redeem 核销，已核销的券再次核销返回 ErrAlreadyRedeemed
func (c *Coupon) Redeem(at time.Time) error {
	if c.IsRedeemed() {
		return ErrAlreadyRedeemed
	}
	c.Status = StatusRedeemed
	c.RedeemedAt = &at
	return nil
}

// ParseKind 解析优惠类型
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAmount, KindPercentage:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// RedemptionRecord 核销流水，由 Worker Pool 异步写入
type RedemptionRecord struct {
	baseModel.BaseModel
	CouponID string          `gorm:"type:uuid;uniqueIndex;not null" json:"couponId"`
	UserID   string          `gorm:"type:uuid;index;not null" json:"userId"`
	Category Category        `gorm:"type:varchar(32);not null" json:"category"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Discount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
}
