package handler

import (
	"context"
	"errors"
	"net/http"
	"redcable_club/internal/domain/coupon/model"
	"redcable_club/internal/domain/coupon/repository"
	"redcable_club/internal/domain/coupon/service"
	"redcable_club/internal/pkg/middleware"
	"redcable_club/pkg/logger"
	"redcable_club/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(service service.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

// IssueCouponInput 管理员发券输入
type IssueCouponInput struct {
	UserID        string           `json:"userId" binding:"required,uuid"`
	Code          string           `json:"code" binding:"required,max=64"`
	Description   string           `json:"description" binding:"max=255"`
	Kind          string           `json:"kind" binding:"required,oneof=amount percentage"`
	AmountOff     *decimal.Decimal `json:"amountOff"`
	PercentageOff *decimal.Decimal `json:"percentageOff"`
	Categories    []string         `json:"categories" binding:"required,min=1"`
}

// CouponURI 路径中的优惠券 ID
type CouponURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// PriceInput 试算/核销输入
type PriceInput struct {
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category" binding:"required"`
}

// IssueCoupon 管理员向用户钱包发券
// @Summary 发放优惠券
// @Tags Coupon
// @Accept json
// @Produce json
// @Param body body IssueCouponInput true "Coupon"
// @Success 200 {object} response.Response{data=model.Coupon}
// @Router /coupons [post]
func (h *CouponHandler) IssueCoupon(c *gin.Context) {
	var input IssueCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	categories, err := model.ParseCategories(input.Categories)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	in := service.IssueInput{
		UserID:      input.UserID,
		Code:        input.Code,
		Description: input.Description,
		Kind:        model.Kind(input.Kind),
		Categories:  categories,
	}
	switch in.Kind {
	case model.KindAmount:
		if input.AmountOff == nil {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "amountOff is required for amount coupons")
			return
		}
		in.AmountOff = *input.AmountOff
	case model.KindPercentage:
		if input.PercentageOff == nil {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "percentageOff is required for percentage coupons")
			return
		}
		in.PercentageOff = *input.PercentageOff
	}

	coupon, err := h.service.IssueCoupon(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, coupon)
}

// ListWallet 当前用户的优惠券钱包
// @Summary 我的优惠券
// @Tags Coupon
// @Produce json
// @Param status query string false "active | redeemed"
// @Success 200 {object} response.Response{data=[]model.Coupon}
// @Router /coupons [get]
func (h *CouponHandler) ListWallet(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "User not authenticated")
		return
	}

	var filter repository.ListFilter
	if status := c.Query("status"); status != "" {
		s, err := model.ParseStatus(status)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		filter.Status = s
	}

	coupons, err := h.service.ListWallet(c.Request.Context(), uid, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, coupons)
}

// QuoteDiscount 试算抵扣金额，不改变券状态
// @Summary 优惠试算
// @Tags Coupon
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param body body PriceInput true "Price"
// @Success 200 {object} response.Response{data=service.Quote}
// @Router /coupons/{id}/quote [post]
func (h *CouponHandler) QuoteDiscount(c *gin.Context) {
	h.handlePrice(c, h.service.QuoteDiscount)
}

// RedeemCoupon 核销优惠券
// @Summary 核销优惠券
// @Tags Coupon
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param body body PriceInput true "Price"
// @Success 200 {object} response.Response{data=service.Quote}
// @Router /coupons/{id}/redeem [post]
func (h *CouponHandler) RedeemCoupon(c *gin.Context) {
	h.handlePrice(c, h.service.RedeemCoupon)
}

type priceFunc func(ctx context.Context, userID, couponID string, price decimal.Decimal, category model.Category) (*service.Quote, error)

func (h *CouponHandler) handlePrice(c *gin.Context, fn priceFunc) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "User not authenticated")
		return
	}

	var uri CouponURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "coupon id must be a UUID")
		return
	}

	var input PriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	category, err := model.ParseCategory(input.Category)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	q, err := fn(c.Request.Context(), uid, uri.ID, input.Price, category)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, q)
}

// writeError 领域错误映射为业务码
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrCouponNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, "Coupon not found")
	case errors.Is(err, model.ErrAlreadyRedeemed):
		response.Fail(c, response.ErrCouponRedeemed, "Coupon has already been redeemed")
	case errors.Is(err, service.ErrCategoryMismatch):
		response.Fail(c, response.ErrCouponCategory, "Coupon is not valid for this category")
	case errors.Is(err, repository.ErrDuplicateCode):
		response.Fail(c, response.ErrCouponDuplicate, "Coupon code already exists in this wallet")
	case errors.Is(err, model.ErrUnknownKind):
		response.Error(c, http.StatusBadRequest, response.ErrCouponUnknownKind, err.Error())
	case errors.Is(err, model.ErrInvalidPercentage),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrNoCategories),
		errors.Is(err, service.ErrNegativePrice):
		response.Error(c, http.StatusBadRequest, response.ErrCouponInvalid, err.Error())
	default:
		logger.Log.Error("coupon request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
