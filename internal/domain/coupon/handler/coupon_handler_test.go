package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"redcable_club/internal/domain/coupon/model"
	"redcable_club/internal/domain/coupon/repository"
	"redcable_club/internal/domain/coupon/service"
	"redcable_club/internal/pkg/middleware"
	"redcable_club/pkg/response"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockCouponService is a mock of CouponService
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) IssueCoupon(ctx context.Context, in service.IssueInput) (*model.Coupon, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) ListWallet(ctx context.Context, userID string, filter repository.ListFilter) ([]model.Coupon, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]model.Coupon), args.Error(1)
}

func (m *MockCouponService) QuoteDiscount(ctx context.Context, userID, couponID string, price decimal.Decimal, category model.Category) (*service.Quote, error) {
	args := m.Called(ctx, userID, couponID, price, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Quote), args.Error(1)
}

func (m *MockCouponService) RedeemCoupon(ctx context.Context, userID, couponID string, price decimal.Decimal, category model.Category) (*service.Quote, error) {
	args := m.Called(ctx, userID, couponID, price, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Quote), args.Error(1)
}

const (
	userID   = "0f8a54d2-61b3-4bd5-9d3e-8b0c6f1e2a77"
	couponID = "3b9d6f2e-8c41-4a7b-9e15-6d0f2a7c8b91"
)

func newRouter(svc service.CouponService) *gin.Engine {
	h := NewCouponHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Anonymous") == "" {
			c.Set(middleware.ContextUserID, userID)
		}
		c.Next()
	})
	r.POST("/coupons", h.IssueCoupon)
	r.GET("/coupons", h.ListWallet)
	r.POST("/coupons/:id/quote", h.QuoteDiscount)
	r.POST("/coupons/:id/redeem", h.RedeemCoupon)
	return r
}

func perform(r http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

// decimalEq 按数值比较 decimal 参数
func decimalEq(v string) interface{} {
	want := decimal.RequireFromString(v)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func TestIssueCoupon(t *testing.T) {
	t.Run("Amount coupon is issued", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("IssueCoupon", mock.Anything, mock.MatchedBy(func(in service.IssueInput) bool {
			return in.Kind == model.KindAmount && in.AmountOff.Equal(decimal.NewFromInt(50)) &&
				in.Categories.Contains(model.CategoryAudio) && in.UserID == userID
		})).Return(model.NewAmountCoupon("SAVE50", "", decimal.NewFromInt(50), model.Categories{model.CategoryAudio}), nil)

		body := `{"userId":"` + userID + `","code":"SAVE50","kind":"amount","amountOff":"50","categories":["audio"]}`
		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.CodeSuccess, resp.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Amount coupon needs an amount", func(t *testing.T) {
		svc := new(MockCouponService)

		body := `{"userId":"` + userID + `","code":"SAVE50","kind":"amount","categories":["Audio"]}`
		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidParam, resp.Code)
		svc.AssertNotCalled(t, "IssueCoupon", mock.Anything, mock.Anything)
	})

	t.Run("Unknown category is rejected", func(t *testing.T) {
		svc := new(MockCouponService)

		body := `{"userId":"` + userID + `","code":"SAVE50","kind":"amount","amountOff":"50","categories":["Laptop"]}`
		w, _ := perform(newRouter(svc), http.MethodPost, "/coupons", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Percentage above one is rejected", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("IssueCoupon", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidPercentage)

		body := `{"userId":"` + userID + `","code":"HALF","kind":"percentage","percentageOff":"1.5","categories":["Phone"]}`
		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrCouponInvalid, resp.Code)
	})

	t.Run("Duplicate code is a business failure", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("IssueCoupon", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicateCode)

		body := `{"userId":"` + userID + `","code":"SAVE50","kind":"amount","amountOff":"50","categories":["Audio"]}`
		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.ErrCouponDuplicate, resp.Code)
	})

	t.Run("Empty categories are rejected by the service", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("IssueCoupon", mock.Anything, mock.Anything).Return(nil, service.ErrNoCategories)

		body := `{"userId":"` + userID + `","code":"SAVE50","kind":"amount","amountOff":"50","categories":["Audio"]}`
		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrCouponInvalid, resp.Code)
	})
}

func TestListWallet(t *testing.T) {
	t.Run("Wallet is filtered by status", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("ListWallet", mock.Anything, userID, repository.ListFilter{Status: model.StatusRedeemed}).Return([]model.Coupon{}, nil)

		w, _ := perform(newRouter(svc), http.MethodGet, "/coupons?status=redeemed", "")
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Unknown status is rejected", func(t *testing.T) {
		svc := new(MockCouponService)

		w, resp := perform(newRouter(svc), http.MethodGet, "/coupons?status=expired", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidParam, resp.Code)
	})

	t.Run("Anonymous caller is rejected", func(t *testing.T) {
		svc := new(MockCouponService)

		w, _ := perform(newRouter(svc), http.MethodGet, "/coupons", "", "X-Anonymous", "1")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestQuoteDiscount(t *testing.T) {
	t.Run("Discount is returned with the final price", func(t *testing.T) {
		svc := new(MockCouponService)
		q := &service.Quote{
			CouponID:   couponID,
			Category:   model.CategoryAudio,
			Price:      decimal.NewFromInt(30),
			Discount:   decimal.NewFromInt(30),
			FinalPrice: decimal.Zero,
		}
		svc.On("QuoteDiscount", mock.Anything, userID, couponID, decimalEq("30"), model.CategoryAudio).Return(q, nil)

		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons/"+couponID+"/quote", `{"price":"30","category":"Audio"}`)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "0", data["finalPrice"])
	})

	t.Run("Non-UUID coupon id is rejected", func(t *testing.T) {
		svc := new(MockCouponService)

		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons/not-a-uuid/quote", `{"price":"30","category":"Audio"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidParam, resp.Code)
		svc.AssertNotCalled(t, "QuoteDiscount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRedeemCoupon(t *testing.T) {
	t.Run("Redeemed coupon cannot be redeemed again", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("RedeemCoupon", mock.Anything, userID, couponID, decimalEq("100"), model.CategoryPhone).Return(nil, model.ErrAlreadyRedeemed)

		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons/"+couponID+"/redeem", `{"price":"100","category":"phone"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.ErrCouponRedeemed, resp.Code)
	})

	t.Run("Category mismatch is a business failure", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("RedeemCoupon", mock.Anything, userID, couponID, decimalEq("100"), model.CategoryTablet).Return(nil, service.ErrCategoryMismatch)

		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons/"+couponID+"/redeem", `{"price":"100","category":"Tablet"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.ErrCouponCategory, resp.Code)
	})

	t.Run("Missing coupon returns 404", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("RedeemCoupon", mock.Anything, userID, couponID, decimalEq("100"), model.CategoryPhone).Return(nil, repository.ErrCouponNotFound)

		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons/"+couponID+"/redeem", `{"price":"100","category":"Phone"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, response.ErrCouponNotFound, resp.Code)
	})

	t.Run("Category is required", func(t *testing.T) {
		svc := new(MockCouponService)

		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons/"+couponID+"/redeem", `{"price":"100"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidParam, resp.Code)
	})

	t.Run("Storage errors are not leaked", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("RedeemCoupon", mock.Anything, userID, couponID, decimalEq("100"), model.CategoryPhone).
			Return(nil, errors.New(`pq: invalid input syntax for type uuid`))

		w, resp := perform(newRouter(svc), http.MethodPost, "/coupons/"+couponID+"/redeem", `{"price":"100","category":"Phone"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, response.ErrServerInternal, resp.Code)
		assert.NotContains(t, resp.Message, "pq:")
	})
}
