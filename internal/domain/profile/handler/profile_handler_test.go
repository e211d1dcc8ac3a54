package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"redcable_club/internal/domain/profile/model"
	"redcable_club/internal/domain/profile/repository"
	"redcable_club/internal/domain/profile/service"
	"redcable_club/internal/pkg/config"
	"redcable_club/internal/pkg/middleware"
	"redcable_club/pkg/response"
	"redcable_club/pkg/utils"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockProfileService is a mock of ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) CreateProfile(ctx context.Context, nickname string, points, coins int) (*model.Profile, error) {
	args := m.Called(ctx, nickname, points, coins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) ListProfiles(ctx context.Context, page, limit int) ([]model.Profile, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]model.Profile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileService) GetOverview(ctx context.Context, id string) (*service.Overview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Overview), args.Error(1)
}

func (m *MockProfileService) AdjustBalance(ctx context.Context, id string, pointsDelta, coinsDelta int) (*model.Profile, error) {
	args := m.Called(ctx, id, pointsDelta, coinsDelta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) FlushCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

const profileID = "7c1f7c52-3b5e-4a53-9d0e-2f1a9a7e1a10"

func newRouter(svc service.ProfileService) *gin.Engine {
	h := NewProfileHandler(svc)
	r := gin.New()
	// 直接注入用户，绕过 JWT
	withUser := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, profileID)
		c.Next()
	}
	r.GET("/profile/me", withUser, h.GetOverview)
	r.GET("/profile/anon", h.GetOverview)
	r.POST("/profiles", h.CreateProfile)
	r.GET("/profiles", h.ListProfiles)
	r.POST("/profiles/:id/balance", h.AdjustBalance)
	r.DELETE("/profiles/cache", h.FlushCache)
	r.POST("/auth/dev-token", h.IssueDevToken)
	return r
}

func perform(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func profile(points, coins int) *model.Profile {
	p, _ := model.NewProfile("Alex Chen", points, coins)
	p.ID = profileID
	return p
}

func TestGetOverview(t *testing.T) {
	t.Run("Overview is returned for the current user", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("GetOverview", mock.Anything, profileID).Return(&service.Overview{Profile: profile(3500, 0)}, nil)

		w, resp := perform(newRouter(svc), http.MethodGet, "/profile/me", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.CodeSuccess, resp.Code)
	})

	t.Run("Anonymous caller is rejected", func(t *testing.T) {
		svc := new(MockProfileService)

		w, resp := perform(newRouter(svc), http.MethodGet, "/profile/anon", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.ErrTokenInvalid, resp.Code)
		svc.AssertNotCalled(t, "GetOverview", mock.Anything, mock.Anything)
	})

	t.Run("Missing profile returns 404", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("GetOverview", mock.Anything, profileID).Return(nil, repository.ErrProfileNotFound)

		w, resp := perform(newRouter(svc), http.MethodGet, "/profile/me", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, response.ErrProfileNotFound, resp.Code)
	})
}

func TestCreateProfile(t *testing.T) {
	t.Run("Profile is created", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("CreateProfile", mock.Anything, "Alex Chen", 100, 5).Return(profile(100, 5), nil)

		w, resp := perform(newRouter(svc), http.MethodPost, "/profiles", `{"nickname":"Alex Chen","points":100,"coins":5}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.CodeSuccess, resp.Code)
	})

	t.Run("Nickname is required", func(t *testing.T) {
		svc := new(MockProfileService)

		w, resp := perform(newRouter(svc), http.MethodPost, "/profiles", `{"points":100}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidParam, resp.Code)
	})

	t.Run("Negative balance is rejected", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("CreateProfile", mock.Anything, "Alex Chen", -1, 0).Return(nil, model.ErrNegativeBalance)

		w, resp := perform(newRouter(svc), http.MethodPost, "/profiles", `{"nickname":"Alex Chen","points":-1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrNegativeBalance, resp.Code)
	})
}

func TestListProfiles(t *testing.T) {
	svc := new(MockProfileService)
	svc.On("ListProfiles", mock.Anything, 2, 5).Return([]model.Profile{*profile(0, 0)}, int64(6), nil)

	w, resp := perform(newRouter(svc), http.MethodGet, "/profiles?page=2&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(6), data["total"])
	assert.Equal(t, float64(2), data["page"])
}

func TestAdjustBalance(t *testing.T) {
	t.Run("Balance is adjusted", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("AdjustBalance", mock.Anything, profileID, 200, -5).Return(profile(2200, 0), nil)

		w, resp := perform(newRouter(svc), http.MethodPost, "/profiles/"+profileID+"/balance", `{"pointsDelta":200,"coinsDelta":-5}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.CodeSuccess, resp.Code)
	})

	t.Run("Insufficient balance is a business failure", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("AdjustBalance", mock.Anything, profileID, -9999, 0).Return(nil, repository.ErrInsufficientBalance)

		w, resp := perform(newRouter(svc), http.MethodPost, "/profiles/"+profileID+"/balance", `{"pointsDelta":-9999}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.ErrInsufficientBalance, resp.Code)
	})

	t.Run("Non-UUID profile id is rejected", func(t *testing.T) {
		svc := new(MockProfileService)

		w, resp := perform(newRouter(svc), http.MethodPost, "/profiles/not-a-uuid/balance", `{"pointsDelta":10}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidParam, resp.Code)
		svc.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Storage errors are not leaked", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("AdjustBalance", mock.Anything, profileID, 1, 0).
			Return(nil, errors.New(`pq: relation "profiles" does not exist`))

		w, resp := perform(newRouter(svc), http.MethodPost, "/profiles/"+profileID+"/balance", `{"pointsDelta":1}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, response.ErrServerInternal, resp.Code)
		assert.NotContains(t, resp.Message, "pq:")
	})
}

func TestFlushCache(t *testing.T) {
	t.Run("Cache flush succeeds", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("FlushCache", mock.Anything).Return(nil)

		w, resp := perform(newRouter(svc), http.MethodDelete, "/profiles/cache", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.CodeSuccess, resp.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Cache failure is reported as internal", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("FlushCache", mock.Anything).Return(errors.New("redis: connection refused"))

		w, resp := perform(newRouter(svc), http.MethodDelete, "/profiles/cache", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, response.ErrServerInternal, resp.Code)
	})
}

func TestIssueDevToken(t *testing.T) {
	prev := config.GlobalConfig.JWT
	config.GlobalConfig.JWT = config.JWTConfig{Secret: "profile-handler-secret-0123456789abcdef", Expire: 1}
	t.Cleanup(func() { config.GlobalConfig.JWT = prev })

	admin := profile(0, 0)
	admin.Role = model.RoleAdmin
	svc := new(MockProfileService)
	svc.On("GetProfile", mock.Anything, profileID).Return(admin, nil)

	w, resp := perform(newRouter(svc), http.MethodPost, "/auth/dev-token", `{"profileId":"`+profileID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	claims, err := utils.ParseToken(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, profileID, claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}
