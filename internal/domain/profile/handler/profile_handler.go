package handler

import (
	"errors"
	"net/http"
	"redcable_club/internal/domain/profile/model"
	"redcable_club/internal/domain/profile/repository"
	"redcable_club/internal/domain/profile/service"
	"redcable_club/internal/pkg/middleware"
	"redcable_club/pkg/logger"
	"redcable_club/pkg/response"
	"redcable_club/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler 档案处理器
type ProfileHandler struct {
	service service.ProfileService
}

// NewProfileHandler 创建处理器
func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// CreateProfileInput 创建档案输入
type CreateProfileInput struct {
	Nickname string `json:"nickname" binding:"required,max=64"`
	Points   int    `json:"points"`
	Coins    int    `json:"coins"`
}

// BalanceInput 余额变更输入
type BalanceInput struct {
	PointsDelta int `json:"pointsDelta"`
	CoinsDelta  int `json:"coinsDelta"`
}

// ProfileURI 路径中的档案 ID
type ProfileURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// DevTokenInput 开发环境签发 Token 输入
type DevTokenInput struct {
	ProfileID string `json:"profileId" binding:"required,uuid"`
}

// GetOverview 个人中心：档案、会员等级与钱包
// @Summary 我的档案
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Response{data=service.Overview}
// @Router /profile/me [get]
func (h *ProfileHandler) GetOverview(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "User not authenticated")
		return
	}

	overview, err := h.service.GetOverview(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, overview)
}

// CreateProfile 管理员创建档案
// @Summary 创建档案
// @Tags Profile
// @Accept json
// @Produce json
// @Param body body CreateProfileInput true "Profile"
// @Success 200 {object} response.Response{data=model.Profile}
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var input CreateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), input.Nickname, input.Points, input.Coins)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, profile)
}

// ListProfiles 管理员分页查看档案
// @Summary 档案列表
// @Tags Profile
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	p.GetPageOffset()

	profiles, total, err := h.service.ListProfiles(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, utils.NewPageResult(profiles, total, p))
}

// AdjustBalance 管理员增减积分与金币
// @Summary 调整余额
// @Tags Profile
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param body body BalanceInput true "Delta"
// @Success 200 {object} response.Response{data=model.Profile}
// @Router /profiles/{id}/balance [post]
func (h *ProfileHandler) AdjustBalance(c *gin.Context) {
	var uri ProfileURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "profile id must be a UUID")
		return
	}

	var input BalanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	profile, err := h.service.AdjustBalance(c.Request.Context(), uri.ID, input.PointsDelta, input.CoinsDelta)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, profile)
}

// FlushCache 管理员清空全部档案缓存
// @Summary 清空档案缓存
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Response
// @Router /profiles/cache [delete]
func (h *ProfileHandler) FlushCache(c *gin.Context) {
	if err := h.service.FlushCache(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// IssueDevToken 仅调试模式开放：为已有档案签发 Token
// @Summary 签发调试 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body DevTokenInput true "Profile"
// @Success 200 {object} response.Response
// @Router /auth/dev-token [post]
func (h *ProfileHandler) IssueDevToken(c *gin.Context) {
	var input DevTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), input.ProfileID)
	if err != nil {
		writeError(c, err)
		return
	}

	token, expire, err := utils.GenerateToken(profile.ID, profile.Role)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to generate token")
		return
	}
	response.Success(c, gin.H{"token": token, "expireAt": expire})
}

// writeError 领域错误映射为业务码
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, response.ErrProfileNotFound, "Profile not found")
	case errors.Is(err, repository.ErrInsufficientBalance):
		response.Fail(c, response.ErrInsufficientBalance, "Insufficient points or coins")
	case errors.Is(err, model.ErrNegativeBalance):
		response.Error(c, http.StatusBadRequest, response.ErrNegativeBalance, err.Error())
	default:
		logger.Log.Error("profile request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
