package handler

import (
	"errors"
	"net/http"
	"redcable_club/internal/domain/membership/service"
	profileRepo "redcable_club/internal/domain/profile/repository"
	"redcable_club/internal/pkg/middleware"
	"redcable_club/pkg/logger"
	"redcable_club/pkg/response"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MembershipHandler struct {
	service service.MembershipService
}

func NewMembershipHandler(service service.MembershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

// ListTiers 等级表
// @Summary 会员等级表
// @Tags Membership
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Tier}
// @Router /membership/tiers [get]
func (h *MembershipHandler) ListTiers(c *gin.Context) {
	response.Success(c, h.service.Tiers())
}

// Classify 任意积分对应的会员状态
// @Summary 积分定级
// @Tags Membership
// @Produce json
// @Param points query int true "points"
// @Success 200 {object} response.Response{data=model.Status}
// @Router /membership/classify [get]
func (h *MembershipHandler) Classify(c *gin.Context) {
	points, err := strconv.Atoi(c.Query("points"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "points must be an integer")
		return
	}
	response.Success(c, h.service.Classify(points))
}

// Me 当前用户的会员状态
// @Summary 我的会员等级
// @Tags Membership
// @Produce json
// @Success 200 {object} response.Response{data=model.Status}
// @Router /membership/me [get]
func (h *MembershipHandler) Me(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "User not authenticated")
		return
	}

	status, err := h.service.StatusForProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProfileNotFound, "Profile not found")
			return
		}
		logger.Log.Error("membership status failed", zap.String("profile_id", uid), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
		return
	}
	response.Success(c, status)
}

// Stats 各等级人数（管理员）
// @Summary 等级分布
// @Tags Membership
// @Produce json
// @Success 200 {object} response.Response{data=[]model.TierCount}
// @Router /membership/stats [get]
func (h *MembershipHandler) Stats(c *gin.Context) {
	counts, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrMembershipUnavailable, "Membership statistics unavailable")
		return
	}
	response.Success(c, counts)
}
