package profile

import (
	couponRepo "redcable_club/internal/domain/coupon/repository"
	"redcable_club/internal/domain/profile/handler"
	"redcable_club/internal/domain/profile/repository"
	"redcable_club/internal/domain/profile/service"
	"redcable_club/internal/pkg/middleware"
	"redcable_club/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ProfileModule 会员档案模块
type ProfileModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&ProfileModule{})
}

func (m *ProfileModule) Name() string {
	return "profile"
}

func (m *ProfileModule) Priority() int {
	// 档案是其他模块的基础，优先初始化
	return 1
}

func (m *ProfileModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	profileRepo := repository.NewProfileRepository(ctx.DB)
	wallet := couponRepo.NewCouponRepository(ctx.DB)
	profileService := service.NewProfileService(profileRepo, wallet, ctx.Cache)
	profileHandler := handler.NewProfileHandler(profileService)

	// 2. 路由注册
	setupRoutes(ctx.Router, profileHandler, ctx.Config.App.Debug)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ProfileHandler, debug bool) {
	// 调试模式下开放签发 Token
	if debug {
		r.POST("/auth/dev-token", h.IssueDevToken)
	}

	me := r.Group("/profile")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/me", h.GetOverview)
	}

	admin := r.Group("/profiles")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("", h.CreateProfile)
		admin.GET("", h.ListProfiles)
		admin.POST("/:id/balance", h.AdjustBalance)
		admin.DELETE("/cache", h.FlushCache)
	}
}
