package membership

import (
	"fmt"
	"redcable_club/internal/domain/membership/handler"
	"redcable_club/internal/domain/membership/repository"
	"redcable_club/internal/domain/membership/service"
	profileRepo "redcable_club/internal/domain/profile/repository"
	"redcable_club/internal/pkg/middleware"
	"redcable_club/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// MembershipModule 会员等级模块
type MembershipModule struct{}

func init() {
	registry.Register(&MembershipModule{})
}

func (m *MembershipModule) Name() string {
	return "membership"
}

func (m *MembershipModule) Priority() int {
	return 20
}

func (m *MembershipModule) Init(ctx *registry.ModuleContext) error {
	// 统计查询复用 gorm 的连接池
	sqlDB, err := ctx.DB.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	// 1. 依赖注入
	statsRepo := repository.NewStatsRepository(sqlx.NewDb(sqlDB, "postgres"))
	profiles := profileRepo.NewProfileRepository(ctx.DB)
	membershipService := service.NewMembershipService(profiles, statsRepo, ctx.Metrics)
	membershipHandler := handler.NewMembershipHandler(membershipService)

	// 2. 路由注册
	setupRoutes(ctx.Router, membershipHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.MembershipHandler) {
	g := r.Group("/membership")
	{
		g.GET("/tiers", h.ListTiers)
		g.GET("/classify", h.Classify)
	}

	authorized := g.Group("")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/me", h.Me)
		authorized.GET("/stats", middleware.AdminMiddleware(), h.Stats)
	}
}
