package common

import (
	"context"
	_ "redcable_club/docs"
	commonHandler "redcable_club/internal/pkg/common"
	"redcable_club/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	checks := map[string]commonHandler.Checker{}
	if ctx.DB != nil {
		checks["postgres"] = func(c context.Context) error {
			sqlDB, err := ctx.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(c)
		}
	}
	if ctx.Redis != nil {
		checks["redis"] = func(c context.Context) error {
			return ctx.Redis.Ping(c).Err()
		}
	}

	// 注册通用路由
	setupRoutes(ctx.Router, checks, ctx.Config.App.Debug)
	return nil
}

func setupRoutes(r *gin.Engine, checks map[string]commonHandler.Checker, debug bool) {
	r.GET("/health", commonHandler.Health(checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 接口文档仅在调试模式开放
	if debug {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
