package coupon

import (
	"context"
	"redcable_club/internal/domain/coupon/handler"
	"redcable_club/internal/domain/coupon/repository"
	"redcable_club/internal/domain/coupon/service"
	"redcable_club/internal/pkg/middleware"
	"redcable_club/internal/pkg/registry"
	"redcable_club/internal/pkg/worker"

	"github.com/gin-gonic/gin"
)

// CouponModule 优惠券模块
type CouponModule struct {
	pool *worker.WorkerPool
}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 10
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	cRepo := repository.NewCouponRepository(ctx.DB)

	// 核销记录异步落库
	wc := ctx.Config.Worker
	m.pool = worker.NewWorkerPool(cRepo, ctx.Metrics, wc.Num, wc.Buffer, wc.MaxRetry)
	m.pool.Start()

	cService := service.NewCouponService(cRepo, m.pool, ctx.Metrics)
	cHandler := handler.NewCouponHandler(cService)

	// 2. 路由注册
	setupRoutes(ctx.Router, cHandler)

	return nil
}

// Stop 停止 Worker Pool，等待队列中的核销记录写完
func (m *CouponModule) Stop(ctx context.Context) error {
	if m.pool == nil {
		return nil
	}
	return m.pool.Stop(ctx)
}

func setupRoutes(r *gin.Engine, h *handler.CouponHandler) {
	g := r.Group("/coupons")

	// 需要认证的路由组
	authorized := g.Group("")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("", h.ListWallet)
		authorized.POST("/:id/quote", h.QuoteDiscount)
		authorized.POST("/:id/redeem", h.RedeemCoupon)

		// 需要管理员权限的路由组
		admin := authorized.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			// 管理员向用户钱包发券
			admin.POST("", h.IssueCoupon)
		}
	}
}
