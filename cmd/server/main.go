package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	_ "redcable_club/internal/domain/common"
	_ "redcable_club/internal/domain/coupon"
	_ "redcable_club/internal/domain/membership"
	_ "redcable_club/internal/domain/profile"
	"redcable_club/internal/pkg/config"
	"redcable_club/internal/pkg/middleware"
	"redcable_club/internal/pkg/registry"
	"redcable_club/pkg/cache"
	"redcable_club/pkg/database"
	"redcable_club/pkg/logger"
	"redcable_club/pkg/metrics"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Red Cable Club API
// @version 1.0
// @description 会员等级、优惠券钱包与个人中心接口
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 配置与日志
	config.LoadConfig()
	cfg := config.GlobalConfig
	if err := logger.Init(cfg.App.Env, cfg.App.Debug); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	// 2. 基础设施
	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug)
	if err != nil {
		logger.Log.Fatal("failed to connect database", zap.Error(err))
	}
	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		logger.Log.Fatal("failed to connect redis", zap.Error(err))
	}
	collector := metrics.NewMetricsCollector(nil)

	// 3. 路由与中间件
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.TraceHeader},
		ExposeHeaders:    []string{"X-Request-ID", middleware.TraceHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(collector))
	r.Use(middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.QPS), cfg.RateLimit.Burst)))

	// 4. 模块初始化
	moduleCtx := &registry.ModuleContext{
		DB:      db,
		Redis:   rdb,
		Router:  r,
		Cache:   cache.NewRedisCache(rdb, cfg.App.Env),
		Metrics: collector,
		Config:  cfg,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("failed to init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	// 5. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
	}
	// 先停止接收请求，再等待核销记录写完
	if err := registry.StopModules(ctx); err != nil {
		logger.Log.Error("module shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rdb.Close()
	logger.Log.Info("server exited")
}
