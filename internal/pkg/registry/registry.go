package registry

import (
	"context"
	"fmt"
	"redcable_club/internal/pkg/config"
	"redcable_club/pkg/cache"
	"redcable_club/pkg/metrics"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Router  *gin.Engine
	Cache   cache.CacheService
	Metrics *metrics.MetricsCollector
	Config  config.Config
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	// 例如：profile 模块需要先于 membership 模块初始化
	Priority() int
}

// Stopper 持有后台资源（如 Worker Pool）的模块需实现
type Stopper interface {
	Stop(ctx context.Context) error
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// sorted 按优先级排序，优先级相同按名称排序
func sorted() []Module {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.SliceStable(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})
	return modules
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	for _, module := range sorted() {
		if err := module.Init(ctx); err != nil {
			return fmt.Errorf("init module %s: %w", module.Name(), err)
		}
	}
	return nil
}

// StopModules 按初始化的逆序停止模块
func StopModules(ctx context.Context) error {
	modules := sorted()
	var firstErr error
	for i := len(modules) - 1; i >= 0; i-- {
		s, ok := modules[i].(Stopper)
		if !ok {
			continue
		}
		if err := s.Stop(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop module %s: %w", modules[i].Name(), err)
		}
	}
	return firstErr
}
