package handler

import (
	"context"
	"net/http"
	"redcable_club/pkg/response"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Checker 依赖健康检查
type Checker func(ctx context.Context) error

// checkTimeout 单项检查超时
const checkTimeout = 2 * time.Second

// DependencyStatus 单项依赖状态
type DependencyStatus struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Health 健康检查 (并发探测所有依赖)
// @Summary 健康检查
// @Tags Common
// @Produce json
// @Success 200 {object} response.Response{data=[]DependencyStatus}
// @Failure 503 {object} response.Response{data=[]DependencyStatus}
// @Router /health [get]
func Health(checks map[string]Checker) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		defer cancel()

		// 结果数组，预分配大小，按名称顺序写入
		results := make([]DependencyStatus, len(names))
		var wg sync.WaitGroup
		for i, name := range names {
			wg.Add(1)
			go func(index int, name string, check Checker) {
				defer wg.Done()
				results[index] = DependencyStatus{Name: name, OK: true}
				if err := check(ctx); err != nil {
					results[index].OK = false
					results[index].Error = err.Error()
				}
			}(i, name, checks[name])
		}
		wg.Wait()

		for _, r := range results {
			if !r.OK {
				c.JSON(http.StatusServiceUnavailable, response.Response{
					Code:    response.ErrServerInternal,
					Message: "unhealthy",
					Data:    results,
				})
				return
			}
		}
		response.Success(c, results)
	}
}
