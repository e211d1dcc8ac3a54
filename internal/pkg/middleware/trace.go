package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceHeader    = "X-Trace-ID"
	maxTraceLength = 64
)

// TraceMiddleware 添加请求追踪ID，上游传入的 TraceID 过长时重新生成
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" || len(traceID) > maxTraceLength {
			traceID = uuid.New().String()
		}

		// 设置到 context 和响应头
		c.Set("traceID", traceID)
		c.Header(TraceHeader, traceID)

		c.Next()
	}
}
