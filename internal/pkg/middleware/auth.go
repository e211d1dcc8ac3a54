package middleware

import (
	"net/http"
	"redcable_club/internal/domain/profile/model"
	"redcable_club/pkg/response"
	"redcable_club/pkg/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

// 上下文中的键
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AuthMiddleware JWT认证中间件
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Authorization header is required")
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid authorization header format")
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			return
		}

		// 将 userID 和 role 存入上下文
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// AdminMiddleware 管理员权限中间件，需在 AuthMiddleware 之后使用
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			response.Abort(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			return
		}

		roleInt, ok := role.(int)
		if !ok {
			response.Abort(c, http.StatusForbidden, response.ErrNoPermission, "Invalid role format")
			return
		}

		if roleInt != model.RoleAdmin {
			response.Abort(c, http.StatusForbidden, response.ErrNoPermission, "Admin permission required")
			return
		}

		c.Next()
	}
}

// CurrentUserID 读取 AuthMiddleware 写入的用户 ID
func CurrentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	uid, ok := v.(string)
	return uid, ok && uid != ""
}
