package middleware

import (
	"TrendPulse/internal/pkg/response"
	"TrendPulse/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware 从 X-User-ID 头解析调用方身份。
// 登录鉴权在上游网关完成，这里只信任网关注入的头。
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			response.Error(c, service.UnauthorizedError)
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			response.Error(c, service.UnauthorizedError)
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
