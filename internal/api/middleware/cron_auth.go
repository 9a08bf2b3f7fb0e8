package middleware

import (
	"TrendPulse/internal/api/config"
	"TrendPulse/internal/pkg/response"
	"TrendPulse/internal/service"
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// CronAuthMiddleware 保护手动触发的任务入口，只允许携带调度密钥的调用
func CronAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := config.Cfg.Server.CronSecret
		if secret == "" {
			response.Error(c, service.UnauthorizedError)
			c.Abort()
			return
		}

		auth := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			response.Error(c, service.UnauthorizedError)
			c.Abort()
			return
		}

		c.Next()
	}
}
