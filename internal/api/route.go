package api

import (
	"TrendPulse/internal/api/middleware"
	"TrendPulse/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		trendGroup := apiGroup.Group("/trends")
		{
			// 榜单与统计对外开放
			trendGroup.GET("/stats", group.TrendHandler.Stats)
			trendGroup.GET("/search", group.TrendHandler.Search)
			trendGroup.GET("/:entity_type", group.TrendHandler.Top)
			trendGroup.GET("/:entity_type/:entity_id/chart", group.TrendHandler.Chart)
			trendGroup.GET("/:entity_type/:entity_id/lifecycle", group.TrendHandler.Lifecycle)

			identityGroup := trendGroup.Group("")
			identityGroup.Use(middleware.IdentityMiddleware())
			{
				identityGroup.POST("/:entity_type/:entity_id/refresh", group.TrendHandler.Refresh)
			}
		}

		alertGroup := apiGroup.Group("/alerts")
		alertGroup.Use(middleware.IdentityMiddleware())
		{
			alertGroup.POST("", group.AlertHandler.CreateRule)
			alertGroup.GET("", group.AlertHandler.ListRules)
			alertGroup.PUT("/:rule_id", group.AlertHandler.UpdateRule)
			alertGroup.PUT("/:rule_id/toggle", group.AlertHandler.ToggleRule)
		}

		notificationGroup := apiGroup.Group("/notifications")
		{
			notificationGroup.GET("/ws", group.WSHandler.Connect)

			identityGroup := notificationGroup.Group("")
			identityGroup.Use(middleware.IdentityMiddleware())
			{
				identityGroup.GET("/list", group.NotificationHandler.GetNotificationList)
				identityGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
				identityGroup.POST("/read/:notification_id", group.NotificationHandler.MarkRead)
				identityGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
			}
		}

		insightGroup := apiGroup.Group("/insights")
		insightGroup.Use(middleware.IdentityMiddleware())
		{
			insightGroup.GET("/content-ideas", group.InsightHandler.ContentIdeas)
			insightGroup.GET("/predict/:entity_type/:entity_id", group.InsightHandler.Predict)
		}

		cronGroup := apiGroup.Group("/cron")
		cronGroup.Use(middleware.CronAuthMiddleware())
		{
			cronGroup.POST("/fetch-trends", group.CronHandler.FetchTrends)
			cronGroup.POST("/check-alerts", group.CronHandler.CheckAlerts)
			cronGroup.POST("/daily-digest", group.CronHandler.DailyDigest)
		}
	}

	return r
}
