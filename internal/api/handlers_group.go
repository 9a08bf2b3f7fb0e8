package api

import "TrendPulse/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	TrendHandler        *handler.TrendHandler
	AlertHandler        *handler.AlertHandler
	NotificationHandler *handler.NotificationHandler
	InsightHandler      *handler.InsightHandler
	CronHandler         *handler.CronHandler
	WSHandler           *handler.WsHandler
}
