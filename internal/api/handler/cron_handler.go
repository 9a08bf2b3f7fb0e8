package handler

import (
	"TrendPulse/internal/job"
	"TrendPulse/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// CronHandler 手动触发的任务入口，受调度密钥保护。
// 任务内部的分布式锁保证与定时触发互斥。
type CronHandler struct {
	fetchTrendsJob *job.FetchTrendsJob
	checkAlertsJob *job.CheckAlertsJob
	dailyDigestJob *job.DailyDigestJob
}

func NewCronHandler(
	fetchTrendsJob *job.FetchTrendsJob,
	checkAlertsJob *job.CheckAlertsJob,
	dailyDigestJob *job.DailyDigestJob,
) *CronHandler {
	return &CronHandler{
		fetchTrendsJob: fetchTrendsJob,
		checkAlertsJob: checkAlertsJob,
		dailyDigestJob: dailyDigestJob,
	}
}

func (s *CronHandler) FetchTrends(c *gin.Context) {
	s.fetchTrendsJob.RunWithContext(c.Request.Context())
	response.Success(c, nil)
}

func (s *CronHandler) CheckAlerts(c *gin.Context) {
	s.checkAlertsJob.RunWithContext(c.Request.Context())
	response.Success(c, nil)
}

func (s *CronHandler) DailyDigest(c *gin.Context) {
	s.dailyDigestJob.RunWithContext(c.Request.Context())
	response.Success(c, nil)
}
