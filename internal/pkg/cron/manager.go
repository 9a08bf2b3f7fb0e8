package cron

import (
	"TrendPulse/internal/api/config"
	"TrendPulse/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine         *cron.Cron
	fetchTrendsJob *job.FetchTrendsJob
	checkAlertsJob *job.CheckAlertsJob
	dailyDigestJob *job.DailyDigestJob
}

func NewCronManager(
	fetchTrendsJob *job.FetchTrendsJob,
	checkAlertsJob *job.CheckAlertsJob,
	dailyDigestJob *job.DailyDigestJob,
) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds()),
		fetchTrendsJob: fetchTrendsJob,
		checkAlertsJob: checkAlertsJob,
		dailyDigestJob: dailyDigestJob,
	}
}

// RegisterJobs 注册定时任务，触发表达式来自配置
func (s *Manager) RegisterJobs() error {
	cfg := config.Cfg.Cron

	if _, err := s.engine.AddJob(cfg.FetchTrends, s.fetchTrendsJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(cfg.CheckAlerts, s.checkAlertsJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(cfg.DailyDigest, s.dailyDigestJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
