package job

import (
	"TrendPulse/internal/pkg/consts"
	"TrendPulse/internal/pkg/logger"
	"TrendPulse/internal/pkg/redis"
	"TrendPulse/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const alertLockTTL = 5 * time.Minute

// CheckAlertsJob 告警评估任务：评估全部激活规则并分发命中的事件
type CheckAlertsJob struct {
	alertSvc service.AlertService
	notifSvc service.NotificationService
}

func NewCheckAlertsJob(alertSvc service.AlertService, notifSvc service.NotificationService) *CheckAlertsJob {
	return &CheckAlertsJob{
		alertSvc: alertSvc,
		notifSvc: notifSvc,
	}
}

func (s *CheckAlertsJob) Run() {
	traceID := "job-alert-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	s.RunWithContext(ctx)
}

// RunWithContext 供手动触发入口复用
func (s *CheckAlertsJob) RunWithContext(ctx context.Context) {
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.AlertCycleLock, lockValue, alertLockTTL, 0)
	if err != nil {
		log.ErrorContext(ctx, "acquire alert lock error", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "alert cycle already running, skipped")
		return
	}
	defer redis.UnLock(ctx, consts.AlertCycleLock, lockValue)

	events, err := s.alertSvc.EvaluateAlerts(ctx)
	if err != nil {
		log.ErrorContext(ctx, "evaluate alerts error", "err", err)
		return
	}

	dispatched := 0
	for _, ev := range events {
		if err := s.notifSvc.Dispatch(ctx, ev); err != nil {
			log.ErrorContext(ctx, "dispatch alert error", "rule_id", ev.RuleID, "err", err)
			continue
		}
		dispatched++
	}

	log.InfoContext(ctx, "check alerts job success",
		"triggered", len(events), "dispatched", dispatched)
}
