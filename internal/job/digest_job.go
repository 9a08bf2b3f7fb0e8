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

// 摘要一天只能发一次，锁的存活时间覆盖整天
const digestLockTTL = 23 * time.Hour

// DailyDigestJob 每日摘要任务
type DailyDigestJob struct {
	notifSvc service.NotificationService
}

func NewDailyDigestJob(notifSvc service.NotificationService) *DailyDigestJob {
	return &DailyDigestJob{
		notifSvc: notifSvc,
	}
}

func (s *DailyDigestJob) Run() {
	traceID := "job-digest-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	s.RunWithContext(ctx)
}

// RunWithContext 供手动触发入口复用
func (s *DailyDigestJob) RunWithContext(ctx context.Context) {
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.DigestDailyLock, lockValue, digestLockTTL, 0)
	if err != nil {
		log.ErrorContext(ctx, "acquire digest lock error", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "daily digest already sent, skipped")
		return
	}

	if err := s.notifSvc.SendDailyDigest(ctx); err != nil {
		log.ErrorContext(ctx, "send daily digest error", "err", err)
		// 发送失败时释放锁，允许当天重试
		redis.UnLock(ctx, consts.DigestDailyLock, lockValue)
		return
	}

	log.InfoContext(ctx, "daily digest job success")
}
