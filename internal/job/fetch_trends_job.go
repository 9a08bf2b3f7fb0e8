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

const fetchLockTTL = 10 * time.Minute

// FetchTrendsJob 周期性采集任务：先发现热门实体，再对三类实体各跑一轮快照
type FetchTrendsJob struct {
	ingestSvc service.IngestService
}

func NewFetchTrendsJob(ingestSvc service.IngestService) *FetchTrendsJob {
	return &FetchTrendsJob{
		ingestSvc: ingestSvc,
	}
}

func (s *FetchTrendsJob) Run() {
	traceID := "job-fetch-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	s.RunWithContext(ctx)
}

// RunWithContext 供手动触发入口复用
func (s *FetchTrendsJob) RunWithContext(ctx context.Context) {
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.IngestCycleLock, lockValue, fetchLockTTL, 0)
	if err != nil {
		log.ErrorContext(ctx, "acquire ingest lock error", "err", err)
		return
	}
	// 上一轮还没跑完，跳过本轮
	if !locked {
		log.InfoContext(ctx, "ingest cycle already running, skipped")
		return
	}
	defer redis.UnLock(ctx, consts.IngestCycleLock, lockValue)

	started := time.Now()

	if result, err := s.ingestSvc.DiscoverFeed(ctx); err != nil {
		log.ErrorContext(ctx, "discover trending feed error", "err", err)
	} else {
		log.InfoContext(ctx, "discover trending feed done",
			"processed", result.Processed, "failed", result.Failed)
	}

	entityTypes := []string{consts.EntityTypeHashtag, consts.EntityTypeSound, consts.EntityTypeCreator}
	for _, entityType := range entityTypes {
		result, err := s.ingestSvc.IngestCycle(ctx, entityType)
		if err != nil {
			log.ErrorContext(ctx, "ingest cycle error", "entity_type", entityType, "err", err)
			continue
		}
		log.InfoContext(ctx, "ingest cycle done",
			"entity_type", entityType,
			"processed", result.Processed,
			"failed", result.Failed)
	}

	log.InfoContext(ctx, "fetch trends job success", "elapsed", time.Since(started).String())
}
