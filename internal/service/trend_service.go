package service

import (
	"TrendPulse/internal/api/dto"
	"TrendPulse/internal/pkg/consts"
	"TrendPulse/internal/pkg/es"
	"TrendPulse/internal/pkg/redis"
	"TrendPulse/internal/pkg/util"
	"TrendPulse/internal/repository"
	"TrendPulse/internal/trend"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

const (
	topCacheTTL   = 2 * time.Minute
	chartCacheTTL = time.Minute
	statsCacheTTL = time.Minute

	lifecycleSampleSize = 10
)

type TrendService interface {
	Top(ctx context.Context, entityType string, limit int) ([]*dto.TrendEntryDTO, error)
	Chart(ctx context.Context, entityType string, entityID uint64, windowHours int) ([]*dto.ChartPointDTO, error)
	Lifecycle(ctx context.Context, entityType string, entityID uint64) (*dto.LifecycleDTO, error)
	Stats(ctx context.Context) (*dto.StatsDTO, error)
	Search(ctx context.Context, keyword string, entityType string, size int) ([]*dto.SearchHitDTO, error)
}

type trendServiceImpl struct {
	hashtagRepo repository.HashtagRepo
	soundRepo   repository.SoundRepo
	creatorRepo repository.CreatorRepo
	store       repository.TrendStore
	alertRepo   repository.AlertRuleRepo
	usageRepo   repository.APIUsageRepo
	esRepo      es.TrendRepo
}

func NewTrendService(
	hashtagRepo repository.HashtagRepo,
	soundRepo repository.SoundRepo,
	creatorRepo repository.CreatorRepo,
	store repository.TrendStore,
	alertRepo repository.AlertRuleRepo,
	usageRepo repository.APIUsageRepo,
	esRepo es.TrendRepo,
) TrendService {
	return &trendServiceImpl{
		hashtagRepo: hashtagRepo,
		soundRepo:   soundRepo,
		creatorRepo: creatorRepo,
		store:       store,
		alertRepo:   alertRepo,
		usageRepo:   usageRepo,
		esRepo:      esRepo,
	}
}

// Top 按热度分取某类实体的榜单，结果短暂缓存
func (s *trendServiceImpl) Top(ctx context.Context, entityType string, limit int) ([]*dto.TrendEntryDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("%s%s:%d", consts.TrendTopKey, entityType, limit)
	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		entries := make([]*dto.TrendEntryDTO, 0)
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return entries, nil
		}
	}

	entries, err := s.loadTop(ctx, entityType, limit)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := redis.SetWithExpiration(ctx, cacheKey, string(payload), topCacheTTL); err != nil {
			log.WarnContext(ctx, "cache trend top failed", "key", cacheKey, "err", err)
		}
	}
	return entries, nil
}

func (s *trendServiceImpl) loadTop(ctx context.Context, entityType string, limit int) ([]*dto.TrendEntryDTO, error) {
	switch entityType {
	case consts.EntityTypeHashtag:
		hashtags, err := s.hashtagRepo.TopByScore(ctx, limit)
		if err != nil {
			return nil, err
		}
		entries := make([]*dto.TrendEntryDTO, 0, len(hashtags))
		for _, h := range hashtags {
			entry := &dto.TrendEntryDTO{}
			if err := copier.Copy(entry, h); err != nil {
				return nil, err
			}
			entry.EntityType = consts.EntityTypeHashtag
			entry.VolumeCount = h.ViewCount
			entry.VolumeLabel = util.FormatCount(h.ViewCount)
			entries = append(entries, entry)
		}
		return entries, nil
	case consts.EntityTypeSound:
		sounds, err := s.soundRepo.TopByScore(ctx, limit)
		if err != nil {
			return nil, err
		}
		entries := make([]*dto.TrendEntryDTO, 0, len(sounds))
		for _, snd := range sounds {
			entry := &dto.TrendEntryDTO{}
			if err := copier.Copy(entry, snd); err != nil {
				return nil, err
			}
			entry.EntityType = consts.EntityTypeSound
			entry.Name = snd.TikTokID
			entry.DisplayName = snd.Title
			entry.VolumeCount = snd.PlayCount
			entry.VolumeLabel = util.FormatCount(snd.PlayCount)
			entries = append(entries, entry)
		}
		return entries, nil
	case consts.EntityTypeCreator:
		creators, err := s.creatorRepo.TopByScore(ctx, limit)
		if err != nil {
			return nil, err
		}
		entries := make([]*dto.TrendEntryDTO, 0, len(creators))
		for _, c := range creators {
			entry := &dto.TrendEntryDTO{}
			if err := copier.Copy(entry, c); err != nil {
				return nil, err
			}
			entry.EntityType = consts.EntityTypeCreator
			entry.Name = c.Username
			entry.DisplayName = c.Nickname
			entry.VolumeCount = c.FollowerCount
			entry.VolumeLabel = util.FormatCount(c.FollowerCount)
			entries = append(entries, entry)
		}
		return entries, nil
	default:
		return nil, ErrEntityTypeInvalid
	}
}

// Chart 按时间升序返回窗口内的快照走势
func (s *trendServiceImpl) Chart(ctx context.Context, entityType string, entityID uint64, windowHours int) ([]*dto.ChartPointDTO, error) {
	if !validEntityType(entityType) {
		return nil, ErrEntityTypeInvalid
	}
	if windowHours <= 0 || windowHours > 24*30 {
		windowHours = 24 * 7
	}

	cacheKey := fmt.Sprintf("%s%s:%d:%d", consts.TrendChartKey, entityType, entityID, windowHours)
	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		points := make([]*dto.ChartPointDTO, 0)
		if err := json.Unmarshal([]byte(cached), &points); err == nil {
			return points, nil
		}
	}

	since := time.Now().Add(-time.Duration(windowHours) * time.Hour)
	snaps, err := s.store.SnapshotsSince(ctx, entityType, entityID, since)
	if err != nil {
		return nil, err
	}

	points := make([]*dto.ChartPointDTO, 0, len(snaps))
	for _, snap := range snaps {
		points = append(points, &dto.ChartPointDTO{
			Timestamp:   snap.Timestamp,
			VolumeCount: snap.VolumeCount,
			GrowthRate:  snap.GrowthRate,
			Velocity:    snap.Velocity,
			TrendScore:  snap.TrendScore,
		})
	}

	if payload, err := json.Marshal(points); err == nil {
		if err := redis.SetWithExpiration(ctx, cacheKey, string(payload), chartCacheTTL); err != nil {
			log.WarnContext(ctx, "cache trend chart failed", "key", cacheKey, "err", err)
		}
	}
	return points, nil
}

// Lifecycle 基于最近的热度分快照判定生命周期阶段
func (s *trendServiceImpl) Lifecycle(ctx context.Context, entityType string, entityID uint64) (*dto.LifecycleDTO, error) {
	if !validEntityType(entityType) {
		return nil, ErrEntityTypeInvalid
	}

	snaps, err := s.store.LatestSnapshots(ctx, entityType, entityID, lifecycleSampleSize)
	if err != nil {
		return nil, err
	}

	points := make([]trend.ScorePoint, 0, len(snaps))
	for _, snap := range snaps {
		points = append(points, trend.ScorePoint{
			Score:     float64(snap.TrendScore),
			Timestamp: snap.Timestamp,
		})
	}

	return &dto.LifecycleDTO{
		EntityType: entityType,
		EntityID:   entityID,
		Stage:      string(trend.ClassifyLifecycle(points)),
		Sampled:    len(points),
	}, nil
}

// Stats 平台概览，聚合 MySQL 各表计数与上游调用流水
func (s *trendServiceImpl) Stats(ctx context.Context) (*dto.StatsDTO, error) {
	if cached, err := redis.GetValue(ctx, consts.TrendStatsKey); err == nil && cached != "" {
		stats := &dto.StatsDTO{}
		if err := json.Unmarshal([]byte(cached), stats); err == nil {
			return stats, nil
		}
	}

	stats := &dto.StatsDTO{}
	var err error

	if stats.TrackedHashtags, err = s.hashtagRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TrackedSounds, err = s.soundRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TrackedCreators, err = s.creatorRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveAlerts, err = s.alertRepo.CountActive(ctx); err != nil {
		return nil, err
	}

	dayAgo := time.Now().Add(-24 * time.Hour)
	if stats.SnapshotsLast24h, err = s.store.CountSnapshotsSince(ctx, dayAgo); err != nil {
		return nil, err
	}

	usage, err := s.usageRepo.SummarySince(ctx, dayAgo)
	if err != nil {
		return nil, err
	}
	stats.APICallsLast24h = usage.TotalCalls
	stats.APIErrorsLast24h = usage.ErrorCalls
	stats.AvgLatencyMs = usage.AvgLatency

	if payload, err := json.Marshal(stats); err == nil {
		if err := redis.SetWithExpiration(ctx, consts.TrendStatsKey, string(payload), statsCacheTTL); err != nil {
			log.WarnContext(ctx, "cache trend stats failed", "err", err)
		}
	}
	return stats, nil
}

// Search 基于 ES 的实体检索，entityType 为空时跨类型搜索
func (s *trendServiceImpl) Search(ctx context.Context, keyword string, entityType string, size int) ([]*dto.SearchHitDTO, error) {
	if keyword == "" {
		return nil, ErrParamInvalid
	}
	if entityType != "" && !validEntityType(entityType) {
		return nil, ErrEntityTypeInvalid
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	docs, err := s.esRepo.SearchEntities(ctx, keyword, entityType, size)
	if err != nil {
		return nil, err
	}

	hits := make([]*dto.SearchHitDTO, 0, len(docs))
	for _, doc := range docs {
		hits = append(hits, &dto.SearchHitDTO{
			EntityType:  doc.EntityType,
			EntityID:    doc.EntityID,
			Name:        doc.Name,
			DisplayName: doc.DisplayName,
			TrendScore:  doc.TrendScore,
			VolumeCount: doc.VolumeCount,
		})
	}
	return hits, nil
}

func validEntityType(entityType string) bool {
	switch entityType {
	case consts.EntityTypeHashtag, consts.EntityTypeSound, consts.EntityTypeCreator:
		return true
	}
	return false
}
