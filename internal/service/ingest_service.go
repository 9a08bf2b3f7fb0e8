package service

import (
	"TrendPulse/internal/model"
	"TrendPulse/internal/pkg/consts"
	"TrendPulse/internal/pkg/es"
	"TrendPulse/internal/pkg/tiktok"
	"TrendPulse/internal/repository"
	"TrendPulse/internal/trend"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// CycleResult 一次采集周期的统计
type CycleResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// EntityFetcher 上游数据源的抓取契约，由 tiktok.Client 实现
type EntityFetcher interface {
	FetchHashtag(ctx context.Context, name string) (*tiktok.EntityCounters, error)
	FetchSound(ctx context.Context, tiktokID string) (*tiktok.EntityCounters, error)
	FetchCreator(ctx context.Context, username string) (*tiktok.EntityCounters, error)
	FetchTrendingFeed(ctx context.Context) ([]tiktok.FeedVideo, error)
}

type IngestService interface {
	// IngestCycle 对指定类型的全部追踪实体跑一轮采集。
	// 单个实体抓取或写入失败只计入 Failed，不会中断整个周期。
	IngestCycle(ctx context.Context, entityType string) (*CycleResult, error)
	// RefreshEntity 采集单个实体，供 Kafka 刷新队列使用
	RefreshEntity(ctx context.Context, entityType string, entityID uint64) error
	// DiscoverFeed 从热门视频流中发现并登记新实体，快照由后续采集周期产生
	DiscoverFeed(ctx context.Context) (*CycleResult, error)
}

type ingestServiceImpl struct {
	hashtagRepo repository.HashtagRepo
	soundRepo   repository.SoundRepo
	creatorRepo repository.CreatorRepo
	store       repository.TrendStore
	esRepo      es.TrendRepo
	fetcher     EntityFetcher

	workers        int
	fetchTimeout   time.Duration
	velocityWindow time.Duration
}

func NewIngestService(
	hashtagRepo repository.HashtagRepo,
	soundRepo repository.SoundRepo,
	creatorRepo repository.CreatorRepo,
	store repository.TrendStore,
	esRepo es.TrendRepo,
	fetcher EntityFetcher,
	workers int,
	fetchTimeout time.Duration,
	velocityWindow time.Duration,
) IngestService {
	if workers <= 0 {
		workers = 4
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	if velocityWindow <= 0 {
		velocityWindow = 24 * time.Hour
	}
	return &ingestServiceImpl{
		hashtagRepo:    hashtagRepo,
		soundRepo:      soundRepo,
		creatorRepo:    creatorRepo,
		store:          store,
		esRepo:         esRepo,
		fetcher:        fetcher,
		workers:        workers,
		fetchTimeout:   fetchTimeout,
		velocityWindow: velocityWindow,
	}
}

// entityRef 采集时用到的实体最小视图
type entityRef struct {
	id          uint64
	externalID  string
	displayName string
}

func (s *ingestServiceImpl) IngestCycle(ctx context.Context, entityType string) (*CycleResult, error) {
	refs, err := s.listTracked(ctx, entityType)
	if err != nil {
		return nil, err
	}

	var processed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, ref := range refs {
		// 周期可以在实体之间被取消，已落库的快照保持不变
		if gctx.Err() != nil {
			break
		}
		ref := ref
		g.Go(func() error {
			if err := s.refreshOne(gctx, entityType, ref); err != nil {
				log.WarnContext(gctx, "ingest entity failed",
					"entity_type", entityType, "entity_id", ref.id, "err", err)
				failed.Add(1)
				return nil
			}
			processed.Add(1)
			return nil
		})
	}

	_ = g.Wait()

	result := &CycleResult{
		Processed: int(processed.Load()),
		Failed:    int(failed.Load()),
	}
	return result, ctx.Err()
}

func (s *ingestServiceImpl) RefreshEntity(ctx context.Context, entityType string, entityID uint64) error {
	ref, err := s.resolveRef(ctx, entityType, entityID)
	if err != nil {
		return err
	}
	return s.refreshOne(ctx, entityType, *ref)
}

// refreshOne 单实体采集：抓取 → 计算派生指标 → 原子落库 → 刷搜索索引
func (s *ingestServiceImpl) refreshOne(ctx context.Context, entityType string, ref entityRef) error {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	counters, err := s.fetch(fctx, entityType, ref.externalID)
	if err != nil {
		return fmt.Errorf("fetch %s %q: %w", entityType, ref.externalID, err)
	}

	snap, err := s.buildSnapshot(ctx, entityType, ref.id, counters)
	if err != nil {
		return err
	}

	if err := s.store.AppendObservation(ctx, snap); err != nil {
		return fmt.Errorf("append snapshot %s/%d: %w", entityType, ref.id, err)
	}

	s.indexEntity(ctx, entityType, ref, counters, snap)
	return nil
}

// buildSnapshot 基于上一条快照与 24 小时窗口计算派生指标。
// 增长率只相对紧邻的上一条快照计算，没有历史时记 0。
func (s *ingestServiceImpl) buildSnapshot(ctx context.Context, entityType string, entityID uint64, counters *tiktok.EntityCounters) (*model.TrendSnapshot, error) {
	now := time.Now()

	var growthRate float64
	previous, err := s.store.LatestSnapshots(ctx, entityType, entityID, 1)
	if err != nil {
		return nil, err
	}
	if len(previous) > 0 {
		growthRate = trend.GrowthRate(counters.PrimaryVolume, previous[0].VolumeCount)
	}

	history, err := s.store.SnapshotsSince(ctx, entityType, entityID, now.Add(-s.velocityWindow))
	if err != nil {
		return nil, err
	}
	points := make([]trend.Point, 0, len(history))
	for _, h := range history {
		points = append(points, trend.Point{Value: float64(h.VolumeCount), Timestamp: h.Timestamp})
	}
	velocity := trend.Velocity(points)

	engagementRate := trend.EngagementRate(counters.LikeCount, counters.CommentCount, counters.ShareCount, counters.PrimaryVolume)

	score := trend.TrendScore(counters.PrimaryVolume, growthRate, velocity, engagementRate, 1)

	return &model.TrendSnapshot{
		EntityType:   entityType,
		EntityID:     entityID,
		VolumeCount:  counters.PrimaryVolume,
		VideoCount:   counters.SecondaryCount,
		LikeCount:    counters.LikeCount,
		ShareCount:   counters.ShareCount,
		CommentCount: counters.CommentCount,
		GrowthRate:   growthRate,
		Velocity:     velocity,
		TrendScore:   score,
		Timestamp:    now,
	}, nil
}

func (s *ingestServiceImpl) fetch(ctx context.Context, entityType string, externalID string) (*tiktok.EntityCounters, error) {
	switch entityType {
	case consts.EntityTypeHashtag:
		return s.fetcher.FetchHashtag(ctx, externalID)
	case consts.EntityTypeSound:
		return s.fetcher.FetchSound(ctx, externalID)
	case consts.EntityTypeCreator:
		return s.fetcher.FetchCreator(ctx, externalID)
	default:
		return nil, ErrEntityTypeInvalid
	}
}

func (s *ingestServiceImpl) listTracked(ctx context.Context, entityType string) ([]entityRef, error) {
	switch entityType {
	case consts.EntityTypeHashtag:
		hashtags, err := s.hashtagRepo.ListTracked(ctx)
		if err != nil {
			return nil, err
		}
		refs := make([]entityRef, 0, len(hashtags))
		for _, h := range hashtags {
			refs = append(refs, entityRef{id: h.ID, externalID: h.Name, displayName: h.DisplayName})
		}
		return refs, nil
	case consts.EntityTypeSound:
		sounds, err := s.soundRepo.ListTracked(ctx)
		if err != nil {
			return nil, err
		}
		refs := make([]entityRef, 0, len(sounds))
		for _, snd := range sounds {
			refs = append(refs, entityRef{id: snd.ID, externalID: snd.TikTokID, displayName: snd.Title})
		}
		return refs, nil
	case consts.EntityTypeCreator:
		creators, err := s.creatorRepo.ListTracked(ctx)
		if err != nil {
			return nil, err
		}
		refs := make([]entityRef, 0, len(creators))
		for _, c := range creators {
			refs = append(refs, entityRef{id: c.ID, externalID: c.Username, displayName: c.Nickname})
		}
		return refs, nil
	default:
		return nil, ErrEntityTypeInvalid
	}
}

func (s *ingestServiceImpl) resolveRef(ctx context.Context, entityType string, entityID uint64) (*entityRef, error) {
	switch entityType {
	case consts.EntityTypeHashtag:
		h, err := s.hashtagRepo.GetByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		if h == nil {
			return nil, ErrEntityNotFound
		}
		return &entityRef{id: h.ID, externalID: h.Name, displayName: h.DisplayName}, nil
	case consts.EntityTypeSound:
		snd, err := s.soundRepo.GetByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		if snd == nil {
			return nil, ErrEntityNotFound
		}
		return &entityRef{id: snd.ID, externalID: snd.TikTokID, displayName: snd.Title}, nil
	case consts.EntityTypeCreator:
		c, err := s.creatorRepo.GetByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, ErrEntityNotFound
		}
		return &entityRef{id: c.ID, externalID: c.Username, displayName: c.Nickname}, nil
	default:
		return nil, ErrEntityTypeInvalid
	}
}

// indexEntity 把实体最新状态刷入搜索索引，失败只告警
func (s *ingestServiceImpl) indexEntity(ctx context.Context, entityType string, ref entityRef, counters *tiktok.EntityCounters, snap *model.TrendSnapshot) {
	if s.esRepo == nil {
		return
	}

	displayName := ref.displayName
	if counters.DisplayName != "" {
		displayName = counters.DisplayName
	}

	doc := &es.EntityES{
		EntityType:  entityType,
		EntityID:    ref.id,
		Name:        ref.externalID,
		DisplayName: displayName,
		TrendScore:  snap.TrendScore,
		VolumeCount: snap.VolumeCount,
		UpdatedAt:   snap.Timestamp,
	}
	if err := s.esRepo.IndexEntity(ctx, doc); err != nil {
		log.WarnContext(ctx, "index entity failed", "entity_type", entityType, "entity_id", ref.id, "err", err)
	}
}

// DiscoverFeed 聚合热门视频流中出现的话题 / 音乐 / 创作者并登记入库
func (s *ingestServiceImpl) DiscoverFeed(ctx context.Context) (*CycleResult, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	videos, err := s.fetcher.FetchTrendingFeed(fctx)
	if err != nil {
		return nil, fmt.Errorf("fetch trending feed: %w", err)
	}

	type hashtagAgg struct {
		displayName string
		videos      map[string]struct{}
		views       int64
	}
	type soundAgg struct {
		title  string
		author string
		videos map[string]struct{}
		plays  int64
	}
	type creatorAgg struct {
		nickname   string
		followers  int64
		videoCount int
	}

	hashtags := make(map[string]*hashtagAgg)
	sounds := make(map[string]*soundAgg)
	creators := make(map[string]*creatorAgg)

	for _, video := range videos {
		if video.Title == "" {
			continue
		}

		for _, tag := range video.TextExtra {
			if tag.HashtagName == "" {
				continue
			}
			name := strings.ToLower(tag.HashtagName)
			agg, ok := hashtags[name]
			if !ok {
				agg = &hashtagAgg{displayName: tag.HashtagName, videos: make(map[string]struct{})}
				hashtags[name] = agg
			}
			agg.videos[video.ID] = struct{}{}
			agg.views += video.PlayCount
		}

		if video.Music != nil && video.Music.ID != "" {
			agg, ok := sounds[video.Music.ID]
			if !ok {
				agg = &soundAgg{title: video.Music.Title, author: video.Music.AuthorName, videos: make(map[string]struct{})}
				sounds[video.Music.ID] = agg
			}
			agg.videos[video.ID] = struct{}{}
			agg.plays += video.Music.PlayCount
		}

		if video.Author != nil && video.Author.UniqueID != "" {
			agg, ok := creators[video.Author.UniqueID]
			if !ok {
				agg = &creatorAgg{nickname: video.Author.Nickname}
				creators[video.Author.UniqueID] = agg
			}
			agg.followers = video.Author.FollowerCount
			agg.videoCount = video.Author.VideoCount
		}
	}

	result := &CycleResult{}
	now := time.Now()

	for name, agg := range hashtags {
		err := s.hashtagRepo.UpsertByName(ctx, &model.Hashtag{
			Name:          name,
			DisplayName:   agg.displayName,
			ViewCount:     agg.views,
			VideoCount:    len(agg.videos),
			LastUpdatedAt: now,
		})
		if err != nil {
			log.WarnContext(ctx, "upsert hashtag failed", "name", name, "err", err)
			result.Failed++
			continue
		}
		result.Processed++
	}

	for id, agg := range sounds {
		err := s.soundRepo.UpsertByTikTokID(ctx, &model.Sound{
			TikTokID:      id,
			Title:         agg.title,
			Author:        agg.author,
			PlayCount:     agg.plays,
			VideoCount:    len(agg.videos),
			LastUpdatedAt: now,
		})
		if err != nil {
			log.WarnContext(ctx, "upsert sound failed", "tiktok_id", id, "err", err)
			result.Failed++
			continue
		}
		result.Processed++
	}

	for username, agg := range creators {
		err := s.creatorRepo.UpsertByUsername(ctx, &model.Creator{
			Username:      username,
			Nickname:      agg.nickname,
			FollowerCount: agg.followers,
			VideoCount:    agg.videoCount,
			LastUpdatedAt: now,
		})
		if err != nil {
			log.WarnContext(ctx, "upsert creator failed", "username", username, "err", err)
			result.Failed++
			continue
		}
		result.Processed++
	}

	return result, nil
}
