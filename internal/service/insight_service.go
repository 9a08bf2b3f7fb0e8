package service

import (
	"TrendPulse/internal/pkg/consts"
	"TrendPulse/internal/pkg/llm"
	"TrendPulse/internal/pkg/redis"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

const (
	ideasCacheTTL   = time.Hour
	predictCacheTTL = 30 * time.Minute

	ideasTopLimit     = 10
	predictWindowDays = 7
)

type InsightService interface {
	// ContentIdeas 基于当前热榜生成内容创意，结果按小时缓存
	ContentIdeas(ctx context.Context) (string, error)
	// Predict 基于历史走势预测单个实体的趋势
	Predict(ctx context.Context, entityType string, entityID uint64) (string, error)
}

type insightServiceImpl struct {
	trendService TrendService
}

func NewInsightService(trendService TrendService) InsightService {
	return &insightServiceImpl{trendService: trendService}
}

func (s *insightServiceImpl) ContentIdeas(ctx context.Context) (string, error) {
	if cached, err := redis.GetValue(ctx, consts.ContentIdeasKey); err == nil && cached != "" {
		return cached, nil
	}

	briefs := make([]llm.TrendBrief, 0, ideasTopLimit*3)
	for _, entityType := range []string{consts.EntityTypeHashtag, consts.EntityTypeSound, consts.EntityTypeCreator} {
		entries, err := s.trendService.Top(ctx, entityType, ideasTopLimit)
		if err != nil {
			return "", err
		}
		for _, entry := range entries {
			briefs = append(briefs, llm.TrendBrief{
				EntityType:  entry.EntityType,
				Name:        entry.DisplayName,
				TrendScore:  entry.TrendScore,
				GrowthRate:  entry.GrowthRate,
				VolumeLabel: entry.VolumeLabel,
			})
		}
	}
	if len(briefs) == 0 {
		return "", ErrEntityNotFound
	}

	ideas, err := llm.ContentIdeas(ctx, briefs)
	if err != nil {
		return "", err
	}

	if err := redis.SetWithExpiration(ctx, consts.ContentIdeasKey, ideas, ideasCacheTTL); err != nil {
		log.WarnContext(ctx, "cache content ideas failed", "err", err)
	}
	return ideas, nil
}

func (s *insightServiceImpl) Predict(ctx context.Context, entityType string, entityID uint64) (string, error) {
	cacheKey := fmt.Sprintf("%s%s:%d", consts.TrendPredictionKey, entityType, entityID)
	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		return cached, nil
	}

	points, err := s.trendService.Chart(ctx, entityType, entityID, predictWindowDays*24)
	if err != nil {
		return "", err
	}
	if len(points) == 0 {
		return "", ErrEntityNotFound
	}

	lifecycle, err := s.trendService.Lifecycle(ctx, entityType, entityID)
	if err != nil {
		return "", err
	}

	latest := points[len(points)-1]
	input := &llm.PredictInput{
		Brief: llm.TrendBrief{
			EntityType: entityType,
			Name:       fmt.Sprintf("%s#%d", entityType, entityID),
			TrendScore: latest.TrendScore,
			GrowthRate: latest.GrowthRate,
		},
		ScoreHistory: make([]float64, 0, len(points)),
		Stage:        lifecycle.Stage,
	}
	for _, p := range points {
		input.ScoreHistory = append(input.ScoreHistory, float64(p.TrendScore))
	}

	prediction, err := llm.PredictTrend(ctx, input)
	if err != nil {
		return "", err
	}

	if err := redis.SetWithExpiration(ctx, cacheKey, prediction, predictCacheTTL); err != nil {
		log.WarnContext(ctx, "cache trend prediction failed", "key", cacheKey, "err", err)
	}
	return prediction, nil
}
