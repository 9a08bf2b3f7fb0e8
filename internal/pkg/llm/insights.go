package llm

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/goccy/go-json"
)

var ErrEmptyCompletion = errors.New("AI大模型返回为空")

// TrendBrief 喂给模型的单个实体摘要
type TrendBrief struct {
	EntityType  string  `json:"entityType"`
	Name        string  `json:"name"`
	TrendScore  int     `json:"trendScore"`
	GrowthRate  float64 `json:"growthRate"`
	VolumeLabel string  `json:"volumeLabel"`
}

// PredictInput 趋势预测的输入：当前摘要加上按时间升序的历史热度分
type PredictInput struct {
	Brief        TrendBrief `json:"brief"`
	ScoreHistory []float64  `json:"scoreHistory"`
	Stage        string     `json:"stage"`
}

// ContentIdeas 基于当前热榜生成内容创意
func ContentIdeas(ctx context.Context, briefs []TrendBrief) (string, error) {
	payload, err := json.Marshal(briefs)
	if err != nil {
		log.Error("AI大模型请求数据序列化失败", "err", err)
		return "", err
	}

	resp, err := fetchModel(ctx, contentIdeasPrompt, string(payload), 0.8)
	if err != nil {
		log.Error("AI大模型请求失败", "err", err)
		return "", err
	}

	content := firstChoice(resp)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// PredictTrend 基于历史热度走势预测某个实体接下来的趋势
func PredictTrend(ctx context.Context, input *PredictInput) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		log.Error("AI大模型请求数据序列化失败", "err", err)
		return "", err
	}

	resp, err := fetchModel(ctx, trendPredictPrompt, string(payload), 0.3)
	if err != nil {
		log.Error("AI大模型请求失败", "err", err)
		return "", err
	}

	content := firstChoice(resp)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
