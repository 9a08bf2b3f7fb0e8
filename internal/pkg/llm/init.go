package llm

import (
	"TrendPulse/internal/api/config"
	log "log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var llmClient llms.Model

var contentIdeasPrompt string
var trendPredictPrompt string

func InitLLM() error {
	cfg := config.Cfg.LLM

	llm, err := openai.New(
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)

	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return err
	}

	llmClient = llm

	// 从prompt txt文件中读取prompt
	contentIdeasPrompt = readPrompt(cfg.PromptsPath.ContentIdeas)
	trendPredictPrompt = readPrompt(cfg.PromptsPath.TrendPredict)

	return nil
}
