package kafka

import (
	"TrendPulse/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// RefreshMessage 单实体刷新请求
type RefreshMessage struct {
	EntityType string `json:"entityType"`
	EntityID   uint64 `json:"entityId"`
}

type RefreshHandler struct {
	ingestService service.IngestService
}

func NewRefreshHandler(ingestService service.IngestService) *RefreshHandler {
	return &RefreshHandler{
		ingestService: ingestService,
	}
}

func (s *RefreshHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("refresh consumer setup")
	return nil
}

func (s *RefreshHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("refresh consumer cleanup")
	return nil
}

func (s *RefreshHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-refresh consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	log.Info("topic-refresh consume claim end")
	return nil
}

func (s *RefreshHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var refresh RefreshMessage
	if err := json.Unmarshal(msg.Value, &refresh); err != nil {
		// 格式错误的消息重试也不会成功，直接丢弃
		log.Error("unmarshal refresh message error", "err", err)
		return nil
	}

	err := s.ingestService.RefreshEntity(ctx, refresh.EntityType, refresh.EntityID)
	if errors.Is(err, service.ErrEntityNotFound) || errors.Is(err, service.ErrEntityTypeInvalid) {
		log.Warn("refresh target invalid, dropping message",
			"entity_type", refresh.EntityType, "entity_id", refresh.EntityID, "err", err)
		return nil
	}
	return err
}
