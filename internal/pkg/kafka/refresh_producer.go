package kafka

import (
	"TrendPulse/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// RefreshProducer 把单实体刷新请求写入刷新队列
type RefreshProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewRefreshProducer(cfg *config.Config) (*RefreshProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return &RefreshProducer{
		producer: producer,
		topic:    cfg.KafkaRefreshConsumer.Topic,
	}, nil
}

// Enqueue 以实体为 key 写入，保证同一实体的刷新请求落在同一分区
func (p *RefreshProducer) Enqueue(ctx context.Context, entityType string, entityID uint64) error {
	payload, err := json.Marshal(&RefreshMessage{
		EntityType: entityType,
		EntityID:   entityID,
	})
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(entityType),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "refresh enqueued",
		"entity_type", entityType, "entity_id", entityID,
		"partition", partition, "offset", offset)
	return nil
}

func (p *RefreshProducer) Close() error {
	return p.producer.Close()
}
