package kafka

import (
	"TrendPulse/internal/api/config"
	"TrendPulse/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	refreshConsumer sarama.ConsumerGroup
	refreshHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	ingestService service.IngestService,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	refreshConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaRefreshConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	refreshHandler := NewRefreshHandler(ingestService)

	return &ConsumerManager{
		refreshConsumer: refreshConsumer,
		refreshHandler:  refreshHandler,
	}, nil
}

func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Refresh Consumer
	go func() {
		topic := cfg.KafkaRefreshConsumer.Topic
		log.Info("Refresh consumer started", "topic", topic)
		for {
			if err := m.refreshConsumer.Consume(ctx, []string{topic}, m.refreshHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.refreshConsumer.Close(); err != nil {
		log.Error("Failed to close refresh consumer", "err", err)
	}

	return nil
}
