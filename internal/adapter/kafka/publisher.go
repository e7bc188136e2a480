package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/mswxdesk/weather-briefing-service/internal/config"
	"github.com/mswxdesk/weather-briefing-service/internal/domain"
)

// Publisher produces completed briefings to a Kafka topic.
// It implements briefing.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes one briefing and writes it to the sink topic, keyed by
// briefing ID so reruns for the same window land in one partition.
func (p *Publisher) Publish(ctx context.Context, b *domain.Briefing) error {
	msg, err := serializeBriefing(b)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write briefing: %w", err)
	}
	p.logger.Info("published briefing", "id", b.ID, "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeBriefing marshals a briefing into a Kafka message.
func serializeBriefing(b *domain.Briefing) (kafkago.Message, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize briefing: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(b.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "time_of_day", Value: []byte(b.TimeOfDay)},
			{Key: "generated_at", Value: []byte(b.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
