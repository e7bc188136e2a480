//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/mswxdesk/weather-briefing-service/internal/adapter/kafka"
	"github.com/mswxdesk/weather-briefing-service/internal/briefing"
	"github.com/mswxdesk/weather-briefing-service/internal/config"
	"github.com/mswxdesk/weather-briefing-service/internal/domain"
	"github.com/mswxdesk/weather-briefing-service/internal/observability"
)

const testSinkTopic = "test-briefings"

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// publishedBriefing holds a deserialized message read from the sink topic.
type publishedBriefing struct {
	Briefing domain.Briefing
	Key      string
	Headers  map[string]string
}

func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedBriefing {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var b domain.Briefing
	require.NoError(t, json.Unmarshal(msg.Value, &b), "unmarshal sink message")

	return publishedBriefing{Briefing: b, Key: string(msg.Key), Headers: headers}
}

func newSinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestPublisherRoundTrip verifies the Kafka publisher: a briefing written to
// the sink topic comes back with the same key, headers, and payload.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	generated := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	b := &domain.Briefing{
		ID:                "briefing-roundtrip",
		GeneratedAt:       generated,
		ValidDate:         "2025-06-15",
		TimeOfDay:         "Morning",
		StatewideOverview: "No active weather alerts for Mississippi",
		SourcesUsed:       []string{"NWS Active Alerts API"},
		DataGaps:          []string{},
	}
	require.NoError(t, publisher.Publish(ctx, b))

	pm := readPublished(ctx, t, newSinkConsumer(t, broker))

	assert.Equal(t, "briefing-roundtrip", pm.Key)
	assert.Equal(t, "Morning", pm.Headers["time_of_day"])
	assert.Equal(t, generated.Format(time.RFC3339), pm.Headers["generated_at"])

	assert.Equal(t, "briefing-roundtrip", pm.Briefing.ID)
	assert.Equal(t, "2025-06-15", pm.Briefing.ValidDate)
	assert.Equal(t, "No active weather alerts for Mississippi", pm.Briefing.StatewideOverview)
	assert.Equal(t, []string{"NWS Active Alerts API"}, pm.Briefing.SourcesUsed)
}

type staticAlerts struct{ alerts []domain.Alert }

func (s *staticAlerts) FetchAlerts(context.Context) ([]domain.Alert, error) {
	return s.alerts, nil
}

type staticForecasts struct{ forecasts []domain.AnchorForecast }

func (s *staticForecasts) FetchForecasts(context.Context, []domain.Anchor) ([]domain.AnchorForecast, error) {
	return s.forecasts, nil
}

type staticOutlooks struct{ outlooks []domain.Outlook }

func (s *staticOutlooks) FetchOutlooks(context.Context) ([]domain.Outlook, error) {
	return s.outlooks, nil
}

// TestServicePublishesBriefing wires the assembler and publisher together and
// verifies a built briefing lands on the sink topic.
func TestServicePublishesBriefing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	counties := []domain.County{
		{Name: "Hinds", Region: "Central"},
		{Name: "Harrison", Region: "Coastal"},
	}
	anchors := []domain.Anchor{
		{Name: "Jackson", Region: "Central", Lat: 32.2988, Lon: -90.1848},
	}

	sources := briefing.Sources{
		Alerts: &staticAlerts{alerts: []domain.Alert{{
			Event:            "Flood Warning",
			Severity:         domain.SeverityModerate,
			AffectedCounties: []string{"Hinds"},
		}}},
		Forecasts: &staticForecasts{forecasts: []domain.AnchorForecast{{
			Location: "Jackson",
			Region:   "Central",
		}}},
		Severe:   &staticOutlooks{},
		Rainfall: &staticOutlooks{},
	}

	metrics := observability.NewMetricsForTesting()
	assembler := briefing.New(sources, domain.NewCountyResolver(nil, counties), counties, anchors,
		"Mississippi", time.UTC, discardLogger(), metrics)

	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	service := briefing.NewService(assembler, publisher, time.Hour, discardLogger(), metrics)

	built, err := service.RunOnce(ctx)
	require.NoError(t, err)

	pm := readPublished(ctx, t, newSinkConsumer(t, broker))

	assert.Equal(t, built.ID, pm.Key)
	assert.Equal(t, built.ID, pm.Briefing.ID)
	assert.Equal(t, built.TimeOfDay, pm.Headers["time_of_day"])
	require.Len(t, pm.Briefing.Alerts, 1)
	assert.Equal(t, "Flood Warning", pm.Briefing.Alerts[0].Event)
	require.Len(t, pm.Briefing.RegionalSummaries, 1)
	assert.Equal(t, "Central", pm.Briefing.RegionalSummaries[0].Region)
}
