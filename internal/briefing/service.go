package briefing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mswxdesk/weather-briefing-service/internal/domain"
	"github.com/mswxdesk/weather-briefing-service/internal/observability"
)

// Publisher delivers a completed briefing downstream.
type Publisher interface {
	Publish(ctx context.Context, b *domain.Briefing) error
}

// Service drives the assembler: once per interval in serve mode, or a
// single build in run-once mode. Publishing is optional.
type Service struct {
	assembler *Assembler
	publisher Publisher // nil disables publishing
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService wraps an Assembler with scheduling and publishing.
func NewService(assembler *Assembler, publisher Publisher, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		assembler: assembler,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

// Assembler exposes the wrapped assembler for readiness and latest-briefing
// handlers.
func (s *Service) Assembler() *Assembler { return s.assembler }

// RunOnce builds and publishes a single briefing.
func (s *Service) RunOnce(ctx context.Context) (*domain.Briefing, error) {
	b, err := s.assembler.Build(ctx)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, b); err != nil {
			return nil, fmt.Errorf("publish briefing: %w", err)
		}
	}
	return b, nil
}

// Run builds a briefing immediately and then once per interval until the
// context is cancelled. Build and publish failures are logged and the loop
// continues; the next tick gets a fresh chance.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("briefing service started", "interval", s.interval)
	s.metrics.ServiceRunning.Set(1)
	defer s.metrics.ServiceRunning.Set(0)

	s.buildAndPublish(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("briefing service stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			s.buildAndPublish(ctx)
		}
	}
}

func (s *Service) buildAndPublish(ctx context.Context) {
	b, err := s.assembler.Build(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("briefing build failed", "error", err)
		}
		return
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, b); err != nil {
		s.logger.Error("briefing publish failed", "error", err, "id", b.ID)
	}
}
