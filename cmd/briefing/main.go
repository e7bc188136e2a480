package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/mswxdesk/weather-briefing-service/internal/adapter/http"
	kafkaadapter "github.com/mswxdesk/weather-briefing-service/internal/adapter/kafka"
	"github.com/mswxdesk/weather-briefing-service/internal/adapter/mapserver"
	"github.com/mswxdesk/weather-briefing-service/internal/adapter/nhc"
	"github.com/mswxdesk/weather-briefing-service/internal/adapter/nws"
	"github.com/mswxdesk/weather-briefing-service/internal/briefing"
	"github.com/mswxdesk/weather-briefing-service/internal/config"
	"github.com/mswxdesk/weather-briefing-service/internal/domain"
	"github.com/mswxdesk/weather-briefing-service/internal/observability"
)

func main() {
	mode := flag.String("mode", "serve", "run mode: serve, once, or preview")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	counties, err := config.LoadCounties(cfg.CountiesPath)
	if err != nil {
		logger.Error("failed to load counties", "error", err)
		os.Exit(1)
	}
	anchors, err := config.LoadAnchors(cfg.AnchorsPath)
	if err != nil {
		logger.Error("failed to load anchors", "error", err)
		os.Exit(1)
	}
	geometries, err := config.LoadCountyGeometry(cfg.CountyGeoJSONPath)
	if err != nil {
		logger.Error("failed to load county geometry", "error", err)
		os.Exit(1)
	}

	resolver := domain.NewCountyResolver(geometries, counties)
	logger.Info("county resolver ready",
		"counties", len(counties), "anchors", len(anchors), "boundaries", len(geometries))

	sources := briefing.Sources{
		Alerts:    nws.NewClient(cfg.NWSAPIBase, cfg.NWSArea, cfg.UserAgent, cfg.RequestTimeout, cfg.RequestDelay, logger),
		Forecasts: nws.NewClient(cfg.NWSAPIBase, cfg.NWSArea, cfg.UserAgent, cfg.RequestTimeout, cfg.RequestDelay, logger),
		Severe:    mapserver.NewSevereClient(cfg.SPCMapServerURL, cfg.OutlookBBox, cfg.UserAgent, cfg.RequestTimeout, cfg.RequestDelay, logger),
		Rainfall:  mapserver.NewRainfallClient(cfg.WPCMapServerURL, cfg.OutlookBBox, cfg.UserAgent, cfg.RequestTimeout, cfg.RequestDelay, logger),
		Tropical:  nhc.NewClient(cfg.NHCStormsURL, cfg.UserAgent, cfg.AreaName, cfg.RequestTimeout, logger),
	}

	assembler := briefing.New(sources, resolver, counties, anchors, cfg.AreaName, cfg.Location(), logger, metrics)

	var publisher briefing.Publisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled && *mode != "preview" {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	service := briefing.NewService(assembler, publisher, cfg.BriefingInterval, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "once":
		if _, err := service.RunOnce(ctx); err != nil {
			logger.Error("briefing run failed", "error", err)
			os.Exit(1)
		}
	case "preview":
		if err := runPreview(ctx, assembler); err != nil {
			logger.Error("briefing preview failed", "error", err)
			os.Exit(1)
		}
	case "serve":
		runServe(ctx, cfg, assembler, service, logger)
	default:
		logger.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}

	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	logger.Info("shutdown complete")
}

// runPreview builds one briefing and prints it as JSON without publishing.
func runPreview(ctx context.Context, assembler *briefing.Assembler) error {
	b, err := assembler.Build(ctx)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode briefing: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, assembler *briefing.Assembler, service *briefing.Service, logger *slog.Logger) {
	srv := httpadapter.NewServer(cfg.HTTPAddr, assembler, assembler, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := service.Run(ctx); err != nil {
			logger.Error("briefing service error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
