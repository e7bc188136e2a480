package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// BriefingInterval is the rebuild cadence in interval mode.
	BriefingInterval time.Duration

	// Upstream endpoints.
	NWSAPIBase      string
	NWSArea         string
	SPCMapServerURL string
	WPCMapServerURL string
	NHCStormsURL    string
	UserAgent       string

	// OutlookBBox is the MapServer query envelope as "xmin,ymin,xmax,ymax".
	OutlookBBox string

	RequestTimeout time.Duration
	RequestDelay   time.Duration

	// Kafka publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool

	// Static geography configuration.
	AreaName          string
	Timezone          string
	CountiesPath      string
	AnchorsPath       string
	CountyGeoJSONPath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	briefingInterval, err := parseDuration("BRIEFING_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	requestDelay, err := parseNonNegativeDuration("REQUEST_DELAY", "500ms")
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(envOrDefault("KAFKA_BROKERS", ""))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		BriefingInterval: briefingInterval,

		NWSAPIBase:      envOrDefault("NWS_API_BASE", "https://api.weather.gov"),
		NWSArea:         envOrDefault("NWS_AREA", "MS"),
		SPCMapServerURL: envOrDefault("MAPSERVER_SPC_URL", "https://mapservices.weather.noaa.gov/vector/rest/services/outlooks/SPC_wx_outlks/MapServer"),
		WPCMapServerURL: envOrDefault("MAPSERVER_WPC_URL", "https://mapservices.weather.noaa.gov/vector/rest/services/precip/wpc_prob_excessive_rainfall/MapServer"),
		NHCStormsURL:    envOrDefault("NHC_STORMS_URL", "https://www.nhc.noaa.gov/CurrentStorms.json"),
		UserAgent:       envOrDefault("USER_AGENT", "weather-briefing-service (contact@mswxdesk.example)"),

		OutlookBBox: envOrDefault("OUTLOOK_BBOX", "-91.7,30.1,-88.0,35.0"),

		RequestTimeout: requestTimeout,
		RequestDelay:   requestDelay,

		KafkaBrokers:   brokers,
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "weather-briefings"),
		KafkaEnabled:   kafkaEnabled,

		AreaName:          envOrDefault("AREA_NAME", "Mississippi"),
		Timezone:          envOrDefault("TIMEZONE", "America/Chicago"),
		CountiesPath:      envOrDefault("COUNTIES_PATH", "config/counties.yaml"),
		AnchorsPath:       envOrDefault("ANCHORS_PATH", "config/anchors.yaml"),
		CountyGeoJSONPath: os.Getenv("COUNTY_GEOJSON_PATH"),
	}

	if cfg.NWSAPIBase == "" {
		return nil, errors.New("NWS_API_BASE is required")
	}
	if cfg.NWSArea == "" {
		return nil, errors.New("NWS_AREA is required")
	}
	if len(strings.Split(cfg.OutlookBBox, ",")) != 4 {
		return nil, errors.New("OUTLOOK_BBOX must be xmin,ymin,xmax,ymax")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Location resolves the configured timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegativeDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
