package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.BriefingInterval)
	assert.Equal(t, "https://api.weather.gov", cfg.NWSAPIBase)
	assert.Equal(t, "MS", cfg.NWSArea)
	assert.Equal(t, "https://www.nhc.noaa.gov/CurrentStorms.json", cfg.NHCStormsURL)
	assert.Equal(t, "-91.7,30.1,-88.0,35.0", cfg.OutlookBBox)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.RequestDelay)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "weather-briefings", cfg.KafkaSinkTopic)
	assert.Equal(t, "Mississippi", cfg.AreaName)
	assert.Equal(t, "America/Chicago", cfg.Timezone)
	assert.Equal(t, "config/counties.yaml", cfg.CountiesPath)
	assert.Empty(t, cfg.CountyGeoJSONPath)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BRIEFING_INTERVAL", "15m")
	t.Setenv("NWS_API_BASE", "http://localhost:8081")
	t.Setenv("NWS_AREA", "LA")
	t.Setenv("OUTLOOK_BBOX", "-94.1,28.9,-88.7,33.1")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("REQUEST_DELAY", "0s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-briefings")
	t.Setenv("AREA_NAME", "Louisiana")
	t.Setenv("TIMEZONE", "America/New_York")
	t.Setenv("COUNTY_GEOJSON_PATH", "config/counties.geojson")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 15*time.Minute, cfg.BriefingInterval)
	assert.Equal(t, "http://localhost:8081", cfg.NWSAPIBase)
	assert.Equal(t, "LA", cfg.NWSArea)
	assert.Equal(t, "-94.1,28.9,-88.7,33.1", cfg.OutlookBBox)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Duration(0), cfg.RequestDelay)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, "custom-briefings", cfg.KafkaSinkTopic)
	assert.Equal(t, "Louisiana", cfg.AreaName)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "config/counties.geojson", cfg.CountyGeoJSONPath)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeBriefingInterval(t *testing.T) {
	t.Setenv("BRIEFING_INTERVAL", "-1h")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRIEFING_INTERVAL")
}

func TestLoad_InvalidBBox(t *testing.T) {
	t.Setenv("OUTLOOK_BBOX", "-91.7,30.1,-88.0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTLOOK_BBOX")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaBrokersImplyEnabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}
