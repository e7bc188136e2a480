package nhc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mswxdesk/weather-briefing-service/internal/domain"
)

// Client fetches active tropical systems from the NHC current-storms feed
// and attaches a distance-based impact assessment for the configured area.
type Client struct {
	url        string
	userAgent  string
	areaName   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an NHC current-storms client.
func NewClient(url, userAgent, areaName string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		userAgent:  userAgent,
		areaName:   areaName,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchSystems returns the active systems near enough to matter: inside the
// monitoring radius, or with unparseable position (kept so a human sees
// them). An empty slice means a quiet basin.
func (c *Client) FetchSystems(ctx context.Context) ([]domain.TropicalSystem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch current storms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("nhc error: status %d: %s", resp.StatusCode, body)
	}

	var feed stormsFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(feed.ActiveStorms) == 0 {
		c.logger.Info("no active tropical systems")
		return []domain.TropicalSystem{}, nil
	}

	systems := make([]domain.TropicalSystem, 0, len(feed.ActiveStorms))
	for _, storm := range feed.ActiveStorms {
		system, keep := c.toSystem(storm)
		if keep {
			systems = append(systems, system)
		}
	}
	c.logger.Info("fetched tropical systems", "active", len(feed.ActiveStorms), "relevant", len(systems))
	return systems, nil
}

func (c *Client) toSystem(storm storm) (domain.TropicalSystem, bool) {
	name := storm.Name
	if name == "" {
		name = "Unknown"
	}

	lat := parseCoord(firstOf(storm.Latitude, storm.Lat))
	lon := parseCoord(firstOf(storm.Longitude, storm.Lon))
	intensity := parseIntValue(firstOf(storm.Intensity, storm.MaxWind))
	pressure := parseIntValue(firstOf(storm.Pressure, storm.MinPressure))

	movement := storm.Movement
	if movement == "" {
		movement = storm.Motion
	}

	system := domain.TropicalSystem{
		ID:             storm.ID,
		Name:           name,
		Classification: storm.Classification,
		Lat:            lat,
		Lon:            lon,
		Intensity:      intensity,
		Pressure:       pressure,
		Movement:       movement,
		Timing:         storm.AdvisoryDate,
	}

	// Position unknown: keep the system, a forecaster should see it.
	if lat == nil || lon == nil {
		return system, true
	}

	mph := 0
	if intensity != nil {
		mph = *intensity
	}
	result := assess(*lat, *lon, mph, c.areaName)
	if result.distanceMiles >= monitorRadiusMiles {
		return domain.TropicalSystem{}, false
	}

	system.Impacts = result.summary
	system.WindThreat = result.windThreat
	system.RainThreat = result.rainThreat
	system.SurgeThreat = result.surgeThreat
	return system, true
}

// firstOf returns the first non-nil raw value.
func firstOf(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// parseCoord accepts numeric coordinates or the hemisphere-suffixed strings
// the feed sometimes carries ("21.5N", "86.3W"). S and W are negative.
func parseCoord(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		sign := 1.0
		switch s[len(s)-1] {
		case 'N', 'E':
			s = s[:len(s)-1]
		case 'S', 'W':
			sign = -1
			s = s[:len(s)-1]
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		f *= sign
		return &f
	default:
		return nil
	}
}

// parseIntValue accepts numeric values or unit-suffixed strings
// ("100 mph", "45 kt", "988 mb").
func parseIntValue(v any) *int {
	switch t := v.(type) {
	case float64:
		n := int(t)
		return &n
	case string:
		s := strings.TrimSpace(t)
		for _, unit := range []string{"mph", "kt", "mb"} {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit))
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// NHC feed types.

type stormsFeed struct {
	ActiveStorms []storm `json:"activeStorms"`
}

type storm struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Classification string `json:"classification"`
	Latitude       any    `json:"latitude"`
	Lat            any    `json:"lat"`
	Longitude      any    `json:"longitude"`
	Lon            any    `json:"lon"`
	Intensity      any    `json:"intensity"`
	MaxWind        any    `json:"maxWind"`
	Pressure       any    `json:"pressure"`
	MinPressure    any    `json:"minPressure"`
	Movement       string `json:"movement"`
	Motion         string `json:"motion"`
	AdvisoryDate   string `json:"advisoryDate"`
}
