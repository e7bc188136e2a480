package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mswxdesk/weather-briefing-service/internal/domain"
)

// maxDescriptionLen bounds alert descriptions in the briefing; NWS
// discussion text can run to several kilobytes.
const maxDescriptionLen = 500

// retryAttempts bounds retries on transient upstream failures (429/5xx).
const retryAttempts = 3

// Client talks to the NWS API: active alerts and gridpoint forecasts.
// Point metadata is cached since anchor coordinates never change between
// runs.
type Client struct {
	baseURL    string
	area       string
	userAgent  string
	delay      time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	points     *pointCache
}

// NewClient creates an NWS API client for the given state area code.
func NewClient(baseURL, area, userAgent string, timeout, delay time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		area:       area,
		userAgent:  userAgent,
		delay:      delay,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		points:     newPointCache(128),
	}
}

// FetchAlerts returns all active alerts for the configured area.
func (c *Client) FetchAlerts(ctx context.Context) ([]domain.Alert, error) {
	u := fmt.Sprintf("%s/alerts/active?area=%s", c.baseURL, url.QueryEscape(c.area))

	var resp alertsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("fetch alerts: %w", err)
	}

	alerts := make([]domain.Alert, 0, len(resp.Features))
	for _, feature := range resp.Features {
		alerts = append(alerts, feature.Properties.toAlert())
	}
	c.logger.Info("fetched active alerts", "area", c.area, "count", len(alerts))
	return alerts, nil
}

// FetchForecasts returns gridpoint forecasts for the anchors. Individual
// anchor failures are skipped; an error is returned only when no anchor
// yielded a forecast.
func (c *Client) FetchForecasts(ctx context.Context, anchors []domain.Anchor) ([]domain.AnchorForecast, error) {
	forecasts := make([]domain.AnchorForecast, 0, len(anchors))
	for i, anchor := range anchors {
		if i > 0 {
			if err := sleepWithContext(ctx, c.delay); err != nil {
				return forecasts, err
			}
		}

		forecast, err := c.fetchAnchorForecast(ctx, anchor)
		if err != nil {
			if ctx.Err() != nil {
				return forecasts, ctx.Err()
			}
			c.logger.Warn("anchor forecast failed", "anchor", anchor.Name, "error", err)
			continue
		}
		forecasts = append(forecasts, forecast)
	}

	if len(anchors) > 0 && len(forecasts) == 0 {
		return nil, fmt.Errorf("no anchor forecasts available")
	}
	return forecasts, nil
}

func (c *Client) fetchAnchorForecast(ctx context.Context, anchor domain.Anchor) (domain.AnchorForecast, error) {
	meta, err := c.pointMetadata(ctx, anchor.Lat, anchor.Lon)
	if err != nil {
		return domain.AnchorForecast{}, err
	}

	forecast := domain.AnchorForecast{
		Location: anchor.Name,
		Region:   anchor.Region,
		Lat:      anchor.Lat,
		Lon:      anchor.Lon,
		GridID:   meta.GridID,
		GridX:    meta.GridX,
		GridY:    meta.GridY,
	}

	if meta.ForecastURL != "" {
		if err := sleepWithContext(ctx, c.delay); err != nil {
			return domain.AnchorForecast{}, err
		}
		if err := c.applyPeriods(ctx, meta.ForecastURL, &forecast); err != nil {
			c.logger.Warn("forecast periods unavailable", "anchor", anchor.Name, "error", err)
		}
	}

	if meta.GridDataURL != "" {
		if err := sleepWithContext(ctx, c.delay); err != nil {
			return domain.AnchorForecast{}, err
		}
		if err := c.applyGridData(ctx, meta.GridDataURL, &forecast); err != nil {
			c.logger.Warn("grid data unavailable", "anchor", anchor.Name, "error", err)
		}
	}

	return forecast, nil
}

// pointMetadata resolves lat/lon to NWS grid coordinates, consulting the
// cache first.
func (c *Client) pointMetadata(ctx context.Context, lat, lon float64) (gridMeta, error) {
	key := fmt.Sprintf("%.4f,%.4f", lat, lon)
	if meta, ok := c.points.get(key); ok {
		return meta, nil
	}

	u := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)
	var resp pointsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return gridMeta{}, fmt.Errorf("point metadata %s: %w", key, err)
	}
	if resp.Properties.GridID == "" {
		return gridMeta{}, fmt.Errorf("point metadata %s: no grid assignment", key)
	}

	meta := gridMeta{
		GridID:      resp.Properties.GridID,
		GridX:       resp.Properties.GridX,
		GridY:       resp.Properties.GridY,
		ForecastURL: resp.Properties.Forecast,
		GridDataURL: resp.Properties.ForecastGridData,
	}
	c.points.put(key, meta)
	return meta, nil
}

// applyPeriods fills the forecast's periods and first-period snapshot
// (conditions, wind, today's high and tonight's low).
func (c *Client) applyPeriods(ctx context.Context, u string, forecast *domain.AnchorForecast) error {
	var resp forecastResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return err
	}

	periods := make([]domain.ForecastPeriod, 0, len(resp.Properties.Periods))
	for _, p := range resp.Properties.Periods {
		periods = append(periods, domain.ForecastPeriod{
			Name:             p.Name,
			IsDaytime:        p.IsDaytime,
			Temperature:      p.Temperature,
			ShortForecast:    p.ShortForecast,
			DetailedForecast: p.DetailedForecast,
			WindSpeed:        p.WindSpeed,
			WindDirection:    p.WindDirection,
			PoP:              p.ProbabilityOfPrecipitation.Value,
		})
	}
	forecast.Periods = periods

	if len(periods) == 0 {
		return nil
	}

	first := periods[0]
	forecast.Conditions = first.ShortForecast
	forecast.Detailed = first.DetailedForecast
	forecast.WindSpeed = first.WindSpeed
	forecast.WindDirection = first.WindDirection
	forecast.PoP = first.PoP

	temp := first.Temperature
	if first.IsDaytime {
		forecast.High = &temp
	} else {
		forecast.Low = &temp
	}
	if len(periods) > 1 {
		second := periods[1]
		temp2 := second.Temperature
		if second.IsDaytime {
			forecast.High = &temp2
		} else {
			forecast.Low = &temp2
		}
	}
	return nil
}

// applyGridData fills 24h QPF and snowfall totals (mm summed, reported in
// inches) and, when the periods carried none, the 24h max PoP.
func (c *Client) applyGridData(ctx context.Context, u string, forecast *domain.AnchorForecast) error {
	var resp gridDataResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return err
	}

	if mm, ok := sumValues(resp.Properties.QuantitativePrecipitation.Values, 24); ok {
		qpf := math.Round(mm/25.4*100) / 100
		forecast.QPF = &qpf
	}
	if mm, ok := sumValues(resp.Properties.SnowfallAmount.Values, 24); ok {
		snow := math.Round(mm/25.4*10) / 10
		forecast.Snow = &snow
	}
	if forecast.PoP == nil {
		if pop, ok := maxValue(resp.Properties.ProbabilityOfPrecipitation.Values, 24); ok {
			p := int(pop)
			forecast.PoP = &p
		}
	}
	return nil
}

// getJSON issues a GET with NWS headers and decodes the response, retrying
// transient failures with a short linear backoff.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, time.Duration(attempt)*c.delay); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/geo+json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if retryableStatus(resp.StatusCode) {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, body)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("nws API error: status %d: %s", resp.StatusCode, body)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("nws request failed after %d attempts: %w", retryAttempts, lastErr)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func sumValues(values []measuredValue, n int) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	total := 0.0
	for i, v := range values {
		if i >= n {
			break
		}
		if v.Value != nil {
			total += *v.Value
		}
	}
	return total, true
}

func maxValue(values []measuredValue, n int) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	top := 0.0
	for i, v := range values {
		if i >= n {
			break
		}
		if v.Value != nil && *v.Value > top {
			top = *v.Value
		}
	}
	return top, true
}

// NWS API response types.

type alertsResponse struct {
	Features []struct {
		Properties alertProperties `json:"properties"`
	} `json:"features"`
}

type alertProperties struct {
	ID            string   `json:"id"`
	Event         string   `json:"event"`
	Headline      string   `json:"headline"`
	Description   string   `json:"description"`
	Instruction   string   `json:"instruction"`
	Severity      string   `json:"severity"`
	Certainty     string   `json:"certainty"`
	Onset         string   `json:"onset"`
	Expires       string   `json:"expires"`
	AffectedZones []string `json:"affectedZones"`
	AreaDesc      string   `json:"areaDesc"`
	SenderName    string   `json:"senderName"`
	MessageType   string   `json:"messageType"`
}

func (p alertProperties) toAlert() domain.Alert {
	event := p.Event
	if event == "" {
		event = "Unknown"
	}

	var counties []string
	for _, token := range strings.Split(p.AreaDesc, ";") {
		if token = strings.TrimSpace(token); token != "" {
			counties = append(counties, token)
		}
	}

	return domain.Alert{
		ID:               p.ID,
		Event:            event,
		Headline:         p.Headline,
		Description:      truncate(p.Description, maxDescriptionLen),
		Instruction:      p.Instruction,
		Severity:         domain.ParseAlertSeverity(p.Severity),
		Certainty:        domain.ParseAlertCertainty(p.Certainty),
		Onset:            parseTime(p.Onset),
		Expires:          parseTime(p.Expires),
		AffectedZones:    p.AffectedZones,
		AffectedCounties: counties,
		Sender:           p.SenderName,
		MessageType:      p.MessageType,
	}
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

type pointsResponse struct {
	Properties struct {
		GridID           string `json:"gridId"`
		GridX            int    `json:"gridX"`
		GridY            int    `json:"gridY"`
		Forecast         string `json:"forecast"`
		ForecastGridData string `json:"forecastGridData"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []struct {
			Name                       string `json:"name"`
			IsDaytime                  bool   `json:"isDaytime"`
			Temperature                int    `json:"temperature"`
			ShortForecast              string `json:"shortForecast"`
			DetailedForecast           string `json:"detailedForecast"`
			WindSpeed                  string `json:"windSpeed"`
			WindDirection              string `json:"windDirection"`
			ProbabilityOfPrecipitation struct {
				Value *int `json:"value"`
			} `json:"probabilityOfPrecipitation"`
		} `json:"periods"`
	} `json:"properties"`
}

type measuredValue struct {
	Value *float64 `json:"value"`
}

type gridDataResponse struct {
	Properties struct {
		QuantitativePrecipitation struct {
			Values []measuredValue `json:"values"`
		} `json:"quantitativePrecipitation"`
		SnowfallAmount struct {
			Values []measuredValue `json:"values"`
		} `json:"snowfallAmount"`
		ProbabilityOfPrecipitation struct {
			Values []measuredValue `json:"values"`
		} `json:"probabilityOfPrecipitation"`
	} `json:"properties"`
}
