// Package mapserver queries NOAA's ESRI MapServer endpoints for hazard
// outlook polygons. SPC convective outlooks and WPC excessive rainfall
// outlooks share the same layer structure (layers 1-3 are days 1-3), so one
// client serves both, parameterized by endpoint and risk scale.
package mapserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mswxdesk/weather-briefing-service/internal/domain"
)

// outlookDays maps MapServer layer IDs to forecast days.
var outlookDays = []struct {
	layer int
	day   int
}{
	{1, 1},
	{2, 2},
	{3, 3},
}

// Client fetches outlook polygons from one MapServer service.
type Client struct {
	baseURL    string
	bbox       string
	userAgent  string
	scale      *domain.RiskScale
	delay      time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSevereClient creates a client for the SPC convective outlook service.
func NewSevereClient(baseURL, bbox, userAgent string, timeout, delay time.Duration, logger *slog.Logger) *Client {
	return newClient(baseURL, bbox, userAgent, domain.SevereScale, timeout, delay, logger)
}

// NewRainfallClient creates a client for the WPC excessive rainfall service.
func NewRainfallClient(baseURL, bbox, userAgent string, timeout, delay time.Duration, logger *slog.Logger) *Client {
	return newClient(baseURL, bbox, userAgent, domain.RainfallScale, timeout, delay, logger)
}

func newClient(baseURL, bbox, userAgent string, scale *domain.RiskScale, timeout, delay time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bbox:       bbox,
		userAgent:  userAgent,
		scale:      scale,
		delay:      delay,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchOutlooks queries days 1-3, one Outlook per successfully fetched
// layer. Failed layers are skipped; an error is returned only when every
// layer failed.
func (c *Client) FetchOutlooks(ctx context.Context) ([]domain.Outlook, error) {
	outlooks := make([]domain.Outlook, 0, len(outlookDays))
	var lastErr error

	for i, ld := range outlookDays {
		if i > 0 {
			if err := sleepWithContext(ctx, c.delay); err != nil {
				return outlooks, err
			}
		}

		polygons, err := c.fetchLayer(ctx, ld.layer)
		if err != nil {
			if ctx.Err() != nil {
				return outlooks, ctx.Err()
			}
			c.logger.Warn("outlook layer fetch failed", "scale", c.scale.Name(), "day", ld.day, "error", err)
			lastErr = err
			continue
		}

		c.logger.Info("fetched outlook layer", "scale", c.scale.Name(), "day", ld.day, "polygons", len(polygons))
		outlooks = append(outlooks, domain.Outlook{
			Day:         ld.day,
			CountyRisks: domain.CountyRiskMap{},
			Polygons:    polygons,
		})
	}

	if len(outlooks) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all outlook layers failed: %w", lastErr)
	}
	return outlooks, nil
}

func (c *Client) fetchLayer(ctx context.Context, layer int) ([]domain.OutlookPolygon, error) {
	params := url.Values{
		"where":          {"1=1"},
		"outFields":      {"*"},
		"geometryType":   {"esriGeometryEnvelope"},
		"geometry":       {c.bbox},
		"spatialRel":     {"esriSpatialRelIntersects"},
		"f":              {"json"},
		"returnGeometry": {"true"},
	}
	u := fmt.Sprintf("%s/%d/query?%s", c.baseURL, layer, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query layer %d: %w", layer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mapserver error: status %d: %s", resp.StatusCode, body)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	// MapServer reports layer-level errors with HTTP 200.
	if qr.Error != nil {
		return nil, fmt.Errorf("mapserver layer %d error: code %d: %s", layer, qr.Error.Code, qr.Error.Message)
	}

	polygons := make([]domain.OutlookPolygon, 0, len(qr.Features))
	for _, feature := range qr.Features {
		if len(feature.Geometry.Rings) == 0 {
			continue
		}

		label := riskLabel(feature.Attributes)
		polygons = append(polygons, domain.OutlookPolygon{
			Risk:  c.scale.Parse(label),
			Label: label,
			Rings: toRings(feature.Geometry.Rings),
		})
	}
	return polygons, nil
}

// riskLabel pulls the category label from whichever attribute this layer
// uses. Numeric values are stringified the way the upstream renders them.
func riskLabel(attrs map[string]any) string {
	for _, key := range []string{"dn", "DN", "LABEL", "label", "CATEGORY"} {
		v, ok := attrs[key]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprintf("%v", v)); s != "" {
			return s
		}
	}
	return ""
}

// toRings converts ESRI ring arrays ([x, y] pairs) to domain rings. Ring 0
// is the outer boundary, later rings holes, same as the domain convention.
func toRings(esri [][][]float64) []domain.Ring {
	rings := make([]domain.Ring, 0, len(esri))
	for _, raw := range esri {
		ring := make(domain.Ring, 0, len(raw))
		for _, pt := range raw {
			if len(pt) < 2 {
				continue
			}
			ring = append(ring, domain.Point{Lon: pt[0], Lat: pt[1]})
		}
		rings = append(rings, ring)
	}
	return rings
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

// MapServer query response types.

type queryResponse struct {
	Features []struct {
		Attributes map[string]any `json:"attributes"`
		Geometry   struct {
			Rings [][][]float64 `json:"rings"`
		} `json:"geometry"`
	} `json:"features"`
	Error *queryError `json:"error"`
}

type queryError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
