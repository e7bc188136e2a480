package nws

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mswxdesk/weather-briefing-service/internal/domain"
)

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "MS", "test-agent", 5*time.Second, 0, testLogger())
}

const alertsBody = `{
  "features": [
    {
      "properties": {
        "id": "urn:oid:2.49.0.1.840.0.abc",
        "event": "Tornado Warning",
        "headline": "Tornado Warning issued for Hinds County",
        "description": "A confirmed tornado was observed.",
        "instruction": "Take cover now.",
        "severity": "Extreme",
        "certainty": "Observed",
        "onset": "2025-06-15T14:00:00-05:00",
        "expires": "2025-06-15T15:00:00-05:00",
        "affectedZones": ["https://api.weather.gov/zones/county/MSC049"],
        "areaDesc": "Hinds, MS; Rankin, MS; ",
        "senderName": "NWS Jackson MS",
        "messageType": "Alert"
      }
    },
    {
      "properties": {
        "id": "urn:oid:2.49.0.1.840.0.def",
        "event": "Flood Watch",
        "severity": "Catastrophic",
        "certainty": "",
        "areaDesc": "DeSoto"
      }
    }
  ]
}`

func TestFetchAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/alerts/active", r.URL.Path)
		assert.Equal(t, "MS", r.URL.Query().Get("area"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/geo+json", r.Header.Get("Accept"))
		w.Write([]byte(alertsBody))
	}))
	defer srv.Close()

	alerts, err := newTestClient(srv.URL).FetchAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	first := alerts[0]
	assert.Equal(t, "Tornado Warning", first.Event)
	assert.Equal(t, domain.SeverityExtreme, first.Severity)
	assert.Equal(t, domain.CertaintyObserved, first.Certainty)
	assert.Equal(t, []string{"Hinds, MS", "Rankin, MS"}, first.AffectedCounties)
	require.NotNil(t, first.Onset)
	assert.Equal(t, 14, first.Onset.Hour())
	assert.Equal(t, "NWS Jackson MS", first.Sender)

	// Unrecognized enum values fall back to Unknown.
	second := alerts[1]
	assert.Equal(t, domain.SeverityUnknown, second.Severity)
	assert.Equal(t, domain.CertaintyUnknown, second.Certainty)
	assert.Equal(t, []string{"DeSoto"}, second.AffectedCounties)
	assert.Nil(t, second.Onset)
}

func TestFetchAlerts_TruncatesDescription(t *testing.T) {
	long := strings.Repeat("x", 2000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features":[{"properties":{"id":"1","event":"Heat Advisory","description":"` + long + `"}}]}`))
	}))
	defer srv.Close()

	alerts, err := newTestClient(srv.URL).FetchAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Len(t, alerts[0].Description, maxDescriptionLen)
}

func TestFetchAlerts_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	alerts, err := newTestClient(srv.URL).FetchAlerts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchAlerts_FatalStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchAlerts(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

// forecastMux wires up the three-endpoint gridpoint flow the way the real
// API chains them.
func forecastMux(t *testing.T, pointCalls *atomic.Int32) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()

	var base string
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/points/32.2988") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		pointCalls.Add(1)
		base = "http://" + r.Host
		w.Write([]byte(`{"properties":{
			"gridId":"JAN","gridX":54,"gridY":82,
			"forecast":"` + base + `/gridpoints/JAN/54,82/forecast",
			"forecastGridData":"` + base + `/gridpoints/JAN/54,82"}}`))
	})
	mux.HandleFunc("/gridpoints/JAN/54,82/forecast", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"properties":{"periods":[
			{"name":"Today","isDaytime":true,"temperature":88,"shortForecast":"Showers",
			 "windSpeed":"10 mph","windDirection":"SW",
			 "probabilityOfPrecipitation":{"value":40}},
			{"name":"Tonight","isDaytime":false,"temperature":67,"shortForecast":"Clear",
			 "probabilityOfPrecipitation":{"value":null}}
		]}}`))
	})
	mux.HandleFunc("/gridpoints/JAN/54,82", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"properties":{
			"quantitativePrecipitation":{"values":[{"value":12.7},{"value":12.7},{"value":null}]},
			"snowfallAmount":{"values":[{"value":null}]},
			"probabilityOfPrecipitation":{"values":[{"value":20},{"value":65}]}
		}}`))
	})
	return mux
}

func TestFetchForecasts(t *testing.T) {
	var pointCalls atomic.Int32
	srv := httptest.NewServer(forecastMux(t, &pointCalls))
	defer srv.Close()

	client := newTestClient(srv.URL)
	anchors := []domain.Anchor{{Name: "Jackson", Region: "Central", Lat: 32.2988, Lon: -90.1848}}

	forecasts, err := client.FetchForecasts(context.Background(), anchors)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)

	f := forecasts[0]
	assert.Equal(t, "Jackson", f.Location)
	assert.Equal(t, "JAN", f.GridID)
	assert.Equal(t, 54, f.GridX)
	assert.Equal(t, "Showers", f.Conditions)
	assert.Equal(t, "10 mph", f.WindSpeed)
	require.NotNil(t, f.High)
	assert.Equal(t, 88, *f.High)
	require.NotNil(t, f.Low)
	assert.Equal(t, 67, *f.Low)
	require.NotNil(t, f.PoP)
	assert.Equal(t, 40, *f.PoP)
	// 25.4mm over 24h is exactly one inch.
	require.NotNil(t, f.QPF)
	assert.InDelta(t, 1.0, *f.QPF, 0.001)
	require.NotNil(t, f.Snow)
	assert.Equal(t, 0.0, *f.Snow)
	require.Len(t, f.Periods, 2)
	assert.Nil(t, f.Periods[1].PoP)
}

func TestFetchForecasts_PointMetadataCached(t *testing.T) {
	var pointCalls atomic.Int32
	srv := httptest.NewServer(forecastMux(t, &pointCalls))
	defer srv.Close()

	client := newTestClient(srv.URL)
	anchors := []domain.Anchor{{Name: "Jackson", Region: "Central", Lat: 32.2988, Lon: -90.1848}}

	_, err := client.FetchForecasts(context.Background(), anchors)
	require.NoError(t, err)
	_, err = client.FetchForecasts(context.Background(), anchors)
	require.NoError(t, err)

	assert.Equal(t, int32(1), pointCalls.Load())
}

func TestFetchForecasts_AllAnchorsFailing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.FetchForecasts(context.Background(), []domain.Anchor{{Name: "Jackson", Lat: 32.3, Lon: -90.2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no anchor forecasts")
}

func TestFetchForecasts_PartialAnchorFailure(t *testing.T) {
	var pointCalls atomic.Int32
	mux := forecastMux(t, &pointCalls)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(srv.URL)
	anchors := []domain.Anchor{
		{Name: "Jackson", Region: "Central", Lat: 32.2988, Lon: -90.1848},
		{Name: "Nowhere", Region: "Gulf", Lat: 0.0001, Lon: 0.0001}, // /points 404s
	}

	forecasts, err := client.FetchForecasts(context.Background(), anchors)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.Equal(t, "Jackson", forecasts[0].Location)
}
