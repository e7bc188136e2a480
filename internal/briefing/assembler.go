package briefing

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mswxdesk/weather-briefing-service/internal/domain"
	"github.com/mswxdesk/weather-briefing-service/internal/observability"
)

// AlertSource fetches the active alerts for the configured area.
type AlertSource interface {
	FetchAlerts(ctx context.Context) ([]domain.Alert, error)
}

// ForecastSource fetches gridpoint forecasts for the anchor locations.
type ForecastSource interface {
	FetchForecasts(ctx context.Context, anchors []domain.Anchor) ([]domain.AnchorForecast, error)
}

// OutlookSource fetches hazard outlook polygons, one Outlook per day.
type OutlookSource interface {
	FetchOutlooks(ctx context.Context) ([]domain.Outlook, error)
}

// TropicalSource fetches active tropical systems with impact assessments.
type TropicalSource interface {
	FetchSystems(ctx context.Context) ([]domain.TropicalSystem, error)
}

// Sources bundles the five upstream feeds the assembler fans out to.
// Tropical may be nil when no tropical feed is configured.
type Sources struct {
	Alerts    AlertSource
	Forecasts ForecastSource
	Severe    OutlookSource
	Rainfall  OutlookSource
	Tropical  TropicalSource
}

// Assembler builds briefings from the configured sources. Safe for
// concurrent use: Latest and CheckReadiness may be called while Build runs.
type Assembler struct {
	sources  Sources
	resolver domain.CountyResolver
	counties []domain.County
	anchors  []domain.Anchor
	areaName string
	location *time.Location

	logger  *slog.Logger
	metrics *observability.Metrics

	ready  atomic.Bool
	latest atomic.Pointer[domain.Briefing]
}

// New creates an Assembler over the given sources and geography.
func New(
	sources Sources,
	resolver domain.CountyResolver,
	counties []domain.County,
	anchors []domain.Anchor,
	areaName string,
	location *time.Location,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Assembler {
	return &Assembler{
		sources:  sources,
		resolver: resolver,
		counties: counties,
		anchors:  anchors,
		areaName: areaName,
		location: location,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once at least one briefing has been built,
// or an error describing why the service is not yet ready.
func (a *Assembler) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("no briefing has been built yet")
	}
	return nil
}

// Latest returns the most recently built briefing, or nil before the first.
func (a *Assembler) Latest() *domain.Briefing {
	return a.latest.Load()
}

// sourceResult is one source's contribution to the fan-in: the source name
// recorded when the fetch succeeded, or the gap string and error when it
// failed. A source failure degrades the briefing, it never aborts it.
type sourceResult struct {
	name string
	gap  string
	err  error
}

// fetched is the fan-in barrier's collected state.
type fetched struct {
	alerts    []domain.Alert
	forecasts []domain.AnchorForecast
	severe    []domain.Outlook
	rainfall  []domain.Outlook
	tropical  []domain.TropicalSystem

	results [5]sourceResult
}

const (
	srcAlerts = iota
	srcForecasts
	srcSevere
	srcRainfall
	srcTropical
)

// Build fetches all sources concurrently and synthesizes one briefing.
// Individual source failures become data gaps; Build errors only when every
// source failed and no forecast data is available.
func (a *Assembler) Build(ctx context.Context) (*domain.Briefing, error) {
	start := time.Now()
	a.logger.Info("building briefing", "anchors", len(a.anchors), "counties", len(a.counties))

	f := a.fetchAll(ctx)

	failures := 0
	for _, r := range f.results {
		if r.err != nil {
			failures++
			a.logger.Error("source fetch failed", "source", r.gap, "error", r.err)
		}
	}
	total := 4
	if a.sources.Tropical != nil {
		total = 5
	}
	if failures == total && len(f.forecasts) == 0 {
		return nil, errors.New("all sources unavailable")
	}

	for i := range f.severe {
		f.severe[i].CountyRisks = domain.AggregateCountyRisks(domain.SevereScale, f.severe[i].Polygons, a.resolver)
	}
	for i := range f.rainfall {
		f.rainfall[i].CountyRisks = domain.AggregateCountyRisks(domain.RainfallScale, f.rainfall[i].Polygons, a.resolver)
	}

	severeText := severeSummary(f.severe, a.areaName)
	rainfallText := rainfallSummary(f.rainfall, f.forecasts)
	winterText := winterSummary(f.forecasts)
	tropicalText := tropicalSummary(f.tropical)

	summaries := a.regionalSummaries(f)
	overview := statewideOverview(f.alerts, summaries, severeText, rainfallText, tropicalText, a.areaName)

	now := domain.Now().In(a.location)

	briefing := &domain.Briefing{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		ValidDate:   now.Format("2006-01-02"),
		TimeOfDay:   timeOfDay(now),

		Alerts:       f.alerts,
		AlertsByType: domain.GroupAlertsByType(f.alerts),

		SevereOutlooks: f.severe,
		SevereSummary:  severeText,

		RainfallOutlooks: f.rainfall,
		RainfallSummary:  rainfallText,

		TropicalSystems: f.tropical,
		TropicalSummary: tropicalText,

		WinterSummary: winterText,

		RegionalSummaries: summaries,
		StatewideOverview: overview,

		SourcesUsed: sourcesUsed(f.results),
		DataGaps:    dataGaps(f.results),
	}
	normalize(briefing)

	a.latest.Store(briefing)
	a.ready.Store(true)

	a.metrics.BriefingsBuilt.Inc()
	a.metrics.BriefingBuildDuration.Observe(time.Since(start).Seconds())
	a.metrics.DataGaps.Set(float64(len(briefing.DataGaps)))
	a.metrics.LastBriefingTime.Set(float64(briefing.GeneratedAt.Unix()))

	a.logger.Info("briefing complete",
		"id", briefing.ID,
		"alerts", len(briefing.Alerts),
		"forecasts", len(f.forecasts),
		"sources", briefing.SourcesUsed,
		"gaps", briefing.DataGaps,
	)
	return briefing, nil
}

// fetchAll fans out to the five sources and blocks until all return.
func (a *Assembler) fetchAll(ctx context.Context) *fetched {
	f := &fetched{}

	var wg sync.WaitGroup
	run := func(idx int, name, gap string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := fetch()
			a.metrics.SourceFetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			if err != nil {
				a.metrics.SourceFetches.WithLabelValues(name, "error").Inc()
				f.results[idx] = sourceResult{gap: gap, err: err}
				return
			}
			a.metrics.SourceFetches.WithLabelValues(name, "success").Inc()
			f.results[idx] = sourceResult{name: name}
		}()
	}

	run(srcAlerts, "NWS Active Alerts API", "NWS alerts unavailable", func() error {
		alerts, err := a.sources.Alerts.FetchAlerts(ctx)
		f.alerts = alerts
		return err
	})
	run(srcForecasts, "NWS Gridpoint Forecast API", "NWS forecasts unavailable", func() error {
		forecasts, err := a.sources.Forecasts.FetchForecasts(ctx, a.anchors)
		f.forecasts = forecasts
		return err
	})
	run(srcSevere, "SPC Convective Outlooks (NOAA MapServer)", "SPC outlooks unavailable", func() error {
		outlooks, err := a.sources.Severe.FetchOutlooks(ctx)
		f.severe = outlooks
		return err
	})
	run(srcRainfall, "WPC Excessive Rainfall Outlook (NOAA MapServer)", "WPC ERO unavailable", func() error {
		outlooks, err := a.sources.Rainfall.FetchOutlooks(ctx)
		f.rainfall = outlooks
		return err
	})
	if a.sources.Tropical != nil {
		run(srcTropical, "NHC Current Storms JSON", "NHC data unavailable", func() error {
			systems, err := a.sources.Tropical.FetchSystems(ctx)
			f.tropical = systems
			return err
		})
	}

	wg.Wait()

	// A quiet basin is not a source worth listing: the tropical feed counts
	// as used only when it reported at least one system.
	if f.results[srcTropical].err == nil && len(f.tropical) == 0 {
		f.results[srcTropical] = sourceResult{}
	}
	return f
}

// regionalSummaries builds one summary per anchor forecast, attaching the
// region's day-1 hazard risks and its member counties' alerts.
func (a *Assembler) regionalSummaries(f *fetched) []domain.RegionalSummary {
	countiesByRegion := domain.CountiesByRegion(a.counties)
	countyToRegion := domain.CountyToRegion(a.counties)

	severeByRegion := domain.RegionRisk(domain.SevereScale, dayOneRisks(domain.SevereScale, f.severe), countyToRegion)
	rainfallByRegion := domain.RegionRisk(domain.RainfallScale, dayOneRisks(domain.RainfallScale, f.rainfall), countyToRegion)

	summaries := make([]domain.RegionalSummary, 0, len(f.forecasts))
	for _, forecast := range f.forecasts {
		currentTemp := forecast.High
		if currentTemp == nil {
			currentTemp = forecast.Low
		}

		summary := domain.RegionalSummary{
			Region:     forecast.Region,
			AnchorCity: forecast.Location,

			CurrentTemp:       currentTemp,
			CurrentConditions: forecast.Conditions,
			CurrentWind:       windText(forecast.WindSpeed, forecast.WindDirection),

			High: forecast.High,
			Low:  forecast.Low,

			PoP:              forecast.PoP,
			ExpectedRainfall: forecast.QPF,

			DailyForecasts: domain.ExtractDailyForecasts(forecast.Periods),

			SevereRiskDay1:   riskOrNone(severeByRegion, forecast.Region),
			RainfallRiskDay1: riskOrNone(rainfallByRegion, forecast.Region),

			Conditions: forecast.Conditions,
			Alerts:     domain.AlertsForRegion(f.alerts, countiesByRegion[forecast.Region]),
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// dayOneRisks merges the county maps of every day-1 outlook.
func dayOneRisks(scale *domain.RiskScale, outlooks []domain.Outlook) domain.CountyRiskMap {
	maps := make([]domain.CountyRiskMap, 0, len(outlooks))
	for _, outlook := range outlooks {
		if outlook.Day == 1 {
			maps = append(maps, outlook.CountyRisks)
		}
	}
	return domain.MergeRiskMaps(scale, maps...)
}

func riskOrNone(byRegion map[string]domain.RiskLevel, region string) domain.RiskLevel {
	if level, ok := byRegion[region]; ok {
		return level
	}
	return domain.RiskNone
}

func windText(speed, direction string) string {
	if speed == "" {
		return ""
	}
	if direction == "" {
		return speed
	}
	return speed + " " + direction
}

// timeOfDay buckets the local hour: 04-10 Morning, 11-16 Afternoon,
// Evening otherwise.
func timeOfDay(t time.Time) string {
	switch hour := t.Hour(); {
	case hour >= 4 && hour < 11:
		return "Morning"
	case hour >= 11 && hour < 17:
		return "Afternoon"
	default:
		return "Evening"
	}
}

func sourcesUsed(results [5]sourceResult) []string {
	used := make([]string, 0, len(results))
	for _, r := range results {
		if r.name != "" {
			used = append(used, r.name)
		}
	}
	return used
}

func dataGaps(results [5]sourceResult) []string {
	gaps := make([]string, 0)
	for _, r := range results {
		if r.err != nil {
			gaps = append(gaps, r.gap)
		}
	}
	return gaps
}

// normalize replaces nil collections with empty ones so the serialized
// briefing never contains null lists or maps.
func normalize(b *domain.Briefing) {
	if b.Alerts == nil {
		b.Alerts = []domain.Alert{}
	}
	if b.AlertsByType == nil {
		b.AlertsByType = map[string][]domain.Alert{}
	}
	if b.SevereOutlooks == nil {
		b.SevereOutlooks = []domain.Outlook{}
	}
	if b.RainfallOutlooks == nil {
		b.RainfallOutlooks = []domain.Outlook{}
	}
	if b.TropicalSystems == nil {
		b.TropicalSystems = []domain.TropicalSystem{}
	}
	if b.RegionalSummaries == nil {
		b.RegionalSummaries = []domain.RegionalSummary{}
	}
	for i := range b.RegionalSummaries {
		if b.RegionalSummaries[i].Alerts == nil {
			b.RegionalSummaries[i].Alerts = []domain.Alert{}
		}
		if b.RegionalSummaries[i].DailyForecasts == nil {
			b.RegionalSummaries[i].DailyForecasts = []domain.DailyForecast{}
		}
	}
	for i := range b.SevereOutlooks {
		if b.SevereOutlooks[i].CountyRisks == nil {
			b.SevereOutlooks[i].CountyRisks = domain.CountyRiskMap{}
		}
	}
	for i := range b.RainfallOutlooks {
		if b.RainfallOutlooks[i].CountyRisks == nil {
			b.RainfallOutlooks[i].CountyRisks = domain.CountyRiskMap{}
		}
	}
}
