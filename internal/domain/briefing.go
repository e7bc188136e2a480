package domain

import "time"

// Outlook is one forecast day's worth of hazard polygons for a single
// hazard type, plus the county risk map resolved from them. Polygons are
// transient working data and are not serialized.
type Outlook struct {
	Day         int             `json:"day"`
	ValidTime   string          `json:"valid_time,omitempty"`
	IssueTime   string          `json:"issue_time,omitempty"`
	CountyRisks CountyRiskMap   `json:"county_risks"`
	Polygons    []OutlookPolygon `json:"-"`
}

// RegionalSummary is the per-region view of the briefing: the anchor
// forecast, the region's day-1 hazard risks, and the alerts associated with
// its member counties.
type RegionalSummary struct {
	Region     string `json:"region"`
	AnchorCity string `json:"anchor_city"`

	CurrentTemp       *int   `json:"current_temp,omitempty"`
	CurrentConditions string `json:"current_conditions,omitempty"`
	CurrentWind       string `json:"current_wind,omitempty"`

	High *int `json:"high_temp,omitempty"`
	Low  *int `json:"low_temp,omitempty"`

	PoP              *int     `json:"pop,omitempty"`
	ExpectedRainfall *float64 `json:"expected_rainfall,omitempty"`

	DailyForecasts []DailyForecast `json:"daily_forecasts"`

	SevereRiskDay1   RiskLevel `json:"severe_risk_day1"`
	RainfallRiskDay1 RiskLevel `json:"rainfall_risk_day1"`

	Conditions string  `json:"conditions,omitempty"`
	Alerts     []Alert `json:"alerts"`
}

// Briefing is the root aggregate produced once per run. It is never mutated
// after construction; list and map fields are always non-nil so downstream
// consumers need no null handling beyond "empty".
type Briefing struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	ValidDate   string    `json:"valid_date"`
	TimeOfDay   string    `json:"time_of_day"` // Morning, Afternoon, Evening

	Alerts       []Alert            `json:"alerts"`
	AlertsByType map[string][]Alert `json:"alerts_by_type"`

	SevereOutlooks []Outlook `json:"severe_outlooks"`
	SevereSummary  string    `json:"severe_summary,omitempty"`

	RainfallOutlooks []Outlook `json:"rainfall_outlooks"`
	RainfallSummary  string    `json:"rainfall_summary,omitempty"`

	TropicalSystems []TropicalSystem `json:"tropical_systems"`
	TropicalSummary string           `json:"tropical_summary,omitempty"`

	WinterSummary string `json:"winter_summary,omitempty"`

	RegionalSummaries []RegionalSummary `json:"regional_summaries"`
	StatewideOverview string            `json:"statewide_overview"`

	SourcesUsed []string `json:"sources_used"`
	DataGaps    []string `json:"data_gaps"`
}
