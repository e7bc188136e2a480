package domain

import "strings"

// maxDailyForecasts caps the extended forecast at one week.
const maxDailyForecasts = 7

// ForecastPeriod is one raw day or night period from a gridpoint forecast,
// e.g. "Today", "Tonight", "Monday", "Monday Night". A nil PoP means the
// upstream reported no precipitation probability, which is distinct from 0.
type ForecastPeriod struct {
	Name             string `json:"name"`
	IsDaytime        bool   `json:"is_daytime"`
	Temperature      int    `json:"temperature"`
	ShortForecast    string `json:"short_forecast"`
	DetailedForecast string `json:"detailed_forecast,omitempty"`
	WindSpeed        string `json:"wind_speed,omitempty"`
	WindDirection    string `json:"wind_direction,omitempty"`
	PoP              *int   `json:"pop,omitempty"`
}

// DailyForecast is one calendar day built from paired day/night periods.
// High or Low is nil when the pairing only saw one half of the day.
type DailyForecast struct {
	Day        string `json:"day"`
	High       *int   `json:"high,omitempty"`
	Low        *int   `json:"low,omitempty"`
	Conditions string `json:"conditions,omitempty"`
	Detailed   string `json:"-"`
	PoP        *int   `json:"pop,omitempty"`
	Wind       string `json:"wind,omitempty"`
}

// ExtractDailyForecasts pairs raw day/night periods into at most seven daily
// entries with a single forward pass and one-period lookahead:
//
//   - daytime period followed by its night ("X Night" or "Tonight"): the
//     night supplies the low and the larger of the two PoP values; both
//     periods are consumed.
//   - nighttime period followed by a day period: the day supplies the high
//     and replaces the conditions; both periods are consumed.
//   - otherwise a single-sided entry is emitted from the current period.
//
// The sequence need not start on a daytime period.
func ExtractDailyForecasts(periods []ForecastPeriod) []DailyForecast {
	var daily []DailyForecast

	i := 0
	for i < len(periods) && len(daily) < maxDailyForecasts {
		period := periods[i]

		entry := DailyForecast{
			Day:        dayLabel(period.Name),
			Conditions: period.ShortForecast,
			Detailed:   period.DetailedForecast,
			Wind:       windLabel(period.WindSpeed, period.WindDirection),
			PoP:        copyIntPtr(period.PoP),
		}

		temp := period.Temperature
		if period.IsDaytime {
			entry.High = &temp
		} else {
			entry.Low = &temp
		}

		if i+1 < len(periods) {
			next := periods[i+1]
			nextTemp := next.Temperature

			switch {
			case period.IsDaytime && isNightName(next.Name):
				entry.Low = &nextTemp
				if next.PoP != nil && (entry.PoP == nil || *next.PoP > *entry.PoP) {
					entry.PoP = copyIntPtr(next.PoP)
				}
				i++
			case !period.IsDaytime && !strings.Contains(next.Name, "Night"):
				entry.High = &nextTemp
				entry.Conditions = next.ShortForecast
				i++
			}
		}

		daily = append(daily, entry)
		i++
	}

	return daily
}

// dayLabel strips the night qualifier so both halves of a calendar day share
// one label: "Monday Night" -> "Monday", "Tonight" -> "Today".
func dayLabel(name string) string {
	name = strings.ReplaceAll(name, " Night", "")
	return strings.ReplaceAll(name, "Tonight", "Today")
}

func isNightName(name string) bool {
	return strings.Contains(name, "Night") || name == "Tonight"
}

func windLabel(speed, direction string) string {
	if speed == "" {
		return ""
	}
	if direction == "" {
		return speed
	}
	return speed + " " + direction
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Anchor is a fixed forecast location, one or two per region, whose
// gridpoint forecast stands in for the region in the briefing.
type Anchor struct {
	Name   string  `yaml:"name"`
	Region string  `yaml:"region"`
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
}

// AnchorForecast is the normalized gridpoint forecast for one anchor
// location. Pointer fields are nil when the upstream omitted the value.
type AnchorForecast struct {
	Location string  `json:"location"`
	Region   string  `json:"region"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`

	GridID string `json:"grid_id,omitempty"`
	GridX  int    `json:"grid_x,omitempty"`
	GridY  int    `json:"grid_y,omitempty"`

	High          *int     `json:"high,omitempty"`
	Low           *int     `json:"low,omitempty"`
	PoP           *int     `json:"pop,omitempty"`
	QPF           *float64 `json:"qpf,omitempty"`  // 24h liquid precip, inches
	Snow          *float64 `json:"snow,omitempty"` // 24h snowfall, inches
	WindSpeed     string   `json:"wind_speed,omitempty"`
	WindDirection string   `json:"wind_direction,omitempty"`
	Conditions    string   `json:"conditions,omitempty"`
	Detailed      string   `json:"-"`

	Periods []ForecastPeriod `json:"-"`
}
