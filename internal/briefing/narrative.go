package briefing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mswxdesk/weather-briefing-service/internal/domain"
)

// Narrative text is deterministic: fixed phrasing per risk level, no
// generation. The same inputs always produce the same briefing text.

var severeRiskText = map[domain.RiskLevel]string{
	domain.RiskThunder:  "general thunderstorm risk",
	domain.RiskMarginal: "marginal severe risk",
	domain.RiskSlight:   "slight severe risk",
	domain.RiskEnhanced: "enhanced severe risk",
	domain.RiskModerate: "moderate severe risk",
	domain.RiskHigh:     "HIGH severe risk",
}

var rainfallRiskText = map[domain.RiskLevel]string{
	domain.RiskMarginal: "marginal excessive rainfall risk",
	domain.RiskSlight:   "slight excessive rainfall risk",
	domain.RiskModerate: "moderate excessive rainfall risk",
	domain.RiskHigh:     "HIGH excessive rainfall risk",
}

// severeSummary describes the severe potential per outlook day, e.g.
// "Day 1: Slight Severe Risk for portions of Mississippi | Day 2: ...".
// Days whose county map carries no risk are omitted; when no day qualifies
// but day 1 still has at least general thunder, a single "possible" line is
// emitted instead. Empty means nothing to report.
func severeSummary(outlooks []domain.Outlook, areaName string) string {
	var lines []string
	for _, outlook := range outlooks {
		top := outlook.CountyRisks.MaxRisk(domain.SevereScale)
		if top == domain.RiskNone {
			continue
		}
		lines = append(lines, fmt.Sprintf("Day %d: %s for portions of %s",
			outlook.Day, titleCase(severeRiskText[top]), areaName))
	}
	if len(lines) > 0 {
		return strings.Join(lines, " | ")
	}

	if top := maxRiskForDay(outlooks, 1, domain.SevereScale); top != domain.RiskNone {
		return fmt.Sprintf("Day 1: %s possible", titleCase(severeRiskText[top]))
	}
	return ""
}

// rainfallSummary combines the day-1 excessive rainfall category with the
// highest 24h QPF across anchors, joined by ". ".
func rainfallSummary(outlooks []domain.Outlook, forecasts []domain.AnchorForecast) string {
	var parts []string

	if top := maxRiskForDay(outlooks, 1, domain.RainfallScale); top != domain.RiskNone {
		parts = append(parts, titleCase(rainfallRiskText[top]))
	}

	maxQPF := 0.0
	maxQPFLocation := ""
	for _, f := range forecasts {
		if f.QPF != nil && *f.QPF > maxQPF {
			maxQPF = *f.QPF
			maxQPFLocation = f.Location
		}
	}
	switch {
	case maxQPF >= 1.0:
		parts = append(parts, fmt.Sprintf("Up to %.1f inches possible near %s", maxQPF, maxQPFLocation))
	case maxQPF > 0:
		parts = append(parts, fmt.Sprintf("Light rainfall amounts expected (up to %.1f inches)", maxQPF))
	}

	return strings.Join(parts, ". ")
}

// winterSummary reports accumulating snow and freezing lows across anchors.
func winterSummary(forecasts []domain.AnchorForecast) string {
	maxSnow := 0.0
	snowLocation := ""
	var minLow *int
	coldLocation := ""

	for _, f := range forecasts {
		if f.Snow != nil && *f.Snow > maxSnow {
			maxSnow = *f.Snow
			snowLocation = f.Location
		}
		if f.Low != nil && (minLow == nil || *f.Low < *minLow) {
			low := *f.Low
			minLow = &low
			coldLocation = f.Location
		}
	}

	var parts []string
	if maxSnow >= 0.5 {
		parts = append(parts, fmt.Sprintf("Snow possible: up to %.1f inches near %s", maxSnow, snowLocation))
	}
	if minLow != nil && *minLow <= 32 {
		parts = append(parts, fmt.Sprintf("Freezing temperatures expected (low of %d°F near %s)", *minLow, coldLocation))
	}
	return strings.Join(parts, ". ")
}

// tropicalSummary lists each active system with its precomputed impact
// assessment, or a monitoring note when the system poses none.
func tropicalSummary(systems []domain.TropicalSystem) string {
	var lines []string
	for _, system := range systems {
		if system.Impacts != "" {
			lines = append(lines, fmt.Sprintf("%s %s: %s", system.Classification, system.Name, system.Impacts))
		} else {
			lines = append(lines, fmt.Sprintf("%s %s being monitored", system.Classification, system.Name))
		}
	}
	return strings.Join(lines, " | ")
}

// statewideOverview is the single top-line narrative: alert count and types,
// temperature ranges across anchors, then the hazard summaries in fixed
// tropical/severe/rainfall order.
func statewideOverview(
	alerts []domain.Alert,
	summaries []domain.RegionalSummary,
	severe, rainfall, tropical, areaName string,
) string {
	var parts []string

	if len(alerts) > 0 {
		types := make(map[string]struct{})
		for _, alert := range alerts {
			types[alert.Event] = struct{}{}
		}
		names := make([]string, 0, len(types))
		for name := range types {
			names = append(names, name)
		}
		sort.Strings(names)
		parts = append(parts, fmt.Sprintf("%d active alert(s) including: %s", len(alerts), strings.Join(names, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("No active weather alerts for %s", areaName))
	}

	var highs, lows []int
	for _, s := range summaries {
		if s.High != nil {
			highs = append(highs, *s.High)
		}
		if s.Low != nil {
			lows = append(lows, *s.Low)
		}
	}
	if len(highs) > 0 {
		parts = append(parts, fmt.Sprintf("Highs ranging from %d°F to %d°F across the state", minOf(highs), maxOf(highs)))
	}
	if len(lows) > 0 {
		parts = append(parts, fmt.Sprintf("Lows ranging from %d°F to %d°F", minOf(lows), maxOf(lows)))
	}

	if tropical != "" {
		parts = append(parts, "Tropical: "+tropical)
	}
	if severe != "" {
		parts = append(parts, "Severe: "+severe)
	}
	if rainfall != "" {
		parts = append(parts, "Rainfall: "+rainfall)
	}

	return strings.Join(parts, ". ")
}

// maxRiskForDay folds the raw polygon risks of every outlook for the given
// day. Polygon risks, not county risks: a hazard area inside the query
// envelope still counts even when it resolved to no county.
func maxRiskForDay(outlooks []domain.Outlook, day int, scale *domain.RiskScale) domain.RiskLevel {
	top := domain.RiskNone
	for _, outlook := range outlooks {
		if outlook.Day != day {
			continue
		}
		for _, poly := range outlook.Polygons {
			top = scale.Max(top, poly.Risk)
		}
	}
	return top
}

// titleCase uppercases the first letter of each word and lowercases the
// rest, matching the briefing's narrative register ("HIGH severe risk" ->
// "High Severe Risk").
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

func minOf(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		m = min(m, v)
	}
	return m
}

func maxOf(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		m = max(m, v)
	}
	return m
}
