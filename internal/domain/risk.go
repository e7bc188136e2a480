package domain

import "strings"

// RiskLevel is one value of an ordered hazard scale. The zero value is not
// meaningful; RiskNone is the explicit bottom of every scale.
type RiskLevel string

const (
	RiskNone     RiskLevel = "None"
	RiskThunder  RiskLevel = "General Thunder"
	RiskMarginal RiskLevel = "Marginal"
	RiskSlight   RiskLevel = "Slight"
	RiskEnhanced RiskLevel = "Enhanced"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// RiskScale is a fixed ordered table of risk levels. Comparisons are only
// meaningful within a single scale; callers hold exactly one scale and never
// compare levels across scales.
type RiskScale struct {
	name     string
	order    []RiskLevel
	ordinals map[RiskLevel]int
	aliases  map[string]RiskLevel
}

// SevereScale is the SPC categorical convective outlook scale.
var SevereScale = newRiskScale("severe",
	[]RiskLevel{RiskNone, RiskThunder, RiskMarginal, RiskSlight, RiskEnhanced, RiskModerate, RiskHigh},
	map[string]RiskLevel{
		"TSTM":                 RiskThunder,
		"GENERAL THUNDER":      RiskThunder,
		"GENERAL THUNDERSTORM": RiskThunder,
		"MRGL":                 RiskMarginal,
		"MARGINAL":             RiskMarginal,
		"SLGT":                 RiskSlight,
		"SLIGHT":               RiskSlight,
		"ENH":                  RiskEnhanced,
		"ENHANCED":             RiskEnhanced,
		"MDT":                  RiskModerate,
		"MODERATE":             RiskModerate,
		"HIGH":                 RiskHigh,
	})

// RainfallScale is the WPC excessive rainfall outlook scale.
var RainfallScale = newRiskScale("rainfall",
	[]RiskLevel{RiskNone, RiskMarginal, RiskSlight, RiskModerate, RiskHigh},
	map[string]RiskLevel{
		"MRGL":     RiskMarginal,
		"MARGINAL": RiskMarginal,
		"SLGT":     RiskSlight,
		"SLIGHT":   RiskSlight,
		"MDT":      RiskModerate,
		"MODERATE": RiskModerate,
		"HIGH":     RiskHigh,
	})

func newRiskScale(name string, order []RiskLevel, aliases map[string]RiskLevel) *RiskScale {
	ordinals := make(map[RiskLevel]int, len(order))
	for i, level := range order {
		ordinals[level] = i
	}
	return &RiskScale{name: name, order: order, ordinals: ordinals, aliases: aliases}
}

// Name returns the scale identifier ("severe" or "rainfall").
func (s *RiskScale) Name() string { return s.name }

// Ordinal returns the position of level within the scale. Levels that do not
// belong to the scale rank as the bottom (0).
func (s *RiskScale) Ordinal(level RiskLevel) int {
	return s.ordinals[level]
}

// Upgrade reports whether candidate outranks current within this scale.
// It is a strict comparison: equal levels never upgrade, so folding with
// Upgrade is idempotent, commutative, and associative.
func (s *RiskScale) Upgrade(current, candidate RiskLevel) bool {
	return s.Ordinal(candidate) > s.Ordinal(current)
}

// Max returns the higher-ranked of a and b within this scale.
func (s *RiskScale) Max(a, b RiskLevel) RiskLevel {
	if s.Upgrade(a, b) {
		return b
	}
	return a
}

// Parse maps an upstream risk label (abbreviation or full word, any case)
// to a level of this scale. Unknown or empty labels map to RiskNone.
func (s *RiskScale) Parse(label string) RiskLevel {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return RiskNone
	}
	if level, ok := s.aliases[label]; ok {
		return level
	}
	return RiskNone
}
