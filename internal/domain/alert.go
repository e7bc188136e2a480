package domain

import "time"

// AlertSeverity is the NWS alert severity enumeration.
type AlertSeverity string

const (
	SeverityExtreme  AlertSeverity = "Extreme"
	SeveritySevere   AlertSeverity = "Severe"
	SeverityModerate AlertSeverity = "Moderate"
	SeverityMinor    AlertSeverity = "Minor"
	SeverityUnknown  AlertSeverity = "Unknown"
)

// ParseAlertSeverity maps an upstream severity string to the enumeration,
// falling back to Unknown for unrecognized values.
func ParseAlertSeverity(s string) AlertSeverity {
	switch AlertSeverity(s) {
	case SeverityExtreme, SeveritySevere, SeverityModerate, SeverityMinor:
		return AlertSeverity(s)
	default:
		return SeverityUnknown
	}
}

// AlertCertainty is the NWS alert certainty enumeration.
type AlertCertainty string

const (
	CertaintyObserved AlertCertainty = "Observed"
	CertaintyLikely   AlertCertainty = "Likely"
	CertaintyPossible AlertCertainty = "Possible"
	CertaintyUnlikely AlertCertainty = "Unlikely"
	CertaintyUnknown  AlertCertainty = "Unknown"
)

// ParseAlertCertainty maps an upstream certainty string to the enumeration,
// falling back to Unknown for unrecognized values.
func ParseAlertCertainty(s string) AlertCertainty {
	switch AlertCertainty(s) {
	case CertaintyObserved, CertaintyLikely, CertaintyPossible, CertaintyUnlikely:
		return AlertCertainty(s)
	default:
		return CertaintyUnknown
	}
}

// Alert is a normalized active weather alert. AffectedCounties holds the
// county-like tokens parsed from the free-text area description; the tokens
// are not validated against the county configuration.
type Alert struct {
	ID               string         `json:"id"`
	Event            string         `json:"event"`
	Headline         string         `json:"headline"`
	Description      string         `json:"description,omitempty"`
	Instruction      string         `json:"instruction,omitempty"`
	Severity         AlertSeverity  `json:"severity"`
	Certainty        AlertCertainty `json:"certainty"`
	Onset            *time.Time     `json:"onset,omitempty"`
	Expires          *time.Time     `json:"expires,omitempty"`
	AffectedZones    []string       `json:"affected_zones,omitempty"`
	AffectedCounties []string       `json:"affected_counties"`
	Sender           string         `json:"sender,omitempty"`
	MessageType      string         `json:"message_type,omitempty"`
}

// GroupAlertsByType buckets alerts by their event type, preserving input
// order within each bucket.
func GroupAlertsByType(alerts []Alert) map[string][]Alert {
	grouped := make(map[string][]Alert)
	for _, alert := range alerts {
		grouped[alert.Event] = append(grouped[alert.Event], alert)
	}
	return grouped
}
