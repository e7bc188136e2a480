package domain

import (
	"sort"
	"strings"
)

// CountiesByRegion groups county names by their region. Counties without a
// name are skipped; counties without a region group under "Unknown".
func CountiesByRegion(counties []County) map[string][]string {
	byRegion := make(map[string][]string)
	for _, c := range counties {
		if c.Name == "" {
			continue
		}
		region := c.Region
		if region == "" {
			region = "Unknown"
		}
		byRegion[region] = append(byRegion[region], c.Name)
	}
	return byRegion
}

// CountyToRegion builds the county-name to region-name lookup.
func CountyToRegion(counties []County) map[string]string {
	lookup := make(map[string]string, len(counties))
	for _, c := range counties {
		if c.Name == "" {
			continue
		}
		region := c.Region
		if region == "" {
			region = "Unknown"
		}
		lookup[c.Name] = region
	}
	return lookup
}

// RegionRisk rolls a county risk map up to regions: each region takes the
// maximum risk over its member counties, counties absent from the map
// contributing RiskNone. Every region in countyToRegion appears in the
// result, at RiskNone when no member county carries risk.
func RegionRisk(scale *RiskScale, risks CountyRiskMap, countyToRegion map[string]string) map[string]RiskLevel {
	regionRisks := make(map[string]RiskLevel)
	for _, region := range countyToRegion {
		if _, ok := regionRisks[region]; !ok {
			regionRisks[region] = RiskNone
		}
	}
	for county, level := range risks {
		region, ok := countyToRegion[county]
		if !ok {
			region = "Unknown"
		}
		if scale.Upgrade(regionRisks[region], level) {
			regionRisks[region] = level
		}
	}
	return regionRisks
}

// AlertsForRegion returns the alerts whose affected-area tokens mention any
// member county of the region, matched case-insensitively as a substring.
// The loose match tolerates inconsistent upstream area text ("Hinds",
// "Hinds County", "Hinds, MS") at the cost of occasional over-association
// when a county name is embedded in an unrelated place name.
func AlertsForRegion(alerts []Alert, memberCounties []string) []Alert {
	var matched []Alert
	for _, alert := range alerts {
		if alertMentionsAny(alert, memberCounties) {
			matched = append(matched, alert)
		}
	}
	return matched
}

func alertMentionsAny(alert Alert, counties []string) bool {
	for _, token := range alert.AffectedCounties {
		lower := strings.ToLower(token)
		for _, county := range counties {
			if county == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(county)) {
				return true
			}
		}
	}
	return false
}

// AlertCounties returns the deduplicated, alphabetically sorted list of
// county tokens across all alerts.
func AlertCounties(alerts []Alert) []string {
	seen := make(map[string]struct{})
	for _, alert := range alerts {
		for _, county := range alert.AffectedCounties {
			county = strings.TrimSpace(county)
			if county != "" {
				seen[county] = struct{}{}
			}
		}
	}

	counties := make([]string, 0, len(seen))
	for county := range seen {
		counties = append(counties, county)
	}
	sort.Strings(counties)
	return counties
}
