package domain

// CountyRiskMap maps county names to their highest resolved risk for one
// hazard type on one forecast day. Counties touched by no polygon are absent
// and read as RiskNone via RiskFor.
type CountyRiskMap map[string]RiskLevel

// RiskFor returns the stored risk for county, or RiskNone when absent.
func (m CountyRiskMap) RiskFor(county string) RiskLevel {
	if level, ok := m[county]; ok {
		return level
	}
	return RiskNone
}

// AggregateCountyRisks folds a source's polygons into a per-county risk map.
// Each polygon's covered counties take the polygon's risk when it upgrades
// the stored level. The fold is confluent: polygon order never changes the
// result, and disjoint polygon subsets aggregated separately merge back with
// MergeRiskMaps to the identical map.
func AggregateCountyRisks(scale *RiskScale, polygons []OutlookPolygon, resolver CountyResolver) CountyRiskMap {
	risks := make(CountyRiskMap)
	for _, poly := range polygons {
		if len(poly.Rings) == 0 {
			continue
		}
		for _, county := range resolver.Resolve(poly) {
			if scale.Upgrade(risks.RiskFor(county), poly.Risk) {
				risks[county] = poly.Risk
			}
		}
	}
	return risks
}

// MergeRiskMaps combines risk maps pairwise with the upgrade rule, keeping
// the highest level seen for each county. Merging is associative and
// commutative, so maps computed in parallel may be reduced in any order.
func MergeRiskMaps(scale *RiskScale, maps ...CountyRiskMap) CountyRiskMap {
	merged := make(CountyRiskMap)
	for _, m := range maps {
		for county, level := range m {
			if scale.Upgrade(merged.RiskFor(county), level) {
				merged[county] = level
			}
		}
	}
	return merged
}

// MaxRisk returns the highest risk level present in the map.
func (m CountyRiskMap) MaxRisk(scale *RiskScale) RiskLevel {
	top := RiskNone
	for _, level := range m {
		top = scale.Max(top, level)
	}
	return top
}
