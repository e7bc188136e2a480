package nhc

import (
	"fmt"
	"math"
)

// Impact assessment is relative to the state centroid; systems beyond the
// monitoring radius are dropped entirely.
const (
	centerLat = 32.5
	centerLon = -89.75

	impactRadiusMiles  = 400
	monitorRadiusMiles = 600

	earthRadiusMiles = 3959

	hurricaneForceMPH     = 74
	tropicalStormForceMPH = 39
)

// impact is the distance-tiered threat assessment for one system.
type impact struct {
	distanceMiles int
	withinZone    bool
	summary       string
	windThreat    string
	rainThreat    string
	surgeThreat   string
}

// assess tiers the threat by distance to the state centroid and storm
// intensity. Within 100 miles the system is a direct threat, within 200
// peripheral, within the impact radius indirect; beyond that it is only
// monitored.
func assess(lat, lon float64, intensity int, areaName string) impact {
	distance := haversineMiles(lat, lon, centerLat, centerLon)

	result := impact{
		distanceMiles: int(math.Round(distance)),
		withinZone:    distance <= impactRadiusMiles,
	}

	if !result.withinZone {
		result.summary = fmt.Sprintf("System is %d miles from %s - monitoring", result.distanceMiles, areaName)
		return result
	}

	switch {
	case distance < 100:
		result.summary = "Direct threat to " + areaName
		switch {
		case intensity >= hurricaneForceMPH:
			result.windThreat = "Hurricane-force winds possible"
			result.rainThreat = "Very heavy rainfall expected (5-15+ inches possible)"
			result.surgeThreat = "Significant storm surge threat to coastal areas"
		case intensity >= tropicalStormForceMPH:
			result.windThreat = "Tropical storm-force winds likely"
			result.rainThreat = "Heavy rainfall expected (3-8 inches possible)"
			result.surgeThreat = "Storm surge possible along coast"
		default:
			result.windThreat = "Gusty winds possible"
			result.rainThreat = "Moderate to heavy rainfall expected"
		}
	case distance < 200:
		result.summary = "Peripheral impacts possible for " + areaName
		if intensity >= hurricaneForceMPH {
			result.windThreat = "Tropical storm-force winds possible"
			result.rainThreat = "Heavy rainfall possible (2-6 inches)"
		} else {
			result.windThreat = "Gusty winds possible"
			result.rainThreat = "Moderate rainfall possible"
		}
	default:
		result.summary = fmt.Sprintf("System %d miles away - indirect impacts possible", result.distanceMiles)
		result.rainThreat = "Some rainfall possible from outer bands"
	}

	return result
}

// haversineMiles is the great-circle distance between two points.
func haversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}
