package domain

// TropicalSystem is a normalized active tropical cyclone record. The impact
// fields are precomputed by the tropical-system collaborator; the core only
// embeds them in narratives and the briefing.
type TropicalSystem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Classification string   `json:"classification"` // TD, TS, HU, ...
	Lat            *float64 `json:"lat,omitempty"`
	Lon            *float64 `json:"lon,omitempty"`
	Intensity      *int     `json:"intensity,omitempty"` // max sustained winds, mph
	Pressure       *int     `json:"pressure,omitempty"`  // central pressure, mb
	Movement       string   `json:"movement,omitempty"`

	Impacts     string `json:"impacts,omitempty"` // area impact summary
	WindThreat  string `json:"wind_threat,omitempty"`
	RainThreat  string `json:"rain_threat,omitempty"`
	SurgeThreat string `json:"surge_threat,omitempty"`
	Timing      string `json:"timing,omitempty"`
}
