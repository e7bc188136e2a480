// Package domain models hazard-outlook and forecast data for the statewide
// weather briefing and implements the pure aggregation algorithms over it.
//
// # Data Sources
//
// Four independent upstream feeds contribute to a briefing:
//
//   - NWS active alerts (api.weather.gov/alerts/active), whose areaDesc is a
//     semicolon-separated free-text list of county-like tokens.
//   - NWS gridpoint forecasts for a fixed set of anchor locations, delivered
//     as alternating day/night periods ("Today", "Tonight", "Monday",
//     "Monday Night", ...). Periods are not guaranteed to start on a daytime
//     period.
//   - SPC categorical convective outlooks (days 1-3), ESRI polygons labeled
//     on the seven-level scale NONE < TSTM < MRGL < SLGT < ENH < MDT < HIGH.
//   - WPC excessive rainfall outlooks (days 1-3), ESRI polygons labeled on
//     the five-level scale NONE < MRGL < SLGT < MDT < HIGH.
//
// An optional fifth feed reports active tropical systems with a precomputed
// impact summary.
//
// # Polygon Conventions
//
// Outlook polygons arrive as ESRI ring lists: ring 0 is the outer boundary,
// later rings are holes. Vertices are (longitude, latitude) pairs. Rings may
// or may not repeat the first vertex at the end.
//
// County resolution has two strategies, chosen once at construction. With
// authoritative boundary geometry a county is covered when its boundary
// touches or overlaps the outlook polygon. Without it, the fallback tests
// county centroids against the outer ring only via even-odd ray casting,
// a documented precision loss (holes ignored, boundary points
// implementation-defined).
//
// # Risk Merging
//
// Overlapping polygons from one source are reconciled by a confluent fold:
// a county's stored risk is replaced only when the candidate level strictly
// outranks it within its own scale. The fold is order-independent and safe
// to partition across workers; partial maps merge with the same rule.
//
// The two scales share label spellings (Marginal, Slight, ...) but are never
// compared against each other; every comparison goes through the one
// RiskScale the caller holds.
package domain
