package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mswxdesk/weather-briefing-service/internal/domain"
)

// LoadCounties reads the county table (name, region, centroid) from YAML.
func LoadCounties(path string) ([]domain.County, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read counties: %w", err)
	}

	var doc struct {
		Counties []domain.County `yaml:"counties"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse counties: %w", err)
	}
	if len(doc.Counties) == 0 {
		return nil, fmt.Errorf("no counties in %s", path)
	}
	return doc.Counties, nil
}

// LoadAnchors reads the anchor-location table from YAML.
func LoadAnchors(path string) ([]domain.Anchor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read anchors: %w", err)
	}

	var doc struct {
		Anchors []domain.Anchor `yaml:"anchors"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse anchors: %w", err)
	}
	if len(doc.Anchors) == 0 {
		return nil, fmt.Errorf("no anchors in %s", path)
	}
	return doc.Anchors, nil
}

// geojson is the subset of the FeatureCollection shape the loader reads.
type geojson struct {
	Features []struct {
		Properties map[string]any `json:"properties"`
		Geometry   struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// LoadCountyGeometry reads authoritative county boundaries from a GeoJSON
// FeatureCollection. An empty path means no geometry is configured and the
// caller falls back to centroid resolution; that is not an error. Features
// with unusable geometry or no recognizable name property are skipped.
func LoadCountyGeometry(path string) ([]domain.CountyGeometry, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read county geometry: %w", err)
	}

	var fc geojson
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parse county geometry: %w", err)
	}

	var geometries []domain.CountyGeometry
	for _, feature := range fc.Features {
		name := featureName(feature.Properties)
		if name == "" {
			continue
		}

		var polygons []domain.BoundaryPolygon
		switch feature.Geometry.Type {
		case "Polygon":
			var rings [][][]float64
			if err := json.Unmarshal(feature.Geometry.Coordinates, &rings); err != nil {
				continue
			}
			if poly, ok := boundaryFromRings(rings); ok {
				polygons = append(polygons, poly)
			}
		case "MultiPolygon":
			var parts [][][][]float64
			if err := json.Unmarshal(feature.Geometry.Coordinates, &parts); err != nil {
				continue
			}
			for _, rings := range parts {
				if poly, ok := boundaryFromRings(rings); ok {
					polygons = append(polygons, poly)
				}
			}
		default:
			continue
		}

		if len(polygons) > 0 {
			geometries = append(geometries, domain.CountyGeometry{Name: name, Polygons: polygons})
		}
	}
	return geometries, nil
}

func featureName(props map[string]any) string {
	for _, key := range []string{"NAME", "name", "COUNTY"} {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func boundaryFromRings(rings [][][]float64) (domain.BoundaryPolygon, bool) {
	if len(rings) == 0 {
		return domain.BoundaryPolygon{}, false
	}

	outer := toRing(rings[0])
	if len(outer) < 3 {
		return domain.BoundaryPolygon{}, false
	}

	poly := domain.BoundaryPolygon{Outer: outer}
	for _, ring := range rings[1:] {
		if hole := toRing(ring); len(hole) >= 3 {
			poly.Holes = append(poly.Holes, hole)
		}
	}
	return poly, true
}

func toRing(coords [][]float64) domain.Ring {
	ring := make(domain.Ring, 0, len(coords))
	for _, pair := range coords {
		if len(pair) < 2 {
			continue
		}
		ring = append(ring, domain.Point{Lon: pair[0], Lat: pair[1]})
	}
	return ring
}
