package domain

// County is the static per-county configuration: name, region membership,
// and a centroid for the degraded containment check. Each county belongs to
// exactly one region.
type County struct {
	Name   string  `yaml:"name"`
	Region string  `yaml:"region"`
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
}

// CountyResolver maps one outlook polygon to the county names it covers.
// Degenerate polygons resolve to an empty set, never an error.
type CountyResolver interface {
	Resolve(poly OutlookPolygon) []string
}

// NewCountyResolver selects the resolution strategy once, from what
// configuration is available: authoritative boundary geometry when present,
// otherwise the centroid-containment fallback. Missing geometry is a
// documented degraded mode, not an error.
func NewCountyResolver(geometries []CountyGeometry, counties []County) CountyResolver {
	if len(geometries) > 0 {
		return &BoundaryResolver{geometries: geometries}
	}
	return &CentroidResolver{counties: counties}
}

// BoundaryResolver includes a county when its boundary geometry touches or
// overlaps the outlook polygon.
type BoundaryResolver struct {
	geometries []CountyGeometry
}

func (r *BoundaryResolver) Resolve(poly OutlookPolygon) []string {
	outlook, ok := buildBoundary(poly)
	if !ok {
		return nil
	}

	var covered []string
	for _, county := range r.geometries {
		for _, part := range county.Polygons {
			if part.Intersects(outlook) {
				covered = append(covered, county.Name)
				break
			}
		}
	}
	return covered
}

// buildBoundary assembles a BoundaryPolygon from an outlook polygon's rings,
// sanitizing each ring (invalid-geometry repair). Returns false when the
// outer ring is degenerate.
func buildBoundary(poly OutlookPolygon) (BoundaryPolygon, bool) {
	if len(poly.Rings) == 0 {
		return BoundaryPolygon{}, false
	}

	outer := poly.Rings[0].sanitize()
	if outer == nil {
		return BoundaryPolygon{}, false
	}

	b := BoundaryPolygon{Outer: outer}
	for _, ring := range poly.Rings[1:] {
		if hole := ring.sanitize(); hole != nil {
			b.Holes = append(b.Holes, hole)
		}
	}
	return b, true
}

// CentroidResolver includes a county when its centroid falls inside the
// polygon's outer ring. Holes are ignored: a centroid inside a cut-out is
// still counted, a known precision loss of the fallback.
type CentroidResolver struct {
	counties []County
}

func (r *CentroidResolver) Resolve(poly OutlookPolygon) []string {
	if len(poly.Rings) == 0 {
		return nil
	}
	outer := poly.Rings[0]

	var covered []string
	for _, county := range r.counties {
		if county.Name == "" {
			continue
		}
		if outer.Contains(Point{Lon: county.Lon, Lat: county.Lat}) {
			covered = append(covered, county.Name)
		}
	}
	return covered
}
