package domain

// Point is a WGS-84 coordinate in GeoJSON order (longitude first).
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Ring is an ordered list of vertices. Rings are not required to repeat the
// first vertex at the end; containment tests close them implicitly.
type Ring []Point

// OutlookPolygon is one hazard-risk region from an outlook product.
// Rings[0] is the outer boundary; any remaining rings are holes.
type OutlookPolygon struct {
	Risk  RiskLevel `json:"risk"`
	Label string    `json:"label,omitempty"`
	Rings []Ring    `json:"-"`
}

// Contains reports whether p is inside the ring using even-odd ray casting:
// a horizontal ray from p toggles parity at each edge crossing. Rings with
// fewer than three vertices contain nothing. Points exactly on the boundary
// are implementation-defined.
func (r Ring) Contains(p Point) bool {
	if len(r) < 3 {
		return false
	}

	inside := false
	j := len(r) - 1
	for i := 0; i < len(r); i++ {
		xi, yi := r[i].Lon, r[i].Lat
		xj, yj := r[j].Lon, r[j].Lat

		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lon < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// sanitize drops consecutive duplicate vertices and an explicit closing
// vertex. Returns nil when fewer than three distinct vertices remain, which
// callers treat as a degenerate (skippable) ring rather than an error.
func (r Ring) sanitize() Ring {
	if len(r) == 0 {
		return nil
	}

	out := make(Ring, 0, len(r))
	for _, p := range r {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// edges yields the closed edge list of the ring.
func (r Ring) edges() [][2]Point {
	if len(r) < 2 {
		return nil
	}
	edges := make([][2]Point, 0, len(r))
	for i := range r {
		edges = append(edges, [2]Point{r[i], r[(i+1)%len(r)]})
	}
	return edges
}

// BoundaryPolygon is an authoritative county boundary part: one outer ring
// with optional holes.
type BoundaryPolygon struct {
	Outer Ring
	Holes []Ring
}

// CountyGeometry is a county's authoritative boundary. MultiPolygon counties
// (coastal counties with islands) carry more than one part.
type CountyGeometry struct {
	Name     string
	Polygons []BoundaryPolygon
}

// contains applies even-odd parity across the outer ring and all holes, so a
// point inside a hole counts as outside the polygon.
func (b BoundaryPolygon) contains(p Point) bool {
	inside := b.Outer.Contains(p)
	for _, hole := range b.Holes {
		if hole.Contains(p) {
			inside = !inside
		}
	}
	return inside
}

func (b BoundaryPolygon) rings() []Ring {
	rings := make([]Ring, 0, 1+len(b.Holes))
	rings = append(rings, b.Outer)
	rings = append(rings, b.Holes...)
	return rings
}

// Intersects reports whether two polygons touch or overlap: any vertex of one
// inside the other, or any pair of boundary edges crossing.
func (b BoundaryPolygon) Intersects(other BoundaryPolygon) bool {
	for _, p := range other.Outer {
		if b.contains(p) {
			return true
		}
	}
	for _, p := range b.Outer {
		if other.contains(p) {
			return true
		}
	}

	for _, ra := range b.rings() {
		for _, ea := range ra.edges() {
			for _, rb := range other.rings() {
				for _, eb := range rb.edges() {
					if segmentsIntersect(ea[0], ea[1], eb[0], eb[1]) {
						return true
					}
				}
			}
		}
	}
	return false
}

// segmentsIntersect reports whether segments p1-p2 and p3-p4 intersect,
// including shared endpoints and collinear overlap (a touch counts).
func segmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(p3, p4, p1):
		return true
	case d2 == 0 && onSegment(p3, p4, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, p3):
		return true
	case d4 == 0 && onSegment(p1, p2, p4):
		return true
	}
	return false
}

// orientation returns the sign of the cross product (b-a) x (c-a):
// positive for counter-clockwise, negative for clockwise, zero for collinear.
func orientation(a, b, c Point) float64 {
	return (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

// onSegment reports whether collinear point p lies within the bounding box
// of segment a-b.
func onSegment(a, b, p Point) bool {
	return min(a.Lon, b.Lon) <= p.Lon && p.Lon <= max(a.Lon, b.Lon) &&
		min(a.Lat, b.Lat) <= p.Lat && p.Lat <= max(a.Lat, b.Lat)
}
