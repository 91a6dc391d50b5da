package geo

// Ring is a closed loop of [lon, lat] vertices.
type Ring [][]float64

// Polygon is one outer ring followed by zero or more hole rings.
type Polygon []Ring

// Feature is one named country boundary: a Polygon (single part) or a
// MultiPolygon (several parts).
type Feature struct {
	Name  string
	Parts []Polygon
}

// pointInRing is the standard ray-casting point-in-ring test: count crossings
// of a horizontal ray extending from the point; odd = inside.
func pointInRing(lon, lat float64, ring Ring) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		intersect := ((yi > lat) != (yj > lat)) &&
			(lon < (xj-xi)*(lat-yi)/(yj-yi)+xi)
		if intersect {
			inside = !inside
		}
	}
	return inside
}

// polygonContains reports whether the point is inside the outer ring and
// inside none of the hole rings.
func polygonContains(lon, lat float64, poly Polygon) bool {
	if len(poly) == 0 || len(poly[0]) == 0 {
		return false
	}
	if !pointInRing(lon, lat, poly[0]) {
		return false
	}
	for _, hole := range poly[1:] {
		if pointInRing(lon, lat, hole) {
			return false
		}
	}
	return true
}

// Contains reports whether the point lies in any part of the feature.
func (f *Feature) Contains(lon, lat float64) bool {
	for _, part := range f.Parts {
		if polygonContains(lon, lat, part) {
			return true
		}
	}
	return false
}

// spansAntimeridian reports whether the ring's longitude span exceeds 180°.
// Such rings (Russia, Fiji in most world datasets) produce unreliable
// ray-casting results near ±180°.
func spansAntimeridian(ring Ring) bool {
	if len(ring) == 0 {
		return false
	}
	minLon, maxLon := ring[0][0], ring[0][0]
	for _, v := range ring[1:] {
		if v[0] < minLon {
			minLon = v[0]
		}
		if v[0] > maxLon {
			maxLon = v[0]
		}
	}
	return maxLon-minLon > 180
}

func (f *Feature) crossesAntimeridian() bool {
	for _, part := range f.Parts {
		for _, ring := range part {
			if spansAntimeridian(ring) {
				return true
			}
		}
	}
	return false
}

// CountryIndex is a read-only set of named country boundaries, loaded once.
type CountryIndex struct {
	features []Feature
}

// NewCountryIndex builds an index over the given features, in dataset order.
func NewCountryIndex(features []Feature) *CountryIndex {
	return &CountryIndex{features: features}
}

// Len returns the number of indexed features.
func (idx *CountryIndex) Len() int { return len(idx.features) }

// Resolve returns the name of the first feature containing (lat, lon), in
// dataset order. The dataset is small (~200 entries) and lookups are
// memoized by callers, so no spatial index is built.
//
// Features crossing the antimeridian still get the plain containment test
// (no longitude correction), so a match on one is kept only as a fallback
// when no other feature contains the point. Resolution near ±180° longitude
// is unreliable.
func (idx *CountryIndex) Resolve(lat, lon float64) (string, bool) {
	fallback := ""
	for i := range idx.features {
		f := &idx.features[i]
		if !f.Contains(lon, lat) {
			continue
		}
		if f.crossesAntimeridian() {
			if fallback == "" {
				fallback = f.Name
			}
			continue
		}
		return f.Name, true
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}
