package geoindex

import "sermap/internal/core/domain"

// pointInRing applies the even-odd (ray casting) rule: a horizontal ray from
// the query point crosses an edge when the edge's longitudes straddle the
// query longitude and the edge's interpolated latitude at that longitude lies
// above the query latitude. The last vertex connects implicitly back to the
// first. Rings with fewer than 3 vertices are never "inside".
//
// A point exactly on an edge resolves deterministically through the strict /
// non-strict comparison pair below, but callers must not rely on either
// answer; on-edge behavior is implementation-defined.
func pointInRing(lat, lon float64, ring []domain.GeoPoint) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		if (ring[i].Lon > lon) != (ring[j].Lon > lon) &&
			lat < (ring[j].Lat-ring[i].Lat)*(lon-ring[i].Lon)/
				(ring[j].Lon-ring[i].Lon)+ring[i].Lat {
			inside = !inside
		}
		j = i
	}
	return inside
}
