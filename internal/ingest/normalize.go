// Package ingest parses the municipal SER source files (GeoJSON geometry
// exports and the callejero street CSV) into domain values, applying the one
// universal fix: source coordinates arrive longitude-first and must be
// swapped to latitude-first before anything downstream sees them.
package ingest

import (
	"fmt"

	"sermap/internal/core/domain"
	"sermap/internal/pkg/geospatial"
)

// DefaultPrecision is the number of decimal places kept when normalizing
// coordinates. Five places is roughly meter resolution.
const DefaultPrecision = 5

// NormalizeLine converts raw lon,lat(,z) positions into lat,lon GeoPoints,
// dropping any elevation component and rounding to the given precision.
// Out-of-range or non-finite coordinates fail the whole line.
func NormalizeLine(raw [][]float64, precision int) ([]domain.GeoPoint, error) {
	if precision <= 0 {
		precision = DefaultPrecision
	}

	pts := make([]domain.GeoPoint, 0, len(raw))
	for i, pos := range raw {
		if len(pos) < 2 {
			return nil, fmt.Errorf("position %d: expected at least lon,lat, got %d values", i, len(pos))
		}
		p := domain.GeoPoint{
			Lat: geospatial.Round(pos[1], precision),
			Lon: geospatial.Round(pos[0], precision),
		}
		if !p.Valid() {
			return nil, fmt.Errorf("position %d (%v, %v): %w", i, p.Lat, p.Lon, domain.ErrInvalidCoordinate)
		}
		pts = append(pts, p)
	}
	return pts, nil
}
