package ingest

import (
	"fmt"

	"sermap/internal/core/domain"
)

// BuildSegments normalizes parsed segment records into domain values. Any
// invalid geometry fails the whole build: a systematically broken export
// must never half-load.
func BuildSegments(records []SegmentRecord, precision int) ([]domain.Segment, error) {
	segments := make([]domain.Segment, 0, len(records))
	for _, rec := range records {
		line, err := NormalizeLine(rec.Line, precision)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", rec.ID, err)
		}
		segments = append(segments, domain.Segment{
			ID:          rec.ID,
			Zone:        domain.ParseZone(rec.ZoneLabel),
			Spots:       rec.Spots,
			BatteryLine: rec.BatteryLine,
			Line:        line,
		})
	}
	return segments, nil
}

// BuildBoundaries normalizes parsed boundary records, with the same
// all-or-nothing rule as BuildSegments.
func BuildBoundaries(records []BoundaryRecord, precision int) ([]domain.Boundary, error) {
	boundaries := make([]domain.Boundary, 0, len(records))
	for _, rec := range records {
		ring, err := NormalizeLine(rec.Ring, precision)
		if err != nil {
			return nil, fmt.Errorf("boundary %q: %w", rec.Name, err)
		}
		boundaries = append(boundaries, domain.Boundary{Name: rec.Name, Ring: ring})
	}
	return boundaries, nil
}
