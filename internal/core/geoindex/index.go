// Package geoindex holds the load-once, immutable arena of parking segments
// and SER boundaries, and the geospatial queries that run against it:
// union point-in-region membership and nearest-segment centroid ranking.
package geoindex

import (
	"fmt"
	"sort"
	"time"

	"sermap/internal/core/domain"
	"sermap/internal/pkg/geospatial"
)

// DefaultTopK is the number of ranked segments returned when the caller
// passes a non-positive K.
const DefaultTopK = 10

// Index is an immutable snapshot of one loaded dataset. All methods are
// pure reads, so a single Index is safe for concurrent queries; reloads
// build a fresh Index and swap the pointer.
type Index struct {
	segments   []domain.Segment
	byID       map[int64]*domain.Segment
	byZone     map[domain.Zone][]*domain.Segment // load order preserved per zone
	boundaries []domain.Boundary
	bboxes     []domain.Bounds // per-boundary, indexed like boundaries
	loadedAt   time.Time
}

// New validates the raw collections, precomputes centroids, and builds the
// index. Segments keep their input order; that order is the ranking
// tie-breaker. Invalid geometry fails the whole build: a degenerate centroid
// or a false membership answer must never reach queries.
func New(segments []domain.Segment, boundaries []domain.Boundary) (*Index, error) {
	idx := &Index{
		segments:   make([]domain.Segment, len(segments)),
		byID:       make(map[int64]*domain.Segment, len(segments)),
		byZone:     make(map[domain.Zone][]*domain.Segment),
		boundaries: make([]domain.Boundary, 0, len(boundaries)),
		loadedAt:   time.Now(),
	}
	copy(idx.segments, segments)

	for i := range idx.segments {
		s := &idx.segments[i]
		if len(s.Line) == 0 {
			return nil, fmt.Errorf("segment %d: %w", s.ID, domain.ErrEmptyGeometry)
		}
		for _, p := range s.Line {
			if !p.Valid() {
				return nil, fmt.Errorf("segment %d: point (%v, %v): %w",
					s.ID, p.Lat, p.Lon, domain.ErrInvalidCoordinate)
			}
		}
		if _, dup := idx.byID[s.ID]; dup {
			return nil, fmt.Errorf("segment %d: %w", s.ID, domain.ErrDuplicateSegment)
		}
		if s.Spots < 0 {
			s.Spots = 0
		}
		s.Centroid = centroid(s.Line)

		idx.byID[s.ID] = s
		idx.byZone[s.Zone] = append(idx.byZone[s.Zone], s)
	}

	for i, b := range boundaries {
		if len(b.Ring) < 3 {
			return nil, fmt.Errorf("boundary %d (%s): %w", i, b.Name, domain.ErrDegeneratePolygon)
		}
		bb := domain.NewBounds(b.Ring[0])
		for _, p := range b.Ring {
			if !p.Valid() {
				return nil, fmt.Errorf("boundary %d (%s): %w", i, b.Name, domain.ErrInvalidCoordinate)
			}
			bb.Extend(p)
		}
		idx.boundaries = append(idx.boundaries, b)
		idx.bboxes = append(idx.bboxes, bb)
	}

	return idx, nil
}

// centroid is the arithmetic mean of the latitude and longitude components.
func centroid(line []domain.GeoPoint) domain.GeoPoint {
	var latSum, lonSum float64
	for _, p := range line {
		latSum += p.Lat
		lonSum += p.Lon
	}
	n := float64(len(line))
	return domain.GeoPoint{Lat: latSum / n, Lon: lonSum / n}
}

// InRegulatedArea reports whether the point lies inside at least one SER
// boundary (union semantics). Short-circuits on the first hit; an empty
// boundary set is always outside. Each ring's bounding box rejects far
// points before the O(n) ray cast runs.
func (idx *Index) InRegulatedArea(lat, lon float64) bool {
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	for i, b := range idx.boundaries {
		if !idx.bboxes[i].Contains(p) {
			continue
		}
		if pointInRing(lat, lon, b.Ring) {
			return true
		}
	}
	return false
}

// Nearest ranks the segments of one zone by haversine distance from the
// query point to their centroids, ascending, ties broken by load order, and
// returns at most k results. k <= 0 falls back to DefaultTopK. A zone with
// no segments yields an empty slice, not an error.
func (idx *Index) Nearest(lat, lon float64, zone domain.Zone, k int) []domain.RankedSegment {
	if k <= 0 {
		k = DefaultTopK
	}

	candidates := idx.byZone[zone]
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]domain.RankedSegment, len(candidates))
	for i, s := range candidates {
		ranked[i] = domain.RankedSegment{
			Segment:   s,
			DistanceM: geospatial.Haversine(lat, lon, s.Centroid.Lat, s.Centroid.Lon),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceM < ranked[j].DistanceM
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Segment returns a segment by id.
func (idx *Index) Segment(id int64) (*domain.Segment, error) {
	s, ok := idx.byID[id]
	if !ok {
		return nil, fmt.Errorf("segment %d: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// SegmentsByZone returns the segments of one zone in load order.
func (idx *Index) SegmentsByZone(zone domain.Zone) []*domain.Segment {
	return idx.byZone[zone]
}

// Boundaries returns the loaded boundary outlines.
func (idx *Index) Boundaries() []domain.Boundary {
	return idx.boundaries
}

// Len returns the number of loaded segments.
func (idx *Index) Len() int {
	return len(idx.segments)
}

// Stats aggregates the dataset by zone, in the fixed display order.
func (idx *Index) Stats() domain.DatasetStats {
	stats := domain.DatasetStats{
		Segments:   len(idx.segments),
		Boundaries: len(idx.boundaries),
		LoadedAt:   idx.loadedAt,
	}
	for _, z := range domain.Zones() {
		segs := idx.byZone[z]
		if len(segs) == 0 {
			continue
		}
		zs := domain.ZoneStats{Zone: z, Segments: len(segs)}
		for _, s := range segs {
			zs.TotalSpots += s.Spots
		}
		stats.TotalSpots += zs.TotalSpots
		stats.ByZone = append(stats.ByZone, zs)
	}
	return stats
}
