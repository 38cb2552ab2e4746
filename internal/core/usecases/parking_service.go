package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"sermap/internal/core/domain"
	"sermap/internal/core/geoindex"
	"sermap/internal/core/ports"
)

// ErrNotLoaded is returned when queries arrive before a dataset is loaded.
var ErrNotLoaded = errors.New("dataset not loaded")

// ParkingService answers geospatial queries against the currently loaded
// dataset. The index pointer is swapped atomically on reloads, so concurrent
// queries always see one consistent snapshot.
type ParkingService struct {
	index       atomic.Pointer[geoindex.Index]
	cache       ports.CacheService
	topK        int
	defaultZone domain.Zone
}

// NewParkingService creates a ParkingService. idx may be nil when the
// dataset is loaded later (e.g. on the first dataset-updated event).
func NewParkingService(idx *geoindex.Index, cache ports.CacheService, topK int, defaultZone domain.Zone) *ParkingService {
	if topK <= 0 {
		topK = geoindex.DefaultTopK
	}
	if defaultZone == "" {
		defaultZone = domain.ZoneAzul
	}
	s := &ParkingService{cache: cache, topK: topK, defaultZone: defaultZone}
	if idx != nil {
		s.index.Store(idx)
	}
	return s
}

// Swap installs a freshly built index. Queries in flight keep the snapshot
// they started with.
func (s *ParkingService) Swap(idx *geoindex.Index) {
	s.index.Store(idx)
}

// DefaultZone is the category ranked when a caller does not pick one.
func (s *ParkingService) DefaultZone() domain.Zone {
	return s.defaultZone
}

func (s *ParkingService) snapshot() (*geoindex.Index, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, ErrNotLoaded
	}
	return idx, nil
}

// Nearest returns the top segments of one zone ranked by centroid distance
// from the query point. limit is clamped to the configured top-K; an empty
// zone defaults to the service's default zone.
func (s *ParkingService) Nearest(ctx context.Context, lat, lon float64, zone domain.Zone, limit int) ([]domain.RankedSegment, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if !(domain.GeoPoint{Lat: lat, Lon: lon}).Valid() {
		return nil, fmt.Errorf("query point (%v, %v): %w", lat, lon, domain.ErrInvalidCoordinate)
	}
	if zone == "" {
		zone = s.defaultZone
	}
	if limit <= 0 || limit > s.topK {
		limit = s.topK
	}

	// Try cache. Keys quantize the point to ~11m so nearby repeats hit.
	cacheKey := fmt.Sprintf("parking:nearest:%.4f:%.4f:%s:%d", lat, lon, zone, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var ranked []domain.RankedSegment
			if err := json.Unmarshal(data, &ranked); err == nil {
				return ranked, nil
			}
		}
	}

	ranked := idx.Nearest(lat, lon, zone, limit)

	// Segments only change on dataset reload; 5 minutes is safe.
	if s.cache != nil {
		if data, err := json.Marshal(ranked); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return ranked, nil
}

// InRegulatedArea reports whether the point lies inside the SER area.
func (s *ParkingService) InRegulatedArea(ctx context.Context, lat, lon float64) (bool, error) {
	idx, err := s.snapshot()
	if err != nil {
		return false, err
	}
	if !(domain.GeoPoint{Lat: lat, Lon: lon}).Valid() {
		return false, fmt.Errorf("query point (%v, %v): %w", lat, lon, domain.ErrInvalidCoordinate)
	}
	return idx.InRegulatedArea(lat, lon), nil
}

// Segment returns a single segment by id.
func (s *ParkingService) Segment(ctx context.Context, id int64) (*domain.Segment, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return idx.Segment(id)
}

// SegmentsByZone returns all segments of one zone in load order.
func (s *ParkingService) SegmentsByZone(ctx context.Context, zone domain.Zone) ([]*domain.Segment, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return idx.SegmentsByZone(zone), nil
}

// Boundaries returns the loaded SER outlines.
func (s *ParkingService) Boundaries(ctx context.Context) ([]domain.Boundary, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return idx.Boundaries(), nil
}

// Stats aggregates the loaded dataset.
func (s *ParkingService) Stats(ctx context.Context) (domain.DatasetStats, error) {
	idx, err := s.snapshot()
	if err != nil {
		return domain.DatasetStats{}, err
	}
	return idx.Stats(), nil
}
