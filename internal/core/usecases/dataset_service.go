package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"sermap/internal/core/domain"
	"sermap/internal/core/geoindex"
	"sermap/internal/core/ports"
)

// DatasetService builds the in-memory index from the persisted dataset and
// hot-swaps it into the ParkingService, both at startup and whenever the
// ingestor announces a new dataset.
type DatasetService struct {
	segments   ports.SegmentRepository
	boundaries ports.BoundaryRepository
	parking    *ParkingService
}

// NewDatasetService creates a DatasetService.
func NewDatasetService(segments ports.SegmentRepository, boundaries ports.BoundaryRepository, parking *ParkingService) *DatasetService {
	return &DatasetService{segments: segments, boundaries: boundaries, parking: parking}
}

// Load reads everything from the repositories, validates and indexes it,
// and swaps the result in. The previous snapshot stays live until the swap.
func (s *DatasetService) Load(ctx context.Context) (domain.DatasetStats, error) {
	segs, err := s.segments.LoadAll(ctx)
	if err != nil {
		return domain.DatasetStats{}, fmt.Errorf("load segments: %w", err)
	}
	bounds, err := s.boundaries.LoadAll(ctx)
	if err != nil {
		return domain.DatasetStats{}, fmt.Errorf("load boundaries: %w", err)
	}

	idx, err := geoindex.New(segs, bounds)
	if err != nil {
		return domain.DatasetStats{}, fmt.Errorf("build index: %w", err)
	}

	s.parking.Swap(idx)
	stats := idx.Stats()
	slog.Info("dataset loaded",
		"segments", stats.Segments,
		"spots", stats.TotalSpots,
		"boundaries", stats.Boundaries)
	return stats, nil
}

// WatchUpdates reloads the dataset whenever the ingestor publishes a
// dataset-updated event. A failed reload keeps the current snapshot.
func (s *DatasetService) WatchUpdates(ctx context.Context, sub ports.EventSubscriber) error {
	return sub.SubscribeDatasetUpdates(ctx, func(ctx context.Context, incoming domain.DatasetStats) error {
		slog.Info("dataset update announced", "segments", incoming.Segments)
		if _, err := s.Load(ctx); err != nil {
			slog.Error("dataset reload failed, keeping previous snapshot", "error", err)
			return err
		}
		return nil
	})
}
