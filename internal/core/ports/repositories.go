package ports

import (
	"context"

	"sermap/internal/core/domain"
)

// SegmentRepository persists parking segments.
type SegmentRepository interface {
	UpsertBatch(ctx context.Context, segments []domain.Segment) error
	LoadAll(ctx context.Context) ([]domain.Segment, error)
	Count(ctx context.Context) (int, error)
}

// BoundaryRepository persists SER boundary outlines.
type BoundaryRepository interface {
	ReplaceAll(ctx context.Context, boundaries []domain.Boundary) error
	LoadAll(ctx context.Context) ([]domain.Boundary, error)
}

// StreetRepository persists the geocoded street gazetteer.
type StreetRepository interface {
	UpsertBatch(ctx context.Context, streets []domain.Street) error
	Search(ctx context.Context, query string, limit int) ([]domain.Street, error)
}
