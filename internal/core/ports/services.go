package ports

import (
	"context"
	"errors"

	"sermap/internal/core/domain"
)

// ErrNoResult is returned by a Geocoder when the address resolves to nothing.
// Distinct from transport errors so callers can tell "not found" from "broken".
var ErrNoResult = errors.New("geocoder: no result")

// Geocoder resolves a free-form address to a point. Upstream collaborator;
// it may fail or return ErrNoResult, and callers must surface the difference.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.GeoPoint, string, error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes dataset lifecycle events to a message broker.
type EventPublisher interface {
	PublishDatasetUpdated(ctx context.Context, stats domain.DatasetStats) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to dataset lifecycle events.
type EventSubscriber interface {
	SubscribeDatasetUpdates(ctx context.Context, handler func(ctx context.Context, stats domain.DatasetStats) error) error
}
