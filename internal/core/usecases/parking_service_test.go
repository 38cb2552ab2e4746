package usecases_test

import (
	"context"
	"errors"
	"testing"

	"sermap/internal/core/domain"
	"sermap/internal/core/geoindex"
	"sermap/internal/core/usecases"
)

func line(pts ...[2]float64) []domain.GeoPoint {
	l := make([]domain.GeoPoint, len(pts))
	for i, p := range pts {
		l[i] = domain.GeoPoint{Lat: p[0], Lon: p[1]}
	}
	return l
}

func buildIndex(t *testing.T) *geoindex.Index {
	t.Helper()
	idx, err := geoindex.New([]domain.Segment{
		{ID: 1, Zone: domain.ZoneAzul, Spots: 10, Line: line([2]float64{40.4177, -3.7038})},
		{ID: 2, Zone: domain.ZoneAzul, Spots: 5, Line: line([2]float64{40.4172, -3.7038})},
		{ID: 3, Zone: domain.ZoneVerde, Spots: 8, Line: line([2]float64{40.4186, -3.7038})},
	}, []domain.Boundary{
		{Name: "Centro", Ring: line(
			[2]float64{40.0, -4.0}, [2]float64{40.0, -3.0},
			[2]float64{41.0, -3.0}, [2]float64{41.0, -4.0})},
	})
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	return idx
}

func TestParkingService_Nearest(t *testing.T) {
	svc := usecases.NewParkingService(buildIndex(t), nil, 10, domain.ZoneAzul)

	ranked, err := svc.Nearest(context.Background(), 40.4168, -3.7038, domain.ZoneAzul, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Segment.ID != 2 {
		t.Errorf("expected segment 2 first (closer centroid), got %d", ranked[0].Segment.ID)
	}
}

func TestParkingService_Nearest_DefaultZoneAndClamp(t *testing.T) {
	svc := usecases.NewParkingService(buildIndex(t), nil, 1, domain.ZoneAzul)

	// Empty zone falls back to the default; limit 999 clamps to topK=1.
	ranked, err := svc.Nearest(context.Background(), 40.4168, -3.7038, "", 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected limit clamped to 1, got %d results", len(ranked))
	}
	if ranked[0].Segment.Zone != domain.ZoneAzul {
		t.Errorf("expected default zone Azul, got %s", ranked[0].Segment.Zone)
	}
}

func TestParkingService_Nearest_InvalidPoint(t *testing.T) {
	svc := usecases.NewParkingService(buildIndex(t), nil, 10, domain.ZoneAzul)

	if _, err := svc.Nearest(context.Background(), 200, -3.70, domain.ZoneAzul, 5); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestParkingService_NotLoaded(t *testing.T) {
	svc := usecases.NewParkingService(nil, nil, 10, domain.ZoneAzul)

	if _, err := svc.Nearest(context.Background(), 40.4, -3.7, domain.ZoneAzul, 5); !errors.Is(err, usecases.ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := svc.InRegulatedArea(context.Background(), 40.4, -3.7); !errors.Is(err, usecases.ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestParkingService_Swap(t *testing.T) {
	svc := usecases.NewParkingService(nil, nil, 10, domain.ZoneAzul)
	svc.Swap(buildIndex(t))

	inside, err := svc.InRegulatedArea(context.Background(), 40.5, -3.5)
	if err != nil {
		t.Fatalf("unexpected error after swap: %v", err)
	}
	if !inside {
		t.Error("point inside the boundary should be regulated after swap")
	}
}

func TestParkingService_Membership(t *testing.T) {
	svc := usecases.NewParkingService(buildIndex(t), nil, 10, domain.ZoneAzul)

	inside, err := svc.InRegulatedArea(context.Background(), 40.5, -3.5)
	if err != nil || !inside {
		t.Errorf("expected inside=true, got %v err=%v", inside, err)
	}
	outside, err := svc.InRegulatedArea(context.Background(), 42.0, -3.5)
	if err != nil || outside {
		t.Errorf("expected inside=false, got %v err=%v", outside, err)
	}
}

// --- cache interaction ---

type mockCache struct {
	store map[string][]byte
	gets  int
	sets  int
}

func newMockCache() *mockCache { return &mockCache{store: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.gets++
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.sets++
	m.store[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.store, key)
	return nil
}

func TestParkingService_NearestCaches(t *testing.T) {
	cache := newMockCache()
	svc := usecases.NewParkingService(buildIndex(t), cache, 10, domain.ZoneAzul)

	first, err := svc.Nearest(context.Background(), 40.4168, -3.7038, domain.ZoneAzul, 5)
	if err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 {
		t.Errorf("expected 1 cache set, got %d", cache.sets)
	}

	second, err := svc.Nearest(context.Background(), 40.4168, -3.7038, domain.ZoneAzul, 5)
	if err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 {
		t.Errorf("second call should hit the cache, sets=%d", cache.sets)
	}
	if len(first) != len(second) || first[0].Segment.ID != second[0].Segment.ID {
		t.Error("cached result differs from computed result")
	}
}
