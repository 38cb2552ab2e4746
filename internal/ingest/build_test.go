package ingest

import (
	"errors"
	"strings"
	"testing"

	"sermap/internal/core/domain"
)

func TestBuildSegments(t *testing.T) {
	records := []SegmentRecord{
		{ID: 7, ZoneLabel: "Azul", Spots: 12, Line: [][]float64{{-3.7038, 40.4168}, {-3.7030, 40.4170}}},
		{ID: 8, ZoneLabel: "turquesa", Spots: 3, Line: [][]float64{{-3.71, 40.42}}},
	}

	segments, err := BuildSegments(records, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Zone != domain.ZoneAzul || segments[0].Line[0].Lat != 40.4168 {
		t.Errorf("first segment wrong: %+v", segments[0])
	}
	if segments[1].Zone != domain.ZoneUnknown {
		t.Errorf("unrecognised label should default to Unknown, got %q", segments[1].Zone)
	}
}

func TestBuildSegments_FailsOnBadGeometry(t *testing.T) {
	records := []SegmentRecord{
		{ID: 7, ZoneLabel: "Azul", Line: [][]float64{{-3.7038, 40.4168}}},
		{ID: 8, ZoneLabel: "Azul", Line: [][]float64{{-3.7038, 95.0}}}, // lat out of range
	}

	_, err := BuildSegments(records, 5)
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
	if !strings.Contains(err.Error(), "segment 8") {
		t.Errorf("error should name the offending segment: %v", err)
	}
}

func TestBuildBoundaries_FailsOnBadGeometry(t *testing.T) {
	records := []BoundaryRecord{
		{Name: "Centro", Ring: [][]float64{{-4, 40}, {-3, 40}, {-200, 41}}}, // lon out of range
	}

	_, err := BuildBoundaries(records, 5)
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
	if !strings.Contains(err.Error(), "Centro") {
		t.Errorf("error should name the offending boundary: %v", err)
	}
}
