package ingest

import (
	"errors"
	"math"
	"testing"

	"sermap/internal/core/domain"
)

func TestNormalizeLine_SwapsAndRounds(t *testing.T) {
	// Source order is lon,lat; the third value is elevation and must be dropped.
	raw := [][]float64{
		{-3.7037902345, 40.4167891234, 650.2},
		{-3.70280, 40.41750},
	}
	pts, err := NormalizeLine(raw, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Lat != 40.41679 || pts[0].Lon != -3.70379 {
		t.Errorf("first point not swapped/rounded: %+v", pts[0])
	}
	if pts[1].Lat != 40.4175 || pts[1].Lon != -3.7028 {
		t.Errorf("second point wrong: %+v", pts[1])
	}
}

func TestNormalizeLine_DefaultPrecision(t *testing.T) {
	pts, err := NormalizeLine([][]float64{{-3.70379023, 40.41678912}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pts[0].Lat != 40.41679 || pts[0].Lon != -3.70379 {
		t.Errorf("default precision should be 5 places, got %+v", pts[0])
	}
}

func TestNormalizeLine_RejectsBadInput(t *testing.T) {
	if _, err := NormalizeLine([][]float64{{-3.70}}, 5); err == nil {
		t.Error("expected error for position with a single value")
	}
	if _, err := NormalizeLine([][]float64{{math.NaN(), 40.4}}, 5); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate for NaN, got %v", err)
	}
	// lon,lat order: 200 in the first slot is an out-of-range longitude.
	if _, err := NormalizeLine([][]float64{{200.0, 40.4}}, 5); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate for lon 200, got %v", err)
	}
}

func TestNormalizeLine_Empty(t *testing.T) {
	pts, err := NormalizeLine(nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 0 {
		t.Errorf("expected empty output, got %d points", len(pts))
	}
}
