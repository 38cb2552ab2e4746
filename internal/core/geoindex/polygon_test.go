package geoindex

import (
	"testing"

	"sermap/internal/core/domain"
)

func ring(pts ...[2]float64) []domain.GeoPoint {
	r := make([]domain.GeoPoint, len(pts))
	for i, p := range pts {
		r[i] = domain.GeoPoint{Lat: p[0], Lon: p[1]}
	}
	return r
}

// One-degree square: (40,-3) (40,-2) (41,-2) (41,-3).
func unitSquare() []domain.GeoPoint {
	return ring([2]float64{40.0, -3.0}, [2]float64{40.0, -2.0}, [2]float64{41.0, -2.0}, [2]float64{41.0, -3.0})
}

func TestPointInRing_UnitSquare(t *testing.T) {
	sq := unitSquare()

	if !pointInRing(40.5, -2.5, sq) {
		t.Error("center (40.5,-2.5) should be inside")
	}
	if pointInRing(42.0, -2.5, sq) {
		t.Error("(42.0,-2.5) should be outside")
	}
}

func TestPointInRing_FarOutsideBoundingBox(t *testing.T) {
	polys := [][]domain.GeoPoint{
		unitSquare(),
		ring([2]float64{0, 0}, [2]float64{0, 1}, [2]float64{1, 0.5}),
		ring([2]float64{-10, -10}, [2]float64{-10, 10}, [2]float64{10, 10}, [2]float64{10, -10}),
	}
	far := []domain.GeoPoint{
		{Lat: 80, Lon: 170}, {Lat: -80, Lon: -170}, {Lat: 60, Lon: -120},
	}
	for pi, poly := range polys {
		for _, p := range far {
			if pointInRing(p.Lat, p.Lon, poly) {
				t.Errorf("polygon %d: far point (%v,%v) reported inside", pi, p.Lat, p.Lon)
			}
		}
	}
}

func TestPointInRing_ConvexCentroid(t *testing.T) {
	polys := [][]domain.GeoPoint{
		unitSquare(),
		ring([2]float64{0, 0}, [2]float64{0, 2}, [2]float64{2, 1}),
		ring([2]float64{40.40, -3.72}, [2]float64{40.40, -3.68}, [2]float64{40.44, -3.68}, [2]float64{40.44, -3.72}),
		// regular-ish pentagon
		ring([2]float64{1, 0}, [2]float64{0.31, 0.95}, [2]float64{-0.81, 0.59}, [2]float64{-0.81, -0.59}, [2]float64{0.31, -0.95}),
	}
	for pi, poly := range polys {
		c := centroid(poly)
		if !pointInRing(c.Lat, c.Lon, poly) {
			t.Errorf("polygon %d: its centroid (%v,%v) reported outside", pi, c.Lat, c.Lon)
		}
	}
}

func TestPointInRing_Degenerate(t *testing.T) {
	if pointInRing(0, 0, nil) {
		t.Error("empty ring should never contain a point")
	}
	two := ring([2]float64{0, 0}, [2]float64{1, 1})
	if pointInRing(0.5, 0.5, two) {
		t.Error("two-point ring should never contain a point")
	}
}

func TestPointInRing_ConcaveNotch(t *testing.T) {
	// A "C" shape: the notch on the right side is outside.
	c := ring(
		[2]float64{0, 0}, [2]float64{4, 0}, [2]float64{4, 1},
		[2]float64{1, 1}, [2]float64{1, 3}, [2]float64{4, 3},
		[2]float64{4, 4}, [2]float64{0, 4},
	)
	if !pointInRing(0.5, 0.5, c) {
		t.Error("point in the solid part should be inside")
	}
	if pointInRing(2.0, 2.5, c) {
		t.Error("point in the notch should be outside")
	}
}
