package postgres

import (
	"encoding/json"
	"fmt"

	"sermap/internal/core/domain"
)

// lineGeoJSON encodes a polyline as a GeoJSON LineString for
// ST_GeomFromGeoJSON. GeoJSON order is [lon, lat].
func lineGeoJSON(line []domain.GeoPoint) ([]byte, error) {
	coords := make([][2]float64, len(line))
	for i, p := range line {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	return json.Marshal(struct {
		Type        string       `json:"type"`
		Coordinates [][2]float64 `json:"coordinates"`
	}{Type: "LineString", Coordinates: coords})
}

// ringGeoJSON encodes a boundary ring as a closed GeoJSON Polygon.
// PostGIS requires the exterior ring to repeat its first point.
func ringGeoJSON(ring []domain.GeoPoint) ([]byte, error) {
	coords := make([][2]float64, 0, len(ring)+1)
	for _, p := range ring {
		coords = append(coords, [2]float64{p.Lon, p.Lat})
	}
	if len(coords) > 0 && coords[0] != coords[len(coords)-1] {
		coords = append(coords, coords[0])
	}
	return json.Marshal(struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}{Type: "Polygon", Coordinates: [][][2]float64{coords}})
}

// parseLine decodes a ST_AsGeoJSON LineString back to a polyline.
func parseLine(raw []byte) ([]domain.GeoPoint, error) {
	var g struct {
		Type        string       `json:"type"`
		Coordinates [][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode line geometry: %w", err)
	}
	if g.Type != "LineString" {
		return nil, fmt.Errorf("unexpected geometry type %q", g.Type)
	}
	line := make([]domain.GeoPoint, len(g.Coordinates))
	for i, c := range g.Coordinates {
		line[i] = domain.GeoPoint{Lat: c[1], Lon: c[0]}
	}
	return line, nil
}

// parseRing decodes a ST_AsGeoJSON Polygon exterior ring, dropping the
// closing repeat of the first point.
func parseRing(raw []byte) ([]domain.GeoPoint, error) {
	var g struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode ring geometry: %w", err)
	}
	if g.Type != "Polygon" || len(g.Coordinates) == 0 {
		return nil, fmt.Errorf("unexpected geometry type %q", g.Type)
	}
	exterior := g.Coordinates[0]
	if len(exterior) > 1 && exterior[0] == exterior[len(exterior)-1] {
		exterior = exterior[:len(exterior)-1]
	}
	ring := make([]domain.GeoPoint, len(exterior))
	for i, c := range exterior {
		ring[i] = domain.GeoPoint{Lat: c[1], Lon: c[0]}
	}
	return ring, nil
}
