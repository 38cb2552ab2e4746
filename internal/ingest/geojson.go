package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The ingestor consumes GeoJSON exports of the two SER shapefiles:
// Bandas_de_Aparcamiento (LineString segments with Color / Res_NumPla /
// Bateria_Li / ID attributes) and Barrios_Zona_SER (Polygon barrio outlines
// with a NOMBAR attribute).

// nonSERBarrio is the sentinel name the city uses for barrios outside the
// regulated area; those polygons are filtered out at load time.
const nonSERBarrio = "No está en la zona SER"

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string          `json:"type"`
	Geometry   geometry        `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// SegmentRecord is one parsed parking band before zone parsing and index
// construction: raw attribute values plus normalized geometry.
type SegmentRecord struct {
	ID          int64
	ZoneLabel   string
	Spots       int
	BatteryLine string
	Line        [][]float64 // lon,lat(,z) as found in the source
}

type segmentProps struct {
	ID        int64    `json:"ID"`
	Color     *string  `json:"Color"`
	ResNumPla *float64 `json:"Res_NumPla"`
	BateriaLi *string  `json:"Bateria_Li"`
}

// ParseSegments decodes a Bandas_de_Aparcamiento FeatureCollection. Missing
// Color or Res_NumPla values get loader defaults (empty label, zero spots);
// a non-LineString geometry is an error, not a skip.
func ParseSegments(data []byte) ([]SegmentRecord, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	if !strings.EqualFold(fc.Type, "FeatureCollection") {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}

	records := make([]SegmentRecord, 0, len(fc.Features))
	for i, f := range fc.Features {
		if !strings.EqualFold(f.Geometry.Type, "LineString") {
			return nil, fmt.Errorf("feature %d: expected LineString geometry, got %q", i, f.Geometry.Type)
		}

		var line [][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &line); err != nil {
			return nil, fmt.Errorf("feature %d: decode coordinates: %w", i, err)
		}

		var props segmentProps
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			return nil, fmt.Errorf("feature %d: decode properties: %w", i, err)
		}

		rec := SegmentRecord{ID: props.ID, Line: line}
		if props.Color != nil {
			rec.ZoneLabel = strings.TrimSpace(*props.Color)
		}
		if props.ResNumPla != nil && *props.ResNumPla > 0 {
			rec.Spots = int(*props.ResNumPla)
		}
		if props.BateriaLi != nil {
			rec.BatteryLine = strings.TrimSpace(*props.BateriaLi)
		}
		records = append(records, rec)
	}
	return records, nil
}

// BoundaryRecord is one parsed barrio outline (exterior ring only).
type BoundaryRecord struct {
	Name string
	Ring [][]float64
}

type boundaryProps struct {
	Nombar string `json:"NOMBAR"`
}

// ParseBoundaries decodes a Barrios_Zona_SER FeatureCollection, keeping only
// the exterior ring of each polygon and dropping the explicit non-SER
// barrio. MultiPolygons contribute one record per member polygon.
func ParseBoundaries(data []byte) ([]BoundaryRecord, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	if !strings.EqualFold(fc.Type, "FeatureCollection") {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}

	var records []BoundaryRecord
	for i, f := range fc.Features {
		var props boundaryProps
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			return nil, fmt.Errorf("feature %d: decode properties: %w", i, err)
		}
		if strings.TrimSpace(props.Nombar) == nonSERBarrio {
			continue
		}

		switch {
		case strings.EqualFold(f.Geometry.Type, "Polygon"):
			var rings [][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
				return nil, fmt.Errorf("feature %d: decode coordinates: %w", i, err)
			}
			if len(rings) == 0 {
				return nil, fmt.Errorf("feature %d: polygon with no rings", i)
			}
			records = append(records, BoundaryRecord{Name: props.Nombar, Ring: rings[0]})

		case strings.EqualFold(f.Geometry.Type, "MultiPolygon"):
			var polys [][][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
				return nil, fmt.Errorf("feature %d: decode coordinates: %w", i, err)
			}
			for _, rings := range polys {
				if len(rings) == 0 {
					continue
				}
				records = append(records, BoundaryRecord{Name: props.Nombar, Ring: rings[0]})
			}

		default:
			return nil, fmt.Errorf("feature %d: expected Polygon geometry, got %q", i, f.Geometry.Type)
		}
	}
	return records, nil
}
