package ingest

import (
	"testing"
)

const segmentsJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[-3.70379, 40.41679, 655.1], [-3.70280, 40.41750]]},
      "properties": {"ID": 101, "Color": "Azul", "Res_NumPla": 12, "Bateria_Li": "Línea"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[-3.71000, 40.42000], [-3.70900, 40.42100]]},
      "properties": {"ID": 102, "Color": null, "Res_NumPla": null, "Bateria_Li": null}
    }
  ]
}`

func TestParseSegments(t *testing.T) {
	recs, err := ParseSegments([]byte(segmentsJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	first := recs[0]
	if first.ID != 101 || first.ZoneLabel != "Azul" || first.Spots != 12 || first.BatteryLine != "Línea" {
		t.Errorf("first record wrong: %+v", first)
	}
	if len(first.Line) != 2 || first.Line[0][0] != -3.70379 {
		t.Errorf("geometry not preserved: %+v", first.Line)
	}

	// Nulls take loader defaults, not errors.
	second := recs[1]
	if second.ZoneLabel != "" || second.Spots != 0 || second.BatteryLine != "" {
		t.Errorf("expected defaults for null properties, got %+v", second)
	}
}

func TestParseSegments_RejectsWrongGeometry(t *testing.T) {
	bad := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[-3.7,40.4]},"properties":{"ID":1}}]}`
	if _, err := ParseSegments([]byte(bad)); err == nil {
		t.Error("expected error for non-LineString geometry")
	}
}

const boundariesJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Polygon", "coordinates": [[[-3.72, 40.40], [-3.68, 40.40], [-3.68, 40.44], [-3.72, 40.44], [-3.72, 40.40]]]},
      "properties": {"NOMBAR": "Centro"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Polygon", "coordinates": [[[-3.60, 40.30], [-3.59, 40.30], [-3.59, 40.31], [-3.60, 40.30]]]},
      "properties": {"NOMBAR": "No está en la zona SER"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "MultiPolygon", "coordinates": [
        [[[-3.75, 40.45], [-3.74, 40.45], [-3.74, 40.46], [-3.75, 40.45]]],
        [[[-3.73, 40.47], [-3.72, 40.47], [-3.72, 40.48], [-3.73, 40.47]]]
      ]},
      "properties": {"NOMBAR": "Chamberí"}
    }
  ]
}`

func TestParseBoundaries(t *testing.T) {
	recs, err := ParseBoundaries([]byte(boundariesJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1 polygon + 2 multipolygon members; the non-SER barrio is filtered.
	if len(recs) != 3 {
		t.Fatalf("expected 3 boundaries, got %d", len(recs))
	}
	if recs[0].Name != "Centro" || len(recs[0].Ring) != 5 {
		t.Errorf("first boundary wrong: %s with %d points", recs[0].Name, len(recs[0].Ring))
	}
	if recs[1].Name != "Chamberí" || recs[2].Name != "Chamberí" {
		t.Errorf("multipolygon members missing: %+v", recs[1:])
	}
}

func TestParseBoundaries_NotAFeatureCollection(t *testing.T) {
	if _, err := ParseBoundaries([]byte(`{"type":"Feature"}`)); err == nil {
		t.Error("expected error for non-FeatureCollection input")
	}
}
