package mapgen

import (
	"strings"
	"testing"

	"sermap/internal/core/domain"
)

func segment(id int64, zone domain.Zone, spots int) *domain.Segment {
	return &domain.Segment{
		ID:    id,
		Zone:  zone,
		Spots: spots,
		Line: []domain.GeoPoint{
			{Lat: 40.4170, Lon: -3.7040},
			{Lat: 40.4175, Lon: -3.7035},
		},
	}
}

func TestLineWeight(t *testing.T) {
	cases := []struct {
		spots int
		want  float64
	}{
		{0, 3},    // clamps up
		{5, 3},    // 1.5 clamps up
		{20, 6},   // 6.0 in range
		{50, 10},  // clamps down
		{200, 10}, // clamps down
	}
	for _, tc := range cases {
		if got := lineWeight(tc.spots); got != tc.want {
			t.Errorf("lineWeight(%d) = %v, want %v", tc.spots, got, tc.want)
		}
	}
}

func TestRender(t *testing.T) {
	gen, err := New(Options{SearchURL: "/v1/search"})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	segments := []*domain.Segment{
		segment(1, domain.ZoneAzul, 12),
		segment(2, domain.ZoneAzul, 4),
		segment(3, domain.ZoneVerde, 30),
	}
	boundaries := []domain.Boundary{
		{Name: "Centro", Ring: []domain.GeoPoint{
			{Lat: 40.0, Lon: -4.0}, {Lat: 40.0, Lon: -3.0},
			{Lat: 41.0, Lon: -3.0}, {Lat: 41.0, Lon: -4.0},
		}},
	}

	page, err := gen.Render(segments, boundaries)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(page)

	for _, want := range []string{
		"Zonas SER Madrid",     // default title
		`"zone":"Azul"`,        // layer present
		`"zone":"Verde"`,       // layer present
		"#007bff",              // Azul colour in embedded styles
		"Centro",               // boundary name
		"/v1/search",           // search endpoint wired in
		"leaflet@1.9.4",        // Leaflet assets
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	// Zones with no segments must not appear as layers.
	if strings.Contains(html, `"zone":"Rojo"`) {
		t.Error("empty zone layer should be dropped")
	}
}

func TestRenderNoSearchBox(t *testing.T) {
	gen, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	page, err := gen.Render([]*domain.Segment{segment(1, domain.ZoneAzul, 10)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(page), "Buscar dirección") && !strings.Contains(string(page), "if (searchURL)") {
		t.Error("search box should be gated on a configured search URL")
	}
}
