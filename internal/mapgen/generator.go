// Package mapgen renders the interactive Leaflet map of the SER parking
// dataset as a self-contained HTML page: per-zone layer groups, the SER
// boundary outline, a legend, and an address-search box wired to the API.
package mapgen

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"

	"sermap/internal/core/domain"
)

//go:embed templates/map.html.tmpl
var mapTemplate string

// Options positions the initial map view.
type Options struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	// SearchURL is the address-search endpoint the page calls; empty hides
	// the search box (static export).
	SearchURL string
}

// Generator renders map pages from a parsed template.
type Generator struct {
	tmpl *template.Template
	opts Options
}

// New parses the embedded template. Zero option fields get Madrid defaults.
func New(opts Options) (*Generator, error) {
	if opts.Title == "" {
		opts.Title = "Zonas SER Madrid"
	}
	if opts.CenterLat == 0 && opts.CenterLon == 0 {
		opts.CenterLat, opts.CenterLon = 40.4168, -3.7038
	}
	if opts.Zoom == 0 {
		opts.Zoom = 13
	}

	tmpl, err := template.New("map").Parse(mapTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse map template: %w", err)
	}
	return &Generator{tmpl: tmpl, opts: opts}, nil
}

// zoneLayer is one togglable layer group on the map.
type zoneLayer struct {
	Zone     domain.Zone      `json:"zone"`
	Style    domain.ZoneStyle `json:"style"`
	Segments []segmentFeature `json:"segments"`
}

type segmentFeature struct {
	ID     int64        `json:"id"`
	Spots  int          `json:"spots"`
	Line   [][2]float64 `json:"line"` // [lat, lon] pairs, Leaflet order
	Weight float64      `json:"weight"`
}

type boundaryFeature struct {
	Name string       `json:"name"`
	Ring [][2]float64 `json:"ring"`
}

// lineWeight scales stroke width with capacity, clamped so sparse and dense
// segments both stay legible.
func lineWeight(spots int) float64 {
	w := float64(spots) * 0.3
	if w < 3 {
		return 3
	}
	if w > 10 {
		return 10
	}
	return w
}

func latLngs(line []domain.GeoPoint) [][2]float64 {
	out := make([][2]float64, len(line))
	for i, p := range line {
		out[i] = [2]float64{p.Lat, p.Lon}
	}
	return out
}

// Render produces the full HTML page with the dataset embedded as JSON.
func (g *Generator) Render(segments []*domain.Segment, boundaries []domain.Boundary) ([]byte, error) {
	styles := domain.DefaultStyles()

	byZone := make(map[domain.Zone]*zoneLayer)
	var layers []*zoneLayer
	for _, zone := range domain.Zones() {
		l := &zoneLayer{Zone: zone, Style: styles.Style(zone), Segments: []segmentFeature{}}
		byZone[zone] = l
		layers = append(layers, l)
	}

	for _, s := range segments {
		l, ok := byZone[s.Zone]
		if !ok {
			l = byZone[domain.ZoneUnknown]
		}
		l.Segments = append(l.Segments, segmentFeature{
			ID:     s.ID,
			Spots:  s.Spots,
			Line:   latLngs(s.Line),
			Weight: lineWeight(s.Spots),
		})
	}

	// Drop empty layers so the control only lists zones in the dataset.
	filtered := layers[:0]
	for _, l := range layers {
		if len(l.Segments) > 0 {
			filtered = append(filtered, l)
		}
	}

	outlines := make([]boundaryFeature, len(boundaries))
	for i, b := range boundaries {
		outlines[i] = boundaryFeature{Name: b.Name, Ring: latLngs(b.Ring)}
	}

	layersJSON, err := json.Marshal(filtered)
	if err != nil {
		return nil, fmt.Errorf("marshal layers: %w", err)
	}
	boundsJSON, err := json.Marshal(outlines)
	if err != nil {
		return nil, fmt.Errorf("marshal boundaries: %w", err)
	}

	var buf bytes.Buffer
	err = g.tmpl.Execute(&buf, map[string]interface{}{
		"Title":      g.opts.Title,
		"CenterLat":  g.opts.CenterLat,
		"CenterLon":  g.opts.CenterLon,
		"Zoom":       g.opts.Zoom,
		"SearchURL":  g.opts.SearchURL,
		"Layers":     template.JS(layersJSON),
		"Boundaries": template.JS(boundsJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("execute map template: %w", err)
	}
	return buf.Bytes(), nil
}
