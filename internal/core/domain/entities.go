package domain

import (
	"time"
)

// Zone is the SER regulation category of a parking segment.
// The labels come straight from the municipal dataset (the Color attribute).
type Zone string

const (
	ZoneVerde        Zone = "Verde"         // resident-priority
	ZoneAzul         Zone = "Azul"          // rotation (blue)
	ZoneNaranja      Zone = "Naranja"       // mixed
	ZoneRojo         Zone = "Rojo"          // restricted
	ZoneAltaRotacion Zone = "Alta Rotación" // high-rotation
	ZoneUnknown      Zone = "Unknown"
)

// Zones lists every known category in display order.
func Zones() []Zone {
	return []Zone{ZoneVerde, ZoneAzul, ZoneNaranja, ZoneRojo, ZoneAltaRotacion, ZoneUnknown}
}

// ParseZone maps a raw dataset label to a Zone. Unrecognised or empty
// labels become ZoneUnknown; the loader treats that as a default, not an error.
func ParseZone(label string) Zone {
	switch Zone(label) {
	case ZoneVerde, ZoneAzul, ZoneNaranja, ZoneRojo, ZoneAltaRotacion:
		return Zone(label)
	default:
		return ZoneUnknown
	}
}

// Segment is one regulated on-street parking band: an immutable polyline
// with its zone category and capacity. Built once at load time.
type Segment struct {
	ID          int64      `json:"id"`
	Zone        Zone       `json:"zone"`
	Spots       int        `json:"spots"`
	BatteryLine string     `json:"battery_line,omitempty"` // "Línea" / "Batería" sub-type label
	Line        []GeoPoint `json:"line"`
	Centroid    GeoPoint   `json:"centroid"`
	CreatedAt   time.Time  `json:"created_at,omitzero"`
}

// Boundary is one closed outline of the SER-regulated area. The first and
// last ring points are conceptually adjacent; the ring is not required to
// repeat the first point.
type Boundary struct {
	Name string     `json:"name,omitempty"` // barrio name from the source shapefile
	Ring []GeoPoint `json:"ring"`
}

// RankedSegment pairs a segment with its centroid distance from a query point.
type RankedSegment struct {
	Segment   *Segment `json:"segment"`
	DistanceM float64  `json:"distance_m"`
}

// Street is a geocoded entry from the SER callejero (street gazetteer),
// with the zones that regulate any of its segments.
type Street struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ViaType   string    `json:"via_type"` // CALLE, AVENIDA, PLAZA, ...
	Zones     []Zone    `json:"zones"`
	Location  GeoPoint  `json:"location"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// ZoneStats aggregates a single zone category.
type ZoneStats struct {
	Zone       Zone `json:"zone"`
	Segments   int  `json:"segments"`
	TotalSpots int  `json:"total_spots"`
}

// DatasetStats describes a loaded dataset.
type DatasetStats struct {
	Segments   int         `json:"segments"`
	TotalSpots int         `json:"total_spots"`
	Boundaries int         `json:"boundaries"`
	ByZone     []ZoneStats `json:"by_zone"`
	LoadedAt   time.Time   `json:"loaded_at"`
}

// SearchStatus distinguishes the three address-search outcomes.
type SearchStatus string

const (
	SearchNotFound   SearchStatus = "not_found"   // geocoder returned nothing
	SearchOutsideSER SearchStatus = "outside_ser" // geocoded, but outside every boundary
	SearchOK         SearchStatus = "ok"          // geocoded, inside, results ranked
)

// SearchResult is the outcome of the address-search flow.
type SearchResult struct {
	Status      SearchStatus    `json:"status"`
	Query       string          `json:"query"`
	DisplayName string          `json:"display_name,omitempty"`
	Location    *GeoPoint       `json:"location,omitempty"`
	Results     []RankedSegment `json:"results,omitempty"`
}
