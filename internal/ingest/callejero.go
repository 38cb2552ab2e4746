package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"sermap/internal/core/domain"
)

// The callejero CSV (CALLEJERO_VIGENTE_SER_*.csv) lists every regulated
// street segment with its SER zone and, in the coordinate export, latitude
// and longitude as degree/minute/second strings.

// StreetRecord is one aggregated street: all zones that regulate any of its
// segments, plus a representative geocoded point.
type StreetRecord struct {
	Code    string
	Name    string
	ViaType string
	Zones   []string
	Lat     float64
	Lon     float64
}

// ParseDMS converts a degrees/minutes/seconds coordinate string, e.g.
// `40°29'21.84'' N` or `3°40'23.56'' W`, into a signed decimal degree value.
func ParseDMS(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty coordinate")
	}

	dir := s[len(s)-1]
	body := strings.TrimSpace(s[:len(s)-1])

	replacer := strings.NewReplacer("°", " ", "''", " ", "\"", " ", "'", " ")
	parts := strings.Fields(replacer.Replace(body))
	if len(parts) < 3 {
		return 0, fmt.Errorf("malformed DMS coordinate %q", s)
	}

	var deg, min, sec float64
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1]+" "+parts[2], "%f %f %f", &deg, &min, &sec); err != nil {
		return 0, fmt.Errorf("malformed DMS coordinate %q: %w", s, err)
	}

	dec := deg + min/60 + sec/3600
	switch dir {
	case 'N', 'E':
		return dec, nil
	case 'S', 'W', 'O': // O = Oeste in some exports
		return -dec, nil
	default:
		return 0, fmt.Errorf("unknown direction %q in %q", string(dir), s)
	}
}

// column names in the municipal export, after header trimming
const (
	colViaCode = "Codigo de via"
	colViaName = "Nombre de la via"
	colViaPart = "Particula de la via"
	colViaType = "Clase de la via"
	colZone    = "Zona S E R  del tramo"
	colLat     = "LATITUD"
	colLon     = "LONGITUD"
)

// ParseCallejero reads the semicolon-delimited street CSV, groups rows by
// street code, unions their zone labels, and keeps the first valid DMS
// coordinate per street. Rows without parseable coordinates are skipped;
// zone label "0" (unregulated) is dropped from the union.
func ParseCallejero(r io.Reader) ([]StreetRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{colViaCode, colViaName, colZone} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	type agg struct {
		rec   StreetRecord
		zones map[string]struct{}
	}
	byCode := make(map[string]*agg)
	var order []string

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		code := field(row, colViaCode)
		if code == "" {
			continue
		}

		a, ok := byCode[code]
		if !ok {
			name := strings.TrimSpace(field(row, colViaPart) + " " + field(row, colViaName))
			a = &agg{
				rec:   StreetRecord{Code: code, Name: name, ViaType: field(row, colViaType)},
				zones: make(map[string]struct{}),
			}
			byCode[code] = a
			order = append(order, code)
		}

		if z := field(row, colZone); z != "" && z != "0" {
			a.zones[z] = struct{}{}
		}

		if a.rec.Lat == 0 && a.rec.Lon == 0 {
			lat, latErr := ParseDMS(field(row, colLat))
			lon, lonErr := ParseDMS(field(row, colLon))
			if latErr == nil && lonErr == nil {
				p := domain.GeoPoint{Lat: lat, Lon: lon}
				if p.Valid() {
					a.rec.Lat, a.rec.Lon = lat, lon
				}
			}
		}
	}

	records := make([]StreetRecord, 0, len(order))
	for _, code := range order {
		a := byCode[code]
		// Streets never geocoded or never regulated carry no value downstream.
		if (a.rec.Lat == 0 && a.rec.Lon == 0) || len(a.zones) == 0 {
			continue
		}
		for z := range a.zones {
			a.rec.Zones = append(a.rec.Zones, z)
		}
		sort.Strings(a.rec.Zones)
		records = append(records, a.rec)
	}
	return records, nil
}
