package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sermap/internal/core/domain"
	"sermap/internal/core/ports"
	"sermap/internal/pkg/geospatial"
	"sermap/internal/pkg/metrics"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Madrid city centre and the radius covering the whole municipality. The
// derived viewbox keeps Nominatim from matching same-named streets
// elsewhere in Spain.
const (
	madridLat     = 40.4168
	madridLon     = -3.7038
	searchRadiusM = 30_000
)

// Nominatim implements ports.Geocoder against the OpenStreetMap Nominatim
// search API. Queries are scoped to Madrid, by suffix and by viewbox, so
// bare street addresses resolve.
type Nominatim struct {
	baseURL   string
	userAgent string
	viewbox   string
	client    *http.Client
}

// New creates a Nominatim geocoder. baseURL may be empty to use the public
// instance; userAgent is mandatory per the Nominatim usage policy.
func New(baseURL, userAgent string) *Nominatim {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(madridLat, madridLon, searchRadiusM)
	return &Nominatim{
		baseURL:   baseURL,
		userAgent: userAgent,
		// Nominatim expects lon,lat corner pairs.
		viewbox: fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", minLon, minLat, maxLon, maxLat),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves an address to a point. A well-formed response with no
// matches returns ports.ErrNoResult.
func (n *Nominatim) Geocode(ctx context.Context, address string) (domain.GeoPoint, string, error) {
	metrics.GeocodeRequests.Inc()

	q := url.Values{}
	q.Set("q", address+", Madrid, Spain")
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("viewbox", n.viewbox)
	q.Set("bounded", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return domain.GeoPoint{}, "", err
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return domain.GeoPoint{}, "", fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeoPoint{}, "", fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.GeoPoint{}, "", fmt.Errorf("nominatim decode: %w", err)
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, "", ports.ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, "", fmt.Errorf("nominatim lat %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, "", fmt.Errorf("nominatim lon %q: %w", results[0].Lon, err)
	}

	point := domain.GeoPoint{Lat: lat, Lon: lon}
	if !point.Valid() {
		return domain.GeoPoint{}, "", fmt.Errorf("nominatim point (%v, %v): %w", lat, lon, domain.ErrInvalidCoordinate)
	}
	return point, results[0].DisplayName, nil
}
