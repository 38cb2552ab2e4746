package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sermap/internal/core/ports"
)

func TestNominatim_Geocode(t *testing.T) {
	var gotUA, gotQuery, gotViewbox, gotBounded string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		gotViewbox = r.URL.Query().Get("viewbox")
		gotBounded = r.URL.Query().Get("bounded")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"40.4167754","lon":"-3.7037902","display_name":"Puerta del Sol, Madrid"}]`))
	}))
	defer srv.Close()

	geo := New(srv.URL, "sermap-test/1.0")
	point, name, err := geo.Geocode(context.Background(), "Puerta del Sol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.Lat != 40.4167754 || point.Lon != -3.7037902 {
		t.Errorf("unexpected point %+v", point)
	}
	if name != "Puerta del Sol, Madrid" {
		t.Errorf("unexpected display name %q", name)
	}
	if gotUA != "sermap-test/1.0" {
		t.Errorf("user agent not sent, got %q", gotUA)
	}
	if gotQuery != "Puerta del Sol, Madrid, Spain" {
		t.Errorf("query should be scoped to Madrid, got %q", gotQuery)
	}
	if gotViewbox == "" || gotBounded != "1" {
		t.Errorf("lookup should be bounded to the Madrid viewbox, got viewbox=%q bounded=%q",
			gotViewbox, gotBounded)
	}
	if !strings.Contains(gotViewbox, "-3.") || !strings.Contains(gotViewbox, "40.") {
		t.Errorf("viewbox should straddle the city centre, got %q", gotViewbox)
	}
}

func TestNominatim_NoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	geo := New(srv.URL, "sermap-test/1.0")
	if _, _, err := geo.Geocode(context.Background(), "Calle Inexistente 999"); !errors.Is(err, ports.ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

func TestNominatim_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	geo := New(srv.URL, "sermap-test/1.0")
	_, _, err := geo.Geocode(context.Background(), "Gran Via 1")
	if err == nil || errors.Is(err, ports.ErrNoResult) {
		t.Errorf("server error must not be ErrNoResult, got %v", err)
	}
}
