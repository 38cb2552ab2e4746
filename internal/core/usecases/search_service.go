package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"sermap/internal/core/domain"
	"sermap/internal/core/ports"
)

// SearchService runs the address-search flow: geocode the address, check SER
// membership, and rank nearby segments of the default zone. The three
// outcomes (not found / outside SER / ranked) stay distinguishable.
type SearchService struct {
	parking  *ParkingService
	geocoder ports.Geocoder
}

// NewSearchService creates a SearchService.
func NewSearchService(parking *ParkingService, geocoder ports.Geocoder) *SearchService {
	return &SearchService{parking: parking, geocoder: geocoder}
}

// Search resolves an address and ranks nearby parking. Geocoder failures and
// empty geocoder results both surface as SearchNotFound (the cause is
// logged); only malformed input or a missing dataset is an error.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}

	result := &domain.SearchResult{Query: query}

	point, displayName, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		if !errors.Is(err, ports.ErrNoResult) {
			slog.Warn("geocoder failed", "query", query, "error", err)
		}
		result.Status = domain.SearchNotFound
		return result, nil
	}

	result.Location = &point
	result.DisplayName = displayName

	inside, err := s.parking.InRegulatedArea(ctx, point.Lat, point.Lon)
	if err != nil {
		return nil, err
	}
	if !inside {
		result.Status = domain.SearchOutsideSER
		return result, nil
	}

	ranked, err := s.parking.Nearest(ctx, point.Lat, point.Lon, s.parking.DefaultZone(), limit)
	if err != nil {
		return nil, err
	}

	result.Status = domain.SearchOK
	result.Results = ranked
	return result, nil
}
