package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sermap/internal/core/domain"
	"sermap/internal/core/ports"
)

// StreetService searches the geocoded street gazetteer.
type StreetService struct {
	streets ports.StreetRepository
	cache   ports.CacheService
}

// NewStreetService creates a StreetService.
func NewStreetService(streets ports.StreetRepository, cache ports.CacheService) *StreetService {
	return &StreetService{streets: streets, cache: cache}
}

// Search matches street names by trigram similarity.
func (s *StreetService) Search(ctx context.Context, query string, limit int) ([]domain.Street, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("streets:search:%s:%d", strings.ToLower(query), limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var streets []domain.Street
			if err := json.Unmarshal(data, &streets); err == nil {
				return streets, nil
			}
		}
	}

	streets, err := s.streets.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	// The gazetteer only changes on monthly ingests.
	if s.cache != nil {
		if data, err := json.Marshal(streets); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return streets, nil
}
