package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sermap/internal/core/domain"
)

// StreetRepo implements ports.StreetRepository with pgx.
type StreetRepo struct {
	db *DB
}

// NewStreetRepo creates a new StreetRepo.
func NewStreetRepo(db *DB) *StreetRepo {
	return &StreetRepo{db: db}
}

// UpsertBatch inserts or updates many gazetteer entries using pgx.Batch.
func (r *StreetRepo) UpsertBatch(ctx context.Context, streets []domain.Street) error {
	batch := &pgx.Batch{}
	for _, s := range streets {
		batch.Queue(`
			INSERT INTO streets (street_id, name, via_type, zones, location)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography)
			ON CONFLICT (street_id) DO UPDATE
			SET name = EXCLUDED.name, via_type = EXCLUDED.via_type,
			    zones = EXCLUDED.zones, location = EXCLUDED.location
		`, s.ID, s.Name, s.ViaType, zoneLabels(s.Zones), s.Location.Lon, s.Location.Lat)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range streets {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// Search performs fuzzy + full-text search on street names.
func (r *StreetRepo) Search(ctx context.Context, query string, limit int) ([]domain.Street, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT street_id, name, via_type, zones,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       created_at,
		       similarity(name, $1) as sim
		FROM streets
		WHERE name_vector @@ plainto_tsquery('spanish', $1)
		   OR name %> $1
		ORDER BY sim DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streets []domain.Street
	for rows.Next() {
		var (
			s     domain.Street
			zones []string
			sim   float64
		)
		if err := rows.Scan(
			&s.ID, &s.Name, &s.ViaType, &zones,
			&s.Location.Lat, &s.Location.Lon,
			&s.CreatedAt, &sim,
		); err != nil {
			return nil, err
		}
		s.Zones = zonesFromLabels(zones)
		streets = append(streets, s)
	}
	return streets, rows.Err()
}

// zoneLabels flattens zone values for the text[] column.
func zoneLabels(zones []domain.Zone) []string {
	out := make([]string, len(zones))
	for i, z := range zones {
		out[i] = string(z)
	}
	return out
}

// zonesFromLabels restores stored labels verbatim. The callejero labels
// zones by SER area number ("001", "054"), not by colour, so the labels
// must survive the round trip untouched.
func zonesFromLabels(labels []string) []domain.Zone {
	out := make([]domain.Zone, len(labels))
	for i, l := range labels {
		out[i] = domain.Zone(l)
	}
	return out
}
