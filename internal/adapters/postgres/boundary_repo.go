package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sermap/internal/core/domain"
)

// BoundaryRepo implements ports.BoundaryRepository with pgx.
type BoundaryRepo struct {
	db *DB
}

// NewBoundaryRepo creates a new BoundaryRepo.
func NewBoundaryRepo(db *DB) *BoundaryRepo {
	return &BoundaryRepo{db: db}
}

// ReplaceAll swaps the full boundary set in one transaction. Boundaries are
// only ever replaced wholesale on ingest, never patched.
func (r *BoundaryRepo) ReplaceAll(ctx context.Context, boundaries []domain.Boundary) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE boundaries`); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		for _, b := range boundaries {
			geom, err := ringGeoJSON(b.Ring)
			if err != nil {
				return fmt.Errorf("boundary %q: %w", b.Name, err)
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO boundaries (name, outline)
				VALUES ($1, ST_SetSRID(ST_GeomFromGeoJSON($2), 4326)::geography)
			`, b.Name, string(geom)); err != nil {
				return fmt.Errorf("insert boundary %q: %w", b.Name, err)
			}
		}
		return nil
	})
}

// LoadAll returns every boundary outline in insertion order.
func (r *BoundaryRepo) LoadAll(ctx context.Context) ([]domain.Boundary, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT COALESCE(name, ''), ST_AsGeoJSON(outline::geometry)
		FROM boundaries
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boundaries []domain.Boundary
	for rows.Next() {
		var (
			b    domain.Boundary
			geom []byte
		)
		if err := rows.Scan(&b.Name, &geom); err != nil {
			return nil, err
		}
		if b.Ring, err = parseRing(geom); err != nil {
			return nil, fmt.Errorf("boundary %q: %w", b.Name, err)
		}
		boundaries = append(boundaries, b)
	}
	return boundaries, rows.Err()
}
