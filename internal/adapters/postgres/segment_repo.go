package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sermap/internal/core/domain"
)

// SegmentRepo implements ports.SegmentRepository with pgx.
type SegmentRepo struct {
	db *DB
}

// NewSegmentRepo creates a new SegmentRepo.
func NewSegmentRepo(db *DB) *SegmentRepo {
	return &SegmentRepo{db: db}
}

// UpsertBatch inserts or updates many segments using pgx.Batch.
func (r *SegmentRepo) UpsertBatch(ctx context.Context, segments []domain.Segment) error {
	batch := &pgx.Batch{}
	for _, s := range segments {
		geom, err := lineGeoJSON(s.Line)
		if err != nil {
			return fmt.Errorf("segment %d: %w", s.ID, err)
		}
		batch.Queue(`
			INSERT INTO segments (segment_id, zone, spots, battery_line, line)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_GeomFromGeoJSON($5), 4326)::geography)
			ON CONFLICT (segment_id) DO UPDATE
			SET zone = EXCLUDED.zone, spots = EXCLUDED.spots,
			    battery_line = EXCLUDED.battery_line, line = EXCLUDED.line
		`, s.ID, string(s.Zone), s.Spots, s.BatteryLine, string(geom))
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range segments {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// LoadAll returns every segment in insertion order. The geometry comes back
// as GeoJSON; centroids are recomputed by the index builder.
func (r *SegmentRepo) LoadAll(ctx context.Context) ([]domain.Segment, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT segment_id, zone, spots, COALESCE(battery_line, ''),
		       ST_AsGeoJSON(line::geometry), created_at
		FROM segments
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []domain.Segment
	for rows.Next() {
		var (
			s    domain.Segment
			zone string
			geom []byte
		)
		if err := rows.Scan(&s.ID, &zone, &s.Spots, &s.BatteryLine, &geom, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Zone = domain.ParseZone(zone)
		if s.Line, err = parseLine(geom); err != nil {
			return nil, fmt.Errorf("segment %d: %w", s.ID, err)
		}
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

// Count returns the number of stored segments.
func (r *SegmentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM segments`).Scan(&n)
	return n, err
}
