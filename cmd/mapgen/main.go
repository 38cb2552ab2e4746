package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"sermap/internal/adapters/postgres"
	"sermap/internal/core/domain"
	"sermap/internal/core/geoindex"
	"sermap/internal/ingest"
	"sermap/internal/mapgen"
	"sermap/internal/pkg/config"
	"sermap/internal/pkg/logging"
)

// mapgen renders a static, self-contained HTML map from either the database
// or GeoJSON exports, for publishing without running the API:
//
//	mapgen -out mapa_ser.html
//	mapgen -segments bandas.geojson -boundaries barrios.geojson -out mapa.html
func main() {
	var (
		outPath        = flag.String("out", "mapa_ser.html", "output HTML file")
		segmentsPath   = flag.String("segments", "", "GeoJSON export (skips the database)")
		boundariesPath = flag.String("boundaries", "", "GeoJSON export (skips the database)")
		title          = flag.String("title", "", "page title")
	)
	flag.Parse()

	cfg, err := config.Load("sermap-mapgen")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("sermap-mapgen", cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var (
		segments   []domain.Segment
		boundaries []domain.Boundary
	)
	if *segmentsPath != "" && *boundariesPath != "" {
		segments, boundaries, err = loadFromFiles(*segmentsPath, *boundariesPath, cfg.Parking.CoordinatePrecision)
	} else {
		segments, boundaries, err = loadFromDB(ctx, cfg)
	}
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	idx, err := geoindex.New(segments, boundaries)
	if err != nil {
		log.Fatalf("dataset validation: %v", err)
	}

	gen, err := mapgen.New(mapgen.Options{
		Title:     *title,
		CenterLat: cfg.Parking.MapCenterLat,
		CenterLon: cfg.Parking.MapCenterLon,
		Zoom:      cfg.Parking.MapZoom,
		// Static export: no search endpoint available.
	})
	if err != nil {
		log.Fatalf("map generator: %v", err)
	}

	var all []*domain.Segment
	for _, zone := range domain.Zones() {
		all = append(all, idx.SegmentsByZone(zone)...)
	}
	page, err := gen.Render(all, idx.Boundaries())
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	if err := os.WriteFile(*outPath, page, 0o644); err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}
	stats := idx.Stats()
	slog.Info("map rendered",
		"out", *outPath,
		"segments", stats.Segments,
		"boundaries", stats.Boundaries)
}

func loadFromDB(ctx context.Context, cfg *config.Config) ([]domain.Segment, []domain.Boundary, error) {
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	segments, err := postgres.NewSegmentRepo(db).LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	boundaries, err := postgres.NewBoundaryRepo(db).LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return segments, boundaries, nil
}

func loadFromFiles(segmentsPath, boundariesPath string, precision int) ([]domain.Segment, []domain.Boundary, error) {
	data, err := os.ReadFile(segmentsPath)
	if err != nil {
		return nil, nil, err
	}
	segRecords, err := ingest.ParseSegments(data)
	if err != nil {
		return nil, nil, err
	}
	segments, err := ingest.BuildSegments(segRecords, precision)
	if err != nil {
		return nil, nil, err
	}

	data, err = os.ReadFile(boundariesPath)
	if err != nil {
		return nil, nil, err
	}
	bndRecords, err := ingest.ParseBoundaries(data)
	if err != nil {
		return nil, nil, err
	}
	boundaries, err := ingest.BuildBoundaries(bndRecords, precision)
	if err != nil {
		return nil, nil, err
	}
	return segments, boundaries, nil
}
