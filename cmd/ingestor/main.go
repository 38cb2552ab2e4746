package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	natsadapter "sermap/internal/adapters/nats"
	"sermap/internal/adapters/postgres"
	"sermap/internal/core/domain"
	"sermap/internal/core/geoindex"
	"sermap/internal/ingest"
	"sermap/internal/pkg/config"
	"sermap/internal/pkg/logging"
)

// The ingestor loads the monthly municipal exports into Postgres and
// announces the new dataset over NATS so API instances hot-reload:
//
//	ingestor -segments bandas.geojson -boundaries barrios.geojson \
//	         -callejero callejero.csv
func main() {
	var (
		segmentsPath   = flag.String("segments", "", "Bandas_de_Aparcamiento GeoJSON export")
		boundariesPath = flag.String("boundaries", "", "Barrios_Zona_SER GeoJSON export")
		callejeroPath  = flag.String("callejero", "", "CALLEJERO_VIGENTE_SER CSV (optional)")
		dryRun         = flag.Bool("dry-run", false, "parse and validate without writing")
	)
	flag.Parse()

	cfg, err := config.Load("sermap-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("sermap-ingestor", cfg.Logging.Level, cfg.Logging.Format)

	if *segmentsPath == "" || *boundariesPath == "" {
		log.Fatal("usage: ingestor -segments <geojson> -boundaries <geojson> [-callejero <csv>]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	segments, err := loadSegments(*segmentsPath, cfg.Parking.CoordinatePrecision)
	if err != nil {
		log.Fatalf("segments: %v", err)
	}
	boundaries, err := loadBoundaries(*boundariesPath, cfg.Parking.CoordinatePrecision)
	if err != nil {
		log.Fatalf("boundaries: %v", err)
	}

	var streets []domain.Street
	if *callejeroPath != "" {
		streets, err = loadStreets(*callejeroPath)
		if err != nil {
			log.Fatalf("callejero: %v", err)
		}
	}

	// Build the index once here so a broken export never reaches the
	// database: the same validation the API runs at load time.
	idx, err := geoindex.New(segments, boundaries)
	if err != nil {
		log.Fatalf("dataset validation: %v", err)
	}
	stats := idx.Stats()
	slog.Info("dataset parsed",
		"segments", stats.Segments,
		"spots", stats.TotalSpots,
		"boundaries", stats.Boundaries,
		"streets", len(streets))

	if *dryRun {
		slog.Info("dry run, skipping persistence")
		return
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := postgres.NewSegmentRepo(db).UpsertBatch(ctx, segments); err != nil {
		log.Fatalf("persist segments: %v", err)
	}
	if err := postgres.NewBoundaryRepo(db).ReplaceAll(ctx, boundaries); err != nil {
		log.Fatalf("persist boundaries: %v", err)
	}
	if len(streets) > 0 {
		if err := postgres.NewStreetRepo(db).UpsertBatch(ctx, streets); err != nil {
			log.Fatalf("persist streets: %v", err)
		}
	}
	slog.Info("dataset persisted")

	// Announce so running API instances reload.
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, dataset announcement skipped", "error", err)
		return
	}
	defer pub.Close()

	if err := pub.PublishDatasetUpdated(ctx, stats); err != nil {
		slog.Error("publish dataset update", "error", err)
		os.Exit(1)
	}
	slog.Info("dataset update announced")
}

// Any invalid geometry aborts the run before anything touches the database;
// a broken export is a publishing problem upstream, not something to paper
// over by half-loading.
func loadSegments(path string, precision int) ([]domain.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := ingest.ParseSegments(data)
	if err != nil {
		return nil, err
	}
	return ingest.BuildSegments(records, precision)
}

func loadBoundaries(path string, precision int) ([]domain.Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := ingest.ParseBoundaries(data)
	if err != nil {
		return nil, err
	}
	return ingest.BuildBoundaries(records, precision)
}

func loadStreets(path string) ([]domain.Street, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ingest.ParseCallejero(f)
	if err != nil {
		return nil, err
	}

	streets := make([]domain.Street, 0, len(records))
	for _, rec := range records {
		id, err := strconv.ParseInt(rec.Code, 10, 64)
		if err != nil {
			slog.Warn("skipping street with non-numeric code", "code", rec.Code)
			continue
		}
		// The callejero labels zones by SER area number, not by colour;
		// keep the raw label.
		zones := make([]domain.Zone, 0, len(rec.Zones))
		for _, z := range rec.Zones {
			zones = append(zones, domain.Zone(z))
		}
		streets = append(streets, domain.Street{
			ID:       id,
			Name:     rec.Name,
			ViaType:  rec.ViaType,
			Zones:    zones,
			Location: domain.GeoPoint{Lat: rec.Lat, Lon: rec.Lon},
		})
	}
	return streets, nil
}
