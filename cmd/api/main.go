package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"sermap/internal/adapters/geocoding"
	"sermap/internal/adapters/http"
	natsadapter "sermap/internal/adapters/nats"
	"sermap/internal/adapters/postgres"
	"sermap/internal/adapters/valkey"
	"sermap/internal/core/domain"
	"sermap/internal/core/ports"
	"sermap/internal/core/usecases"
	"sermap/internal/mapgen"
	"sermap/internal/pkg/config"
	"sermap/internal/pkg/logging"
	"sermap/internal/pkg/metrics"
	"sermap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("sermap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup("sermap-api", cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache. Keep the interface nil on failure so the use cases skip it
	// instead of hitting a typed-nil pointer.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	segmentRepo := postgres.NewSegmentRepo(db)
	boundaryRepo := postgres.NewBoundaryRepo(db)
	streetRepo := postgres.NewStreetRepo(db)

	// Use cases
	parkingSvc := usecases.NewParkingService(nil, cacheSvc,
		cfg.Parking.TopK, domain.ParseZone(cfg.Parking.DefaultZone))
	searchSvc := usecases.NewSearchService(parkingSvc,
		geocoding.New(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent))
	streetSvc := usecases.NewStreetService(streetRepo, cacheSvc)
	datasetSvc := usecases.NewDatasetService(segmentRepo, boundaryRepo, parkingSvc)

	// Initial dataset load. A failure is not fatal: the API comes up
	// not-ready and retries on the next dataset-updated event.
	if stats, err := datasetSvc.Load(ctx); err != nil {
		slog.Error("initial dataset load failed", "error", err)
	} else {
		metrics.SegmentsLoaded.Set(float64(stats.Segments))
	}

	// Hot reload on ingestor announcements
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats subscriber unavailable, dataset reloads disabled", "error", err)
	} else {
		defer sub.Close()
		if err := datasetSvc.WatchUpdates(ctx, sub); err != nil {
			slog.Warn("dataset watch failed", "error", err)
		}
	}

	// Map generator
	mapGen, err := mapgen.New(mapgen.Options{
		CenterLat: cfg.Parking.MapCenterLat,
		CenterLon: cfg.Parking.MapCenterLon,
		Zoom:      cfg.Parking.MapZoom,
		SearchURL: "/v1/search",
	})
	if err != nil {
		log.Fatalf("map generator: %v", err)
	}

	deps := &http.Dependencies{
		Parking:   parkingSvc,
		Search:    searchSvc,
		Streets:   streetSvc,
		Map:       mapGen,
		NATS:      natsConn,
		DB:        db,
		Cache:     cache,
		WalkSpeed: cfg.Parking.WalkSpeedMPerMin,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "SERMap API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Periodically export DB pool stats
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
