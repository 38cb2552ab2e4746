package http

import (
	"github.com/nats-io/nats.go"

	"sermap/internal/adapters/postgres"
	"sermap/internal/adapters/valkey"
	"sermap/internal/core/usecases"
	"sermap/internal/mapgen"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Parking *usecases.ParkingService
	Search  *usecases.SearchService
	Streets *usecases.StreetService
	Map     *mapgen.Generator
	NATS    *nats.Conn
	DB      *postgres.DB
	Cache   *valkey.Cache

	// WalkSpeed converts ranked distances to walking minutes in responses.
	WalkSpeed float64
}
