// Package logging configures the process-wide slog logger for the sermap
// binaries (api, ingestor, mapgen, migrate).
package logging

import (
	"log/slog"
	"os"
)

// Setup installs the default logger. Every record carries the binary name
// so the four services can share one log pipeline and still be told apart.
// level accepts the slog level names (case-insensitive), falling back to
// info; format is "json" unless "text" is asked for, which reads better
// when running the ingestor by hand.
func Setup(service, level, format string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h).With("service", service))
}
