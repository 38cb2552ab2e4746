package http

import (
	"context"
	"log/slog"
	"testing"
)

func TestLoggerFromCtx(t *testing.T) {
	if LoggerFromCtx(context.Background()) != slog.Default() {
		t.Error("bare context must yield the default logger")
	}

	scoped := slog.Default().With("request_id", "abc123")
	ctx := context.WithValue(context.Background(), loggerKey{}, scoped)
	if LoggerFromCtx(ctx) != scoped {
		t.Error("context with a scoped logger must yield it")
	}
}
