package util

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()

	debug := NewLogger("debug", "text")
	if !debug.Enabled(ctx, slog.LevelDebug) {
		t.Error("debug logger should enable debug level")
	}

	errOnly := NewLogger("error", "text")
	if errOnly.Enabled(ctx, slog.LevelWarn) {
		t.Error("error logger should not enable warn level")
	}
	if !errOnly.Enabled(ctx, slog.LevelError) {
		t.Error("error logger should enable error level")
	}

	// Unrecognised levels fall back to info.
	fallback := NewLogger("bogus", "text")
	if fallback.Enabled(ctx, slog.LevelDebug) {
		t.Error("fallback logger should not enable debug level")
	}
	if !fallback.Enabled(ctx, slog.LevelInfo) {
		t.Error("fallback logger should enable info level")
	}
}

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"text", "json", "JSON", "unknown"} {
		if NewLogger("info", format) == nil {
			t.Fatalf("NewLogger(info, %q) returned nil", format)
		}
	}
}
