package logging

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDefaultLogDir(t *testing.T) {
	dir := DefaultLogDir()
	if filepath.Base(dir) != "logs" || filepath.Base(filepath.Dir(dir)) != "aura" {
		t.Errorf("DefaultLogDir() = %v, want .../aura/logs", dir)
	}
}

func TestContextLogger(t *testing.T) {
	if got := From(context.Background()); got != L() {
		t.Error("From(empty ctx) should return the global logger")
	}

	logger := slog.Default().With("slot", 1)
	ctx := With(context.Background(), logger)
	if got := From(ctx); got != logger {
		t.Error("From() did not return the logger stored by With()")
	}

	if _, ok := Lookup(context.Background()); ok {
		t.Error("Lookup(empty ctx) reported a logger")
	}
	if got, ok := Lookup(ctx); !ok || got != logger {
		t.Error("Lookup() did not find the stored logger")
	}

	ctx = WithAttrs(ctx, "job", "j1")
	if got := From(ctx); got == logger {
		t.Error("WithAttrs() should store an enriched logger")
	}
}
