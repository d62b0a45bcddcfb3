// Package logging sets up the process logger. Build with -tags prod to log to
// rotating files; default builds log to the console.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config controls the process logger.
type Config struct {
	Level slog.Level
	// Dir holds rotated log files in prod builds. Empty means DefaultLogDir.
	Dir string

	// Rotation limits, prod builds only.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// AddSource records the calling file and line.
	AddSource bool
}

// DefaultConfig returns info-level logging with modest rotation limits.
func DefaultConfig() *Config {
	return &Config{
		Level:      slog.LevelInfo,
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 30,
		Compress:   true,
	}
}

// DefaultLogDir is <user config dir>/aura/logs, falling back to the cache and
// temp directories when the config dir cannot be resolved.
func DefaultLogDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		if base, err = os.UserCacheDir(); err != nil {
			base = os.TempDir()
		}
	}
	return filepath.Join(base, "aura", "logs")
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
// An empty name means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

var globalLogger *slog.Logger

// L returns the logger installed by Setup, or slog.Default before that.
func L() *slog.Logger {
	if globalLogger != nil {
		return globalLogger
	}
	return slog.Default()
}

func setGlobal(logger *slog.Logger) {
	globalLogger = logger
	slog.SetDefault(logger)
}

type ctxKey struct{}

// With stores logger in ctx.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Lookup returns the logger stored in ctx, if any.
func Lookup(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	return logger, ok && logger != nil
}

// From returns the logger stored in ctx, or L().
func From(ctx context.Context) *slog.Logger {
	if logger, ok := Lookup(ctx); ok {
		return logger
	}
	return L()
}

// WithAttrs stores a copy of ctx's logger enriched with args.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	return With(ctx, From(ctx).With(args...))
}
