//go:build !prod

package logging

import (
	"log/slog"
	"os"
)

// Setup installs a console logger on stderr. Dir and the rotation settings
// are ignored in dev builds. The returned close function is a no-op.
func Setup(cfg *Config) (*slog.Logger, func() error, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger := slog.New(newHandler(os.Stderr, cfg))
	setGlobal(logger)
	logger.Debug("Console logging enabled", "level", cfg.Level.String())

	return logger, func() error { return nil }, nil
}
