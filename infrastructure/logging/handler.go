package logging

import (
	"io"
	"log/slog"
	"path/filepath"
)

// appName is attached to every record so logs from several tools sharing a
// directory stay separable.
const appName = "aura"

// newHandler builds the text handler shared by both build modes.
func newHandler(w io.Writer, cfg *Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       cfg.Level,
		AddSource:   cfg.AddSource,
		ReplaceAttr: shortenSource,
	}
	return slog.NewTextHandler(w, opts).WithAttrs([]slog.Attr{slog.String("app", appName)})
}

// shortenSource trims source paths to "dir/file.go".
func shortenSource(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey || len(groups) > 0 {
		return a
	}
	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}
	short := *src
	short.File = filepath.Join(filepath.Base(filepath.Dir(src.File)), filepath.Base(src.File))
	return slog.Any(a.Key, &short)
}
