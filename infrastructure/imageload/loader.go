// Package imageload fetches and decodes images for the display surface.
package imageload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when a remote resource is not served as an image.
var ErrNotImage = errors.New("resource is not an image")

// Loader fetches an image by URL.
type Loader interface {
	Load(ctx context.Context, rawURL string) (image.Image, error)
}

// Config contains configuration for the image loader.
type Config struct {
	// Timeout bounds remote fetches. Zero means no timeout.
	Timeout time.Duration
	// MaxBytes caps the size of a fetched image.
	MaxBytes int64
	Logger   *slog.Logger
}

// DefaultConfig returns default loader configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxBytes: 64 << 20,
	}
}

// URLLoader loads images from http(s) URLs, file:// URLs and plain paths.
type URLLoader struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a URLLoader.
func New(cfg *Config) *URLLoader {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultConfig().MaxBytes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &URLLoader{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "imageload"),
	}
}

// Load fetches rawURL and decodes it, applying EXIF orientation.
func (l *URLLoader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	start := time.Now()

	data, err := l.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}

	b := img.Bounds()
	l.logger.Debug("Image loaded", "url", rawURL, "width", b.Dx(), "height", b.Dy(), "elapsed", time.Since(start))
	return img, nil
}

// Decode decodes any registered format and applies EXIF auto-orientation.
func Decode(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func (l *URLLoader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	switch {
	case strings.HasPrefix(rawURL, "http://"), strings.HasPrefix(rawURL, "https://"):
		return l.fetchHTTP(ctx, rawURL)
	case strings.HasPrefix(rawURL, "file://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL %q: %w", rawURL, err)
		}
		return l.readFile(localPath(u))
	default:
		return l.readFile(rawURL)
	}
}

func (l *URLLoader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "application/octet-stream") {
		return nil, fmt.Errorf("%w (Content-Type: %s)", ErrNotImage, contentType)
	}

	return l.readLimited(resp.Body)
}

func (l *URLLoader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return l.readLimited(f)
}

func (l *URLLoader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.config.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > l.config.MaxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", l.config.MaxBytes)
	}
	return data, nil
}

// FileURL returns the file:// URL for a local path. Windows paths become
// file:///C:/dir/name.
func FileURL(path string) string {
	return slashFileURL(filepath.ToSlash(path))
}

func slashFileURL(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// localPath converts a parsed file URL back to an OS path.
func localPath(u *url.URL) string {
	return filepath.FromSlash(trimDriveSlash(u.Path))
}

// trimDriveSlash drops the slash in front of a drive letter ("/C:/x" -> "C:/x").
func trimDriveSlash(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' && isDriveLetter(p[1]) {
		return p[1:]
	}
	return p
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

var _ Loader = (*URLLoader)(nil)
