package imageload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestURLLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed image.png")
	if err := os.WriteFile(path, pngBytes(t, 200, 100), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	loader := New(nil)

	tests := []struct {
		name string
		url  string
	}{
		{"bare path", path},
		{"file url", FileURL(path)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := loader.Load(context.Background(), tt.url)
			if err != nil {
				t.Fatalf("Load(%q) error = %v", tt.url, err)
			}
			if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
				t.Errorf("size = %dx%d, want 200x100", b.Dx(), b.Dy())
			}
		})
	}
}

func TestSlashFileURL(t *testing.T) {
	tests := []struct {
		name     string
		slashed  string
		wantURL  string
		wantPath string
	}{
		{"unix path", "/home/me/a.png", "file:///home/me/a.png", "/home/me/a.png"},
		{"unix path with space", "/home/me/a b.png", "file:///home/me/a%20b.png", "/home/me/a b.png"},
		{"windows drive", "C:/Users/me/a.png", "file:///C:/Users/me/a.png", "C:/Users/me/a.png"},
		{"windows lower drive", "d:/img/seed.jpg", "file:///d:/img/seed.jpg", "d:/img/seed.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slashFileURL(tt.slashed)
			if got != tt.wantURL {
				t.Errorf("slashFileURL(%q) = %q, want %q", tt.slashed, got, tt.wantURL)
			}
			u, err := url.Parse(got)
			if err != nil {
				t.Fatalf("url.Parse(%q) error = %v", got, err)
			}
			if u.Host != "" {
				t.Errorf("Host = %q, want empty", u.Host)
			}
			if p := trimDriveSlash(u.Path); p != tt.wantPath {
				t.Errorf("path = %q, want %q", p, tt.wantPath)
			}
		})
	}
}

func TestFileURL_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub dir", "seed.png")

	u, err := url.Parse(FileURL(path))
	if err != nil {
		t.Fatalf("url.Parse(FileURL(%q)) error = %v", path, err)
	}
	if got := localPath(u); got != path {
		t.Errorf("localPath() = %q, want %q", got, path)
	}
}

func TestURLLoader_HTTP(t *testing.T) {
	data := pngBytes(t, 10, 20)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(data)
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := New(nil)

	img, err := loader.Load(context.Background(), server.URL+"/ok.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 20 {
		t.Errorf("size = %dx%d, want 10x20", b.Dx(), b.Dy())
	}

	if _, err := loader.Load(context.Background(), server.URL+"/page"); !errors.Is(err, ErrNotImage) {
		t.Errorf("Load(html) error = %v, want ErrNotImage", err)
	}

	if _, err := loader.Load(context.Background(), server.URL+"/missing.png"); err == nil {
		t.Error("Load(missing) expected error")
	}
}

func TestURLLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	_ = os.WriteFile(garbage, []byte("not an image"), 0o644)

	big := filepath.Join(dir, "big.png")
	_ = os.WriteFile(big, pngBytes(t, 64, 64), 0o644)

	loader := New(&Config{MaxBytes: 16})

	tests := []struct {
		name string
		url  string
	}{
		{"missing file", filepath.Join(dir, "nope.png")},
		{"undecodable", garbage},
		{"too large", big},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loader.Load(context.Background(), tt.url); err == nil {
				t.Errorf("Load(%q) expected error", tt.url)
			}
		})
	}
}
