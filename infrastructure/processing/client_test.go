package processing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aura-go/domain/segmentation"
	"aura-go/infrastructure/logging"
)

func TestDefaultClientConfig(t *testing.T) {
	config := DefaultClientConfig()

	if config == nil {
		t.Fatal("DefaultClientConfig returned nil")
	}

	if config.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %v, want http://localhost:8000", config.BaseURL)
	}

	if config.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want 120s", config.Timeout)
	}

	if config.HealthInterval != 5*time.Second {
		t.Errorf("HealthInterval = %v, want 5s", config.HealthInterval)
	}

	if config.HealthTimeout != 3*time.Second {
		t.Errorf("HealthTimeout = %v, want 3s", config.HealthTimeout)
	}
}

func encodedJPEG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode() error = %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewHTTPClient(&ClientConfig{
		BaseURL:        server.URL,
		Timeout:        5 * time.Second,
		HealthInterval: time.Hour,
		HealthTimeout:  time.Second,
	})
	t.Cleanup(client.Close)
	return client
}

func TestHTTPClient_Process(t *testing.T) {
	var gotBody map[string]any
	var gotPath string

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/segmentation/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %v, want application/json", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"image": encodedJPEG(t, 8, 4)})
	})

	client := newTestClient(t, mux)
	if !client.IsHealthy() {
		t.Fatal("IsHealthy() = false, want true")
	}

	req := segmentation.NewRequest(segmentation.AlgorithmRegionGrowing, segmentation.DefaultParams(),
		[]segmentation.SeedPoint{{X: 100, Y: 50}})

	img, err := client.Process(context.Background(), segmentation.Route("abc"), req)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if gotPath != "/api/segmentation/abc" {
		t.Errorf("path = %v, want /api/segmentation/abc", gotPath)
	}
	if gotBody["type"] != "regionGrowing" {
		t.Errorf("body type = %v, want regionGrowing", gotBody["type"])
	}
	seeds, ok := gotBody["seedPoints"].([]any)
	if !ok || len(seeds) != 1 {
		t.Fatalf("body seedPoints = %v, want one point", gotBody["seedPoints"])
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("image size = %dx%d, want 8x4", b.Dx(), b.Dy())
	}
}

func TestHTTPClient_ProcessUsesContextLogger(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/segmentation/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"image": encodedJPEG(t, 2, 2)})
	})
	client := newTestClient(t, mux)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil)).With("job_id", "j42")
	ctx := logging.With(context.Background(), logger)

	req := segmentation.NewRequest(segmentation.AlgorithmKMeans, segmentation.DefaultParams(), nil)
	if _, err := client.Process(ctx, segmentation.Route("abc"), req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	out := buf.Bytes()
	if !bytes.Contains(out, []byte("job_id=j42")) || !bytes.Contains(out, []byte("component=processing")) {
		t.Errorf("request log = %q, want job_id and component attributes", out)
	}
}

func TestHTTPClient_ProcessErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/api/segmentation/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Image not found.", http.StatusNotFound)
	})

	client := newTestClient(t, mux)
	req := segmentation.NewRequest(segmentation.AlgorithmKMeans, segmentation.DefaultParams(), nil)

	if _, err := client.Process(context.Background(), segmentation.Route("missing"), req); err == nil {
		t.Error("Process() expected error for 404 response")
	}
}

func TestHTTPClient_ProcessEmptyImage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/api/segmentation/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"image": ""}`)
	})

	client := newTestClient(t, mux)
	req := segmentation.NewRequest(segmentation.AlgorithmKMeans, segmentation.DefaultParams(), nil)

	if _, err := client.Process(context.Background(), segmentation.Route("f"), req); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Process() error = %v, want ErrEmptyResponse", err)
	}
}

func TestHTTPClient_Upload(t *testing.T) {
	var gotName string
	var gotData []byte

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotName = header.Filename
		gotData, _ = io.ReadAll(file)
		_, _ = io.WriteString(w, `{"fileId": "9a1b"}`)
	})

	client := newTestClient(t, mux)

	id, err := client.Upload(context.Background(), "/tmp/photos/cat.png", []byte("pixels"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if id != "9a1b" {
		t.Errorf("Upload() = %v, want 9a1b", id)
	}
	if gotName != "cat.png" {
		t.Errorf("filename = %v, want cat.png", gotName)
	}
	if string(gotData) != "pixels" {
		t.Errorf("data = %q, want pixels", gotData)
	}
}

func TestHTTPClient_Unhealthy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := newTestClient(t, mux)

	if client.IsHealthy() {
		t.Error("IsHealthy() = true, want false")
	}
	if _, err := client.Upload(context.Background(), "a.png", nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Upload() error = %v, want ErrUnavailable", err)
	}
	req := segmentation.NewRequest(segmentation.AlgorithmKMeans, segmentation.DefaultParams(), nil)
	if _, err := client.Process(context.Background(), "/api/segmentation/x", req); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Process() error = %v, want ErrUnavailable", err)
	}
}

func TestDecodeImage(t *testing.T) {
	valid := encodedJPEG(t, 2, 2)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain base64", valid, false},
		{"data url", "data:image/jpeg;base64," + valid, false},
		{"empty", "", true},
		{"not base64", "***", true},
		{"not an image", base64.StdEncoding.EncodeToString([]byte("hello")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeImage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeImage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNoOpClient(t *testing.T) {
	client := NewNoOpClient()

	t.Run("IsHealthy", func(t *testing.T) {
		if client.IsHealthy() {
			t.Error("NoOpClient.IsHealthy() should return false")
		}
	})

	t.Run("Upload", func(t *testing.T) {
		_, err := client.Upload(context.Background(), "a.png", nil)
		if !errors.Is(err, ErrDisabled) {
			t.Errorf("NoOpClient.Upload() error = %v, want ErrDisabled", err)
		}
	})

	t.Run("Process", func(t *testing.T) {
		_, err := client.Process(context.Background(), "/", nil)
		if !errors.Is(err, ErrDisabled) {
			t.Errorf("NoOpClient.Process() error = %v, want ErrDisabled", err)
		}
	})

	t.Run("Close", func(t *testing.T) {
		// Should not panic
		client.Close()
	})
}
