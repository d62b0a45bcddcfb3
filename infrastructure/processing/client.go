// Package processing provides the client for the remote image processing service.
package processing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"

	"aura-go/domain/segmentation"
	"aura-go/infrastructure/logging"
)

// Common errors for processing operations.
var (
	ErrUnavailable   = errors.New("processing service is currently unavailable")
	ErrDisabled      = errors.New("processing is disabled")
	ErrEmptyResponse = errors.New("processing service returned no image")
)

// Client talks to the processing service.
type Client interface {
	// Upload sends a local image file and returns the service-side file id.
	Upload(ctx context.Context, filename string, data []byte) (string, error)

	// Process posts a job request to route and returns the processed image.
	Process(ctx context.Context, route string, req *segmentation.Request) (image.Image, error)

	// IsHealthy returns true if the processing service is available.
	IsHealthy() bool

	// Close releases resources.
	Close()
}

// ClientConfig contains configuration for the processing client.
type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	HealthInterval time.Duration
	HealthTimeout  time.Duration
	Logger         *slog.Logger
}

// DefaultClientConfig returns default processing client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        "http://localhost:8000",
		Timeout:        120 * time.Second,
		HealthInterval: 5 * time.Second,
		HealthTimeout:  3 * time.Second,
	}
}

// HTTPClient implements Client using HTTP calls to the FastAPI backend.
type HTTPClient struct {
	config       *ClientConfig
	httpClient   *http.Client
	logger       *slog.Logger
	healthy      atomic.Bool
	healthCtx    context.Context
	healthCancel context.CancelFunc
	healthWg     sync.WaitGroup
}

// NewHTTPClient creates a new HTTP-based processing client.
func NewHTTPClient(config *ClientConfig) *HTTPClient {
	if config == nil {
		config = DefaultClientConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	client := &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:       logger.With("component", "processing"),
		healthCtx:    ctx,
		healthCancel: cancel,
	}

	// Perform initial health check
	client.performHealthCheck()

	// Start background health check loop
	client.healthWg.Add(1)
	go client.healthCheckLoop()

	return client
}

// Upload sends data as a multipart form file to /api/upload.
func (c *HTTPClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if !c.IsHealthy() {
		return "", ErrUnavailable
	}

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/upload", body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	respBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var apiResp struct {
		FileID string `json:"fileId"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if apiResp.FileID == "" {
		return "", fmt.Errorf("upload response has no file id")
	}

	c.logger.Info("Image uploaded", "file", filepath.Base(filename), "file_id", apiResp.FileID, "bytes", len(data))
	return apiResp.FileID, nil
}

// Process posts req as JSON to route and decodes the base64 image in the reply.
func (c *HTTPClient) Process(ctx context.Context, route string, r *segmentation.Request) (image.Image, error) {
	if !c.IsHealthy() {
		return nil, ErrUnavailable
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+route, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var apiResp struct {
		Image string `json:"image"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	img, err := DecodeImage(apiResp.Image)
	if err != nil {
		return nil, err
	}

	c.loggerFor(ctx).Info("Image processed", "route", route, "type", r.Type, "elapsed", time.Since(start))
	return img, nil
}

// loggerFor prefers the caller's request-scoped logger.
func (c *HTTPClient) loggerFor(ctx context.Context) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger.With("component", "processing")
	}
	return c.logger
}

// DecodeImage decodes a base64 encoded image, with or without a data URL prefix.
func DecodeImage(encoded string) (image.Image, error) {
	if encoded == "" {
		return nil, ErrEmptyResponse
	}
	if i := strings.Index(encoded, ","); strings.HasPrefix(encoded, "data:") && i >= 0 {
		encoded = encoded[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// IsHealthy returns true if the processing service is available.
func (c *HTTPClient) IsHealthy() bool {
	return c.healthy.Load()
}

// Close releases resources.
func (c *HTTPClient) Close() {
	if c.healthCancel != nil {
		c.healthCancel()
	}
	c.healthWg.Wait()
}

func (c *HTTPClient) healthCheckLoop() {
	defer c.healthWg.Done()

	ticker := time.NewTicker(c.config.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.healthCtx.Done():
			return
		case <-ticker.C:
			c.performHealthCheck()
		}
	}
}

func (c *HTTPClient) performHealthCheck() {
	ctx, cancel := context.WithTimeout(c.healthCtx, c.config.HealthTimeout)
	defer cancel()

	was := c.healthy.Load()
	now := c.checkHealth(ctx)
	c.healthy.Store(now)

	if was != now {
		c.logger.Info("Processing service health changed", "healthy", now)
	}
}

func (c *HTTPClient) checkHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// NoOpClient is a no-operation client for testing or when processing is disabled.
type NoOpClient struct{}

// NewNoOpClient creates a no-operation processing client.
func NewNoOpClient() *NoOpClient {
	return &NoOpClient{}
}

func (c *NoOpClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	return "", ErrDisabled
}

func (c *NoOpClient) Process(ctx context.Context, route string, req *segmentation.Request) (image.Image, error) {
	return nil, ErrDisabled
}

func (c *NoOpClient) IsHealthy() bool {
	return false
}

func (c *NoOpClient) Close() {}

var _ Client = (*NoOpClient)(nil)
