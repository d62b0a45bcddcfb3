// Package slot implements the Slot Actor that owns one annotation surface.
package slot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"aura-go/core/command"
	"aura-go/core/event"
	"aura-go/core/eventbus"
	"aura-go/core/state"
	"aura-go/domain/annotation"
	"aura-go/domain/job"
	"aura-go/domain/segmentation"
	"aura-go/infrastructure/imageload"
	"aura-go/infrastructure/processing"
)

// Slot is one workspace slot as an Actor. It processes commands serially
// through a command queue, so the display surface is only touched by its loop.
// Image loads, uploads and jobs run in goroutines and report back through the
// same queue.
type Slot struct {
	// Identity
	index int

	// State owned by the loop
	surface   *annotation.Surface
	uploadGen uint64
	jobSeq    uint64

	// State readable from other goroutines
	algorithm  segmentation.AlgorithmType
	seedPoints []segmentation.SeedPoint
	stateMu    sync.RWMutex

	// Dependencies
	workspace *state.Workspace
	registry  *segmentation.Registry
	jobs      *job.Service
	loader    imageload.Loader
	client    processing.Client
	eventBus  eventbus.EventBus
	logger    *slog.Logger

	// Command processing
	cmdChan chan command.Command
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Config holds configuration for creating a new Slot.
type Config struct {
	Index         int
	Workspace     *state.Workspace
	Registry      *segmentation.Registry
	Jobs          *job.Service
	Loader        imageload.Loader
	Client        processing.Client
	EventBus      eventbus.EventBus
	MarkerRadius  float64
	Logger        *slog.Logger
	CommandBuffer int
}

// New creates a new Slot actor.
func New(cfg *Config) *Slot {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = 100
	}
	if cfg.Workspace == nil {
		cfg.Workspace = state.NewWorkspace(cfg.Index + 1)
	}
	if cfg.Registry == nil {
		cfg.Registry = segmentation.NewRegistry()
	}
	if cfg.Loader == nil {
		cfg.Loader = imageload.New(nil)
	}
	if cfg.Client == nil {
		cfg.Client = processing.NewNoOpClient()
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Slot{
		index:      cfg.Index,
		surface:    annotation.NewSurface(cfg.MarkerRadius),
		seedPoints: []segmentation.SeedPoint{},
		workspace:  cfg.Workspace,
		registry:   cfg.Registry,
		jobs:       cfg.Jobs,
		loader:     cfg.Loader,
		client:     cfg.Client,
		eventBus:   cfg.EventBus,
		logger:     cfg.Logger.With("slot", cfg.Index),
		cmdChan:    make(chan command.Command, cfg.CommandBuffer),
		ctx:        ctx,
		cancel:     cancel,
	}

	if first := s.registry.All(); len(first) > 0 {
		s.algorithm = first[0].Type
	}
	s.surface.SetOnChange(s.onSeedPointsChanged)

	return s
}

// Start begins the slot's command processing loop.
func (s *Slot) Start() {
	s.wg.Add(1)
	go s.run()
	s.logger.Info("Slot started")
}

// Stop signals the slot to stop and waits for in-flight work with timeout.
func (s *Slot) Stop() {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Slot stopped")
	case <-time.After(3 * time.Second):
		s.logger.Warn("Slot stop timeout")
	}
}

// Send sends a command to the slot for processing.
// Returns an error if the slot is not accepting commands.
func (s *Slot) Send(cmd command.Command) error {
	select {
	case <-s.ctx.Done():
		return fmt.Errorf("slot %d is stopped", s.index)
	default:
	}

	select {
	case s.cmdChan <- cmd:
		return nil
	default:
		return fmt.Errorf("slot %d command queue full", s.index)
	}
}

// post enqueues an internal completion, waiting for room in the queue.
func (s *Slot) post(cmd command.Command) {
	select {
	case s.cmdChan <- cmd:
	case <-s.ctx.Done():
	}
}

// Index returns the slot index.
func (s *Slot) Index() int {
	return s.index
}

// Algorithm returns the selected algorithm.
func (s *Slot) Algorithm() segmentation.AlgorithmType {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.algorithm
}

// SeedPoints returns the latest image-space projection of the seed points.
func (s *Slot) SeedPoints() []segmentation.SeedPoint {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	out := make([]segmentation.SeedPoint, len(s.seedPoints))
	copy(out, s.seedPoints)
	return out
}

// run is the main command processing loop.
func (s *Slot) run() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case cmd := <-s.cmdChan:
			s.processCommand(cmd)
		}
	}
}

// processCommand handles a single command.
func (s *Slot) processCommand(cmd command.Command) {
	s.logger.Debug("Processing command", "command", cmd.CommandName())

	switch c := cmd.(type) {
	// Canvas operations
	case *command.LoadImage:
		s.handleLoadImage(c.URL)
	case *command.ResizeViewport:
		s.handleResizeViewport(c)
	case *command.PressCanvas:
		s.handlePressCanvas(c)
	case *command.RemovePoint:
		s.handleRemovePoint(c)
	case *command.ResetSlot:
		s.handleReset()

	// Job operations
	case *command.UploadFile:
		s.handleUploadFile(c)
	case *command.SetAlgorithm:
		s.handleSetAlgorithm(c)
	case *command.SubmitJob:
		s.handleSubmitJob(c)

	// Completions posted by background work
	case *loadFinished:
		s.handleLoadFinished(c)
	case *uploadFinished:
		s.handleUploadFinished(c)
	case *jobStarted:
		s.handleJobStarted(c)
	case *jobFinished:
		s.handleJobFinished(c)

	default:
		s.logger.Warn("Unknown command", "command", fmt.Sprintf("%T", cmd))
	}
}

func (s *Slot) publishEvent(e event.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(e)
	}
}

// onSeedPointsChanged receives every re-projection from the surface.
func (s *Slot) onSeedPointsChanged(points []annotation.Point) {
	seeds := make([]segmentation.SeedPoint, len(points))
	for i, p := range points {
		seeds[i] = segmentation.SeedPoint{X: p.X, Y: p.Y}
	}

	s.stateMu.Lock()
	s.seedPoints = seeds
	s.stateMu.Unlock()

	out := make([]segmentation.SeedPoint, len(seeds))
	copy(out, seeds)
	s.publishEvent(event.NewSeedPointsChanged(s.index, out))
}

// publishMarkers tells the canvas what to draw.
func (s *Slot) publishMarkers() {
	t, ok := s.surface.Transform()
	s.publishEvent(event.NewMarkersChanged(s.index, t, ok, s.surface.DisplayPoints(), s.surface.MarkerRadius()))
}
