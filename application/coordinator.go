// Package application provides the application layer for orchestrating workspace slots.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"aura-go/application/slot"
	"aura-go/core/command"
	"aura-go/core/event"
	"aura-go/core/eventbus"
	"aura-go/core/state"
	"aura-go/domain/job"
	"aura-go/domain/segmentation"
	"aura-go/infrastructure/imageload"
	"aura-go/infrastructure/processing"
)

// Coordinator owns the workspace slots and handles workspace-wide operations.
type Coordinator struct {
	slots     []*slot.Slot
	workspace *state.Workspace

	// Dependencies
	eventBus eventbus.EventBus
	registry *segmentation.Registry
	jobs     *job.Service
	logger   *slog.Logger

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// CoordinatorConfig holds configuration for the Coordinator.
type CoordinatorConfig struct {
	EventBus     eventbus.EventBus
	Registry     *segmentation.Registry
	Jobs         *job.Service
	Loader       imageload.Loader
	Client       processing.Client
	Slots        int
	MarkerRadius float64
	Logger       *slog.Logger
}

// NewCoordinator creates a coordinator and one slot actor per workspace slot.
func NewCoordinator(cfg *CoordinatorConfig) *Coordinator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Slots <= 0 {
		cfg.Slots = 1
	}
	if cfg.Registry == nil {
		cfg.Registry = segmentation.NewRegistry()
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		workspace: state.NewWorkspace(cfg.Slots),
		eventBus:  cfg.EventBus,
		registry:  cfg.Registry,
		jobs:      cfg.Jobs,
		logger:    cfg.Logger,
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < cfg.Slots; i++ {
		c.slots = append(c.slots, slot.New(&slot.Config{
			Index:        i,
			Workspace:    c.workspace,
			Registry:     cfg.Registry,
			Jobs:         cfg.Jobs,
			Loader:       cfg.Loader,
			Client:       cfg.Client,
			EventBus:     cfg.EventBus,
			MarkerRadius: cfg.MarkerRadius,
			Logger:       cfg.Logger,
		}))
	}

	return c
}

// Start starts every slot.
func (c *Coordinator) Start() {
	for _, s := range c.slots {
		s.Start()
	}
	c.logger.Info("Coordinator started", "slots", len(c.slots))
}

// Stop shuts down the coordinator and all slots.
func (c *Coordinator) Stop() {
	c.cancel()

	var wg sync.WaitGroup
	for _, s := range c.slots {
		wg.Add(1)
		go func(s *slot.Slot) {
			defer wg.Done()
			s.Stop()
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		c.logger.Warn("Coordinator stop timeout, some slots may not have stopped cleanly")
	}

	c.logger.Info("Coordinator stopped")
}

// Dispatch sends a command to the appropriate handler.
func (c *Coordinator) Dispatch(cmd command.Command) error {
	c.logger.Debug("Dispatching command", "command", cmd.CommandName())

	switch cmd := cmd.(type) {
	case *command.ResetWorkspace:
		return c.handleResetWorkspace()
	case *command.RefreshHistory:
		return c.handleRefreshHistory(cmd)
	case *command.ClearHistory:
		return c.handleClearHistory()

	// Slot-specific commands
	default:
		if slotCmd, ok := cmd.(command.SlotCommand); ok {
			return c.routeToSlot(slotCmd)
		}
		return fmt.Errorf("unknown command type: %T", cmd)
	}
}

// GetSlot returns the slot actor at index, or nil.
func (c *Coordinator) GetSlot(index int) *slot.Slot {
	if index < 0 || index >= len(c.slots) {
		return nil
	}
	return c.slots[index]
}

// SlotCount returns the number of workspace slots.
func (c *Coordinator) SlotCount() int {
	return len(c.slots)
}

// Workspace returns the shared workspace state.
func (c *Coordinator) Workspace() *state.Workspace {
	return c.workspace
}

// Registry returns the algorithm catalog.
func (c *Coordinator) Registry() *segmentation.Registry {
	return c.registry
}

// Command handlers

// handleResetWorkspace clears every slot. Slots are reset through their own
// queues so that in-flight loads and jobs are discarded in order.
func (c *Coordinator) handleResetWorkspace() error {
	c.workspace.ResetAll()

	var firstErr error
	for _, s := range c.slots {
		if err := s.Send(command.NewResetSlot(s.Index())); err != nil {
			c.logger.Warn("Failed to reset slot", "slot", s.Index(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	c.publishEvent(&event.WorkspaceReset{})
	c.logger.Info("Workspace reset", "slots", len(c.slots))
	return firstErr
}

func (c *Coordinator) handleRefreshHistory(cmd *command.RefreshHistory) error {
	if c.jobs == nil {
		return fmt.Errorf("job history is not available")
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		jobs, err := c.jobs.History(c.ctx, cmd.Limit)
		if err != nil {
			c.logger.Error("Failed to load job history", "error", err)
			c.publishEvent(event.NewOperationFailed(-1, "history", err))
			return
		}
		c.publishEvent(&event.HistoryLoaded{Jobs: jobs})
	}()
	return nil
}

func (c *Coordinator) handleClearHistory() error {
	if c.jobs == nil {
		return fmt.Errorf("job history is not available")
	}
	if err := c.jobs.ClearHistory(c.ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	c.publishEvent(&event.HistoryLoaded{Jobs: []*job.Job{}})
	c.logger.Info("Job history cleared")
	return nil
}

func (c *Coordinator) routeToSlot(cmd command.SlotCommand) error {
	s := c.GetSlot(cmd.Slot())
	if s == nil {
		return fmt.Errorf("%w: %d", state.ErrInvalidSlot, cmd.Slot())
	}
	return s.Send(cmd)
}

func (c *Coordinator) publishEvent(e event.Event) {
	if c.eventBus != nil {
		c.eventBus.Publish(e)
	}
}
