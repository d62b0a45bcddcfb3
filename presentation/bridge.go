// Package presentation provides the UI layer with event bridging to the application layer.
package presentation

import (
	"image"
	"log/slog"
	"sync"

	"aura-go/application"
	"aura-go/core/command"
	"aura-go/core/event"
	"aura-go/core/eventbus"
	"aura-go/core/state"
	"aura-go/domain/annotation"
	"aura-go/domain/job"
	"aura-go/domain/segmentation"
)

// UIEventBridge bridges UI events to the application layer and routes events back to UI.
// It provides a clean separation between UI and business logic.
type UIEventBridge struct {
	coordinator *application.Coordinator
	eventBus    eventbus.EventBus
	logger      *slog.Logger

	// UI callbacks - set by UI components
	callbacks   *UICallbacks
	callbacksMu sync.RWMutex

	// Subscription management
	subscriptionID string
}

// UICallbacks contains callbacks for UI updates.
type UICallbacks struct {
	// Canvas events
	OnImageLoaded       func(slot int, url string, img image.Image)
	OnImageLoadFailed   func(slot int, url string, err error)
	OnMarkersChanged    func(slot int, t annotation.Transform, hasImage bool, markers []annotation.Point, radius float64)
	OnSeedPointsChanged func(slot int, points []segmentation.SeedPoint)
	OnSlotReset         func(slot int)

	// Job events
	OnFileUploaded     func(slot int, fileID, url string)
	OnAlgorithmChanged func(slot int, alg segmentation.AlgorithmType, seedsEnabled bool)
	OnJobStateChanged  func(slot int, oldState, newState state.JobState)
	OnJobSubmitted     func(slot int, jobID string)
	OnJobCompleted     func(slot int, jobID string, img image.Image)
	OnJobFailed        func(slot int, jobID string, err error)
	OnOperationFailed  func(slot int, operation string, err error)

	// Workspace events
	OnHistoryLoaded  func(jobs []*job.Job)
	OnWorkspaceReset func()
}

// BridgeConfig holds configuration for UIEventBridge.
type BridgeConfig struct {
	Coordinator *application.Coordinator
	EventBus    eventbus.EventBus
	Logger      *slog.Logger
}

// NewUIEventBridge creates a new UI event bridge.
func NewUIEventBridge(cfg *BridgeConfig) *UIEventBridge {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	b := &UIEventBridge{
		coordinator: cfg.Coordinator,
		eventBus:    cfg.EventBus,
		logger:      cfg.Logger,
		callbacks:   &UICallbacks{},
	}

	// Subscribe to events
	if b.eventBus != nil {
		b.subscriptionID = b.eventBus.Subscribe(b.handleEvent)
	}

	return b
}

// SetCallbacks sets the UI callbacks.
func (b *UIEventBridge) SetCallbacks(callbacks *UICallbacks) {
	b.callbacksMu.Lock()
	defer b.callbacksMu.Unlock()
	b.callbacks = callbacks
}

// Close unsubscribes from the event bus.
func (b *UIEventBridge) Close() {
	if b.eventBus != nil && b.subscriptionID != "" {
		b.eventBus.Unsubscribe(b.subscriptionID)
	}
}

// Command dispatching methods

// UploadFile uploads a local image and loads it onto the slot's canvas.
func (b *UIEventBridge) UploadFile(slot int, path string) error {
	return b.coordinator.Dispatch(command.NewUploadFile(slot, path))
}

// LoadImage displays an image without uploading it.
func (b *UIEventBridge) LoadImage(slot int, url string) error {
	return b.coordinator.Dispatch(command.NewLoadImage(slot, url))
}

// ResizeViewport reports the canvas area available to the slot's image.
func (b *UIEventBridge) ResizeViewport(slot int, width, height float64) error {
	return b.coordinator.Dispatch(command.NewResizeViewport(slot, width, height))
}

// PressCanvas reports a pointer-down at a viewport position.
func (b *UIEventBridge) PressCanvas(slot int, x, y float64) error {
	return b.coordinator.Dispatch(command.NewPressCanvas(slot, x, y))
}

// RemovePoint removes a seed point by index.
func (b *UIEventBridge) RemovePoint(slot, index int) error {
	return b.coordinator.Dispatch(command.NewRemovePoint(slot, index))
}

// ResetSlot clears the slot's image, seed points and result.
func (b *UIEventBridge) ResetSlot(slot int) error {
	return b.coordinator.Dispatch(command.NewResetSlot(slot))
}

// SetAlgorithm selects the segmentation algorithm for a slot.
func (b *UIEventBridge) SetAlgorithm(slot int, alg segmentation.AlgorithmType) error {
	return b.coordinator.Dispatch(command.NewSetAlgorithm(slot, alg))
}

// Submit sends a segmentation job for the slot's uploaded image.
func (b *UIEventBridge) Submit(slot int, params segmentation.Params) error {
	return b.coordinator.Dispatch(command.NewSubmitJob(slot, params))
}

// ResetWorkspace clears every slot.
func (b *UIEventBridge) ResetWorkspace() error {
	return b.coordinator.Dispatch(&command.ResetWorkspace{})
}

// RefreshHistory requests the most recent job records.
func (b *UIEventBridge) RefreshHistory(limit int) error {
	return b.coordinator.Dispatch(&command.RefreshHistory{Limit: limit})
}

// ClearHistory removes all job records.
func (b *UIEventBridge) ClearHistory() error {
	return b.coordinator.Dispatch(&command.ClearHistory{})
}

// Query methods

// Algorithms returns the algorithm catalog in display order.
func (b *UIEventBridge) Algorithms() []*segmentation.Algorithm {
	return b.coordinator.Registry().All()
}

// SlotState returns a snapshot of a workspace slot.
func (b *UIEventBridge) SlotState(slot int) state.SlotState {
	s, err := b.coordinator.Workspace().Get(slot)
	if err != nil {
		return state.SlotState{}
	}
	return s
}

// SeedPoints returns the slot's seed points in image space.
func (b *UIEventBridge) SeedPoints(slot int) []segmentation.SeedPoint {
	s := b.coordinator.GetSlot(slot)
	if s == nil {
		return []segmentation.SeedPoint{}
	}
	return s.SeedPoints()
}

// SlotCount returns the number of workspace slots.
func (b *UIEventBridge) SlotCount() int {
	return b.coordinator.SlotCount()
}

// Event handling

func (b *UIEventBridge) handleEvent(e event.Event) {
	b.callbacksMu.RLock()
	callbacks := b.callbacks
	b.callbacksMu.RUnlock()

	if callbacks == nil {
		return
	}

	switch evt := e.(type) {
	case *event.ImageLoaded:
		if callbacks.OnImageLoaded != nil {
			callbacks.OnImageLoaded(evt.Slot(), evt.URL, evt.Image)
		}

	case *event.ImageLoadFailed:
		if callbacks.OnImageLoadFailed != nil {
			callbacks.OnImageLoadFailed(evt.Slot(), evt.URL, evt.Error)
		}

	case *event.MarkersChanged:
		if callbacks.OnMarkersChanged != nil {
			callbacks.OnMarkersChanged(evt.Slot(), evt.Transform, evt.HasImage, evt.Markers, evt.Radius)
		}

	case *event.SeedPointsChanged:
		if callbacks.OnSeedPointsChanged != nil {
			callbacks.OnSeedPointsChanged(evt.Slot(), evt.Points)
		}

	case *event.SlotReset:
		if callbacks.OnSlotReset != nil {
			callbacks.OnSlotReset(evt.Slot())
		}

	case *event.FileUploaded:
		if callbacks.OnFileUploaded != nil {
			callbacks.OnFileUploaded(evt.Slot(), evt.FileID, evt.URL)
		}

	case *event.AlgorithmChanged:
		if callbacks.OnAlgorithmChanged != nil {
			callbacks.OnAlgorithmChanged(evt.Slot(), evt.Algorithm, evt.SeedsEnabled)
		}

	case *event.JobStateChanged:
		if callbacks.OnJobStateChanged != nil {
			callbacks.OnJobStateChanged(evt.Slot(), evt.OldState, evt.NewState)
		}

	case *event.JobSubmitted:
		if callbacks.OnJobSubmitted != nil {
			callbacks.OnJobSubmitted(evt.Slot(), evt.JobID)
		}

	case *event.JobCompleted:
		if callbacks.OnJobCompleted != nil {
			callbacks.OnJobCompleted(evt.Slot(), evt.JobID, evt.Image)
		}

	case *event.JobFailed:
		if callbacks.OnJobFailed != nil {
			callbacks.OnJobFailed(evt.Slot(), evt.JobID, evt.Error)
		}

	case *event.OperationFailed:
		if callbacks.OnOperationFailed != nil {
			callbacks.OnOperationFailed(evt.Slot(), evt.Operation, evt.Error)
		}

	case *event.HistoryLoaded:
		if callbacks.OnHistoryLoaded != nil {
			callbacks.OnHistoryLoaded(evt.Jobs)
		}

	case *event.WorkspaceReset:
		if callbacks.OnWorkspaceReset != nil {
			callbacks.OnWorkspaceReset()
		}
	}
}
