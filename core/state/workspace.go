package state

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// ErrInvalidSlot is returned for a slot index outside the workspace.
var ErrInvalidSlot = errors.New("invalid slot")

// SlotState is a snapshot of one workspace slot.
type SlotState struct {
	FileID      string
	UploadedURL string
	Processed   image.Image
	Job         JobState
	JobID       string
}

// Busy reports whether a job is in flight for the slot.
func (s SlotState) Busy() bool {
	return s.Job.IsBusy()
}

// Workspace holds the per-slot state shared between the slot actors and the UI.
// It is safe for concurrent use.
type Workspace struct {
	mu    sync.RWMutex
	slots []SlotState
}

// NewWorkspace creates a workspace with n slots.
func NewWorkspace(n int) *Workspace {
	if n < 1 {
		n = 1
	}
	return &Workspace{slots: make([]SlotState, n)}
}

// Slots returns the number of slots.
func (w *Workspace) Slots() int {
	return len(w.slots)
}

// Get returns a snapshot of the slot.
func (w *Workspace) Get(slot int) (SlotState, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.valid(slot) {
		return SlotState{}, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return w.slots[slot], nil
}

// SetUpload records the file id and local image URL of an uploaded image.
// The previous processed result is cleared and any job in flight is
// abandoned, so its result cannot attach to the new file.
func (w *Workspace) SetUpload(slot int, fileID, url string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(slot) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	s := &w.slots[slot]
	s.FileID = fileID
	s.UploadedURL = url
	s.Processed = nil
	s.Job = StateIdle
	s.JobID = ""
	return nil
}

// BeginJob moves the slot into Submitting under jobID. It fails when no file
// is uploaded or a job is already in flight.
func (w *Workspace) BeginJob(slot int, jobID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(slot) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	s := &w.slots[slot]
	if s.FileID == "" {
		return NewTransitionError(s.Job, StateSubmitting, "no uploaded file")
	}
	if !s.Job.CanSubmit() {
		return NewTransitionError(s.Job, StateSubmitting, "job already in flight")
	}
	s.Job = StateSubmitting
	s.JobID = jobID
	return nil
}

// Transition moves the current job to target if jobID is still current and
// the transition is valid.
func (w *Workspace) Transition(slot int, jobID string, target JobState) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(slot) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	s := &w.slots[slot]
	if s.JobID != jobID {
		return NewTransitionError(s.Job, target, "stale job "+jobID)
	}
	if !s.Job.CanTransitionTo(target) {
		return NewTransitionError(s.Job, target, "")
	}
	s.Job = target
	return nil
}

// Complete stores the processed image and marks the job completed.
// A result for a job that is no longer current is rejected.
func (w *Workspace) Complete(slot int, jobID string, img image.Image) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(slot) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	s := &w.slots[slot]
	if s.JobID != jobID || !s.Job.CanTransitionTo(StateCompleted) {
		return NewTransitionError(s.Job, StateCompleted, "stale job "+jobID)
	}
	s.Job = StateCompleted
	s.Processed = img
	return nil
}

// Fail marks the current job failed. A failure for a stale job is rejected.
func (w *Workspace) Fail(slot int, jobID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(slot) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	s := &w.slots[slot]
	if s.JobID != jobID || !s.Job.CanTransitionTo(StateFailed) {
		return NewTransitionError(s.Job, StateFailed, "stale job "+jobID)
	}
	s.Job = StateFailed
	return nil
}

// Reset clears the slot's file id, image URL, processed result and job state.
func (w *Workspace) Reset(slot int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(slot) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	w.slots[slot] = SlotState{}
	return nil
}

// ResetAll clears every slot.
func (w *Workspace) ResetAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.slots {
		w.slots[i] = SlotState{}
	}
}

func (w *Workspace) valid(slot int) bool {
	return slot >= 0 && slot < len(w.slots)
}
