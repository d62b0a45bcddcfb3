// Package state defines the job state machine and the shared workspace state.
package state

import "fmt"

// JobState represents the processing state of a workspace slot.
type JobState int

const (
	// StateIdle means no job is in flight for the slot.
	StateIdle JobState = iota
	// StateSubmitting indicates the request is being recorded and sent.
	StateSubmitting
	// StateProcessing indicates the service accepted the request and is working on it.
	StateProcessing
	// StateCompleted indicates the last job produced a processed image.
	StateCompleted
	// StateFailed indicates the last job failed.
	StateFailed
)

// String returns the string representation of the state.
func (s JobState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSubmitting:
		return "Submitting"
	case StateProcessing:
		return "Processing"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// validTransitions defines the allowed state transitions.
// Key is the current state, value is a list of valid target states.
// Any state may return to Idle when the slot is reset.
var validTransitions = map[JobState][]JobState{
	StateIdle:       {StateSubmitting},
	StateSubmitting: {StateProcessing, StateFailed, StateIdle},
	StateProcessing: {StateCompleted, StateFailed, StateIdle},
	StateCompleted:  {StateSubmitting, StateIdle},
	StateFailed:     {StateSubmitting, StateIdle},
}

// CanTransitionTo checks if transitioning from the current state to the target state is valid.
func (s JobState) CanTransitionTo(target JobState) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ValidTransitions returns the list of valid target states from the current state.
func (s JobState) ValidTransitions() []JobState {
	return validTransitions[s]
}

// IsBusy returns true while a job is in flight.
func (s JobState) IsBusy() bool {
	return s == StateSubmitting || s == StateProcessing
}

// CanSubmit returns true if a new job may be submitted in this state.
func (s JobState) CanSubmit() bool {
	return s.CanTransitionTo(StateSubmitting)
}

// TransitionError represents an invalid state transition attempt.
type TransitionError struct {
	From   JobState
	To     JobState
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid state transition from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(from, to JobState, reason string) *TransitionError {
	return &TransitionError{From: from, To: to, Reason: reason}
}
