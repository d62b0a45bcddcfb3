// Package event holds the notifications slot actors and the coordinator
// publish on the event bus.
package event

import "aura-go/core/state"

// Event is anything published on the bus.
type Event interface {
	// EventName identifies the event in logs.
	EventName() string
}

// SlotEvent is an event about one slot. The bus uses Slot() for per-slot
// subscriptions.
type SlotEvent interface {
	Event
	Slot() int
}

// slotSource is embedded by every slot event.
type slotSource struct {
	slot int
}

func (e *slotSource) Slot() int {
	return e.slot
}

// SlotReset is published after a slot has been cleared.
type SlotReset struct {
	slotSource
}

func NewSlotReset(slot int) *SlotReset {
	return &SlotReset{slotSource{slot: slot}}
}

func (e *SlotReset) EventName() string {
	return "SlotReset"
}

// JobStateChanged is published when a slot's job state changes.
type JobStateChanged struct {
	slotSource
	OldState state.JobState
	NewState state.JobState
}

func NewJobStateChanged(slot int, oldState, newState state.JobState) *JobStateChanged {
	return &JobStateChanged{
		slotSource: slotSource{slot: slot},
		OldState:   oldState,
		NewState:   newState,
	}
}

func (e *JobStateChanged) EventName() string {
	return "JobStateChanged"
}

// OperationFailed is published when a slot operation fails.
type OperationFailed struct {
	slotSource
	Operation string
	Error     error
}

func NewOperationFailed(slot int, operation string, err error) *OperationFailed {
	return &OperationFailed{
		slotSource: slotSource{slot: slot},
		Operation:  operation,
		Error:      err,
	}
}

func (e *OperationFailed) EventName() string {
	return "OperationFailed"
}
