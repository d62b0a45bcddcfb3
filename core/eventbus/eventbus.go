// Package eventbus fans events out from slot actors and the coordinator to
// the presentation layer.
package eventbus

import (
	"aura-go/core/event"
)

// EventBus delivers published events to subscribers in subscription order on
// a single dispatch goroutine.
type EventBus interface {
	// Publish queues e for delivery. It never blocks; when the buffer is full
	// the event is dropped and logged.
	Publish(e event.Event)

	// Subscribe registers handler for every event and returns its ID.
	Subscribe(handler EventHandler) string

	// SubscribeSlot registers handler for slot events carrying the given
	// index. A negative slot behaves like Subscribe.
	SubscribeSlot(slot int, handler EventHandler) string

	// Unsubscribe drops a subscription. Unknown IDs are ignored.
	Unsubscribe(subscriptionID string)

	// Close drains queued events and stops dispatch. Publish is a no-op
	// afterwards.
	Close()
}

// EventHandler receives one event. It runs on the dispatch goroutine and
// must not block for long.
type EventHandler func(e event.Event)
