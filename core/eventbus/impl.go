package eventbus

import (
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"aura-go/core/event"
)

// anySlot marks a subscription that receives every event.
const anySlot = -1

type subscription struct {
	id      string
	slot    int
	handler EventHandler
}

func (s subscription) wants(e event.Event) bool {
	if s.slot == anySlot {
		return true
	}
	se, ok := e.(event.SlotEvent)
	return ok && se.Slot() == s.slot
}

// queuedBus keeps subscriptions in a copy-on-write slice so dispatch reads
// them without locking.
type queuedBus struct {
	queue  chan event.Event
	done   chan struct{}
	logger *slog.Logger
	seq    atomic.Uint64

	subsMu sync.Mutex
	subs   atomic.Pointer[[]subscription]

	// closeMu keeps Publish from sending on a closed queue.
	closeMu sync.RWMutex
	closed  bool
}

// New creates an EventBus queueing up to bufferSize events.
func New(bufferSize int) EventBus {
	return NewWithLogger(bufferSize, nil)
}

// NewWithLogger creates an EventBus that logs dropped events and handler
// panics to logger.
func NewWithLogger(bufferSize int, logger *slog.Logger) EventBus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	b := &queuedBus{
		queue:  make(chan event.Event, bufferSize),
		done:   make(chan struct{}),
		logger: logger.With("component", "eventbus"),
	}
	b.subs.Store(&[]subscription{})

	go b.run()
	return b
}

func (b *queuedBus) Publish(e event.Event) {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.queue <- e:
	default:
		b.logger.Warn("Event dropped, queue full", "event", e.EventName())
	}
}

func (b *queuedBus) Subscribe(handler EventHandler) string {
	return b.add(anySlot, handler)
}

func (b *queuedBus) SubscribeSlot(slot int, handler EventHandler) string {
	if slot < 0 {
		slot = anySlot
	}
	return b.add(slot, handler)
}

func (b *queuedBus) add(slot int, handler EventHandler) string {
	id := "sub-" + strconv.FormatUint(b.seq.Add(1), 10)

	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	cur := *b.subs.Load()
	next := make([]subscription, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, subscription{id: id, slot: slot, handler: handler})
	b.subs.Store(&next)
	return id
}

func (b *queuedBus) Unsubscribe(id string) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	cur := *b.subs.Load()
	next := make([]subscription, 0, len(cur))
	for _, s := range cur {
		if s.id != id {
			next = append(next, s)
		}
	}
	if len(next) != len(cur) {
		b.subs.Store(&next)
	}
}

func (b *queuedBus) Close() {
	b.closeMu.Lock()
	if b.closed {
		b.closeMu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.closeMu.Unlock()

	<-b.done
}

func (b *queuedBus) run() {
	defer close(b.done)
	for e := range b.queue {
		for _, s := range *b.subs.Load() {
			if s.wants(e) {
				b.call(s, e)
			}
		}
	}
}

// call runs one handler, containing any panic to that handler.
func (b *queuedBus) call(s subscription, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked", "event", e.EventName(), "subscription", s.id, "panic", r)
		}
	}()
	s.handler(e)
}
