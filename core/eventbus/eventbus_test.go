package eventbus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"aura-go/core/event"
)

// collector records event names in delivery order.
type collector struct {
	mu    sync.Mutex
	names []string
}

func (c *collector) handle(e event.Event) {
	c.mu.Lock()
	c.names = append(c.names, e.EventName())
	c.mu.Unlock()
}

func (c *collector) got() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Close drains the queue, so every test below publishes, closes, then asserts.

func TestEventBus_DeliversInPublishOrder(t *testing.T) {
	bus := New(16)
	var c collector
	bus.Subscribe(c.handle)

	bus.Publish(event.NewSlotReset(0))
	bus.Publish(event.NewOperationFailed(0, "load", errors.New("boom")))
	bus.Publish(&event.WorkspaceReset{})
	bus.Close()

	want := []string{"SlotReset", "OperationFailed", "WorkspaceReset"}
	if got := c.got(); !equalNames(got, want) {
		t.Errorf("delivered %v, want %v", got, want)
	}
}

func TestEventBus_SubscribersCalledInSubscriptionOrder(t *testing.T) {
	bus := New(4)
	var mu sync.Mutex
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		bus.Subscribe(func(event.Event) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}

	bus.Publish(&event.WorkspaceReset{})
	bus.Close()

	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("handler order = %v, want [0 1 2]", order)
	}
}

func TestEventBus_SlotFilter(t *testing.T) {
	tests := []struct {
		name      string
		subscribe int
		want      []string
	}{
		{"slot 1 sees only its own slot events", 1, []string{"SlotReset"}},
		{"slot 2 sees nothing", 2, nil},
		{"negative slot sees everything", -1, []string{"SlotReset", "SlotReset", "WorkspaceReset"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := New(8)
			var c collector
			bus.SubscribeSlot(tt.subscribe, c.handle)

			bus.Publish(event.NewSlotReset(1))
			bus.Publish(event.NewSlotReset(0))
			bus.Publish(&event.WorkspaceReset{})
			bus.Close()

			if got := c.got(); !equalNames(got, tt.want) {
				t.Errorf("delivered %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := New(8)
	var kept, removed collector
	bus.Subscribe(kept.handle)
	id := bus.Subscribe(removed.handle)

	bus.Unsubscribe(id)
	bus.Unsubscribe("sub-unknown")
	bus.Publish(&event.WorkspaceReset{})
	bus.Close()

	if len(removed.got()) != 0 {
		t.Errorf("unsubscribed handler received %v", removed.got())
	}
	if len(kept.got()) != 1 {
		t.Errorf("remaining handler received %d events, want 1", len(kept.got()))
	}
}

func TestEventBus_SubscriptionIDsUnique(t *testing.T) {
	bus := New(1)
	defer bus.Close()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := bus.SubscribeSlot(i%3, func(event.Event) {})
		if seen[id] {
			t.Fatalf("duplicate subscription ID %q", id)
		}
		seen[id] = true
	}
}

func TestEventBus_PublishAfterClose(t *testing.T) {
	bus := New(4)
	var c collector
	bus.Subscribe(c.handle)
	bus.Close()

	bus.Publish(&event.WorkspaceReset{})
	bus.Close()

	if len(c.got()) != 0 {
		t.Errorf("event delivered after Close: %v", c.got())
	}
}

func TestEventBus_PanickingHandlerIsolated(t *testing.T) {
	bus := New(4)
	var c collector
	bus.Subscribe(func(event.Event) { panic("handler bug") })
	bus.Subscribe(c.handle)

	bus.Publish(event.NewSlotReset(0))
	bus.Publish(event.NewSlotReset(1))
	bus.Close()

	if len(c.got()) != 2 {
		t.Errorf("second handler received %d events, want 2", len(c.got()))
	}
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := New(1)
	entered := make(chan struct{})
	release := make(chan struct{})
	var c collector

	first := true
	bus.Subscribe(func(e event.Event) {
		if first {
			first = false
			close(entered)
			<-release
		}
		c.handle(e)
	})

	bus.Publish(event.NewSlotReset(0))
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first event never dispatched")
	}

	// The dispatcher is blocked: one event fits the buffer, the next is dropped.
	bus.Publish(event.NewSlotReset(1))
	bus.Publish(&event.WorkspaceReset{})
	close(release)
	bus.Close()

	want := []string{"SlotReset", "SlotReset"}
	if got := c.got(); !equalNames(got, want) {
		t.Errorf("delivered %v, want %v", got, want)
	}
}

func TestEventBus_ConcurrentPublish(t *testing.T) {
	const publishers, perPublisher = 8, 25

	bus := New(publishers * perPublisher)
	var c collector
	bus.Subscribe(c.handle)

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				bus.Publish(event.NewSlotReset(slot))
			}
		}(p)
	}
	wg.Wait()
	bus.Close()

	if n := len(c.got()); n != publishers*perPublisher {
		t.Errorf("delivered %d events, want %d", n, publishers*perPublisher)
	}
}
