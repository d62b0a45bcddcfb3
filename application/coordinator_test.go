package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"aura-go/core/command"
	"aura-go/core/event"
	"aura-go/core/eventbus"
	"aura-go/core/state"
	"aura-go/domain/job"
	"aura-go/domain/segmentation"
	"aura-go/infrastructure/processing"
	"aura-go/infrastructure/repository"
	"aura-go/resources"
)

func newTestCoordinator(t *testing.T, slots int) (*Coordinator, eventbus.EventBus, *job.Service) {
	t.Helper()

	eventBus := eventbus.New(64)
	t.Cleanup(eventBus.Close)

	reg := segmentation.NewRegistry()
	if err := segmentation.NewLoader(reg).LoadFromFS(resources.AlgorithmFiles); err != nil {
		t.Fatalf("LoadFromFS() error = %v", err)
	}
	jobs := job.NewService(repository.NewMemoryJobRepository())

	coord := NewCoordinator(&CoordinatorConfig{
		EventBus:     eventBus,
		Registry:     reg,
		Jobs:         jobs,
		Client:       processing.NewNoOpClient(),
		Slots:        slots,
		MarkerRadius: 5,
	})
	coord.Start()
	t.Cleanup(coord.Stop)

	return coord, eventBus, jobs
}

func waitForEvent(t *testing.T, ch <-chan event.Event, name string) event.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e := <-ch:
			if e.EventName() == name {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", name)
			return nil
		}
	}
}

func TestNewCoordinator(t *testing.T) {
	coord, _, _ := newTestCoordinator(t, 2)

	if coord.SlotCount() != 2 {
		t.Errorf("SlotCount() = %d, want 2", coord.SlotCount())
	}
	if coord.Workspace().Slots() != 2 {
		t.Errorf("Workspace().Slots() = %d, want 2", coord.Workspace().Slots())
	}
	for i := 0; i < 2; i++ {
		s := coord.GetSlot(i)
		if s == nil || s.Index() != i {
			t.Errorf("GetSlot(%d) = %v, want slot %d", i, s, i)
		}
	}
	if coord.GetSlot(2) != nil {
		t.Error("GetSlot(2) should be nil")
	}
	if coord.Registry().Count() == 0 {
		t.Error("Registry() is empty")
	}
}

func TestNewCoordinator_Defaults(t *testing.T) {
	coord := NewCoordinator(&CoordinatorConfig{})
	defer coord.Stop()

	if coord.SlotCount() != 1 {
		t.Errorf("SlotCount() = %d, want 1", coord.SlotCount())
	}
	if coord.logger == nil {
		t.Error("logger should default to slog.Default()")
	}
}

func TestCoordinator_DispatchRoutesToSlot(t *testing.T) {
	coord, eventBus, _ := newTestCoordinator(t, 2)

	events := make(chan event.Event, 16)
	eventBus.SubscribeSlot(1, func(e event.Event) {
		events <- e
	})

	if err := coord.Dispatch(command.NewSetAlgorithm(1, segmentation.AlgorithmRegionGrowing)); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	changed := waitForEvent(t, events, "AlgorithmChanged").(*event.AlgorithmChanged)
	if changed.Slot() != 1 || changed.Algorithm != segmentation.AlgorithmRegionGrowing {
		t.Errorf("AlgorithmChanged = %+v, want slot 1 regionGrowing", changed)
	}
	if got := coord.GetSlot(0).Algorithm(); got == segmentation.AlgorithmRegionGrowing {
		t.Error("slot 0 algorithm should be unchanged")
	}
}

func TestCoordinator_DispatchInvalidSlot(t *testing.T) {
	coord, _, _ := newTestCoordinator(t, 1)

	err := coord.Dispatch(command.NewResetSlot(3))
	if !errors.Is(err, state.ErrInvalidSlot) {
		t.Errorf("Dispatch() error = %v, want ErrInvalidSlot", err)
	}
}

type unknownCommand struct{}

func (c *unknownCommand) CommandName() string { return "unknown" }

func TestCoordinator_DispatchUnknown(t *testing.T) {
	coord, _, _ := newTestCoordinator(t, 1)

	if err := coord.Dispatch(&unknownCommand{}); err == nil {
		t.Error("Dispatch() expected error for unknown command")
	}
}

func TestCoordinator_ResetWorkspace(t *testing.T) {
	coord, eventBus, _ := newTestCoordinator(t, 2)
	_ = coord.Workspace().SetUpload(0, "f1", "file:///a.png")
	_ = coord.Workspace().SetUpload(1, "f2", "file:///b.png")

	events := make(chan event.Event, 16)
	eventBus.Subscribe(func(e event.Event) {
		events <- e
	})

	if err := coord.Dispatch(&command.ResetWorkspace{}); err != nil {
		t.Fatalf("Dispatch(ResetWorkspace) error = %v", err)
	}

	waitForEvent(t, events, "WorkspaceReset")
	for i := 0; i < 2; i++ {
		s, _ := coord.Workspace().Get(i)
		if s.FileID != "" {
			t.Errorf("slot %d FileID = %v, want empty", i, s.FileID)
		}
	}
}

func TestCoordinator_History(t *testing.T) {
	coord, eventBus, jobs := newTestCoordinator(t, 1)

	ctx := context.Background()
	req := segmentation.NewRequest(segmentation.AlgorithmKMeans, segmentation.DefaultParams(), nil)
	if _, err := jobs.Record(ctx, 0, "f1", req); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	events := make(chan event.Event, 16)
	eventBus.Subscribe(func(e event.Event) {
		events <- e
	})

	if err := coord.Dispatch(&command.RefreshHistory{Limit: 10}); err != nil {
		t.Fatalf("Dispatch(RefreshHistory) error = %v", err)
	}
	loaded := waitForEvent(t, events, "HistoryLoaded").(*event.HistoryLoaded)
	if len(loaded.Jobs) != 1 || loaded.Jobs[0].FileID != "f1" {
		t.Errorf("HistoryLoaded.Jobs = %+v, want one job for f1", loaded.Jobs)
	}

	if err := coord.Dispatch(&command.ClearHistory{}); err != nil {
		t.Fatalf("Dispatch(ClearHistory) error = %v", err)
	}
	cleared := waitForEvent(t, events, "HistoryLoaded").(*event.HistoryLoaded)
	if len(cleared.Jobs) != 0 {
		t.Errorf("HistoryLoaded.Jobs after clear = %+v, want empty", cleared.Jobs)
	}
}

func TestCoordinator_HistoryUnavailable(t *testing.T) {
	coord := NewCoordinator(&CoordinatorConfig{})
	defer coord.Stop()

	if err := coord.Dispatch(&command.RefreshHistory{}); err == nil {
		t.Error("Dispatch(RefreshHistory) without jobs should fail")
	}
	if err := coord.Dispatch(&command.ClearHistory{}); err == nil {
		t.Error("Dispatch(ClearHistory) without jobs should fail")
	}
}
