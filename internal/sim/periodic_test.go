package sim

import (
	"errors"
	"testing"

	"hexcrawl-substrate/internal/world"
)

func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	s, err := NewWithSeedAndTopology(42, world.DefaultSpaceID, world.TopologyHexDisk, world.TopologyParams{Radius: 2})
	if err != nil {
		t.Fatalf("NewWithSeedAndTopology: %v", err)
	}
	return s
}

func TestPeriodicSchedulerRegisterTaskSchedulesFirstTick(t *testing.T) {
	s := newTestSimulation(t)
	scheduler := s.PeriodicScheduler()
	if err := scheduler.RegisterTask(s, "tide", 10, 5); err != nil {
		t.Fatalf("RegisterTask: %v", err)
	}
	if !scheduler.hasPendingTick(s, "tide") {
		t.Fatalf("expected a pending periodic_tick event for task tide")
	}
}

func TestPeriodicSchedulerRegisterTaskIsIdempotent(t *testing.T) {
	s := newTestSimulation(t)
	scheduler := s.PeriodicScheduler()
	if err := scheduler.RegisterTask(s, "tide", 10, 0); err != nil {
		t.Fatalf("first RegisterTask: %v", err)
	}
	if err := scheduler.RegisterTask(s, "tide", 10, 0); err != nil {
		t.Fatalf("second RegisterTask with matching metadata should succeed: %v", err)
	}
	pending := s.events.AllPending()
	count := 0
	for _, evt := range pending {
		if evt.EventType == EventTypePeriodicTick {
			if name, ok := periodicTaskName(evt); ok && name == "tide" {
				count++
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one pending periodic_tick for tide, got %d", count)
	}
}

func TestPeriodicSchedulerRegisterTaskConflictingIntervalFails(t *testing.T) {
	s := newTestSimulation(t)
	scheduler := s.PeriodicScheduler()
	if err := scheduler.RegisterTask(s, "tide", 10, 0); err != nil {
		t.Fatalf("RegisterTask: %v", err)
	}
	err := scheduler.RegisterTask(s, "tide", 20, 0)
	if !errors.Is(err, ErrConflictingTaskRegistration) {
		t.Fatalf("expected ErrConflictingTaskRegistration, got %v", err)
	}
}

func TestPeriodicSchedulerFiresCallbackAndReschedules(t *testing.T) {
	s := newTestSimulation(t)
	scheduler := s.PeriodicScheduler()
	fired := 0
	scheduler.SetTaskCallback("tide", func(sim *Simulation, tick uint64, taskName string) {
		fired++
	})
	if err := scheduler.RegisterTask(s, "tide", 3, 0); err != nil {
		t.Fatalf("RegisterTask: %v", err)
	}
	if err := s.AdvanceTicks(3); err != nil {
		t.Fatalf("AdvanceTicks: %v", err)
	}
	if fired != 1 {
		t.Fatalf("expected callback to fire exactly once after 3 ticks, fired=%d", fired)
	}
	if !scheduler.hasPendingTick(s, "tide") {
		t.Fatalf("expected the task to reschedule itself after firing")
	}
}

func TestPeriodicSchedulerRehydratesWithoutDuplicating(t *testing.T) {
	s := newTestSimulation(t)
	scheduler := s.PeriodicScheduler()
	if err := scheduler.RegisterTask(s, "tide", 5, 0); err != nil {
		t.Fatalf("RegisterTask: %v", err)
	}

	w, state := s.Snapshot()
	restored := RestoreSimulation(w, state, s.InputLog())
	if err := restored.AdvanceTicks(0); err != nil {
		t.Fatalf("AdvanceTicks: %v", err)
	}

	restoredScheduler := restored.PeriodicScheduler()
	if err := restoredScheduler.RegisterTask(restored, "tide", 5, 0); err != nil {
		t.Fatalf("re-registering after rehydration should be idempotent: %v", err)
	}
	pending := restored.events.AllPending()
	count := 0
	for _, evt := range pending {
		if evt.EventType == EventTypePeriodicTick {
			if name, ok := periodicTaskName(evt); ok && name == "tide" {
				count++
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected rehydration to leave exactly one pending tide tick, got %d", count)
	}
}
