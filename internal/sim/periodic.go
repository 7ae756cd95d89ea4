package sim

import (
	"fmt"

	"hexcrawl-substrate/internal/codec"
)

// PeriodicSchedulerModuleName is the reserved module name the periodic
// scheduler registers under (spec.md §4.8).
const PeriodicSchedulerModuleName = "periodic_scheduler"

// EventTypePeriodicTick is the substrate-reserved event type periodic tasks
// fire as (spec.md §6).
const EventTypePeriodicTick = "periodic_tick"

// PeriodicTaskCallback is an in-memory hook invoked when a task's
// periodic_tick event executes. Callbacks are never serialized; a caller
// reattaches them explicitly via SetTaskCallback after a load.
type PeriodicTaskCallback func(sim *Simulation, tick uint64, taskName string)

type periodicTaskMeta struct {
	Name          string
	IntervalTicks uint64
	StartTick     uint64
}

// PeriodicScheduler is the built-in rule module of spec.md §4.8: it expresses
// fixed-interval tasks as ordinary events in the shared event queue rather
// than keeping its own timer state, so the queue's existing serialization and
// same-tick ordering guarantees cover it for free.
type PeriodicScheduler struct {
	tasks     map[string]periodicTaskMeta
	order     []string
	callbacks map[string]PeriodicTaskCallback
}

// NewPeriodicScheduler constructs a scheduler with no registered tasks.
func NewPeriodicScheduler() *PeriodicScheduler {
	return &PeriodicScheduler{
		tasks:     make(map[string]periodicTaskMeta),
		callbacks: make(map[string]PeriodicTaskCallback),
	}
}

func (p *PeriodicScheduler) Name() string { return PeriodicSchedulerModuleName }

// RegisterTask registers a fixed-interval task, idempotently when metadata
// matches an already-registered task of the same name. Re-registering the
// same name with a different interval fails with
// ErrConflictingTaskRegistration. If the task has no pending periodic_tick
// event, one is scheduled at max(startTick, sim's current tick).
func (p *PeriodicScheduler) RegisterTask(sim *Simulation, taskName string, intervalTicks uint64, startTick uint64) error {
	if taskName == "" {
		return fmt.Errorf("%w: periodic task name must be non-empty", ErrInvalidArgument)
	}
	if intervalTicks < 1 {
		return fmt.Errorf("%w: periodic task %q interval_ticks must be >= 1", ErrInvalidArgument, taskName)
	}
	if existing, ok := p.tasks[taskName]; ok {
		if existing.IntervalTicks != intervalTicks {
			return fmt.Errorf("%w: periodic task %q already registered with interval %d", ErrConflictingTaskRegistration, taskName, existing.IntervalTicks)
		}
	} else {
		p.tasks[taskName] = periodicTaskMeta{Name: taskName, IntervalTicks: intervalTicks, StartTick: startTick}
		p.order = append(p.order, taskName)
	}

	if p.hasPendingTick(sim, taskName) {
		return nil
	}
	due := startTick
	if sim.CurrentTick() > due {
		due = sim.CurrentTick()
	}
	return p.scheduleTick(sim, due, taskName, intervalTicks)
}

// SetTaskCallback attaches an in-memory callback for taskName, replacing any
// previous one.
func (p *PeriodicScheduler) SetTaskCallback(taskName string, callback PeriodicTaskCallback) {
	p.callbacks[taskName] = callback
}

func (p *PeriodicScheduler) scheduleTick(sim *Simulation, tick uint64, taskName string, intervalTicks uint64) error {
	params := codec.Object(map[string]codec.Value{
		"task":     codec.String(taskName),
		"interval": codec.Int(int64(intervalTicks)),
	})
	_, err := sim.ScheduleEvent(tick, EventTypePeriodicTick, params)
	return err
}

func (p *PeriodicScheduler) hasPendingTick(sim *Simulation, taskName string) bool {
	for _, evt := range sim.events.AllPending() {
		if evt.EventType != EventTypePeriodicTick {
			continue
		}
		if name, ok := periodicTaskName(evt); ok && name == taskName {
			return true
		}
	}
	return false
}

func periodicTaskName(evt *SimEvent) (string, bool) {
	obj, ok := evt.Params.AsObject()
	if !ok {
		return "", false
	}
	nameVal, ok := obj["task"]
	if !ok {
		return "", false
	}
	return nameVal.AsString()
}

// OnSimulationStart rehydrates task metadata from the serialized pending
// queue: the queue is authoritative, so a task already carrying a pending
// periodic_tick event is reconstructed without RegisterTask needing to be
// called again, and without creating a duplicate chain (spec.md §4.8
// "Rehydration").
func (p *PeriodicScheduler) OnSimulationStart(sim *Simulation) {
	for _, evt := range sim.events.AllPending() {
		if evt.EventType != EventTypePeriodicTick {
			continue
		}
		obj, ok := evt.Params.AsObject()
		if !ok {
			continue
		}
		nameVal, hasName := obj["task"]
		intervalVal, hasInterval := obj["interval"]
		if !hasName || !hasInterval {
			continue
		}
		name, _ := nameVal.AsString()
		interval, _ := intervalVal.AsInt()
		if name == "" || interval < 1 {
			continue
		}
		if _, exists := p.tasks[name]; exists {
			continue
		}
		p.tasks[name] = periodicTaskMeta{Name: name, IntervalTicks: uint64(interval), StartTick: evt.Tick}
		p.order = append(p.order, name)
	}
}

func (p *PeriodicScheduler) OnTickStart(sim *Simulation, tick uint64) {}
func (p *PeriodicScheduler) OnTickEnd(sim *Simulation, tick uint64)   {}

// OnEventExecuted fires a task's callback (if attached) then reschedules the
// task at tick + interval, per spec.md §4.8.
func (p *PeriodicScheduler) OnEventExecuted(sim *Simulation, evt *SimEvent) {
	if evt.EventType != EventTypePeriodicTick {
		return
	}
	obj, ok := evt.Params.AsObject()
	if !ok {
		return
	}
	nameVal, hasName := obj["task"]
	intervalVal, hasInterval := obj["interval"]
	if !hasName || !hasInterval {
		return
	}
	name, _ := nameVal.AsString()
	interval, _ := intervalVal.AsInt()
	if interval < 1 {
		return
	}
	if cb, ok := p.callbacks[name]; ok && cb != nil {
		cb(sim, evt.Tick, name)
	}
	_ = p.scheduleTick(sim, evt.Tick+uint64(interval), name, uint64(interval))
}
