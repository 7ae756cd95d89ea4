package sim

import (
	"encoding/json"
	"fmt"

	"hexcrawl-substrate/internal/codec"
	"hexcrawl-substrate/internal/rng"
	"hexcrawl-substrate/internal/world"
	"hexcrawl-substrate/logging"
)

// SimulationStateSnapshot is the serializable, hash-covered half of a
// Simulation: everything spec.md §4.10 lists under simulation_state.
type SimulationStateSnapshot struct {
	MasterSeed int64                  `json:"masterSeed"`
	Time       SimulationTime         `json:"time"`
	RNGStreams map[string]rng.State   `json:"rngStreams"`
	EventQueue QueueSnapshot          `json:"eventQueue"`
	RulesState map[string]codec.Value `json:"rulesState"`
	EventTrace []*SimEvent            `json:"eventTrace"`
}

// Snapshot captures the simulation's full state: the authoritative World and
// the simulation_state half, suitable for internal/save's canonical
// payload.
func (s *Simulation) Snapshot() (*world.World, SimulationStateSnapshot) {
	return s.World, SimulationStateSnapshot{
		MasterSeed: s.masterSeed,
		Time:       s.Time,
		RNGStreams: s.streams.Snapshot(),
		EventQueue: s.events.Snapshot(),
		RulesState: s.rules.Snapshot(),
		EventTrace: s.trace.Entries(),
	}
}

// InputLog returns the complete command log in tick/command_index order, for
// the canonical save payload's input_log and for run_replay.
func (s *Simulation) InputLog() []*SimCommand {
	return s.commands.All()
}

// RestoreSimulation rebuilds a Simulation from a previously captured world
// and simulation-state snapshot plus the master seed and input log that
// produced them. The built-in periodic scheduler (and any module the caller
// re-registers) receives OnSimulationStart on the first subsequent
// AdvanceTicks call, rehydrating task metadata from the restored event queue
// (spec.md §4.8 "Rehydration").
func RestoreSimulation(w *world.World, state SimulationStateSnapshot, commands []*SimCommand) *Simulation {
	streams := rng.NewStreams(state.MasterSeed)
	streams.Restore(state.RNGStreams)
	s := &Simulation{
		World:      w,
		Time:       state.Time,
		masterSeed: state.MasterSeed,
		streams:    streams,
		events:     RestoreEventQueue(state.EventQueue),
		commands:   RestoreCommandLog(commands),
		rules:      RestoreRulesState(state.RulesState),
		trace:      RestoreEventTrace(state.EventTrace),
		execLog:    NewExecutionLog(),
		modules:    NewModuleRegistry(),
		logs:       logging.NopPublisher(),
	}
	_ = s.modules.Register(NewPeriodicScheduler())
	return s
}

func worldToValue(w *world.World) (codec.Value, error) {
	return valueFromJSON(w)
}

// stateValue canonicalizes the simulation_state half for hashing. It panics
// if the state fails to round-trip through encoding/json, which includes
// the case of a non-finite float stored in rules state or params via
// codec.Float.
func (s *Simulation) stateValue() codec.Value {
	_, state := s.Snapshot()
	value, err := valueFromJSON(state)
	if err != nil {
		panic(fmt.Sprintf("sim: simulation state failed to canonicalize: %v", err))
	}
	return value
}

func valueFromJSON(v any) (codec.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return codec.Value{}, err
	}
	var val codec.Value
	if err := val.UnmarshalJSON(data); err != nil {
		return codec.Value{}, err
	}
	return val, nil
}
