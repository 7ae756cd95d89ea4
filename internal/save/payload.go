// Package save implements the canonical save payload of spec.md §4.10:
// atomic write, fail-fast hash verification on load, and loadable legacy
// world-only templates.
package save

import (
	"hexcrawl-substrate/internal/codec"
	"hexcrawl-substrate/internal/sim"
	"hexcrawl-substrate/internal/world"
)

// SchemaVersion is the only schema_version this package currently writes or
// accepts for a full Simulation payload.
const SchemaVersion = 1

// Payload is the canonical save payload schema version 1 (spec.md §4.10).
type Payload struct {
	SchemaVersion   int                          `json:"schemaVersion"`
	SaveHash        string                       `json:"saveHash"`
	WorldState      *world.World                 `json:"worldState"`
	SimulationState sim.SimulationStateSnapshot  `json:"simulationState"`
	InputLog        []*sim.SimCommand            `json:"inputLog"`
	Metadata        map[string]any               `json:"metadata,omitempty"`
}

// LegacyWorldPayload is the older world-only template shape (spec.md §4.10
// "Legacy world-only payloads"): loadable as a world template, but it never
// produces a Simulation since it carries no simulation_state or input_log.
type LegacyWorldPayload struct {
	SchemaVersion int           `json:"schemaVersion"`
	WorldHash     string        `json:"worldHash"`
	Hexes         *world.World  `json:"hexes"`
}

// computeSaveHash returns the canonical SHA-256 digest over
// {schema_version, world_state, simulation_state, input_log}, explicitly
// excluding save_hash itself (spec.md §3 invariants).
func computeSaveHash(p *Payload) (string, error) {
	inputLog := p.InputLog
	if inputLog == nil {
		inputLog = []*sim.SimCommand{}
	}
	hashed := struct {
		SchemaVersion   int                         `json:"schemaVersion"`
		WorldState      *world.World                `json:"worldState"`
		SimulationState sim.SimulationStateSnapshot `json:"simulationState"`
		InputLog        []*sim.SimCommand           `json:"inputLog"`
	}{
		SchemaVersion:   p.SchemaVersion,
		WorldState:      p.WorldState,
		SimulationState: p.SimulationState,
		InputLog:        inputLog,
	}
	value, err := valueFromJSON(hashed)
	if err != nil {
		return "", err
	}
	return codec.Hash(value)
}
