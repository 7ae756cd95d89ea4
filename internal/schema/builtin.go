package schema

import "context"

// SetEntityMoveVectorParams is the param shape of sim.CommandSetEntityMoveVector.
type SetEntityMoveVectorParams struct {
	X float64 `json:"x" jsonschema:"description=World-space X component of the move vector"`
	Y float64 `json:"y" jsonschema:"description=World-space Y component of the move vector"`
}

// SetEntityTargetPositionParams is the param shape of
// sim.CommandSetEntityTargetPosition.
type SetEntityTargetPositionParams struct {
	X float64 `json:"x" jsonschema:"description=Target world-space X"`
	Y float64 `json:"y" jsonschema:"description=Target world-space Y"`
}

// TransitionSpaceParams is the param shape of sim.CommandTransitionSpace.
type TransitionSpaceParams struct {
	SpaceID string   `json:"spaceId" jsonschema:"description=Destination space id"`
	X       *float64 `json:"x,omitempty" jsonschema:"description=Optional spawn X in the destination space"`
	Y       *float64 `json:"y,omitempty" jsonschema:"description=Optional spawn Y in the destination space"`
}

// PeriodicTickParams is the param shape of sim.EventTypePeriodicTick.
type PeriodicTickParams struct {
	Task     string `json:"task" jsonschema:"description=Registered periodic task name"`
	Interval int64  `json:"interval" jsonschema:"minimum=1,description=Interval in ticks until the next firing"`
}

// TravelStepParams is the param shape of sim.EventTypeTravelStep.
type TravelStepParams struct {
	EntityID     string `json:"entityId"`
	LocationFrom any    `json:"locationFrom"`
	LocationTo   any    `json:"locationTo"`
}

// BuildBuiltinRegistry generates and compiles a Registry covering every
// substrate-reserved command and event type (spec.md §6). Rule modules add
// their own entries to a Builder the same way before calling CompileAll.
func BuildBuiltinRegistry(ctx context.Context) (*Registry, error) {
	b := NewBuilder()
	types := []struct {
		name string
		v    any
	}{
		{"set_entity_move_vector", SetEntityMoveVectorParams{}},
		{"set_entity_target_position", SetEntityTargetPositionParams{}},
		{"transition_space", TransitionSpaceParams{}},
		{"periodic_tick", PeriodicTickParams{}},
		{"travel_step", TravelStepParams{}},
	}
	for _, entry := range types {
		doc, err := GenerateFromStruct(entry.v)
		if err != nil {
			return nil, err
		}
		b.Add(entry.name, doc)
	}
	return b.CompileAll(ctx)
}
