package schema

import (
	"context"
	"encoding/json"
	"testing"
)

func TestBuildBuiltinRegistryCompilesEveryReservedType(t *testing.T) {
	reg, err := BuildBuiltinRegistry(context.Background())
	if err != nil {
		t.Fatalf("BuildBuiltinRegistry: %v", err)
	}
	for _, name := range []string{
		"set_entity_move_vector",
		"set_entity_target_position",
		"transition_space",
		"periodic_tick",
		"travel_step",
	} {
		if !reg.Has(name) {
			t.Fatalf("expected a compiled schema for %q", name)
		}
	}
}

func TestRegistryValidateAcceptsWellFormedParams(t *testing.T) {
	reg, err := BuildBuiltinRegistry(context.Background())
	if err != nil {
		t.Fatalf("BuildBuiltinRegistry: %v", err)
	}
	var raw any
	if err := json.Unmarshal([]byte(`{"x":1,"y":2}`), &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := reg.Validate("set_entity_move_vector", raw); err != nil {
		t.Fatalf("expected well-formed params to validate, got %v", err)
	}
}

func TestRegistryValidateRejectsWrongFieldType(t *testing.T) {
	reg, err := BuildBuiltinRegistry(context.Background())
	if err != nil {
		t.Fatalf("BuildBuiltinRegistry: %v", err)
	}
	var raw any
	if err := json.Unmarshal([]byte(`{"task":"tide","interval":"soon"}`), &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := reg.Validate("periodic_tick", raw); err == nil {
		t.Fatalf("expected validation to fail for a string where an interval integer was expected")
	}
}

func TestRegistryValidateUnknownNameAlwaysPasses(t *testing.T) {
	reg, err := BuildBuiltinRegistry(context.Background())
	if err != nil {
		t.Fatalf("BuildBuiltinRegistry: %v", err)
	}
	if err := reg.Validate("custom_rule_module_command", map[string]any{"anything": true}); err != nil {
		t.Fatalf("expected an unregistered name to always pass, got %v", err)
	}
}
