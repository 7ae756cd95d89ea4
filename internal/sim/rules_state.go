package sim

import "hexcrawl-substrate/internal/codec"

// RulesState is the module_name -> opaque-JSON store of spec.md §4.5, the
// only sanctioned persistent memory a rule module carries across saves,
// restarts, or replays.
type RulesState struct {
	modules map[string]codec.Value
}

// NewRulesState constructs an empty store.
func NewRulesState() *RulesState {
	return &RulesState{modules: make(map[string]codec.Value)}
}

// Get returns a deep copy of module_name's state, or an empty object if it
// has never been set.
func (r *RulesState) Get(moduleName string) codec.Value {
	v, ok := r.modules[moduleName]
	if !ok {
		return codec.EmptyObject()
	}
	return v.Clone()
}

// Set stores a deep copy of value under module_name. value arrives as a
// codec.Value, whose kinds are limited to the JSON shapes, but no
// validation pass runs here: a non-finite float built with codec.Float is
// stored as given.
func (r *RulesState) Set(moduleName string, value codec.Value) {
	r.modules[moduleName] = value.Clone()
}

// Snapshot returns a deep copy of the entire store, keyed by module name,
// for the canonical save payload's simulation_state.rules_state.
func (r *RulesState) Snapshot() map[string]codec.Value {
	out := make(map[string]codec.Value, len(r.modules))
	for k, v := range r.modules {
		out[k] = v.Clone()
	}
	return out
}

// RestoreRulesState rebuilds a store from a snapshot taken by Snapshot.
func RestoreRulesState(snapshot map[string]codec.Value) *RulesState {
	r := NewRulesState()
	for k, v := range snapshot {
		r.modules[k] = v.Clone()
	}
	return r
}
