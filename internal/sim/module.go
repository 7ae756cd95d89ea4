package sim

import "fmt"

// RuleModule is the trait rule-module implementers satisfy (spec.md §4.7): a
// small, flat interface with four lifecycle hooks, deliberately without a
// deeper class hierarchy. Modules must not mutate world/entity internals
// directly; they act only through the Simulation methods exposed to hooks
// (AppendCommand, ScheduleEvent, SetRulesState, RNGStream).
type RuleModule interface {
	// Name identifies the module; registration fails with ErrDuplicateModule
	// if another module already registered under the same name.
	Name() string
	OnSimulationStart(sim *Simulation)
	OnTickStart(sim *Simulation, tick uint64)
	OnTickEnd(sim *Simulation, tick uint64)
	OnEventExecuted(sim *Simulation, evt *SimEvent)
}

// ModuleRegistry is the ordered, registration-order rule module list of
// spec.md §4.7. Callers dispatch by walking InOrder(), which returns modules
// in registration order, never map iteration order.
type ModuleRegistry struct {
	order   []string
	modules map[string]RuleModule
}

// NewModuleRegistry constructs an empty registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{modules: make(map[string]RuleModule)}
}

// Register inserts module at the end of the registry. Fails with
// ErrDuplicateModule if module.Name() already exists.
func (r *ModuleRegistry) Register(module RuleModule) error {
	name := module.Name()
	if _, exists := r.modules[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateModule, name)
	}
	r.modules[name] = module
	r.order = append(r.order, name)
	return nil
}

// Get returns the module registered under name, if any.
func (r *ModuleRegistry) Get(name string) (RuleModule, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// InOrder returns the registered modules in registration order.
func (r *ModuleRegistry) InOrder() []RuleModule {
	out := make([]RuleModule, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.modules[name])
	}
	return out
}
