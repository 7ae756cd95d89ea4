package sim

import (
	"errors"
	"testing"
)

type stubModule struct {
	name   string
	starts int
}

func (s *stubModule) Name() string                                { return s.name }
func (s *stubModule) OnSimulationStart(sim *Simulation)            { s.starts++ }
func (s *stubModule) OnTickStart(sim *Simulation, tick uint64)     {}
func (s *stubModule) OnTickEnd(sim *Simulation, tick uint64)       {}
func (s *stubModule) OnEventExecuted(sim *Simulation, evt *SimEvent) {}

func TestModuleRegistryPreservesRegistrationOrder(t *testing.T) {
	r := NewModuleRegistry()
	a := &stubModule{name: "a"}
	b := &stubModule{name: "b"}
	if err := r.Register(a); err != nil {
		t.Fatalf("Register a: %v", err)
	}
	if err := r.Register(b); err != nil {
		t.Fatalf("Register b: %v", err)
	}
	order := r.InOrder()
	if len(order) != 2 || order[0].Name() != "a" || order[1].Name() != "b" {
		t.Fatalf("unexpected registration order: %+v", order)
	}
}

func TestModuleRegistryRejectsDuplicateName(t *testing.T) {
	r := NewModuleRegistry()
	if err := r.Register(&stubModule{name: "a"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := r.Register(&stubModule{name: "a"})
	if !errors.Is(err, ErrDuplicateModule) {
		t.Fatalf("expected ErrDuplicateModule, got %v", err)
	}
}

func TestModuleRegistryGetMissing(t *testing.T) {
	r := NewModuleRegistry()
	if _, ok := r.Get("missing"); ok {
		t.Fatalf("expected Get to report absence for an unregistered module")
	}
}
