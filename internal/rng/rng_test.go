package rng

import "testing"

func TestDeriveSeedIsDeterministic(t *testing.T) {
	a := DeriveSeed(42, "combat")
	b := DeriveSeed(42, "combat")
	if a != b {
		t.Fatalf("DeriveSeed not deterministic: %d vs %d", a, b)
	}
}

func TestDeriveSeedDiffersByName(t *testing.T) {
	a := DeriveSeed(42, "combat")
	b := DeriveSeed(42, "signals")
	if a == b {
		t.Fatalf("expected different seeds for different stream names")
	}
}

func TestDeriveSeedDiffersByMasterSeed(t *testing.T) {
	a := DeriveSeed(1, "combat")
	b := DeriveSeed(2, "combat")
	if a == b {
		t.Fatalf("expected different seeds for different master seeds")
	}
}

func TestGeneratorStateRoundTrip(t *testing.T) {
	g := NewGenerator(DeriveSeed(7, "rounds"))
	for i := 0; i < 5; i++ {
		g.Float64()
	}
	state := g.State()

	restored := NewGeneratorFromState(state)
	for i := 0; i < 10; i++ {
		want := g.Float64()
		got := restored.Float64()
		if want != got {
			t.Fatalf("draw %d diverged after restore: want %v got %v", i, want, got)
		}
	}
}

func TestStreamIsolationButterflyContainment(t *testing.T) {
	streams := NewStreams(99)
	a := streams.Stream("alpha")
	var before []float64
	for i := 0; i < 5; i++ {
		before = append(before, a.Float64())
	}

	// Inserting a brand-new stream must not perturb "alpha"'s sequence.
	streams.Stream("beta").Float64()

	var after []float64
	for i := 0; i < 5; i++ {
		after = append(after, a.Float64())
	}

	// Re-derive a fresh "alpha" generator from the same master seed and
	// confirm it reproduces all ten draws, the five after "beta" was
	// inserted included, independent of whatever else touched the table in
	// between.
	fresh := NewGenerator(DeriveSeed(99, "alpha"))
	for i := 0; i < 5; i++ {
		want := before[i]
		got := fresh.Float64()
		if want != got {
			t.Fatalf("draw %d not reproducible: want %v got %v", i, want, got)
		}
	}
	for i := 0; i < 5; i++ {
		want := after[i]
		got := fresh.Float64()
		if want != got {
			t.Fatalf("draw %d perturbed by new stream: want %v got %v", i+5, want, got)
		}
	}
}

func TestStreamsSnapshotRestore(t *testing.T) {
	streams := NewStreams(5)
	streams.Stream("a").Float64()
	streams.Stream("b").Float64()
	snap := streams.Snapshot()

	restored := NewStreams(5)
	restored.Restore(snap)

	for _, name := range []string{"a", "b"} {
		want := streams.Stream(name).Float64()
		got := restored.Stream(name).Float64()
		if want != got {
			t.Fatalf("stream %s diverged after restore", name)
		}
	}
}
