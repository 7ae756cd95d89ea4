package rng

import "sort"

// Streams owns every named child generator derived from a single master
// seed. rule modules declare streams by name; names that collide across
// modules intentionally share a single Generator (spec.md §4.1), and
// instantiating a brand-new stream never perturbs any other stream's draws
// because each Generator's state is derived independently from the digest.
type Streams struct {
	masterSeed int64
	generators map[string]*Generator
}

// NewStreams constructs an empty stream table rooted at masterSeed.
func NewStreams(masterSeed int64) *Streams {
	return &Streams{
		masterSeed: masterSeed,
		generators: make(map[string]*Generator),
	}
}

// Stream returns the stable Generator for name, deriving and caching it on
// first access.
func (s *Streams) Stream(name string) *Generator {
	if g, ok := s.generators[name]; ok {
		return g
	}
	g := NewGenerator(DeriveSeed(s.masterSeed, name))
	s.generators[name] = g
	return g
}

// Snapshot returns the serializable state of every stream touched so far,
// keyed by name, for embedding into simulation_state.
func (s *Streams) Snapshot() map[string]State {
	out := make(map[string]State, len(s.generators))
	for name, g := range s.generators {
		out[name] = g.State()
	}
	return out
}

// Restore rehydrates the stream table from a previously serialized
// snapshot. Any stream not present in the snapshot is derived lazily on
// first Stream() access, exactly as it would have been on a fresh
// simulation — this is what gives RNG streams rehydration idempotence
// (spec.md §8 "Rehydration idempotence").
func (s *Streams) Restore(snapshot map[string]State) {
	s.generators = make(map[string]*Generator, len(snapshot))
	for name, state := range snapshot {
		s.generators[name] = NewGeneratorFromState(state)
	}
}

// Names returns the sorted list of streams that have been derived so far.
func (s *Streams) Names() []string {
	names := make([]string, 0, len(s.generators))
	for name := range s.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
