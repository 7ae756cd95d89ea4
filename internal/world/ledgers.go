package world

import "encoding/json"

// Bounds for the world-owned ledgers (spec.md §3 "Bounded world ledgers").
// Each has an explicit max with deterministic FIFO eviction: appending past
// the cap silently drops the oldest entry first, the same discipline the
// teacher's journal.go applies to its keyframe buffer (RecordKeyframe).
const (
	MaxSignals         = 64
	MaxTracks          = 128
	MaxRumors          = 32
	MaxSpawnDescriptors = 32
	MaxOcclusionEdges  = 256
)

// BoundedFIFO is a fixed-capacity queue with deterministic oldest-first
// eviction, generalizing the cap/evict pattern the teacher applies ad hoc in
// journal.go (keyframes) and effects/manager.go (trace) into one reusable
// shape for the five bounded world ledgers.
type BoundedFIFO[T any] struct {
	cap   int
	items []T
}

// NewBoundedFIFO constructs an empty bounded queue with the given capacity.
func NewBoundedFIFO[T any](capacity int) *BoundedFIFO[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &BoundedFIFO[T]{cap: capacity, items: make([]T, 0, capacity)}
}

// Append adds an item, evicting the oldest entry first if the queue is at
// capacity. Returns the evicted item and true if an eviction occurred.
func (q *BoundedFIFO[T]) Append(item T) (T, bool) {
	if q.cap == 0 {
		var zero T
		return zero, false
	}
	q.items = append(q.items, item)
	if len(q.items) > q.cap {
		evicted := q.items[0]
		q.items = append(q.items[:0], q.items[1:]...)
		return evicted, true
	}
	var zero T
	return zero, false
}

// Items returns the queue contents in FIFO order (oldest first), a copy
// safe for the caller to retain.
func (q *BoundedFIFO[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// Len reports the current number of items.
func (q *BoundedFIFO[T]) Len() int { return len(q.items) }

// Cap reports the configured capacity.
func (q *BoundedFIFO[T]) Cap() int { return q.cap }

type boundedFIFOWire[T any] struct {
	Cap   int `json:"cap"`
	Items []T `json:"items"`
}

// MarshalJSON serializes the queue's capacity and current FIFO-order
// contents, so a ledger round-trips through the canonical save payload
// without losing its bound.
func (q *BoundedFIFO[T]) MarshalJSON() ([]byte, error) {
	items := q.Items()
	if items == nil {
		items = []T{}
	}
	return json.Marshal(boundedFIFOWire[T]{Cap: q.cap, Items: items})
}

// UnmarshalJSON restores a queue from its wire form.
func (q *BoundedFIFO[T]) UnmarshalJSON(data []byte) error {
	var wire boundedFIFOWire[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Cap <= 0 {
		wire.Cap = len(wire.Items)
	}
	q.cap = wire.Cap
	q.items = append([]T(nil), wire.Items...)
	return nil
}

// Signal is a transient world event marker (a noise, a scent, a sighting)
// consumed by rule modules such as an encounter pipeline.
type Signal struct {
	ID       string      `json:"id"`
	Kind     string      `json:"kind"`
	At       LocationRef `json:"at"`
	Strength float64     `json:"strength"`
	Tick     uint64      `json:"tick"`
}

// Track is a footprint/trail marker left by entity movement.
type Track struct {
	EntityID string      `json:"entityId"`
	At       LocationRef `json:"at"`
	Tick     uint64      `json:"tick"`
}

// Rumor is a piece of world lore propagated between settlements.
type Rumor struct {
	ID      string      `json:"id"`
	Topic   string      `json:"topic"`
	At      LocationRef `json:"at"`
	Tick    uint64      `json:"tick"`
	Payload map[string]any `json:"payload,omitempty"`
}

// SpawnDescriptor records a pending or recent spawn request, used by rule
// modules to deduplicate/rate-limit spawning.
type SpawnDescriptor struct {
	ID       string      `json:"id"`
	Kind     string      `json:"kind"`
	At       LocationRef `json:"at"`
	Tick     uint64      `json:"tick"`
}

// OcclusionEdge marks a pair of adjacent cells whose line of sight is
// blocked (a wall, a closed door).
type OcclusionEdge struct {
	From LocationRef `json:"from"`
	To   LocationRef `json:"to"`
}

// Ledgers bundles the five bounded world-owned queues into one struct so
// World can embed and (de)serialize them uniformly.
type Ledgers struct {
	Signals          *BoundedFIFO[Signal]          `json:"signals"`
	Tracks           *BoundedFIFO[Track]            `json:"tracks"`
	Rumors           *BoundedFIFO[Rumor]            `json:"rumors"`
	SpawnDescriptors *BoundedFIFO[SpawnDescriptor]  `json:"spawnDescriptors"`
	OcclusionEdges   *BoundedFIFO[OcclusionEdge]    `json:"occlusionEdges"`
}

// NewLedgers constructs the five bounded ledgers at their spec-mandated caps.
func NewLedgers() Ledgers {
	return NewLedgersWithCaps(MaxSignals, MaxTracks, MaxRumors, MaxSpawnDescriptors, MaxOcclusionEdges)
}

// NewLedgersWithCaps constructs the five bounded ledgers at the given
// capacities, falling back to the spec-mandated default for any
// non-positive value (internal/config's SubstrateConfig.LedgerCaps feeds
// this at process start; a running Simulation never resizes a ledger).
func NewLedgersWithCaps(signals, tracks, rumors, spawnDescriptors, occlusionEdges int) Ledgers {
	pick := func(requested, fallback int) int {
		if requested <= 0 {
			return fallback
		}
		return requested
	}
	return Ledgers{
		Signals:          NewBoundedFIFO[Signal](pick(signals, MaxSignals)),
		Tracks:           NewBoundedFIFO[Track](pick(tracks, MaxTracks)),
		Rumors:           NewBoundedFIFO[Rumor](pick(rumors, MaxRumors)),
		SpawnDescriptors: NewBoundedFIFO[SpawnDescriptor](pick(spawnDescriptors, MaxSpawnDescriptors)),
		OcclusionEdges:   NewBoundedFIFO[OcclusionEdge](pick(occlusionEdges, MaxOcclusionEdges)),
	}
}
