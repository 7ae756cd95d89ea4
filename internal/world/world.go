package world

import (
	"fmt"
	"sort"

	"hexcrawl-substrate/internal/codec"
)

// World is the authoritative keyed container of cells, spaces, entities and
// containers plus the bounded world-owned ledgers (spec.md §3 "World
// State"). It is owned exclusively by the Simulation; rule modules receive a
// mutable handle only during their hooks (spec.md §5).
type World struct {
	Spaces     map[string]*SpaceState `json:"spaces"`
	Entities   map[string]*Entity     `json:"entities"`
	Containers map[string]*Container  `json:"containers"`
	Ledgers    Ledgers                `json:"ledgers"`

	// SelectedEntityID is presentation-adjacent, world-owned UI state
	// carried from original_source/src/hexcrawler/sim/core.py's
	// selected_entity_id (SPEC_FULL.md SUPPLEMENTED FEATURES item 3). The
	// original's own hash.py never references it when computing
	// simulation_hash, so it is deliberately excluded from the canonical
	// payload here too — presentation may read and write it without ever
	// perturbing the hash, while still going through World rather than a
	// side channel (preserving "no direct mutation path from presentation
	// into world state" for everything that *does* count).
	SelectedEntityID string `json:"-"`

	spatialIndex *SpatialIndex
}

// New constructs an empty World with the five bounded ledgers initialized
// at their spec-mandated caps.
func New() *World {
	return &World{
		Spaces:     make(map[string]*SpaceState),
		Entities:   make(map[string]*Entity),
		Containers: make(map[string]*Container),
		Ledgers:    NewLedgers(),
	}
}

// NewWithSeedAndTopology constructs a World with a single initial space of
// the given topology, the constructor named in spec.md §6
// (Simulation::new_with_seed_and_topology delegates its world half here;
// the RNG-seed half lives in internal/sim).
func NewWithSeedAndTopology(spaceID string, topologyType TopologyType, params TopologyParams) (*World, error) {
	return NewWithSeedAndTopologyAndLedgers(spaceID, topologyType, params, NewLedgers())
}

// NewWithSeedAndTopologyAndLedgers is NewWithSeedAndTopology with
// caller-supplied bounded-ledger capacities, used by cmd/substrate when
// internal/config.SubstrateConfig.LedgerCaps overrides the defaults.
func NewWithSeedAndTopologyAndLedgers(spaceID string, topologyType TopologyType, params TopologyParams, ledgers Ledgers) (*World, error) {
	if err := (LocationRef{TopologyType: topologyType}).Validate(); err != nil {
		return nil, err
	}
	w := New()
	w.Ledgers = ledgers
	spaceID = NormalizeSpaceID(spaceID)
	w.Spaces[spaceID] = NewSpace(spaceID, RoleCampaign, topologyType, params)
	return w, nil
}

// AddEntity inserts e into the world, assigning a default inventory
// container (named "inventory:{id}" by convention, matching
// original_source's add_entity) if e does not already reference one.
func (w *World) AddEntity(e *Entity) error {
	if e.ID == "" {
		return fmt.Errorf("world: entity id must be non-empty")
	}
	if _, ok := w.Spaces[e.SpaceID]; !ok {
		return fmt.Errorf("world: entity %q references unknown space %q", e.ID, e.SpaceID)
	}
	if e.InventoryContainerID == "" {
		e.InventoryContainerID = InventoryContainerID(e.ID)
		if _, ok := w.Containers[e.InventoryContainerID]; !ok {
			w.Containers[e.InventoryContainerID] = &Container{ID: e.InventoryContainerID, Items: make(map[string]int)}
		}
	} else if _, ok := w.Containers[e.InventoryContainerID]; !ok {
		return fmt.Errorf("world: entity %q references missing inventory container %q", e.ID, e.InventoryContainerID)
	}
	w.Entities[e.ID] = e
	return nil
}

// RemoveEntity deletes an entity and, if it owned the default
// convention-named inventory container, that container too.
func (w *World) RemoveEntity(entityID string) {
	entity, ok := w.Entities[entityID]
	if !ok {
		return
	}
	if entity.InventoryContainerID == InventoryContainerID(entityID) {
		delete(w.Containers, entity.InventoryContainerID)
	}
	delete(w.Entities, entityID)
}

// GetEntityStats returns a deep copy of an entity's stats map, mirroring
// original_source's get_entity_stats deep-copy accessor (SPEC_FULL.md
// SUPPLEMENTED FEATURES item 2) and spec.md §5's "snapshots are deep
// copies" rule.
func (w *World) GetEntityStats(entityID string) (map[string]codec.Value, error) {
	entity, ok := w.Entities[entityID]
	if !ok {
		return nil, fmt.Errorf("world: unknown entity %q", entityID)
	}
	return cloneStats(entity.Stats), nil
}

// GetEntityStat returns a deep copy of a single stat value, or the provided
// default if absent.
func (w *World) GetEntityStat(entityID, key string, def codec.Value) (codec.Value, error) {
	stats, err := w.GetEntityStats(entityID)
	if err != nil {
		return codec.Value{}, err
	}
	if v, ok := stats[key]; ok {
		return v, nil
	}
	return def, nil
}

// SetSelectedEntity sets the globally- or per-owner-scoped selection
// pointer (SUPPLEMENTED FEATURES item 3).
func (w *World) SetSelectedEntity(selectedEntityID string, ownerEntityID string) {
	if ownerEntityID != "" {
		if owner, ok := w.Entities[ownerEntityID]; ok {
			owner.Stats = setSelectionStat(owner.Stats, selectedEntityID)
			return
		}
	}
	w.SelectedEntityID = selectedEntityID
}

func setSelectionStat(stats map[string]codec.Value, selected string) map[string]codec.Value {
	// Per-owner selection is stored as an ordinary stat so it rides along
	// the entity rather than requiring a second world-level map; the
	// "__selected_entity_id" key is reserved by the substrate and never
	// surfaced to rule-module schema validation.
	updated := cloneStats(stats)
	if selected == "" {
		delete(updated, selectionStatKey)
		return updated
	}
	updated[selectionStatKey] = codec.String(selected)
	return updated
}

const selectionStatKey = "__selected_entity_id"

// SpatialIndex returns the world's lazily-built occlusion-edge spatial
// index, constructing it on first use.
func (w *World) SpatialIndex() *SpatialIndex {
	if w.spatialIndex == nil {
		w.spatialIndex = NewSpatialIndex(w.Ledgers.OcclusionEdges.Items())
	}
	return w.spatialIndex
}

// RebuildSpatialIndex forces a rebuild from the current occlusion-edge
// ledger; called once at the end of any tick phase that may have appended
// an edge.
func (w *World) RebuildSpatialIndex() {
	w.SpatialIndex().Rebuild(w.Ledgers.OcclusionEdges.Items())
}

// CheckInvariants validates the always-hold invariants from spec.md §3:
// every entity's space exists and its position maps to a valid cell, and
// every referenced inventory container exists. The simulation calls it at
// the end of each tick, after the tick counter advances; a violation is
// returned as an error from the advance call, and that tick's mutations
// are not rolled back.
func (w *World) CheckInvariants() error {
	entityIDs := make([]string, 0, len(w.Entities))
	for id := range w.Entities {
		entityIDs = append(entityIDs, id)
	}
	sort.Strings(entityIDs)

	for _, id := range entityIDs {
		entity := w.Entities[id]
		space, ok := w.Spaces[entity.SpaceID]
		if !ok {
			return fmt.Errorf("world: entity %q references unknown space %q", id, entity.SpaceID)
		}
		ref := LocationRef{
			SpaceID:      space.SpaceID,
			TopologyType: space.TopologyType,
		}
		if space.TopologyType == TopologySquareGrid {
			ref.Square = WorldToSquare(entity.Position)
		} else {
			ref.Coord = entity.HexCoordIn(space)
		}
		if !space.CellExists(ref) {
			return fmt.Errorf("world: entity %q position does not map to a valid cell in space %q", id, entity.SpaceID)
		}
		if entity.InventoryContainerID != "" {
			if _, ok := w.Containers[entity.InventoryContainerID]; !ok {
				return fmt.Errorf("world: entity %q references missing inventory container %q", id, entity.InventoryContainerID)
			}
		}
	}
	bounds := map[string]int{
		"signals":          w.Ledgers.Signals.Cap(),
		"tracks":           w.Ledgers.Tracks.Cap(),
		"rumors":           w.Ledgers.Rumors.Cap(),
		"spawnDescriptors": w.Ledgers.SpawnDescriptors.Cap(),
		"occlusionEdges":   w.Ledgers.OcclusionEdges.Cap(),
	}
	lengths := map[string]int{
		"signals":          w.Ledgers.Signals.Len(),
		"tracks":           w.Ledgers.Tracks.Len(),
		"rumors":           w.Ledgers.Rumors.Len(),
		"spawnDescriptors": w.Ledgers.SpawnDescriptors.Len(),
		"occlusionEdges":   w.Ledgers.OcclusionEdges.Len(),
	}
	for _, name := range []string{"signals", "tracks", "rumors", "spawnDescriptors", "occlusionEdges"} {
		if lengths[name] > bounds[name] {
			return fmt.Errorf("world: ledger %s exceeds bound %d", name, bounds[name])
		}
	}
	return nil
}
