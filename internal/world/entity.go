package world

import (
	"fmt"
	"sort"

	"hexcrawl-substrate/internal/codec"
)

// FacingDirection mirrors the teacher's facing enum shape, generalized to
// four cardinal headings. Facing is stored as set on the entity; movement.go
// derives HexCoord from (X, Y) but does not derive or update facing.
type FacingDirection string

const (
	FacingNorth FacingDirection = "north"
	FacingSouth FacingDirection = "south"
	FacingEast  FacingDirection = "east"
	FacingWest  FacingDirection = "west"
)

// Vec2 is a plain float64 2D vector used for position, move vectors, and
// target positions.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WoundRecord captures a single injury applied to an entity (spec.md §3).
type WoundRecord struct {
	Region        string   `json:"region"`
	Severity      int      `json:"severity"`
	Tags          []string `json:"tags,omitempty"`
	InflictedTick uint64   `json:"inflictedTick"`
	Source        string   `json:"source,omitempty"`
}

// MaxWounds bounds the per-entity wound ledger (spec.md §3).
const MaxWounds = 16

// Entity is a mobile actor in the world: a player character, an NPC, or any
// other addressable occupant of a cell.
type Entity struct {
	ID                  string          `json:"id"`
	SpaceID             string          `json:"spaceId"`
	Position            Vec2            `json:"position"`
	Facing              FacingDirection `json:"facing"`
	MoveVector          Vec2            `json:"moveVector"`
	TargetPosition      *Vec2           `json:"targetPosition,omitempty"`
	InventoryContainerID string         `json:"inventoryContainerId,omitempty"`
	Stats               map[string]codec.Value `json:"stats,omitempty"`
	Wounds              []WoundRecord   `json:"wounds,omitempty"`
	CooldownUntilTick   uint64          `json:"cooldownUntilTick,omitempty"`
}

// HexCoordIn returns the entity's derived HexCoord within the given space's
// topology (spec.md §3 "hex_coord (derived)"). Callers pass the owning
// SpaceState, whose TopologyParams are handed to WorldToAxial; the
// conversion itself uses the fixed HexSize and does not read them.
func (e *Entity) HexCoordIn(space *SpaceState) HexCoord {
	return WorldToAxial(e.Position, space.TopologyParams)
}

// AddWound appends a wound, evicting the oldest entry if MaxWounds would be
// exceeded (bounded FIFO, spec.md §3 invariants).
func (e *Entity) AddWound(w WoundRecord) {
	e.Wounds = append(e.Wounds, w)
	if len(e.Wounds) > MaxWounds {
		overflow := len(e.Wounds) - MaxWounds
		e.Wounds = append([]WoundRecord(nil), e.Wounds[overflow:]...)
	}
}

// ApplyStatPatch applies a single {op: set|remove, key, value?} patch to a
// copy of stats and returns the updated map (a Go map has no order; use
// SortedStatKeys for a key-sorted walk). This mirrors
// original_source/src/hexcrawler/sim/core.py's apply_stat_patch, carried
// per SPEC_FULL.md's SUPPLEMENTED FEATURES: the distilled spec only
// mentions Entity.stats as a bag, but the original's patch contract is
// small, self-contained, and exactly what a rule module needs to mutate
// stats deterministically through the command/event pipeline rather than by
// reaching into the map directly.
func ApplyStatPatch(stats map[string]codec.Value, patch StatPatch) (map[string]codec.Value, error) {
	updated := cloneStats(stats)
	switch patch.Op {
	case StatPatchSet:
		if patch.Key == "" {
			return nil, fmt.Errorf("world: stat patch key must be non-empty")
		}
		updated[patch.Key] = patch.Value
	case StatPatchRemove:
		if patch.Key == "" {
			return nil, fmt.Errorf("world: stat patch key must be non-empty")
		}
		delete(updated, patch.Key)
	default:
		return nil, fmt.Errorf("world: stat patch op must be one of: set, remove")
	}
	return updated, nil
}

// StatPatchOp enumerates the operations ApplyStatPatch accepts.
type StatPatchOp string

const (
	StatPatchSet    StatPatchOp = "set"
	StatPatchRemove StatPatchOp = "remove"
)

// StatPatch is a single mutation to an entity's stats map.
type StatPatch struct {
	Op    StatPatchOp
	Key   string
	Value codec.Value
}

func cloneStats(stats map[string]codec.Value) map[string]codec.Value {
	cloned := make(map[string]codec.Value, len(stats))
	for k, v := range stats {
		cloned[k] = v.Clone()
	}
	return cloned
}

// SortedStatKeys returns an entity's stat keys in lexicographic order, used
// by canonical encoding call sites that want an explicit, auditable order
// rather than relying on map iteration plus the codec's own sort.
func SortedStatKeys(stats map[string]codec.Value) []string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
