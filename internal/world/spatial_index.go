package world

import "github.com/cespare/xxhash/v2"

// SpatialIndex is a fast, non-canonical lookup accelerator over occlusion
// edges, keyed by a 64-bit xxhash digest of each LocationRef pair rather
// than the string Key() comparison World otherwise uses. It exists purely
// to make "is sight blocked between these two cells" a single map probe
// during a busy tick's entity-update phase; it is never part of
// simulation_hash() or save_hash (those remain SHA-256 over the canonical
// OcclusionEdges ledger, per spec.md §4.2) and is rebuilt from the ledger on
// load rather than serialized itself.
type SpatialIndex struct {
	blocked map[uint64]struct{}
}

// NewSpatialIndex builds an index from the current occlusion-edge ledger.
func NewSpatialIndex(edges []OcclusionEdge) *SpatialIndex {
	idx := &SpatialIndex{blocked: make(map[uint64]struct{}, len(edges)*2)}
	for _, e := range edges {
		idx.blocked[edgeDigest(e.From, e.To)] = struct{}{}
		idx.blocked[edgeDigest(e.To, e.From)] = struct{}{}
	}
	return idx
}

func edgeDigest(a, b LocationRef) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(a.Key())
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(b.Key())
	return h.Sum64()
}

// Blocked reports whether sight/movement between from and to is blocked by
// a recorded occlusion edge.
func (idx *SpatialIndex) Blocked(from, to LocationRef) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.blocked[edgeDigest(from, to)]
	return ok
}

// Rebuild replaces the index contents from a fresh ledger snapshot; called
// once per tick after the occlusion-edge ledger may have changed, rather
// than incrementally maintained, since MaxOcclusionEdges bounds the work to
// a small constant.
func (idx *SpatialIndex) Rebuild(edges []OcclusionEdge) {
	idx.blocked = make(map[uint64]struct{}, len(edges)*2)
	for _, e := range edges {
		idx.blocked[edgeDigest(e.From, e.To)] = struct{}{}
		idx.blocked[edgeDigest(e.To, e.From)] = struct{}{}
	}
}
