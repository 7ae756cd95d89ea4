package world

import "fmt"

// TopologyType enumerates the shapes a space's coordinate system may take.
// The set here is wider than spec.md's minimal {hex_axial, square_grid}:
// original_source/src/hexcrawler/sim/core.py's HEX_TOPOLOGY_TYPES carries
// hex_disk and hex_rectangle as concrete hex-shaped topologies with their
// own topology_params, which SPEC_FULL.md §SUPPLEMENTED FEATURES adopts.
type TopologyType string

const (
	TopologyHexAxial     TopologyType = "hex_axial"
	TopologyHexDisk      TopologyType = "hex_disk"
	TopologyHexRectangle TopologyType = "hex_rectangle"
	TopologySquareGrid   TopologyType = "square_grid"
)

// IsHex reports whether t uses axial hex coordinates (as opposed to square
// grid coordinates).
func (t TopologyType) IsHex() bool {
	switch t {
	case TopologyHexAxial, TopologyHexDisk, TopologyHexRectangle:
		return true
	default:
		return false
	}
}

// DefaultSpaceID is substituted for legacy payloads that omit space_id
// (spec.md §3 "CellRef / LocationRef").
const DefaultSpaceID = "overworld"

// LocationRef identifies a cell within a named space. Coord carries the
// axial (Q, R) coordinate and Square the square-grid (X, Y) coordinate;
// which one is meaningful depends on TopologyType, and the unused one holds
// zero values.
type LocationRef struct {
	SpaceID      string       `json:"spaceId"`
	TopologyType TopologyType `json:"topologyType"`
	Coord        HexCoord     `json:"coord"`
	Square       SquareCoord  `json:"square,omitempty"`
}

// CellRef is an alias for LocationRef: spec.md §3 names both CellRef and
// LocationRef for the same shape, distinguished only by call-site intent
// (a CellRef identifies a single hex/cell; a LocationRef additionally
// implies "this is where an entity or event refers to as its place").
type CellRef = LocationRef

// NormalizeSpaceID fills in DefaultSpaceID for legacy payloads that carry an
// empty space_id (spec.md §3).
func NormalizeSpaceID(spaceID string) string {
	if spaceID == "" {
		return DefaultSpaceID
	}
	return spaceID
}

// Validate reports whether ref's TopologyType is a known hex or square-grid
// type. It does not inspect Coord or Square, and it does not check the cell
// exists within the named space (see SpaceState.CellExists).
func (ref LocationRef) Validate() error {
	switch {
	case ref.TopologyType.IsHex():
		return nil
	case ref.TopologyType == TopologySquareGrid:
		return nil
	default:
		return fmt.Errorf("world: unknown topology_type %q", ref.TopologyType)
	}
}

// Key returns a stable string key combining space and coordinate, suitable
// for use as a map key in cross-space lookups (the occlusion-edge ledger
// keys on this).
func (ref LocationRef) Key() string {
	if ref.TopologyType == TopologySquareGrid {
		return ref.SpaceID + "#" + ref.Square.String()
	}
	return ref.SpaceID + "#" + ref.Coord.String()
}
