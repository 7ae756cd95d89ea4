package world

// Role classifies a space independent of its topology: gates tactical-only
// behaviors without implying a particular coordinate shape (spec.md §3,
// §GLOSSARY "Role").
type Role string

const (
	RoleCampaign Role = "campaign"
	RoleLocal    Role = "local"
)

// SiteType enumerates the kind of point of interest a hex cell carries.
type SiteType string

const (
	SiteNone    SiteType = "none"
	SiteTown    SiteType = "town"
	SiteDungeon SiteType = "dungeon"
)

// HexRecord is the per-cell terrain/site metadata stored in a space's cell
// map (spec.md §3).
type HexRecord struct {
	TerrainType string         `json:"terrainType"`
	SiteType    SiteType       `json:"siteType"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Door links two cells (possibly across spaces) for traversal that bypasses
// normal adjacency, e.g. a dungeon entrance from the overworld.
type Door struct {
	ID   string      `json:"id"`
	From LocationRef `json:"from"`
	To   LocationRef `json:"to"`
}

// Anchor names a notable fixed location within a space (spawn points,
// waypoints) independent of any entity.
type Anchor struct {
	ID   string      `json:"id"`
	At   LocationRef `json:"at"`
	Tags []string    `json:"tags,omitempty"`
}

// Interactable marks a cell as carrying a static, non-entity interaction
// point (a lever, a signpost, a shrine).
type Interactable struct {
	ID   string      `json:"id"`
	Kind string      `json:"kind"`
	At   LocationRef `json:"at"`
}

// TopologyParams captures the shape parameters for a space's topology:
// Radius for hex_disk, Width/Height for hex_rectangle and square_grid.
// Unused fields are left at their zero value and normalize identically
// across absent/zero per spec.md §3 absent-vs-empty parity.
type TopologyParams struct {
	Radius int `json:"radius,omitempty"`
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// SpaceState is a named topological region with its own cell set (spec.md
// §3).
type SpaceState struct {
	SpaceID        string                `json:"spaceId"`
	Role           Role                  `json:"role"`
	TopologyType   TopologyType          `json:"topologyType"`
	TopologyParams TopologyParams        `json:"topologyParams"`
	Cells          map[string]*HexRecord `json:"cells"`
	Doors          []Door                `json:"doors,omitempty"`
	Anchors        []Anchor              `json:"anchors,omitempty"`
	Interactables  []Interactable        `json:"interactables,omitempty"`
}

// NewSpace constructs an empty SpaceState for the given topology, generating
// its cell set from topologyParams. hex_disk and hex_rectangle produce a
// filled HexRecord map; square_grid produces a Width x Height grid; hex_axial
// (the "custom"/externally authored case) starts with an empty cell map that
// callers populate explicitly.
func NewSpace(spaceID string, role Role, topologyType TopologyType, params TopologyParams) *SpaceState {
	s := &SpaceState{
		SpaceID:        spaceID,
		Role:           role,
		TopologyType:   topologyType,
		TopologyParams: params,
		Cells:          make(map[string]*HexRecord),
	}
	switch topologyType {
	case TopologyHexDisk:
		s.fillHexDisk(params.Radius)
	case TopologyHexRectangle:
		s.fillHexRectangle(params.Width, params.Height)
	case TopologySquareGrid:
		s.fillSquareGrid(params.Width, params.Height)
	case TopologyHexAxial:
		// Externally authored cell sets (content loaders are out of scope,
		// spec.md §1); the cell map starts empty and is populated by the
		// caller via SetCell.
	}
	return s
}

func (s *SpaceState) fillHexDisk(radius int) {
	if radius < 0 {
		radius = 0
	}
	for q := -radius; q <= radius; q++ {
		r1 := maxInt(-radius, -q-radius)
		r2 := minInt(radius, -q+radius)
		for r := r1; r <= r2; r++ {
			s.SetCell(HexCoord{Q: q, R: r}, &HexRecord{TerrainType: "plains", SiteType: SiteNone})
		}
	}
}

func (s *SpaceState) fillHexRectangle(width, height int) {
	for q := 0; q < width; q++ {
		for r := 0; r < height; r++ {
			s.SetCell(HexCoord{Q: q, R: r}, &HexRecord{TerrainType: "plains", SiteType: SiteNone})
		}
	}
}

func (s *SpaceState) fillSquareGrid(width, height int) {
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			key := (SquareCoord{X: x, Y: y}).String()
			s.Cells[key] = &HexRecord{TerrainType: "floor", SiteType: SiteNone}
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// SetCell records or replaces the HexRecord at coord.
func (s *SpaceState) SetCell(coord HexCoord, rec *HexRecord) {
	s.Cells[coord.String()] = rec
}

// Cell returns the HexRecord at a hex coordinate, if any.
func (s *SpaceState) Cell(coord HexCoord) (*HexRecord, bool) {
	rec, ok := s.Cells[coord.String()]
	return rec, ok
}

// SquareCell returns the HexRecord at a square coordinate, if any.
func (s *SpaceState) SquareCell(coord SquareCoord) (*HexRecord, bool) {
	rec, ok := s.Cells[coord.String()]
	return rec, ok
}

// CellExists reports whether ref resolves to a valid, populated cell in s,
// used to enforce the invariant in spec.md §3 ("position maps to a valid
// cell in that space").
func (s *SpaceState) CellExists(ref LocationRef) bool {
	if ref.TopologyType == TopologySquareGrid {
		_, ok := s.SquareCell(ref.Square)
		return ok
	}
	_, ok := s.Cell(ref.Coord)
	return ok
}
