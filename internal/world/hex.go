// Package world implements the hexcrawl world state: spaces, cells,
// entities, containers, and the bounded world-owned ledgers (spec.md §3).
package world

import "fmt"

// HexCoord is an axial hex coordinate pair. It is hashable (usable as a map
// key via its canonical string form) per spec.md §3.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// String returns the canonical key form "q,r" used both as a Go map key
// helper and as the wire representation inside LocationRef/HexRecord
// containers.
func (h HexCoord) String() string {
	return fmt.Sprintf("%d,%d", h.Q, h.R)
}

// SquareCoord is a square-grid cell coordinate pair.
type SquareCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s SquareCoord) String() string {
	return fmt.Sprintf("%d,%d", s.X, s.Y)
}

// hexNeighborDirections enumerates the six axial neighbor offsets in a fixed
// order, used by adjacency/occlusion-edge computations so iteration order is
// itself deterministic.
var hexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0}, {Q: 1, R: -1}, {Q: 0, R: -1},
	{Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1},
}

// Neighbors returns h's six axial neighbors in a fixed, deterministic order.
func (h HexCoord) Neighbors() [6]HexCoord {
	var out [6]HexCoord
	for i, d := range hexNeighborDirections {
		out[i] = HexCoord{Q: h.Q + d.Q, R: h.R + d.R}
	}
	return out
}

// Distance returns the axial (cube) distance between two hex coordinates.
func (h HexCoord) Distance(other HexCoord) int {
	dq := h.Q - other.Q
	dr := h.R - other.R
	ds := (-h.Q - h.R) - (-other.Q - other.R)
	return maxInt(absInt(dq), maxInt(absInt(dr), absInt(ds)))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
