package world

import "math"

// HexSize is the world-space radius of a single hex cell, used by the
// axial/world conversions below. A fixed constant keeps conversions
// reproducible without per-space tuning; spaces that need a different scale
// carry it in TopologyParams in a future extension.
const HexSize = 1.0

// AxialToWorldXY converts a pointy-top axial hex coordinate to 2D world
// coordinates, matching original_source/src/hexcrawler/sim/movement.py's
// axial_to_world_xy exactly (sqrt(3) and 1.5 coefficients for pointy-top
// hexes), scaled by HexSize.
func AxialToWorldXY(coord HexCoord) Vec2 {
	x := math.Sqrt(3.0) * (float64(coord.Q) + float64(coord.R)/2.0) * HexSize
	y := 1.5 * float64(coord.R) * HexSize
	return Vec2{X: x, Y: y}
}

// WorldToAxial converts a 2D world position back to the nearest axial hex
// coordinate (pointy-top layout), rounding via cube coordinates for
// correctness at hex boundaries. The TopologyParams argument is currently
// unused by the hex conversion (square grids use WorldToSquare instead) but
// is threaded through so a future per-space hex scale can be applied
// without changing every call site.
func WorldToAxial(pos Vec2, _ TopologyParams) HexCoord {
	q := (math.Sqrt(3.0)/3.0*pos.X - 1.0/3.0*pos.Y) / HexSize
	r := (2.0 / 3.0 * pos.Y) / HexSize
	return roundAxial(q, r)
}

func roundAxial(q, r float64) HexCoord {
	s := -q - r
	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	qDiff := math.Abs(rq - q)
	rDiff := math.Abs(rr - r)
	sDiff := math.Abs(rs - s)

	switch {
	case qDiff > rDiff && qDiff > sDiff:
		rq = -rr - rs
	case rDiff > sDiff:
		rr = -rq - rs
	}
	return HexCoord{Q: int(rq), R: int(rr)}
}

// WorldToSquare converts a 2D world position to the nearest square-grid
// cell, floor-rounding each axis.
func WorldToSquare(pos Vec2) SquareCoord {
	return SquareCoord{X: int(math.Floor(pos.X)), Y: int(math.Floor(pos.Y))}
}

// NearestDirectionStep returns the axial neighbor of current that most
// reduces distance to destination, or current unchanged if already there —
// a direct port of original_source/src/hexcrawler/sim/movement.py's
// nearest_direction_step, used by NPC-style greedy pathing in rule modules
// built atop this substrate.
func NearestDirectionStep(current, destination HexCoord) HexCoord {
	if current == destination {
		return current
	}
	best := current
	bestDistance := current.Distance(destination)
	for _, candidate := range current.Neighbors() {
		if d := candidate.Distance(destination); d < bestDistance {
			bestDistance = d
			best = candidate
		}
	}
	return best
}

// NormalizedVector returns (x, y) scaled to unit length, or (0, 0) if the
// input is the zero vector (the teacher's normalized_vector helper,
// generalized onto Vec2).
func NormalizedVector(x, y float64) (float64, float64) {
	length := math.Hypot(x, y)
	if length == 0 {
		return 0, 0
	}
	return x / length, y / length
}
