// Package world provides the hex grid, tile classification, and the
// randomized grid primitives shared by every map generator.
// Uses cube coordinates (q, r, s) on a pointy-top grid whose odd rows are
// shifted half a tile to the right.
package world

import "fmt"

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns h translated by d.
func (h HexCoord) Add(d HexCoord) HexCoord {
	return HexCoord{Q: h.Q + d.Q, R: h.R + d.R}
}

// Scale returns h multiplied by k.
func (h HexCoord) Scale(k int) HexCoord {
	return HexCoord{Q: h.Q * k, R: h.R * k}
}

// String formats the full cube triple, e.g. "2,1,-3".
func (h HexCoord) String() string {
	return fmt.Sprintf("%d,%d,%d", h.Q, h.R, h.S())
}

// Direction names one of the six neighbors of a pointy-top hex.
type Direction uint8

const (
	NE Direction = iota
	E
	SE
	SW
	W
	NW
)

// HexNeighborDirections defines the six neighbor offsets, indexed by Direction.
var HexNeighborDirections = [6]HexCoord{
	NE: {Q: 1, R: -1},
	E:  {Q: 1, R: 0},
	SE: {Q: 0, R: 1},
	SW: {Q: -1, R: 1},
	W:  {Q: -1, R: 0},
	NW: {Q: 0, R: -1},
}

// ringWalk is the order of edges walked when tracing a ring that starts at
// its south-west corner.
var ringWalk = [6]Direction{E, NE, NW, W, SW, SE}

func (d Direction) String() string {
	switch d {
	case NE:
		return "NE"
	case E:
		return "E"
	case SE:
		return "SE"
	case SW:
		return "SW"
	case W:
		return "W"
	case NW:
		return "NW"
	default:
		return "?"
	}
}

// Neighbors returns the six adjacent hex coordinates in Direction order.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = h.Add(dir)
	}
	return result
}

// DirectionBetween returns the direction from source to target when they
// are adjacent.
func DirectionBetween(source, target HexCoord) (Direction, bool) {
	delta := HexCoord{Q: target.Q - source.Q, R: target.R - source.R}
	for i, dir := range HexNeighborDirections {
		if dir == delta {
			return Direction(i), true
		}
	}
	return 0, false
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

// OffsetToCube converts a (row, column) position to cube coordinates.
func OffsetToCube(row, col int) HexCoord {
	return HexCoord{Q: col - (row-(row&1))/2, R: row}
}

// CubeToOffset converts cube coordinates back to (row, column).
func CubeToOffset(h HexCoord) (row, col int) {
	return h.R, h.Q + (h.R-(h.R&1))/2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
