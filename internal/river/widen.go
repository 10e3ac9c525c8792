package river

import (
	"log/slog"
	"slices"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// River is a placed two-tile-wide river. Bank[i] runs alongside Path[i];
// a bank tile may repeat where the channel bends.
type River struct {
	Source world.HexCoord
	Path   []int
	Bank   []int
}

// Tile is one tile of a river together with the side of the channel it
// belongs to.
type Tile struct {
	Index int
	Coord world.HexCoord
	Bank  bool
}

// Len returns the number of channel pairs.
func (r River) Len() int {
	return len(r.Path)
}

// Tiles returns the river as interleaved (path, bank) pairs.
func (r River) Tiles(g *world.Grid) []Tile {
	out := make([]Tile, 0, 2*len(r.Path))
	for i := range r.Path {
		out = append(out,
			Tile{Index: r.Path[i], Coord: g.At(r.Path[i]).Coord},
			Tile{Index: r.Bank[i], Coord: g.At(r.Bank[i]).Coord, Bank: true},
		)
	}
	return out
}

// Widen builds the second bank of a single-tile path leaving mountain m.
// Returns false when no first bank tile can be found.
func Widen(g *world.Grid, src entropy.Source, m Mountain, path []int) (River, bool) {
	if len(path) == 0 {
		return River{}, false
	}
	eligible := func(tiles []int) []int {
		var out []int
		for _, i := range world.Without(tiles, path) {
			t := g.At(i)
			if t.Terrain.IsWater() || t.Terrain == world.TerrainMountain || t.River == world.RiverChannel {
				continue
			}
			out = append(out, i)
		}
		return out
	}

	around := g.Neighbors(m.Index)
	first := -1
	if len(path) > 1 {
		shared := eligible(world.Common(around, g.Neighbors(path[0]), g.Neighbors(path[1])))
		if len(shared) == 1 {
			first = shared[0]
		}
	}
	if first < 0 {
		shared := eligible(world.Common(around, g.Neighbors(path[0])))
		if len(shared) == 0 {
			slog.Debug("river has no first bank tile", "mountain", m.Coord, "length", len(path))
			return River{}, false
		}
		first = shared[src.Int(0, len(shared)-1)]
	}

	bank := make([]int, 1, len(path))
	bank[0] = first
	for _, p := range path[1:] {
		prev := bank[len(bank)-1]
		shared := world.Without(eligible(world.Common(g.Neighbors(p), g.Neighbors(prev))), bank)
		if len(shared) == 1 {
			bank = append(bank, shared[0])
		} else {
			bank = append(bank, prev)
		}
	}
	return River{Source: m.Coord, Path: path, Bank: bank}, true
}

// Directions returns, for every river tile, the directions toward adjacent
// tiles of the same river on the other side of the channel. Tiles with no
// such neighbor are omitted. Repeated tiles contribute each direction once.
func Directions(tiles []Tile) map[world.HexCoord][]world.Direction {
	out := make(map[world.HexCoord][]world.Direction)
	for i := range tiles {
		for j := range tiles {
			if i == j || tiles[i].Bank == tiles[j].Bank {
				continue
			}
			d, ok := world.DirectionBetween(tiles[i].Coord, tiles[j].Coord)
			if !ok {
				continue
			}
			dirs := out[tiles[i].Coord]
			if !slices.Contains(dirs, d) {
				out[tiles[i].Coord] = append(dirs, d)
			}
		}
	}
	return out
}
