// Package terrain carves the initial terrain layer of a map. Each archetype
// is a Generator with its own recipe of seeding, region growth and
// mountain raising; ForType selects one.
package terrain

import (
	"fmt"
	"strings"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// MapType names a terrain archetype. Values outside the known range select
// the Random generator.
type MapType uint8

const (
	TypeRandom MapType = iota
	TypeArchipelago
	TypeInlandSea
	TypeHighland
	TypeIslands
	TypeSmallContinents
	TypeContinents
	TypeContinentsIslands
	TypeSuperContinent
	TypeLakes
	TypeFractal
)

var typeNames = map[MapType]string{
	TypeRandom:            "random",
	TypeArchipelago:       "archipelago",
	TypeInlandSea:         "inland_sea",
	TypeHighland:          "highland",
	TypeIslands:           "islands",
	TypeSmallContinents:   "small_continents",
	TypeContinents:        "continents",
	TypeContinentsIslands: "continents_islands",
	TypeSuperContinent:    "super_continent",
	TypeLakes:             "lakes",
	TypeFractal:           "fractal",
}

func (t MapType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("map_type(%d)", uint8(t))
}

// ParseMapType resolves an archetype name such as "inland_sea".
func ParseMapType(name string) (MapType, error) {
	for t, n := range typeNames {
		if strings.EqualFold(name, n) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown map type %q", name)
}

// MapTypes returns every named archetype in code order.
func MapTypes() []MapType {
	types := make([]MapType, 0, len(typeNames))
	for t := TypeRandom; t <= TypeFractal; t++ {
		types = append(types, t)
	}
	return types
}

// Generator produces the terrain of a fresh grid for one archetype.
type Generator interface {
	Type() MapType
	Generate(size world.MapSize, src entropy.Source) *world.Grid
}

// ForType returns the generator for t. Unknown types get Random.
func ForType(t MapType) Generator {
	switch t {
	case TypeArchipelago:
		return Archipelago{}
	case TypeInlandSea:
		return InlandSea{}
	case TypeHighland:
		return Highland{}
	case TypeIslands:
		return Islands{}
	case TypeSmallContinents:
		return SmallContinents{}
	case TypeContinents:
		return Continents{}
	case TypeContinentsIslands:
		return ContinentsIslands{}
	case TypeSuperContinent:
		return SuperContinent{}
	case TypeLakes:
		return Lakes{}
	case TypeFractal:
		return DefaultFractal()
	default:
		return Random{}
	}
}

// newGrid allocates a grid for size filled with base terrain.
func newGrid(size world.MapSize, base world.Terrain) *world.Grid {
	rows, cols := size.Dimensions()
	g := world.NewGrid(rows, cols)
	g.Fill(base)
	return g
}

// share returns the number of tiles making up fraction of the grid.
func share(g *world.Grid, fraction float64) int {
	return int(float64(g.Len()) * fraction)
}

// seedCount divides a tile budget into a number of seeds, at least one when
// the budget is positive.
func seedCount(budget, divisor int) int {
	if budget <= 0 {
		return 0
	}
	if divisor <= 0 {
		divisor = 1
	}
	return max(budget/divisor, 1)
}

// addLakes scatters seeds lakes over plain land and grows them until water
// tiles of lake water exist.
func addLakes(g *world.Grid, src entropy.Source, water, seeds int) {
	lakes := world.PlaceSeeds(g, src, world.TerrainShallowWater, seeds, world.IsTerrain(world.TerrainPlain))
	world.Expand(g, src, lakes, water-len(lakes), world.TerrainShallowWater, func(_, to int) bool {
		return !g.At(to).Terrain.IsWater()
	})
}

// raiseRanges seeds hill ranges on plain land, grows them to hills+mountains
// tiles, then promotes mountains of them to mountain.
func raiseRanges(g *world.Grid, src entropy.Source, hills, mountains, divisor int) {
	budget := hills + mountains
	ranges := world.PlaceSeeds(g, src, world.TerrainPlainHills, seedCount(budget, divisor), world.IsTerrain(world.TerrainPlain))
	world.Expand(g, src, ranges, budget-len(ranges), world.TerrainPlainHills, func(_, to int) bool {
		t := g.At(to).Terrain
		return !t.IsWater() && t != world.TerrainMountain
	})
	world.HillsToMountains(g, src, mountains)
}

// insideMargins reports whether a tile lies in the central part of the grid,
// a fifth of each dimension away from the border.
func insideMargins(g *world.Grid) func(*world.Tile) bool {
	rowBorder, colBorder := g.Rows/5, g.Columns/5
	return func(t *world.Tile) bool {
		return t.Row >= rowBorder && t.Row < g.Rows-rowBorder &&
			t.Col >= colBorder && t.Col < g.Columns-colBorder
	}
}
