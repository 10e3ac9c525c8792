package terrain

import (
	"log/slog"
	"slices"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// regions tracks which landmass owns each land tile while landmasses grow
// out of open water. Landmasses with different ids never touch.
type regions struct {
	g         *world.Grid
	owner     map[int]int // tile index -> region id
	frontiers [][]int     // indexed by region id
}

func newRegions(g *world.Grid) *regions {
	return &regions{g: g, owner: make(map[int]int)}
}

// touchesOther reports whether any neighbor of i belongs to a region other
// than id. Pass id -1 to test against every region.
func (r *regions) touchesOther(i, id int) bool {
	for _, n := range r.g.Neighbors(i) {
		if owner, ok := r.owner[n]; ok && owner != id {
			return true
		}
	}
	return false
}

// seed starts count new regions on open water away from existing ones and
// returns their ids.
func (r *regions) seed(src entropy.Source, count int) []int {
	open := func(t *world.Tile) bool {
		i, _ := r.g.Index(t.Row, t.Col)
		_, owned := r.owner[i]
		return t.Terrain == world.TerrainShallowWater && !owned && !r.touchesOther(i, -1)
	}
	var ids []int
	for s := 0; s < count; s++ {
		placed := world.PlaceSeeds(r.g, src, world.TerrainPlain, 1, open)
		if len(placed) == 0 {
			continue
		}
		id := len(r.frontiers)
		r.owner[placed[0]] = id
		r.frontiers = append(r.frontiers, placed)
		ids = append(ids, id)
	}
	return ids
}

// grow converts up to budget water tiles into land, each pass extending one
// randomly chosen region. Returns the number of tiles converted.
func (r *regions) grow(src entropy.Source, budget int, ids []int) int {
	if len(ids) == 0 {
		return 0
	}
	grown := 0
	for loops := 0; grown < budget && loops < entropy.MaxLoops; loops++ {
		id := ids[src.Int(0, len(ids)-1)]
		frontier := r.frontiers[id]
		entropy.Shuffle(src, frontier)
		n := len(frontier)
		for k := 0; k < n && grown < budget; k++ {
			for _, to := range world.RandomNeighbors(r.g, src, frontier[k]) {
				t := r.g.At(to)
				if t.Terrain != world.TerrainShallowWater || r.touchesOther(to, id) {
					continue
				}
				t.Terrain = world.TerrainPlain
				r.owner[to] = id
				frontier = append(frontier, to)
				grown++
				if grown == budget {
					break
				}
			}
		}
		r.frontiers[id] = frontier
	}
	return grown
}

// carveStraits widens the water between neighboring landmasses. A water
// tile bordering two or more regions floods a random subset of its
// neighbors, until budget tiles have been flooded.
func (r *regions) carveStraits(src entropy.Source, budget int) int {
	flooded := 0
	for loops := 0; flooded < budget && loops < entropy.MaxLoops; loops++ {
		i := world.RandomTile(r.g, src)
		if r.g.At(i).Terrain != world.TerrainShallowWater || r.bordering(i) < 2 {
			continue
		}
		for _, n := range world.RandomNeighbors(r.g, src, i) {
			t := r.g.At(n)
			if t.Terrain == world.TerrainShallowWater {
				continue
			}
			t.Terrain = world.TerrainShallowWater
			delete(r.owner, n)
			flooded++
		}
	}
	return flooded
}

// bordering counts the distinct regions adjacent to i.
func (r *regions) bordering(i int) int {
	var seen []int
	for _, n := range r.g.Neighbors(i) {
		owner, ok := r.owner[n]
		if !ok {
			continue
		}
		if !slices.Contains(seen, owner) {
			seen = append(seen, owner)
		}
	}
	return len(seen)
}

// landmasses grows count separate landmasses out of a water grid until land
// covers the given fraction of it.
func landmasses(g *world.Grid, src entropy.Source, r *regions, count int, land float64) {
	ids := r.seed(src, count)
	budget := share(g, land) - len(ids)
	grown := r.grow(src, budget, ids)
	slog.Debug("landmasses grown", "requested", count, "seeded", len(ids), "tiles", grown+len(ids), "budget", budget)
}

// finishLand carves straits between landmasses with half of the water
// budget, fills lakes with the other half, then raises ranges.
func finishLand(g *world.Grid, src entropy.Source, r *regions, water, hills, mountains float64, rangeDivisor int) {
	straits := share(g, water/2)
	r.carveStraits(src, straits)

	lakes := share(g, water/2)
	addLakes(g, src, lakes, seedCount(lakes, src.Int(5, 7)))
	world.ShallowToDeep(g)

	raiseRanges(g, src, share(g, hills), share(g, mountains), rangeDivisor)
}

// SmallContinents is several mid-sized landmasses separated by straits.
type SmallContinents struct{}

func (SmallContinents) Type() MapType { return TypeSmallContinents }

func (SmallContinents) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainShallowWater)
	r := newRegions(g)
	landmasses(g, src, r, src.Int(5, 9), 0.8)
	finishLand(g, src, r, 0.15, 0.08, 0.04, src.Int(5, 7))
	return g
}

// Continents is a few large landmasses.
type Continents struct{}

func (Continents) Type() MapType { return TypeContinents }

func (Continents) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainShallowWater)
	r := newRegions(g)
	landmasses(g, src, r, src.Int(2, 4), 0.6)
	finishLand(g, src, r, 0.12, 0.1, 0.05, src.Int(5, 7))
	return g
}

// ContinentsIslands is a few continents with islands scattered between them.
type ContinentsIslands struct{}

func (ContinentsIslands) Type() MapType { return TypeContinentsIslands }

func (ContinentsIslands) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainShallowWater)
	r := newRegions(g)
	landmasses(g, src, r, src.Int(2, 3), 0.45)
	landmasses(g, src, r, src.Int(6, 12), 0.1)
	finishLand(g, src, r, 0.12, 0.1, 0.05, src.Int(5, 7))
	return g
}

// Islands is many mid-sized islands.
type Islands struct{}

func (Islands) Type() MapType { return TypeIslands }

func (Islands) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainShallowWater)
	r := newRegions(g)
	landmasses(g, src, r, src.Int(10, 25), 0.45)
	finishLand(g, src, r, 0.1, 0.06, 0.03, src.Int(5, 7))
	return g
}

// Archipelago is a sea of small islands.
type Archipelago struct{}

func (Archipelago) Type() MapType { return TypeArchipelago }

func (Archipelago) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainShallowWater)
	r := newRegions(g)
	landmasses(g, src, r, src.Int(30, 50), 0.3)
	finishLand(g, src, r, 0.06, 0.05, 0.02, src.Int(5, 7))
	return g
}

// SuperContinent is one landmass filling most of the map, grown from the
// center outward.
type SuperContinent struct{}

func (SuperContinent) Type() MapType { return TypeSuperContinent }

func (SuperContinent) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainShallowWater)

	land := share(g, 0.7)
	factor := land / 6
	inner := insideMargins(g)
	central := func(t *world.Tile) bool {
		return t.Terrain == world.TerrainShallowWater && inner(t)
	}
	seeds := world.PlaceSeeds(g, src, world.TerrainPlain, src.Int(factor/2, factor), central)
	seeds = append(seeds, world.PlaceSeeds(g, src, world.TerrainPlain, src.Int(5, 15), world.IsTerrain(world.TerrainShallowWater))...)
	world.Expand(g, src, seeds, land-len(seeds), world.TerrainPlain, func(_, to int) bool {
		return g.At(to).Terrain == world.TerrainShallowWater
	})

	lakes := src.Int(10, 20)
	addLakes(g, src, lakes*src.Int(4, 7), lakes)
	world.ShallowToDeep(g)

	raiseRanges(g, src, share(g, 0.08), share(g, 0.05), src.Int(8, 12))
	return g
}
