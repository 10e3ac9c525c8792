package world

import "github.com/talgya/hexworld/internal/entropy"

// RandomTile returns the index of a uniformly random tile.
func RandomTile(g *Grid, src entropy.Source) int {
	return src.Int(0, g.Len()-1)
}

// RandomTileInRow returns a random tile of the given row. Rows outside the
// grid fall back to row 0.
func RandomTileInRow(g *Grid, src entropy.Source, row int) int {
	if row < 0 || row >= g.Rows {
		row = 0
	}
	return row*g.Columns + src.Int(0, g.Columns-1)
}

// RandomNeighbors returns the neighbors of i, each kept with probability 1/2.
func RandomNeighbors(g *Grid, src entropy.Source, i int) []int {
	var result []int
	for _, n := range g.Neighbors(i) {
		if src.Int(0, 1) == 1 {
			result = append(result, n)
		}
	}
	return result
}

// Expand grows a region of target terrain outward from the frontier tiles
// until count tiles have been converted or entropy.MaxLoops passes are
// spent. Each pass shuffles the frontier and visits a random neighbor subset
// of every member. convertible is asked, immediately before conversion,
// whether the region reaching tile to from tile from may claim it; tiles
// already of target terrain are never reconverted. Returns the number of
// tiles converted.
func Expand(g *Grid, src entropy.Source, frontier []int, count int, target Terrain, convertible func(from, to int) bool) int {
	frontier = append([]int(nil), frontier...)
	converted := 0
	for loops := 0; converted < count && loops < entropy.MaxLoops && len(frontier) > 0; loops++ {
		entropy.Shuffle(src, frontier)
		n := len(frontier)
		for k := 0; k < n && converted < count; k++ {
			from := frontier[k]
			for _, to := range RandomNeighbors(g, src, from) {
				t := &g.Tiles[to]
				if t.Terrain == target || !convertible(from, to) {
					continue
				}
				t.Terrain = target
				frontier = append(frontier, to)
				converted++
				if converted == count {
					break
				}
			}
		}
	}
	return converted
}

// PlaceSeeds converts up to count random tiles accepted by eligible to
// target. Each seed gets entropy.MaxLoops picks; a seed that finds no
// eligible tile is skipped. Returns the indices of the placed seeds.
func PlaceSeeds(g *Grid, src entropy.Source, target Terrain, count int, eligible func(*Tile) bool) []int {
	seeds := make([]int, 0, count)
	for s := 0; s < count; s++ {
		i, ok := entropy.Retry(entropy.MaxLoops, func() (int, bool) {
			i := RandomTile(g, src)
			return i, eligible(&g.Tiles[i])
		})
		if !ok {
			continue
		}
		g.Tiles[i].Terrain = target
		seeds = append(seeds, i)
	}
	return seeds
}

// IsTerrain returns an eligibility predicate matching any of types.
func IsTerrain(types ...Terrain) func(*Tile) bool {
	return func(t *Tile) bool {
		return t.Terrain.In(types...)
	}
}

// ShallowToDeep turns every shallow water tile whose neighbors are all water
// into deep water.
func ShallowToDeep(g *Grid) {
	for i := range g.Tiles {
		if g.Tiles[i].Terrain != TerrainShallowWater {
			continue
		}
		open := true
		for _, n := range g.Neighbors(i) {
			if !g.Tiles[n].Terrain.IsWater() {
				open = false
				break
			}
		}
		if open {
			g.Tiles[i].Terrain = TerrainDeepWater
		}
	}
}

// HillsToMountains promotes up to count random hill tiles to mountains. A
// hill qualifies when at most one of its neighbors is something other than
// hills, mountain or water, and at least one neighbor is not water, so
// mountains stay inside hill ranges. Returns the number promoted.
func HillsToMountains(g *Grid, src entropy.Source, count int) int {
	var hills []int
	for i := range g.Tiles {
		if g.Tiles[i].Terrain.IsHills() {
			hills = append(hills, i)
		}
	}
	promoted := 0
	for loops := 0; promoted < count && len(hills) > 0 && loops < entropy.MaxLoops; loops++ {
		k := src.Int(0, len(hills)-1)
		i := hills[k]
		if !canRaise(g, i) {
			continue
		}
		g.Tiles[i].Terrain = TerrainMountain
		hills[k] = hills[len(hills)-1]
		hills = hills[:len(hills)-1]
		promoted++
	}
	return promoted
}

func canRaise(g *Grid, i int) bool {
	outside, dry := 0, 0
	for _, n := range g.Neighbors(i) {
		t := g.Tiles[n].Terrain
		if !t.IsWater() {
			dry++
		}
		if !t.IsHills() && !t.IsWater() && t != TerrainMountain {
			outside++
		}
	}
	return outside <= 1 && dry > 0
}
