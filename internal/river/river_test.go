package river

import (
	"slices"
	"testing"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// easyMap is a desert island with one mountain two tiles from the coast.
var easyMap = []world.Terrain{
	2, 2, 2, 2, 2, 2, 2, 2,
	2, 3, 4, 4, 3, 3, 3, 2,
	2, 3, 4, 13, 4, 3, 3, 2,
	2, 3, 4, 4, 3, 3, 3, 2,
	2, 3, 3, 3, 3, 3, 3, 2,
	2, 3, 3, 3, 3, 3, 3, 2,
	2, 3, 3, 3, 3, 3, 3, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
}

func easyGrid(t *testing.T) *world.Grid {
	t.Helper()
	g, err := world.FromTerrain(8, 8, easyMap)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestMountains(t *testing.T) {
	g := easyGrid(t)
	ms := Mountains(g)
	if len(ms) != 1 {
		t.Fatalf("found %d mountains, want 1", len(ms))
	}
	m := ms[0]
	if m.Coord != (world.HexCoord{Q: 2, R: 2}) {
		t.Errorf("mountain at %v, want 2,2,-4", m.Coord)
	}
	if m.DistanceToWater != 2 {
		t.Errorf("distance to water = %d, want 2", m.DistanceToWater)
	}

	dry := world.NewGrid(5, 5)
	dry.Fill(world.TerrainDesert)
	dry.Get(2, 2).Terrain = world.TerrainMountain
	if got := Mountains(dry); len(got) != 0 {
		t.Errorf("mountain without water kept as source: %v", got)
	}
}

func TestPathReachesWater(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		g := easyGrid(t)
		m := Mountains(g)[0]
		src := entropy.New(seed)

		path := Path(g, src, m, m.DistanceToWater+10)
		if len(path) == 0 {
			t.Fatalf("seed %d: no path", seed)
		}
		prev := m.Coord
		for _, i := range path {
			tile := g.At(i)
			if tile.Terrain == world.TerrainMountain || tile.Terrain.IsWater() {
				t.Fatalf("seed %d: path crosses %v", seed, tile.Terrain)
			}
			if world.Distance(prev, tile.Coord) != 1 {
				t.Fatalf("seed %d: path jumps from %v to %v", seed, prev, tile.Coord)
			}
			prev = tile.Coord
		}
		sorted := slices.Clone(path)
		slices.Sort(sorted)
		if len(slices.Compact(sorted)) != len(path) {
			t.Fatalf("seed %d: path repeats tiles: %v", seed, path)
		}
		if _, d, _ := g.FindNearest(prev, 1, isWater); d != 1 {
			t.Fatalf("seed %d: path ends away from water", seed)
		}

		r, ok := Widen(g, src, m, path)
		if !ok {
			t.Fatalf("seed %d: widen failed", seed)
		}
		tiles := r.Tiles(g)
		if len(tiles)%2 != 0 || len(tiles) != 2*len(path) {
			t.Fatalf("seed %d: widened river has %d tiles for a path of %d", seed, len(tiles), len(path))
		}
		for _, b := range r.Bank {
			if slices.Contains(path, b) {
				t.Fatalf("seed %d: bank tile %d is on the main path", seed, b)
			}
			if g.At(b).Terrain == world.TerrainMountain || g.At(b).Terrain.IsWater() {
				t.Fatalf("seed %d: bank tile on %v", seed, g.At(b).Terrain)
			}
		}
	}
}

func TestPathAvoidsRiverBuffer(t *testing.T) {
	g := easyGrid(t)
	m := Mountains(g)[0]
	around := g.Neighbors(m.Index)
	free := around[len(around)-1]
	for _, i := range around[:len(around)-1] {
		g.At(i).River = world.RiverBed
	}
	for seed := int64(1); seed <= 5; seed++ {
		path := Path(g, entropy.New(seed), m, 12)
		if len(path) == 0 {
			continue
		}
		if path[0] != free {
			t.Fatalf("seed %d: path starts at %d, want the only open tile %d", seed, path[0], free)
		}
		for _, i := range path {
			if g.At(i).River != world.RiverNone {
				t.Fatalf("seed %d: path enters river buffer at %d", seed, i)
			}
		}
	}
}

func TestPathFailsWithoutWater(t *testing.T) {
	g := world.NewGrid(9, 9)
	g.Fill(world.TerrainDesert)
	center := g.Get(4, 4)
	center.Terrain = world.TerrainMountain
	i, _ := g.Index(4, 4)
	m := Mountain{Index: i, Coord: center.Coord}
	if path := Path(g, entropy.New(1), m, 3); path != nil {
		t.Errorf("Path found %v on a map without water", path)
	}
}

func TestPathDoesNotTurnBack(t *testing.T) {
	g := world.NewGrid(11, 11)
	g.Fill(world.TerrainDesert)
	for i := range g.Tiles {
		row, col := world.CubeToOffset(g.At(i).Coord)
		if row == 0 || col == 0 || row == 10 || col == 10 {
			g.At(i).Terrain = world.TerrainShallowWater
		}
	}
	center := g.Get(5, 5)
	center.Terrain = world.TerrainMountain
	i, _ := g.Index(5, 5)
	m := Mountain{Index: i, Coord: center.Coord, DistanceToWater: 5}
	for _, j := range g.Ring(center.Coord, 2) {
		g.At(j).River = world.RiverBed
	}

	for seed := int64(1); seed <= 10; seed++ {
		if path := Path(g, entropy.New(seed), m, 20); path != nil {
			t.Errorf("seed %d: path %v escaped a closed ring", seed, path)
		}
	}
}

func TestDirections(t *testing.T) {
	tiles := []Tile{
		{Coord: world.HexCoord{Q: 0, R: 0}},
		{Coord: world.HexCoord{Q: 1, R: 0}, Bank: true},
		{Coord: world.HexCoord{Q: 0, R: 1}},
		{Coord: world.HexCoord{Q: 1, R: 1}, Bank: true},
	}
	got := Directions(tiles)
	want := map[world.HexCoord][]world.Direction{
		{Q: 0, R: 0}: {world.E},
		{Q: 1, R: 0}: {world.W, world.SW},
		{Q: 0, R: 1}: {world.NE, world.E},
		{Q: 1, R: 1}: {world.W},
	}
	if len(got) != len(want) {
		t.Fatalf("Directions returned %d tiles, want %d: %v", len(got), len(want), got)
	}
	for c, dirs := range want {
		if !slices.Equal(got[c], dirs) {
			t.Errorf("directions at %v = %v, want %v", c, got[c], dirs)
		}
	}
}

func TestDirectionsToleratesRepeatedBank(t *testing.T) {
	tiles := []Tile{
		{Coord: world.HexCoord{Q: 0, R: 0}},
		{Coord: world.HexCoord{Q: 1, R: 0}, Bank: true},
		{Coord: world.HexCoord{Q: 0, R: 1}},
		{Coord: world.HexCoord{Q: 1, R: 0}, Bank: true},
	}
	got := Directions(tiles)
	if dirs := got[world.HexCoord{Q: 1, R: 0}]; !slices.Equal(dirs, []world.Direction{world.W, world.SW}) {
		t.Errorf("repeated bank tile directions = %v, want [W SW]", dirs)
	}
}

func TestPlannerPlace(t *testing.T) {
	g := easyGrid(t)
	rivers := Planner{Rivers: 3, BufferWidth: 1}.Place(g, entropy.New(2))
	if len(rivers) != 1 {
		t.Fatalf("placed %d rivers on a single-mountain map, want 1", len(rivers))
	}
	r := rivers[0]
	var coords []world.HexCoord
	for _, rt := range r.Tiles(g) {
		tile := g.At(rt.Index)
		if tile.River != world.RiverChannel {
			t.Errorf("river tile %d marked %v", rt.Index, tile.River)
		}
		if rt.Bank && tile.Landscape != world.LandscapeRiverBank {
			t.Errorf("bank tile %d has landscape %v", rt.Index, tile.Landscape)
		}
		coords = append(coords, rt.Coord)
	}
	for i := range g.Tiles {
		tile := g.At(i)
		if tile.River != world.RiverNone {
			continue
		}
		for _, c := range coords {
			if world.Distance(c, tile.Coord) <= 1 {
				t.Fatalf("tile %d is next to the river but outside the buffer", i)
			}
		}
	}
}

func TestPlannerClampsBuffer(t *testing.T) {
	for _, width := range []int{16, 1 << 30} {
		g := easyGrid(t)
		rivers := Planner{Rivers: 1, BufferWidth: width}.Place(g, entropy.New(2))
		if len(rivers) != 1 {
			t.Fatalf("width %d: placed %d rivers, want 1", width, len(rivers))
		}
		for i := range g.Tiles {
			if g.At(i).River == world.RiverNone {
				t.Errorf("width %d: tile %d left outside the buffer", width, i)
			}
		}
	}
}

func TestChoosePrefersRemoteSources(t *testing.T) {
	g := world.NewGrid(9, 20)
	g.Fill(world.TerrainDesert)
	for i := range g.Tiles {
		row, col := world.CubeToOffset(g.At(i).Coord)
		if row == 0 || col == 0 || row == 8 || col == 19 {
			g.At(i).Terrain = world.TerrainShallowWater
		}
	}
	remote := map[world.HexCoord]bool{}
	for _, col := range []int{4, 6, 13, 15} {
		tile := g.Get(4, col)
		tile.Terrain = world.TerrainMountain
		if col > 10 {
			remote[tile.Coord] = true
		}
	}
	// A placed river right below the western pair.
	for col := 3; col <= 6; col++ {
		g.Get(5, col).River = world.RiverChannel
	}

	tests := []struct {
		name  string
		draws []int
	}{
		{"first", []int{0}},
		{"last", []int{3}},
		{"large draw", []int{1 << 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mountains := Mountains(g)
			if len(mountains) != 4 {
				t.Fatalf("found %d mountains, want 4", len(mountains))
			}
			refreshRiverDistance(g, mountains)
			for _, m := range mountains {
				if !remote[m.Coord] && m.DistanceToRiver != 1 {
					t.Errorf("mountain at %v is %d from the river, want 1", m.Coord, m.DistanceToRiver)
				}
			}

			k := Planner{}.choose(&entropy.Sequence{Ints: tt.draws}, mountains, true)
			if !remote[mountains[k].Coord] {
				t.Errorf("chose %v next to the river", mountains[k].Coord)
			}
			if !remote[mountains[0].Coord] || !remote[mountains[1].Coord] {
				t.Errorf("ranking does not lead with the remote pair: %v", mountains)
			}
		})
	}
}

func TestChooseFirstSourceIsUnranked(t *testing.T) {
	mountains := []Mountain{
		{Index: 0, DistanceToWater: 1},
		{Index: 1, DistanceToWater: 9},
		{Index: 2, DistanceToWater: 5},
	}
	for draw := 0; draw < 3; draw++ {
		k := Planner{}.choose(&entropy.Sequence{Ints: []int{draw}}, mountains, false)
		if k != draw {
			t.Errorf("draw %d chose %d", draw, k)
		}
		if mountains[k].Index != draw {
			t.Errorf("unranked choice reordered the mountains: %v", mountains)
		}
	}
}

func TestBudget(t *testing.T) {
	tests := []struct {
		factor float64
		size   world.MapSize
		want   int
	}{
		{1.5, world.SizeHuge, 9},
		{0.3, world.SizeMicro, 0},
		{1, world.SizeSmall, 3},
		{-2, world.SizeLarge, 0},
	}
	for _, tt := range tests {
		if got := Budget(tt.factor, tt.size); got != tt.want {
			t.Errorf("Budget(%v, %v) = %d, want %d", tt.factor, tt.size, got, tt.want)
		}
	}
}
