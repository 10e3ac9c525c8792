package terrain

import (
	"slices"
	"testing"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

func TestForTypeFallsBackToRandom(t *testing.T) {
	for _, mt := range MapTypes() {
		if got := ForType(mt).Type(); got != mt {
			t.Errorf("ForType(%v).Type() = %v", mt, got)
		}
	}
	if got := ForType(MapType(99)).Type(); got != TypeRandom {
		t.Errorf("ForType(99).Type() = %v, want random", got)
	}
}

func TestParseMapType(t *testing.T) {
	for _, mt := range MapTypes() {
		got, err := ParseMapType(mt.String())
		if err != nil || got != mt {
			t.Errorf("ParseMapType(%q) = (%v, %v)", mt.String(), got, err)
		}
	}
	if _, err := ParseMapType("pangaea"); err == nil {
		t.Error("ParseMapType accepted an unknown name")
	}
}

func TestGeneratorsProduceLegalTerrain(t *testing.T) {
	types := append(MapTypes(), MapType(42))
	for _, mt := range types {
		t.Run(mt.String(), func(t *testing.T) {
			rows, cols := world.SizeMicro.Dimensions()
			g := ForType(mt).Generate(world.SizeMicro, entropy.New(11))
			if g.Rows != rows || g.Columns != cols || g.Len() != rows*cols {
				t.Fatalf("grid %v, want %dx%d", g, rows, cols)
			}
			for i, terrain := range g.TerrainLayer() {
				if !terrain.Valid() {
					t.Fatalf("tile %d has illegal terrain %d", i, terrain)
				}
			}
		})
	}
}

func TestGeneratorsKeepWaterAndMountainRules(t *testing.T) {
	for _, mt := range MapTypes() {
		if mt == TypeRandom {
			continue
		}
		t.Run(mt.String(), func(t *testing.T) {
			g := ForType(mt).Generate(world.SizeMicro, entropy.New(5))
			for i := range g.Tiles {
				tile := g.At(i)
				switch tile.Terrain {
				case world.TerrainShallowWater:
					if allWater(g, i) {
						t.Errorf("shallow tile %d is surrounded by water", i)
					}
				case world.TerrainMountain:
					if allWater(g, i) {
						t.Errorf("mountain %d stands alone in water", i)
					}
				}
			}
		})
	}
}

func TestGeneratorsDeterministic(t *testing.T) {
	for _, mt := range []MapType{TypeContinents, TypeInlandSea, TypeFractal} {
		a := ForType(mt).Generate(world.SizeMicro, entropy.New(77)).TerrainLayer()
		b := ForType(mt).Generate(world.SizeMicro, entropy.New(77)).TerrainLayer()
		if !slices.Equal(a, b) {
			t.Errorf("%v: equal seeds produced different terrain", mt)
		}
	}
}

func TestLandmassesNeverTouch(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g := world.NewGrid(20, 30)
		r := newRegions(g)
		src := entropy.New(seed)
		landmasses(g, src, r, 6, 0.5)
		landmasses(g, src, r, 4, 0.1)

		if len(r.frontiers) < 2 {
			t.Fatalf("seed %d: only %d regions seeded", seed, len(r.frontiers))
		}
		for i, id := range r.owner {
			if g.At(i).Terrain != world.TerrainPlain {
				t.Errorf("seed %d: owned tile %d is %v", seed, i, g.At(i).Terrain)
			}
			for _, n := range g.Neighbors(i) {
				if other, ok := r.owner[n]; ok && other != id {
					t.Fatalf("seed %d: regions %d and %d touch at %d/%d", seed, id, other, i, n)
				}
			}
		}
	}
}

func TestCarveStraitsFloodsBetweenRegions(t *testing.T) {
	// Two landmasses one water tile apart in the middle row.
	g := world.NewGrid(5, 7)
	r := newRegions(g)
	left, _ := g.Index(2, 2)
	right, _ := g.Index(2, 4)
	for id, i := range []int{left, right} {
		g.At(i).Terrain = world.TerrainPlain
		r.owner[i] = id
		r.frontiers = append(r.frontiers, []int{i})
	}
	flooded := r.carveStraits(entropy.New(4), 1)
	if flooded == 0 {
		t.Fatal("no tile flooded between bordering regions")
	}
	for i := range r.owner {
		if g.At(i).Terrain != world.TerrainPlain {
			t.Errorf("flooded tile %d still owned", i)
		}
	}
}

func TestSeedCount(t *testing.T) {
	tests := []struct{ budget, divisor, want int }{
		{0, 5, 0},
		{3, 5, 1},
		{100, 5, 20},
		{10, 0, 10},
	}
	for _, tt := range tests {
		if got := seedCount(tt.budget, tt.divisor); got != tt.want {
			t.Errorf("seedCount(%d, %d) = %d, want %d", tt.budget, tt.divisor, got, tt.want)
		}
	}
}

func allWater(g *world.Grid, i int) bool {
	for _, n := range g.Neighbors(i) {
		if !g.At(n).Terrain.IsWater() {
			return false
		}
	}
	return true
}
