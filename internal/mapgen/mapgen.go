package mapgen

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/landscape"
	"github.com/talgya/hexworld/internal/river"
	"github.com/talgya/hexworld/internal/terrain"
	"github.com/talgya/hexworld/internal/world"
)

// Result is a generated map as three flat row-major layers.
type Result struct {
	Seed    int64
	Type    terrain.MapType
	Size    world.MapSize
	Rows    int
	Columns int

	Terrain   []int
	Landscape []int
	Rivers    []int

	// RiverDirections lists, for every river tile, the directions toward
	// neighboring tiles on the other side of the same river.
	RiverDirections map[world.HexCoord][]world.Direction

	Stats Stats
}

// Stats summarizes a generated map.
type Stats struct {
	Terrain      map[world.Terrain]int
	Landscape    map[world.Landscape]int
	Rivers       int
	RiverLengths []int
	Elapsed      time.Duration
}

// LandTiles returns the number of tiles that are not water.
func (s Stats) LandTiles() int {
	n := 0
	for t, c := range s.Terrain {
		if !t.IsWater() {
			n += c
		}
	}
	return n
}

// Generate builds a map for req. A zero seed is replaced by a random one,
// which is reported in the result. The same request and seed always yield
// the same layers.
func Generate(req Request) (*Result, error) {
	start := time.Now()
	seed := req.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	src := entropy.New(seed)

	gen := terrain.ForType(req.Type)
	carved := gen.Generate(req.Size, src)
	slog.Debug("terrain carved", "type", gen.Type(), "grid", carved)

	g, rivers, err := landscape.NewShaper(req.options(), src).ShapeLayer(carved.Rows, carved.Columns, carved.TerrainLayer())
	if err != nil {
		return nil, err
	}

	res := &Result{
		Seed:            seed,
		Type:            gen.Type(),
		Size:            req.Size,
		Rows:            g.Rows,
		Columns:         g.Columns,
		Terrain:         ints(g.TerrainLayer()),
		Landscape:       ints(g.LandscapeLayer()),
		Rivers:          ints(g.RiverLayer()),
		RiverDirections: make(map[world.HexCoord][]world.Direction),
	}
	res.Stats = Stats{
		Terrain:   g.TerrainCounts(),
		Landscape: g.LandscapeCounts(),
		Rivers:    len(rivers),
	}
	for _, r := range rivers {
		res.Stats.RiverLengths = append(res.Stats.RiverLengths, r.Len())
		for c, dirs := range river.Directions(r.Tiles(g)) {
			res.RiverDirections[c] = dirs
		}
	}
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}

// Grid rebuilds a grid from the result's layers.
func (r *Result) Grid() (*world.Grid, error) {
	t := make([]world.Terrain, len(r.Terrain))
	for i, v := range r.Terrain {
		t[i] = world.Terrain(v)
	}
	g, err := world.FromTerrain(r.Rows, r.Columns, t)
	if err != nil {
		return nil, err
	}
	for i := range g.Tiles {
		g.Tiles[i].Landscape = world.Landscape(r.Landscape[i])
		g.Tiles[i].River = world.RiverFlow(r.Rivers[i])
	}
	return g, nil
}

func ints[T ~uint8](layer []T) []int {
	out := make([]int, len(layer))
	for i, v := range layer {
		out[i] = int(v)
	}
	return out
}
