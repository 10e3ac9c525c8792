// Package landscape dresses a carved terrain layer: it places rivers, then
// climate bands, terrain conversions and landscape decorations weighted by
// latitude.
package landscape

import (
	"log/slog"
	"math"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/river"
	"github.com/talgya/hexworld/internal/world"
)

// Options holds the climate and river parameters of a map.
type Options struct {
	Temperature Temperature
	Humidity    Humidity
	Size        world.MapSize
	RiverFactor float64 // Rivers per size step
	RiverBed    int     // Buffer radius around each river
}

// Shaper applies landscape passes to a grid.
type Shaper struct {
	opts Options
	src  entropy.Source
}

// NewShaper creates a shaper drawing randomness from src.
func NewShaper(opts Options, src entropy.Source) *Shaper {
	return &Shaper{opts: opts, src: src}
}

// ShapeLayer rebuilds a grid from a flat terrain layer and shapes it.
func (s *Shaper) ShapeLayer(rows, columns int, terrain []world.Terrain) (*world.Grid, []river.River, error) {
	g, err := world.FromTerrain(rows, columns, terrain)
	if err != nil {
		return nil, nil, err
	}
	return g, s.Shape(g), nil
}

// Shape runs every pass over g in order and returns the rivers placed.
// Landscape and river flow are reset first.
func (s *Shaper) Shape(g *world.Grid) []river.River {
	for i := range g.Tiles {
		g.Tiles[i].Landscape = world.LandscapeNone
		g.Tiles[i].River = world.RiverNone
	}

	planner := river.Planner{
		Rivers:      river.Budget(s.opts.RiverFactor, s.opts.Size),
		BufferWidth: s.opts.RiverBed,
	}
	rivers := planner.Place(g, s.src)

	s.snow(g)
	s.tundra(g)

	h := s.opts.Humidity.dryness()
	plains := []world.Terrain{world.TerrainPlain, world.TerrainPlainHills}

	// ── Terrain conversions ──
	grass := round(float64(g.CountTerrain(plains...)) * 0.3 * (1.5 - 0.5*h))
	s.convert(g, world.TerrainGrass, world.TerrainGrassHills, grass, world.NewTileDistribution(0, 0.5, 0.1, 0.4))

	desert := round(float64(g.CountTerrain(plains...)) * 0.07 * (0.5 + 0.5*h))
	s.convert(g, world.TerrainDesert, world.TerrainDesertHills, desert, world.NewTileDistribution(0, 0.1, 0.8, 0.1))

	// ── Landscape decorations ──
	s.decorate(g, world.LandscapeReef, 0.05, world.NewTileDistribution(0, 0.4, 0.2, 0.4),
		world.TerrainDeepWater)

	if s.opts.Temperature == Hot {
		s.decorate(g, world.LandscapeOasis, 0.05, world.NewTileDistribution(0, 0.1, 0.8, 0.1),
			world.TerrainDesert)
	}

	s.decorate(g, world.LandscapeSwamp, 0.05*(1.5-0.5*h), world.NewTileDistribution(0.2, 0.5, 0, 0.3),
		world.TerrainGrass, world.TerrainPlain, world.TerrainTundra)

	wood := 0.3 * 0.5 * (1.5 - 0.5*h)
	s.decorate(g, world.LandscapeForest, wood, world.NewTileDistribution(0.05, 0.5, 0.05, 0.4),
		world.TerrainGrass, world.TerrainPlain, world.TerrainTundra,
		world.TerrainGrassHills, world.TerrainPlainHills, world.TerrainTundraHills)

	s.decorate(g, world.LandscapeJungle, wood, world.NewTileDistribution(0, 0, 0.2, 0.8),
		world.TerrainGrass, world.TerrainPlain, world.TerrainGrassHills, world.TerrainPlainHills)

	mountains := g.CountTerrain(world.TerrainMountain)
	volcanoes := s.src.Int(0, min(10, mountains/10))
	s.place(g, volcanoes, world.NewTileDistribution(0, 0, 0, 0), func(t *world.Tile) bool {
		if t.Terrain != world.TerrainMountain || !decoratable(t) {
			return false
		}
		t.Landscape = world.LandscapeVolcano
		return true
	})

	slog.Debug("landscape shaped", "rivers", len(rivers), "grass", grass, "desert", desert, "volcanoes", volcanoes)
	return rivers
}

// snow freezes the polar rows: water gets ice, plains and plain hills turn
// to snow.
func (s *Shaper) snow(g *world.Grid) {
	for i := range g.Tiles {
		t := &g.Tiles[i]
		chance := snowChance(poleDistance(g, t.Row), s.opts.Temperature)
		if chance == 0 || !entropy.Chance(s.src, chance) {
			continue
		}
		switch t.Terrain {
		case world.TerrainShallowWater, world.TerrainDeepWater:
			t.Landscape = world.LandscapeIce
		case world.TerrainPlainHills:
			t.Terrain = world.TerrainSnowHills
		case world.TerrainPlain:
			t.Terrain = world.TerrainSnow
		}
	}
}

// tundra covers the rows just inside the snow line.
func (s *Shaper) tundra(g *world.Grid) {
	for i := range g.Tiles {
		t := &g.Tiles[i]
		chance := tundraChance(poleDistance(g, t.Row), s.opts.Temperature)
		if chance == 0 || !entropy.Chance(s.src, chance) {
			continue
		}
		switch t.Terrain {
		case world.TerrainPlainHills:
			t.Terrain = world.TerrainTundraHills
		case world.TerrainPlain:
			t.Terrain = world.TerrainTundra
		}
	}
}

// convert turns count plain tiles into flat and plain hills into hills,
// spread over the climate zones by dist.
func (s *Shaper) convert(g *world.Grid, flat, hills world.Terrain, count int, dist world.TileDistribution) int {
	return s.place(g, count, dist, func(t *world.Tile) bool {
		switch t.Terrain {
		case world.TerrainPlain:
			t.Terrain = flat
		case world.TerrainPlainHills:
			t.Terrain = hills
		default:
			return false
		}
		return true
	})
}

// decorate places landscape l on a fraction of the tiles with one of the
// given terrains.
func (s *Shaper) decorate(g *world.Grid, l world.Landscape, factor float64, dist world.TileDistribution, terrains ...world.Terrain) int {
	count := round(float64(g.CountTerrain(terrains...)) * factor)
	return s.place(g, count, dist, func(t *world.Tile) bool {
		if !t.Terrain.In(terrains...) || !decoratable(t) {
			return false
		}
		t.Landscape = l
		return true
	})
}

// place spreads count successful applications of apply over the climate
// zones. Each zone's quota is filled from random tiles of its rows before
// the next zone starts. Quota left when the last zone is done is dropped.
func (s *Shaper) place(g *world.Grid, count int, dist world.TileDistribution, apply func(*world.Tile) bool) int {
	zones := world.ClimateZoneRows(g.Rows)
	quotas := dist.Quotas(count)
	placed, zone := 0, 0
	for loops := 0; placed < count && loops < entropy.MaxLoops; loops++ {
		if quotas[zone] <= 0 || len(zones[zone]) == 0 {
			if zone == len(quotas)-1 {
				break
			}
			zone++
			continue
		}
		row := zones[zone][s.src.Int(0, len(zones[zone])-1)]
		if apply(g.At(world.RandomTileInRow(g, s.src, row))) {
			placed++
			quotas[zone]--
		}
	}
	return placed
}

// decoratable reports whether a tile is free for a landscape.
func decoratable(t *world.Tile) bool {
	return t.Landscape == world.LandscapeNone && t.River != world.RiverChannel
}

// poleDistance returns how many rows separate row from the nearest map edge.
func poleDistance(g *world.Grid, row int) int {
	return min(row, g.Rows-1-row)
}

func round(x float64) int {
	return int(math.Round(x))
}
