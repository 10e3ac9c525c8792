package river

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// DefaultMaxAttempts is the number of mountains tried per map before the
// planner gives up on reaching its river count.
const DefaultMaxAttempts = 30

// Planner places rivers on a map, preferring sources far from water and
// from rivers already placed.
type Planner struct {
	Rivers      int // Requested number of rivers
	BufferWidth int // Radius around a river no other river may enter
	MaxAttempts int // Mountains tried before giving up; 0 means DefaultMaxAttempts
}

// Budget returns the number of rivers for a map: factor x size ordinal,
// rounded down.
func Budget(factor float64, size world.MapSize) int {
	if factor <= 0 {
		return 0
	}
	return int(factor * float64(size))
}

// Mountains collects every mountain tile that has water within reach.
func Mountains(g *world.Grid) []Mountain {
	radius := max(g.Rows, g.Columns)
	var out []Mountain
	for i := range g.Tiles {
		t := g.At(i)
		if t.Terrain != world.TerrainMountain {
			continue
		}
		_, d, ok := g.FindNearest(t.Coord, radius, isWater)
		if !ok {
			continue
		}
		out = append(out, Mountain{Index: i, Coord: t.Coord, DistanceToWater: d, DistanceToRiver: radius})
	}
	return out
}

// Place traces up to p.Rivers rivers onto g, marking channel tiles as
// RiverChannel, second-bank tiles with the RiverBank landscape, and the
// surrounding buffer as RiverBed. Returns the rivers placed.
func (p Planner) Place(g *world.Grid, src entropy.Source) []River {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	mountains := Mountains(g)

	var rivers []River
	for ; len(rivers) < p.Rivers && attempts > 0 && len(mountains) > 0; attempts-- {
		k := p.choose(src, mountains, len(rivers) > 0)
		m := mountains[k]
		mountains = slices.Delete(mountains, k, k+1)

		if g.At(m.Index).River != world.RiverNone {
			continue
		}
		path := Path(g, src, m, m.DistanceToWater+2)
		if len(path) == 0 {
			continue
		}
		r, ok := Widen(g, src, m, path)
		if !ok {
			continue
		}
		p.mark(g, r)
		rivers = append(rivers, r)
		refreshRiverDistance(g, mountains)
		slog.Debug("river placed", "source", m.Coord, "length", r.Len(), "distance_to_water", m.DistanceToWater)
	}

	if len(rivers) < p.Rivers {
		slog.Debug("fewer rivers than requested", "placed", len(rivers), "requested", p.Rivers)
	}
	return rivers
}

// choose picks the next source. The first is random; later ones are drawn
// from the most remote quarter of the remaining mountains.
func (p Planner) choose(src entropy.Source, mountains []Mountain, ranked bool) int {
	if !ranked {
		return src.Int(0, len(mountains)-1)
	}
	sort.SliceStable(mountains, func(a, b int) bool {
		return mountains[a].DistanceToWater+mountains[a].DistanceToRiver >
			mountains[b].DistanceToWater+mountains[b].DistanceToRiver
	})
	top := max(len(mountains)/4, 1)
	return src.Int(0, top-1)
}

func (p Planner) mark(g *world.Grid, r River) {
	for _, i := range r.Path {
		g.At(i).River = world.RiverChannel
	}
	for _, i := range r.Bank {
		t := g.At(i)
		t.River = world.RiverChannel
		t.Landscape = world.LandscapeRiverBank
	}
	if p.BufferWidth <= 0 {
		return
	}
	// No two tiles are more than Rows+Columns apart.
	width := min(p.BufferWidth, g.Rows+g.Columns)
	for _, rt := range r.Tiles(g) {
		for _, i := range g.Spiral(rt.Coord, width) {
			if t := g.At(i); t.River == world.RiverNone {
				t.River = world.RiverBed
			}
		}
	}
}

func refreshRiverDistance(g *world.Grid, mountains []Mountain) {
	radius := max(g.Rows, g.Columns)
	for k := range mountains {
		if _, d, ok := g.FindNearest(mountains[k].Coord, radius, isChannel); ok {
			mountains[k].DistanceToRiver = d
		}
	}
}

func isChannel(t *world.Tile) bool {
	return t.River == world.RiverChannel
}
