// Package river traces rivers from mountains down to open water, widens
// them to two-tile channels, and plans how many rivers a map receives.
package river

import (
	"log/slog"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// waterSearchRadius bounds the ring search used to rank path candidates by
// their distance to water.
const waterSearchRadius = 20

// Mountain is a river source candidate.
type Mountain struct {
	Index           int
	Coord           world.HexCoord
	DistanceToWater int // Fixed once computed
	DistanceToRiver int // Refreshed after every placed river
}

// blocked reports whether a river path may not enter tile t.
func blocked(t *world.Tile) bool {
	return t.Terrain == world.TerrainMountain ||
		t.River != world.RiverNone ||
		t.Landscape == world.LandscapeRiverBank
}

// Path searches a single-tile river path from mountain m to a tile next to
// water. The path excludes the mountain itself. Returns nil when the search
// runs out of frontier, exceeds maxLength tiles, or hits entropy.MaxLoops.
func Path(g *world.Grid, src entropy.Source, m Mountain, maxLength int) []int {
	var (
		path         []int
		open         []int
		closed       = mapset.New[int]()
		current      = m.Index
		lastDistance = 0
	)

	for loops := 0; loops < entropy.MaxLoops; loops++ {
		for _, i := range open {
			closed.Put(i)
		}
		open = nil

		for _, n := range g.Neighbors(current) {
			t := g.At(n)
			if t.Terrain.IsWater() {
				if len(path) == 0 {
					slog.Debug("river source already touches water", "mountain", m.Coord)
					return nil
				}
				return path
			}
			if blocked(t) || closed.Has(n) {
				continue
			}
			open = append(open, n)
		}
		if len(open) == 0 {
			slog.Debug("river ran out of frontier", "mountain", m.Coord, "length", len(path))
			return nil
		}

		// Near the source the river must keep moving away from the mountain.
		candidates := open
		if lastDistance < 2 {
			candidates = nil
			for _, i := range open {
				if world.Distance(m.Coord, g.At(i).Coord) > lastDistance {
					candidates = append(candidates, i)
				}
			}
		}
		if len(candidates) == 0 {
			slog.Debug("river found no tile leading away from its source", "mountain", m.Coord)
			return nil
		}

		next := pickNext(g, src, candidates)
		lastDistance = world.Distance(m.Coord, g.At(next).Coord)
		path = append(path, next)
		current = next

		if len(path) > maxLength {
			slog.Debug("river exceeded max length", "mountain", m.Coord, "max", maxLength)
			return nil
		}
	}
	slog.Debug("river search hit loop limit", "mountain", m.Coord)
	return nil
}

// pickNext chooses a random candidate one time in four, otherwise the
// candidate closest to water.
func pickNext(g *world.Grid, src entropy.Source, candidates []int) int {
	if src.Int(0, 3) == 0 {
		return candidates[src.Int(0, len(candidates)-1)]
	}

	type ranked struct {
		index    int
		distance int
	}
	var ranking []ranked
	for _, i := range candidates {
		if _, d, ok := g.FindNearest(g.At(i).Coord, waterSearchRadius, isWater); ok {
			ranking = append(ranking, ranked{index: i, distance: d})
		}
	}
	if len(ranking) == 0 {
		return candidates[src.Int(0, len(candidates)-1)]
	}
	sort.SliceStable(ranking, func(a, b int) bool {
		return ranking[a].distance < ranking[b].distance
	})
	return ranking[0].index
}

func isWater(t *world.Tile) bool {
	return t.Terrain.IsWater()
}
