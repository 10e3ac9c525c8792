package terrain

import (
	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// Highland is solid land broken by a few lakes, with broad hill ranges.
type Highland struct{}

func (Highland) Type() MapType { return TypeHighland }

func (Highland) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainPlain)

	water := share(g, 0.15)
	addLakes(g, src, water, seedCount(water, src.Int(5, 7)))
	world.ShallowToDeep(g)

	raiseRanges(g, src, share(g, 0.2), share(g, 0.1), src.Int(5, 7))
	return g
}

// Lakes is solid land dotted with lakes and only low ranges.
type Lakes struct{}

func (Lakes) Type() MapType { return TypeLakes }

func (Lakes) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainPlain)

	water := share(g, 0.2)
	addLakes(g, src, water, seedCount(water, src.Int(20, 40)))
	world.ShallowToDeep(g)

	raiseRanges(g, src, share(g, 0.07), share(g, 0.06), src.Int(5, 7))
	return g
}

// InlandSea is land around one large central body of water.
type InlandSea struct{}

func (InlandSea) Type() MapType { return TypeInlandSea }

func (InlandSea) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainPlain)

	water := share(g, 0.3)
	factor := water / 5
	inner := insideMargins(g)
	central := func(t *world.Tile) bool {
		return t.Terrain == world.TerrainPlain && inner(t)
	}
	sea := world.PlaceSeeds(g, src, world.TerrainShallowWater, src.Int(factor/2, factor), central)
	sea = append(sea, world.PlaceSeeds(g, src, world.TerrainShallowWater, src.Int(5, 15), world.IsTerrain(world.TerrainPlain))...)
	world.Expand(g, src, sea, water-len(sea), world.TerrainShallowWater, func(_, to int) bool {
		return !g.At(to).Terrain.IsWater()
	})
	world.ShallowToDeep(g)

	raiseRanges(g, src, share(g, 0.1), share(g, 0.1), src.Int(8, 12))
	return g
}
