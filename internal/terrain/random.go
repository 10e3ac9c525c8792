package terrain

import (
	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// Random assigns every tile an independent uniformly random terrain. It is
// the fallback for unrecognized map types.
type Random struct{}

func (Random) Type() MapType { return TypeRandom }

func (Random) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	g := newGrid(size, world.TerrainPlain)
	for i := range g.Tiles {
		g.Tiles[i].Terrain = world.Terrain(src.Int(int(world.TerrainMin), int(world.TerrainMax)))
	}
	return g
}
