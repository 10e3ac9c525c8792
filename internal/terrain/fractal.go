package terrain

import (
	"math"
	"slices"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// Fractal derives terrain from layered simplex noise elevation instead of
// seeded region growth. Elevation falls off toward the map border so the
// land sits inside an ocean.
type Fractal struct {
	SeaShare      float64 // Fraction of tiles below sea level
	HillShare     float64 // Fraction of land tiles raised to hills
	MountainShare float64 // Fraction of all tiles promoted from hills to mountain
	Octaves       int
	Frequency     float64
	Persistence   float64
}

// DefaultFractal returns a reasonable starting configuration.
func DefaultFractal() Fractal {
	return Fractal{
		SeaShare:      0.4,
		HillShare:     0.2,
		MountainShare: 0.04,
		Octaves:       4,
		Frequency:     0.08,
		Persistence:   0.5,
	}
}

func (Fractal) Type() MapType { return TypeFractal }

func (f Fractal) Generate(size world.MapSize, src entropy.Source) *world.Grid {
	if f.Octaves <= 0 {
		f = DefaultFractal()
	}
	g := newGrid(size, world.TerrainPlain)
	noise := opensimplex.NewNormalized(int64(src.Int(1, math.MaxInt32)))

	elev := make([]float64, g.Len())
	cx, cy := hexCenter(g)
	for i := range g.Tiles {
		x, y := cartesian(g.Tiles[i].Coord)
		e := octaveNoise(noise, x, y, f.Octaves, f.Frequency, f.Persistence)

		// Continental shaping: reduce elevation near edges to create ocean border.
		dx, dy := (x-cx)/cx, (y-cy)/cy
		falloff := 1.0 - math.Pow(math.Sqrt(dx*dx+dy*dy)/math.Sqrt2, 3.5)
		elev[i] = e * max(falloff, 0)
	}

	sea := level(elev, f.SeaShare)
	var land []float64
	for _, e := range elev {
		if e >= sea {
			land = append(land, e)
		}
	}
	hills := level(land, 1-f.HillShare)

	for i, e := range elev {
		switch {
		case e < sea:
			g.Tiles[i].Terrain = world.TerrainShallowWater
		case e >= hills:
			g.Tiles[i].Terrain = world.TerrainPlainHills
		}
	}
	world.ShallowToDeep(g)
	world.HillsToMountains(g, src, share(g, f.MountainShare))
	return g
}

// level returns the value below which the given fraction of values lie.
func level(values []float64, fraction float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	i := int(fraction * float64(len(sorted)))
	if i >= len(sorted) {
		return math.Inf(1)
	}
	return sorted[max(i, 0)]
}

// cartesian converts hex coords to continuous space for noise sampling.
// Hex axial -> cartesian: x = q + r*0.5, y = r * sqrt(3)/2
func cartesian(h world.HexCoord) (x, y float64) {
	return float64(h.Q) + float64(h.R)*0.5, float64(h.R) * math.Sqrt(3.0) / 2.0
}

// hexCenter returns the cartesian midpoint of the grid.
func hexCenter(g *world.Grid) (x, y float64) {
	_, y = cartesian(world.OffsetToCube(g.Rows-1, 0))
	return float64(g.Columns-1) / 2, y / 2
}

// octaveNoise samples multi-octave noise, normalized to the noise range.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
