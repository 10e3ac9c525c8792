package world

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Grid holds every tile of a rectangular hex map in row-major order.
// Queries return tile indices into Tiles.
type Grid struct {
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Tiles   []Tile `json:"-"`
}

// NewGrid creates a rows x columns grid filled with shallow water.
func NewGrid(rows, columns int) *Grid {
	g := &Grid{
		Rows:    rows,
		Columns: columns,
		Tiles:   make([]Tile, rows*columns),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			g.Tiles[row*columns+col] = Tile{
				Row:     row,
				Col:     col,
				Coord:   OffsetToCube(row, col),
				Terrain: TerrainShallowWater,
			}
		}
	}
	return g
}

// FromTerrain rebuilds a grid from a flat row-major terrain layer.
// Landscape and river flow start empty.
func FromTerrain(rows, columns int, terrain []Terrain) (*Grid, error) {
	if len(terrain) != rows*columns {
		return nil, fmt.Errorf("terrain layer has %d tiles, want %d", len(terrain), rows*columns)
	}
	g := NewGrid(rows, columns)
	for i, t := range terrain {
		g.Tiles[i].Terrain = t
	}
	return g, nil
}

// Len returns the number of tiles.
func (g *Grid) Len() int {
	return len(g.Tiles)
}

// Index returns the arena index of (row, col), or false if out of bounds.
func (g *Grid) Index(row, col int) (int, bool) {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Columns {
		return 0, false
	}
	return row*g.Columns + col, true
}

// IndexOf returns the arena index of a cube coordinate, or false if the
// coordinate lies outside the grid.
func (g *Grid) IndexOf(h HexCoord) (int, bool) {
	row, col := CubeToOffset(h)
	return g.Index(row, col)
}

// At returns the tile at index i.
func (g *Grid) At(i int) *Tile {
	return &g.Tiles[i]
}

// Get returns the tile at (row, col), or nil if out of bounds.
func (g *Grid) Get(row, col int) *Tile {
	i, ok := g.Index(row, col)
	if !ok {
		return nil
	}
	return &g.Tiles[i]
}

// Fill sets every tile to terrain t.
func (g *Grid) Fill(t Terrain) {
	for i := range g.Tiles {
		g.Tiles[i].Terrain = t
	}
}

// Neighbors returns the indices of the up to six tiles adjacent to i, in
// Direction order. Positions outside the grid are omitted.
func (g *Grid) Neighbors(i int) []int {
	result := make([]int, 0, 6)
	for _, n := range g.Tiles[i].Coord.Neighbors() {
		if j, ok := g.IndexOf(n); ok {
			result = append(result, j)
		}
	}
	return result
}

// Ring returns the indices of all tiles at exactly radius from center.
// Radius 0 yields the center alone.
func (g *Grid) Ring(center HexCoord, radius int) []int {
	if radius <= 0 {
		if i, ok := g.IndexOf(center); ok {
			return []int{i}
		}
		return nil
	}
	var result []int
	h := center.Add(HexNeighborDirections[SW].Scale(radius))
	for _, dir := range ringWalk {
		for step := 0; step < radius; step++ {
			if i, ok := g.IndexOf(h); ok {
				result = append(result, i)
			}
			h = h.Add(HexNeighborDirections[dir])
		}
	}
	return result
}

// Spiral returns the indices of all tiles within radius of center, nearest
// rings first.
func (g *Grid) Spiral(center HexCoord, radius int) []int {
	var result []int
	for k := 0; k <= radius; k++ {
		result = append(result, g.Ring(center, k)...)
	}
	return result
}

// IsTileAtEdge reports whether tile i lies within distance of the grid
// border, that is, whether its spiral of that radius is clipped.
func (g *Grid) IsTileAtEdge(i, distance int) bool {
	full := 1 + 3*distance*(distance+1)
	return len(g.Spiral(g.Tiles[i].Coord, distance)) < full
}

// FindNearest searches rings of growing radius around coord and returns the
// first tile accepted by match together with its distance. Radius 0 checks
// coord itself. Returns false if nothing matches within maxRadius.
func (g *Grid) FindNearest(coord HexCoord, maxRadius int, match func(*Tile) bool) (index, distance int, ok bool) {
	for k := 0; k <= maxRadius; k++ {
		for _, i := range g.Ring(coord, k) {
			if match(&g.Tiles[i]) {
				return i, k, true
			}
		}
	}
	return 0, 0, false
}

// CountTerrain returns the number of tiles whose terrain is one of types.
func (g *Grid) CountTerrain(types ...Terrain) int {
	n := 0
	for i := range g.Tiles {
		if g.Tiles[i].Terrain.In(types...) {
			n++
		}
	}
	return n
}

// TerrainCounts returns a count of each terrain type in the grid.
func (g *Grid) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for i := range g.Tiles {
		counts[g.Tiles[i].Terrain]++
	}
	return counts
}

// LandscapeCounts returns a count of each non-empty landscape in the grid.
func (g *Grid) LandscapeCounts() map[Landscape]int {
	counts := make(map[Landscape]int)
	for i := range g.Tiles {
		if l := g.Tiles[i].Landscape; l != LandscapeNone {
			counts[l]++
		}
	}
	return counts
}

// TerrainLayer exports the terrain codes in row-major order.
func (g *Grid) TerrainLayer() []Terrain {
	out := make([]Terrain, len(g.Tiles))
	for i := range g.Tiles {
		out[i] = g.Tiles[i].Terrain
	}
	return out
}

// LandscapeLayer exports the landscape codes in row-major order.
func (g *Grid) LandscapeLayer() []Landscape {
	out := make([]Landscape, len(g.Tiles))
	for i := range g.Tiles {
		out[i] = g.Tiles[i].Landscape
	}
	return out
}

// RiverLayer exports the river flow codes in row-major order.
func (g *Grid) RiverLayer() []RiverFlow {
	out := make([]RiverFlow, len(g.Tiles))
	for i := range g.Tiles {
		out[i] = g.Tiles[i].River
	}
	return out
}

// DumpLayer writes a layer as text, one grid row per line with values
// separated by spaces.
func DumpLayer[T ~uint8](w io.Writer, columns int, layer []T) error {
	var b strings.Builder
	for i, v := range layer {
		if i%columns != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(int(v)))
		if i%columns == columns-1 {
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, tiles=%d)", g.Rows, g.Columns, g.Len())
}

// Common returns the members of a that also appear in every other list,
// preserving the order of a.
func Common(a []int, others ...[]int) []int {
	var result []int
outer:
	for _, v := range a {
		for _, o := range others {
			if !slices.Contains(o, v) {
				continue outer
			}
		}
		result = append(result, v)
	}
	return result
}

// Without returns the members of a that appear in none of the excluded lists.
func Without(a []int, excluded ...[]int) []int {
	var result []int
outer:
	for _, v := range a {
		for _, e := range excluded {
			if slices.Contains(e, v) {
				continue outer
			}
		}
		result = append(result, v)
	}
	return result
}
