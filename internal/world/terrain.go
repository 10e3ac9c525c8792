package world

// Terrain is the base classification of a tile. Values are the exported
// layer codes.
type Terrain uint8

const (
	TerrainDeepWater    Terrain = iota + 1 // Water surrounded by water
	TerrainShallowWater                    // Water next to land
	TerrainDesert
	TerrainDesertHills
	TerrainPlain
	TerrainPlainHills
	TerrainGrass
	TerrainGrassHills
	TerrainTundra
	TerrainTundraHills
	TerrainSnow
	TerrainSnowHills
	TerrainMountain // Impassable; always carved out of hills
)

// Legal range of exported terrain codes.
const (
	TerrainMin = TerrainDeepWater
	TerrainMax = TerrainMountain
)

// Landscape is a decoration layered over terrain.
type Landscape uint8

const (
	LandscapeNone Landscape = iota
	LandscapeIce
	LandscapeReef
	LandscapeOasis
	LandscapeSwamp
	LandscapeForest
	LandscapeJungle
	LandscapeVolcano
	LandscapeRiverBank // Second tile of a two-wide river channel
	LandscapeRiverArea
)

// RiverFlow marks river channels and the exclusion buffer around them.
type RiverFlow uint8

const (
	RiverNone RiverFlow = iota
	RiverChannel
	RiverBed // Within the buffer of a placed river; no other river may pass
)

// IsWater reports whether t is shallow or deep water.
func (t Terrain) IsWater() bool {
	return t == TerrainShallowWater || t == TerrainDeepWater
}

// IsHills reports whether t is any hill variant.
func (t Terrain) IsHills() bool {
	switch t {
	case TerrainDesertHills, TerrainPlainHills, TerrainGrassHills, TerrainTundraHills, TerrainSnowHills:
		return true
	}
	return false
}

// In reports whether t is one of types.
func (t Terrain) In(types ...Terrain) bool {
	for _, x := range types {
		if t == x {
			return true
		}
	}
	return false
}

// Valid reports whether t is inside the exported code range.
func (t Terrain) Valid() bool {
	return t >= TerrainMin && t <= TerrainMax
}

func (t Terrain) String() string {
	switch t {
	case TerrainDeepWater:
		return "DeepWater"
	case TerrainShallowWater:
		return "ShallowWater"
	case TerrainDesert:
		return "Desert"
	case TerrainDesertHills:
		return "DesertHills"
	case TerrainPlain:
		return "Plain"
	case TerrainPlainHills:
		return "PlainHills"
	case TerrainGrass:
		return "Grass"
	case TerrainGrassHills:
		return "GrassHills"
	case TerrainTundra:
		return "Tundra"
	case TerrainTundraHills:
		return "TundraHills"
	case TerrainSnow:
		return "Snow"
	case TerrainSnowHills:
		return "SnowHills"
	case TerrainMountain:
		return "Mountain"
	default:
		return "Unknown"
	}
}

func (l Landscape) String() string {
	switch l {
	case LandscapeNone:
		return "None"
	case LandscapeIce:
		return "Ice"
	case LandscapeReef:
		return "Reef"
	case LandscapeOasis:
		return "Oasis"
	case LandscapeSwamp:
		return "Swamp"
	case LandscapeForest:
		return "Forest"
	case LandscapeJungle:
		return "Jungle"
	case LandscapeVolcano:
		return "Volcano"
	case LandscapeRiverBank:
		return "RiverBank"
	case LandscapeRiverArea:
		return "RiverArea"
	default:
		return "Unknown"
	}
}

func (f RiverFlow) String() string {
	switch f {
	case RiverNone:
		return "None"
	case RiverChannel:
		return "River"
	case RiverBed:
		return "RiverBed"
	default:
		return "Unknown"
	}
}

// Tile is one cell of the grid. Tiles live in the Grid arena and are
// addressed by index; pointers into the arena stay valid for its lifetime.
type Tile struct {
	Row   int
	Col   int
	Coord HexCoord

	Terrain   Terrain
	Landscape Landscape
	River     RiverFlow
}
