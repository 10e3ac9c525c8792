package world

import (
	"fmt"
	"math"
	"strings"
)

// MapSize selects fixed grid dimensions. The ordinal also scales the
// number of rivers placed on a map.
type MapSize uint8

const (
	SizeMicro  MapSize = iota + 1 // typical for 2-4 civilizations
	SizeTiny                      // typical for 4-6 civilizations
	SizeSmall                     // typical for 6-8 civilizations
	SizeMedium                    // typical for 8-14 civilizations
	SizeLarge                     // typical for 10-16 civilizations
	SizeHuge                      // typical for 12-20 civilizations
)

// Sizes lists every supported size in ascending order.
var Sizes = []MapSize{SizeMicro, SizeTiny, SizeSmall, SizeMedium, SizeLarge, SizeHuge}

// Dimensions returns the (rows, columns) of a map of this size.
// Unknown sizes fall back to Micro.
func (s MapSize) Dimensions() (rows, columns int) {
	switch s {
	case SizeTiny: // 2280
		return 38, 60
	case SizeSmall: // 3404
		return 46, 74
	case SizeMedium: // 4536
		return 54, 84
	case SizeLarge: // 5760
		return 60, 96
	case SizeHuge: // 6996
		return 66, 106
	default: // 1144
		return 26, 44
	}
}

func (s MapSize) String() string {
	switch s {
	case SizeMicro:
		return "micro"
	case SizeTiny:
		return "tiny"
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	case SizeHuge:
		return "huge"
	default:
		return fmt.Sprintf("size(%d)", uint8(s))
	}
}

// ParseMapSize resolves a size name such as "tiny".
func ParseMapSize(name string) (MapSize, error) {
	for _, s := range Sizes {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown map size %q", name)
}

// TileDistribution weights a placement across the four climate zones of a
// hemisphere. Weights always sum to 1.
type TileDistribution struct {
	Polar     float64
	Temperate float64
	Dry       float64
	Tropical  float64
}

// ClimateZoneSizes is the approximate share of a hemisphere covered by the
// polar, temperate, dry and tropical zones.
var ClimateZoneSizes = [4]float64{0.18, 0.38, 0.14, 0.30}

// NewTileDistribution normalizes the given weights. All-zero input yields
// an even spread.
func NewTileDistribution(polar, temperate, dry, tropical float64) TileDistribution {
	total := polar + temperate + dry + tropical
	if total == 0 {
		return TileDistribution{Polar: 0.25, Temperate: 0.25, Dry: 0.25, Tropical: 0.25}
	}
	return TileDistribution{
		Polar:     polar / total,
		Temperate: temperate / total,
		Dry:       dry / total,
		Tropical:  tropical / total,
	}
}

// Quotas splits count across the four zones, rounding each share down.
func (d TileDistribution) Quotas(count int) [4]int {
	return [4]int{
		int(math.Floor(d.Polar * float64(count))),
		int(math.Floor(d.Temperate * float64(count))),
		int(math.Floor(d.Dry * float64(count))),
		int(math.Floor(d.Tropical * float64(count))),
	}
}

// ClimateZoneRows returns the map rows of each climate zone, polar first.
// Zones are mirrored: each takes rows from the top and the bottom edge.
func ClimateZoneRows(rows int) [4][]int {
	var zones [4][]int
	last := 0
	for z, size := range ClimateZoneSizes {
		needed := int(math.Round(size * float64(rows) / 2))
		zone := make([]int, 0, needed*2)
		for i := 0; i < needed; i++ {
			zone = append(zone, last+i, rows-(last+i+1))
		}
		zones[z] = zone
		last += needed
	}
	return zones
}
