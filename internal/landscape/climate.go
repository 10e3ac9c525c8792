package landscape

import (
	"fmt"
	"strings"
)

// Temperature shifts how far snow and tundra reach from the poles.
type Temperature uint8

const (
	Cold Temperature = iota + 1
	Normal
	Hot
)

func (t Temperature) String() string {
	switch t {
	case Cold:
		return "cold"
	case Normal:
		return "normal"
	case Hot:
		return "hot"
	default:
		return fmt.Sprintf("temperature(%d)", uint8(t))
	}
}

// ParseTemperature resolves "cold", "normal" or "hot".
func ParseTemperature(name string) (Temperature, error) {
	for _, t := range []Temperature{Cold, Normal, Hot} {
		if strings.EqualFold(name, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown temperature %q", name)
}

// Humidity shifts the balance between vegetation and desert.
type Humidity uint8

const (
	Dry Humidity = iota + 1
	Moderate
	Wet
)

func (h Humidity) String() string {
	switch h {
	case Dry:
		return "dry"
	case Moderate:
		return "normal"
	case Wet:
		return "wet"
	default:
		return fmt.Sprintf("humidity(%d)", uint8(h))
	}
}

// ParseHumidity resolves "dry", "normal" or "wet".
func ParseHumidity(name string) (Humidity, error) {
	for _, h := range []Humidity{Dry, Moderate, Wet} {
		if strings.EqualFold(name, h.String()) {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown humidity %q", name)
}

// dryness weights the vegetation formulas: 0 for wet maps, 1 for normal
// and 2 for dry. Unknown values count as normal.
func (h Humidity) dryness() float64 {
	switch h {
	case Wet:
		return 0
	case Dry:
		return 2
	default:
		return 1
	}
}

// snowChance returns the chance out of 10 that a tile d rows from the
// nearest pole turns to snow or ice.
func snowChance(d int, t Temperature) int {
	switch {
	case d == 0:
		return 10
	case d == 1 && t < Hot:
		if t < Normal {
			return 6
		}
		return 4
	case d == 2 && t < Normal:
		return 4
	}
	return 0
}

// tundraChance returns the chance out of 10 that a tile d rows from the
// nearest pole turns to tundra.
func tundraChance(d int, t Temperature) int {
	switch d {
	case 1:
		return 10
	case 2:
		switch t {
		case Hot:
			return 3
		case Cold:
			return 9
		default:
			return 8
		}
	case 3:
		if t < Normal {
			return 6
		}
	case 4:
		if t < Normal {
			return 3
		}
	}
	return 0
}
