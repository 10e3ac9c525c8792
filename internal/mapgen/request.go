// Package mapgen runs the whole map pipeline: an archetype generator
// carves the terrain, then the landscape shaper places rivers, climate
// bands and decorations.
package mapgen

import (
	"errors"
	"fmt"

	"github.com/talgya/hexworld/internal/landscape"
	"github.com/talgya/hexworld/internal/terrain"
	"github.com/talgya/hexworld/internal/world"
)

// MaxRiverBed is the widest river buffer a request may ask for.
const MaxRiverBed = 10

// Request holds the parameters of one map.
type Request struct {
	Type        terrain.MapType
	Size        world.MapSize
	Temperature landscape.Temperature
	Humidity    landscape.Humidity
	RiverFactor float64 // Rivers per size step
	RiverBed    int     // Buffer radius around rivers
	Seed        int64   // Random seed (0 = random)
}

// DefaultRequest returns a small temperate continents map.
func DefaultRequest() Request {
	return Request{
		Type:        terrain.TypeContinents,
		Size:        world.SizeSmall,
		Temperature: landscape.Normal,
		Humidity:    landscape.Moderate,
		RiverFactor: 1.5,
		RiverBed:    1,
	}
}

// Validate rejects parameters the pipeline would silently replace with a
// fallback. Generate itself accepts any request.
func (r Request) Validate() error {
	var errs []error
	if r.Type > terrain.TypeFractal {
		errs = append(errs, fmt.Errorf("map type %d out of range", r.Type))
	}
	if r.Size < world.SizeMicro || r.Size > world.SizeHuge {
		errs = append(errs, fmt.Errorf("map size %d out of range", r.Size))
	}
	if r.Temperature < landscape.Cold || r.Temperature > landscape.Hot {
		errs = append(errs, fmt.Errorf("temperature %d out of range", r.Temperature))
	}
	if r.Humidity < landscape.Dry || r.Humidity > landscape.Wet {
		errs = append(errs, fmt.Errorf("humidity %d out of range", r.Humidity))
	}
	if r.RiverFactor < 0 {
		errs = append(errs, fmt.Errorf("river factor %v is negative", r.RiverFactor))
	}
	if r.RiverBed < 0 || r.RiverBed > MaxRiverBed {
		errs = append(errs, fmt.Errorf("river bed width %d outside [0, %d]", r.RiverBed, MaxRiverBed))
	}
	return errors.Join(errs...)
}

func (r Request) options() landscape.Options {
	return landscape.Options{
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Size:        r.Size,
		RiverFactor: r.RiverFactor,
		RiverBed:    r.RiverBed,
	}
}
