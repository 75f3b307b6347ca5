// Package profile turns a hole layout into a drilled plate outline using a
// geometry kernel and exports it as a drawing. The builder is read-only and
// never mutates the layout.
package profile

import (
	"fmt"

	"github.com/chazu/holeplate/pkg/kernel"
	"github.com/chazu/holeplate/pkg/layout"
)

// Plate describes the physical stock the holes are drilled into.
type Plate struct {
	Radius     float64
	HoleRadius float64
}

// Build returns the plate disc minus one circle per hole. Layout X maps to
// drawing X and layout Z maps to drawing Y. A layout without holes yields
// the bare plate.
func Build(k kernel.Kernel, plate Plate, holes []layout.HolePosition) (kernel.Profile, error) {
	disc, err := k.Circle(plate.Radius)
	if err != nil {
		return nil, fmt.Errorf("profile: plate: %w", err)
	}
	if len(holes) == 0 || plate.HoleRadius <= 0 {
		return disc, nil
	}

	bit, err := k.Circle(plate.HoleRadius)
	if err != nil {
		return nil, fmt.Errorf("profile: hole: %w", err)
	}

	drills := make([]kernel.Profile, 0, len(holes))
	for _, h := range holes {
		drills = append(drills, k.Translate(bit, h.X, h.Z))
	}
	return k.Difference(disc, k.Union(drills...)), nil
}

// Format is a drawing file format.
type Format int

const (
	FormatDXF Format = iota
	FormatSVG
)

func (f Format) String() string {
	switch f {
	case FormatDXF:
		return "dxf"
	case FormatSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// Export writes p to path in the given format.
func Export(k kernel.Kernel, p kernel.Profile, format Format, path string) error {
	var err error
	switch format {
	case FormatDXF:
		err = k.ExportDXF(p, path)
	case FormatSVG:
		err = k.ExportSVG(p, path)
	default:
		return fmt.Errorf("profile: unsupported format %v", format)
	}
	if err != nil {
		return fmt.Errorf("profile: export %s: %w", path, err)
	}
	return nil
}
