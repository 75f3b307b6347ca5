// Package config loads and validates hole-plate configurations.
// Configurations are immutable once loaded and are threaded explicitly into
// the layout generator; nothing in this package keeps global state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazu/holeplate/pkg/layout"
)

// Config describes one plate and where its outputs go. Lengths are in mm.
type Config struct {
	HoleDistance     float64         `json:"hole_distance" toml:"hole_distance"`           // gap between neighbouring hole edges
	HoleDiameter     float64         `json:"hole_diameter" toml:"hole_diameter"`
	PlateDiameter    float64         `json:"plate_diameter" toml:"plate_diameter"`
	DistanceFromEdge float64         `json:"distance_from_edge" toml:"distance_from_edge"` // minimum clearance from the plate edge
	Quadrants        layout.Quadrant `json:"quadrants,omitempty" toml:"quadrants,omitempty"`

	TargetFile string `json:"target_file_name" toml:"target_file_name"`
	FirstPart  string `json:"first_part" toml:"first_part"`
	SecondPart string `json:"second_part" toml:"second_part"`
	DumpFile   string `json:"dump_file,omitempty" toml:"dump_file,omitempty"`
	Style      string `json:"style,omitempty" toml:"style,omitempty"` // "tuple" or "typed"
	DXFFile    string `json:"dxf_file,omitempty" toml:"dxf_file,omitempty"`
	SVGFile    string `json:"svg_file,omitempty" toml:"svg_file,omitempty"`
}

// Style names accepted by Config.Style.
const (
	StyleTuple = "tuple"
	StyleTyped = "typed"
)

// Format is a configuration file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatTOML
)

// FormatForPath picks the encoding from the file extension. Anything that
// is not .toml is read as JSON.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// Load reads the configuration at path, applies defaults, and resolves
// relative file references against the directory containing path.
// The result is not validated; call Validate before use.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data, FormatForPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg.ResolvePaths(filepath.Dir(path)), nil
}

// Parse decodes data in the given format and applies defaults.
func Parse(data []byte, format Format) (Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("decode toml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode json: %w", err)
		}
	}
	return cfg.WithDefaults(), nil
}

// WithDefaults fills unset optional fields: full quadrant coverage and the
// tuple line style.
func (c Config) WithDefaults() Config {
	if c.Quadrants == 0 {
		c.Quadrants = layout.QuadrantFour
	}
	if c.Style == "" {
		c.Style = StyleTuple
	}
	return c
}

// ResolvePaths returns a copy of c whose relative file references are
// joined onto dir. Empty references stay empty.
func (c Config) ResolvePaths(dir string) Config {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.TargetFile = resolve(c.TargetFile)
	c.FirstPart = resolve(c.FirstPart)
	c.SecondPart = resolve(c.SecondPart)
	c.DumpFile = resolve(c.DumpFile)
	c.DXFFile = resolve(c.DXFFile)
	c.SVGFile = resolve(c.SVGFile)
	return c
}

// Geometry returns the derived plate constants.
func (c Config) Geometry() Geometry {
	plateRadius := c.PlateDiameter / 2
	return Geometry{
		PlateRadius:  plateRadius,
		PaddedRadius: plateRadius - c.DistanceFromEdge,
		HoleRadius:   c.HoleDiameter / 2,
		Pitch:        c.HoleDistance + c.HoleDiameter,
	}
}

// Spec converts the configuration into the generator's input.
func (c Config) Spec() layout.Spec {
	return layout.Spec{
		PlateRadius: c.PlateDiameter / 2,
		Clearance:   c.DistanceFromEdge,
		Pitch:       c.HoleDistance + c.HoleDiameter,
		Coverage:    c.Quadrants,
	}
}

// Geometry holds the constants derived from a Config.
type Geometry struct {
	PlateRadius  float64
	PaddedRadius float64 // plate radius minus edge clearance
	HoleRadius   float64
	Pitch        float64 // hole distance plus hole diameter
}
