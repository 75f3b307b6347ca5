package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/holeplate/pkg/layout"
)

// Validation codes.
const (
	CodeInvalidHoleDistance  = "INVALID_HOLE_DISTANCE"
	CodeInvalidHoleDiameter  = "INVALID_HOLE_DIAMETER"
	CodeInvalidPlateDiameter = "INVALID_PLATE_DIAMETER"
	CodeInvalidClearance     = "INVALID_CLEARANCE"
	CodeInvalidPitch         = "INVALID_PITCH"
	CodeInvalidCoverage      = "INVALID_COVERAGE"
	CodeTooManySteps         = "TOO_MANY_STEPS"
	CodeInvalidStyle         = "INVALID_STYLE"
	CodeMissingFile          = "MISSING_FILE"
)

// ValidationError is one configuration problem.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors collects every problem found by Validate.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Has reports whether any error carries the given code.
func (errs ValidationErrors) Has(code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Validate checks the numeric domain and the output references. Numeric
// problems (zero pitch, clearance past the plate edge) are rejected here
// rather than producing an empty layout. It returns nil or a
// ValidationErrors value.
func (c Config) Validate() error {
	errs := c.validateGeometry()
	errs = append(errs, c.validateOutputs()...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateGeometry checks only the fields the layout depends on. Commands
// that never write a macro file use it instead of Validate.
func (c Config) ValidateGeometry() error {
	if errs := c.validateGeometry(); len(errs) > 0 {
		return errs
	}
	return nil
}

func (c Config) validateGeometry() ValidationErrors {
	var errs ValidationErrors

	if !finite(c.HoleDistance) || c.HoleDistance < 0 {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidHoleDistance,
			Field:   "hole_distance",
			Message: fmt.Sprintf("is %.4f, must not be negative", c.HoleDistance),
		})
	}
	if !finite(c.HoleDiameter) || c.HoleDiameter < 0 {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidHoleDiameter,
			Field:   "hole_diameter",
			Message: fmt.Sprintf("is %.4f, must not be negative", c.HoleDiameter),
		})
	}
	if !finite(c.PlateDiameter) || c.PlateDiameter <= 0 {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidPlateDiameter,
			Field:   "plate_diameter",
			Message: fmt.Sprintf("is %.4f, must be positive", c.PlateDiameter),
		})
	}
	if !finite(c.DistanceFromEdge) || c.DistanceFromEdge < 0 {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidClearance,
			Field:   "distance_from_edge",
			Message: fmt.Sprintf("is %.4f, must not be negative", c.DistanceFromEdge),
		})
	} else if c.PlateDiameter > 0 && c.DistanceFromEdge >= c.PlateDiameter/2 {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidClearance,
			Field:   "distance_from_edge",
			Message: fmt.Sprintf("%.4f leaves no room inside plate radius %.4f", c.DistanceFromEdge, c.PlateDiameter/2),
		})
	}
	if pitch := c.HoleDistance + c.HoleDiameter; pitch <= 0 {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidPitch,
			Field:   "hole_distance+hole_diameter",
			Message: fmt.Sprintf("pitch is %.4f, must be positive", pitch),
		})
	} else if padded := c.PlateDiameter/2 - c.DistanceFromEdge; finite(pitch) && padded > 0 && !(padded/pitch <= layout.MaxSteps) {
		errs = append(errs, ValidationError{
			Code:    CodeTooManySteps,
			Field:   "plate_diameter",
			Message: fmt.Sprintf("padded radius %g holds more than %d pitches of %g", padded, layout.MaxSteps, pitch),
		})
	}
	if !c.Quadrants.Valid() {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidCoverage,
			Field:   "quadrants",
			Message: fmt.Sprintf("is %d, must be one..four", int(c.Quadrants)),
		})
	}
	return errs
}

func (c Config) validateOutputs() ValidationErrors {
	var errs ValidationErrors

	required := []struct {
		field, value string
	}{
		{"target_file_name", c.TargetFile},
		{"first_part", c.FirstPart},
		{"second_part", c.SecondPart},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, ValidationError{
				Code:    CodeMissingFile,
				Field:   r.field,
				Message: "is required",
			})
		}
	}
	if c.Style != StyleTuple && c.Style != StyleTyped {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidStyle,
			Field:   "style",
			Message: fmt.Sprintf("is %q, expected %q or %q", c.Style, StyleTuple, StyleTyped),
		})
	}
	return errs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
