package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpec is wrapped by every error returned from Spec.Validate.
var ErrInvalidSpec = errors.New("invalid layout spec")

// Spec holds the geometry a layout is generated from. All lengths are in
// the same unit (mm by convention).
type Spec struct {
	PlateRadius float64  // radius of the physical plate
	Clearance   float64  // minimum distance between a hole center and the edge
	Pitch       float64  // center-to-center distance between neighbouring holes
	Coverage    Quadrant // highest quadrant to fill
}

// PaddedRadius is the radius that hole centers must stay within.
func (s Spec) PaddedRadius() float64 {
	return s.PlateRadius - s.Clearance
}

// MaxSteps bounds the number of radial steps a layout may have. A layout
// grows with the square of its step count, so 1000 steps (about three
// million holes at full coverage) is the largest plate Generate accepts.
const MaxSteps = 1000

// MaxStep is the number of whole pitches that fit inside the padded radius.
// It is -1 when nothing fits or when the ratio exceeds MaxSteps.
func (s Spec) MaxStep() int {
	if s.Pitch <= 0 || s.PaddedRadius() < 0 {
		return -1
	}
	ratio := s.PaddedRadius() / s.Pitch
	if !(ratio <= MaxSteps) {
		return -1
	}
	return int(math.Floor(ratio))
}

// EdgeTable returns the boundary table of the padded circle, one entry per
// radial step.
func (s Spec) EdgeTable() []DistanceToEdge {
	return EdgeDistances(s.PaddedRadius(), s.Pitch, s.MaxStep())
}

// Validate rejects geometry the generator cannot handle.
func (s Spec) Validate() error {
	switch {
	case !finitePositive(s.Pitch):
		return fmt.Errorf("%w: pitch must be positive, got %g", ErrInvalidSpec, s.Pitch)
	case !finitePositive(s.PlateRadius):
		return fmt.Errorf("%w: plate radius must be positive, got %g", ErrInvalidSpec, s.PlateRadius)
	case math.IsNaN(s.Clearance) || s.Clearance < 0:
		return fmt.Errorf("%w: clearance must not be negative, got %g", ErrInvalidSpec, s.Clearance)
	case s.Clearance >= s.PlateRadius:
		return fmt.Errorf("%w: clearance %g leaves no room inside radius %g", ErrInvalidSpec, s.Clearance, s.PlateRadius)
	case !s.Coverage.Valid():
		return fmt.Errorf("%w: coverage must be one of one..four, got %d", ErrInvalidSpec, int(s.Coverage))
	case !(s.PaddedRadius()/s.Pitch <= MaxSteps):
		return fmt.Errorf("%w: padded radius %g is more than %d pitches of %g", ErrInvalidSpec, s.PaddedRadius(), MaxSteps, s.Pitch)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
