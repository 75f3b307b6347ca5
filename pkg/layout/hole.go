package layout

import (
	"fmt"
	"math"
)

// Precision is the number of decimal places hole coordinates are rounded to
// before classification.
const Precision = 2

var precisionScale = math.Pow(10, Precision)

// Round rounds v to Precision decimal places. Rounding is idempotent and
// never returns negative zero.
func Round(v float64) float64 {
	r := math.Round(v*precisionScale) / precisionScale
	if r == 0 {
		return 0
	}
	return r
}

// ---------------------------------------------------------------------------
// Hole types
// ---------------------------------------------------------------------------

// HoleType classifies a hole position. It is a closed sum type: the only
// implementations are Center, Axis and Area.
type HoleType interface {
	holeType() // marker method restricting implementations to this package
}

// Center is the single hole at the plate origin. It has no quadrant.
type Center struct{}

// Axis is a hole lying on the X or Z axis.
type Axis struct {
	Quadrant Quadrant
}

// Area is an interior hole, off both axes.
type Area struct {
	Quadrant Quadrant
}

func (Center) holeType() {}
func (Axis) holeType()   {}
func (Area) holeType()   {}

// QuadrantOf returns the quadrant carried by t. Center carries none.
func QuadrantOf(t HoleType) (Quadrant, bool) {
	switch v := t.(type) {
	case Axis:
		return v.Quadrant, true
	case Area:
		return v.Quadrant, true
	default:
		return 0, false
	}
}

// Label returns the symbolic name used in macro output, e.g. CENTER,
// AXIS_ONE or AREA_FOUR.
func Label(t HoleType) string {
	switch v := t.(type) {
	case Center:
		return "CENTER"
	case Axis:
		return "AXIS_" + upper(v.Quadrant)
	case Area:
		return "AREA_" + upper(v.Quadrant)
	default:
		return "UNKNOWN"
	}
}

func upper(q Quadrant) string {
	switch q {
	case QuadrantOne:
		return "ONE"
	case QuadrantTwo:
		return "TWO"
	case QuadrantThree:
		return "THREE"
	case QuadrantFour:
		return "FOUR"
	default:
		return "UNKNOWN"
	}
}

// ---------------------------------------------------------------------------
// Hole positions
// ---------------------------------------------------------------------------

// HolePosition is the center of one drilled hole. Type is always derived
// from the (rounded) coordinates; use NewHolePosition to construct one.
// The unrounded coordinates are kept for the debug dump and as the input
// of every transform, so rounding is applied exactly once.
type HolePosition struct {
	X    float64
	Z    float64
	Type HoleType

	rawX, rawZ float64
}

// NewHolePosition rounds both coordinates and classifies the result.
func NewHolePosition(x, z float64) HolePosition {
	rx, rz := Round(x), Round(z)
	return HolePosition{
		X:    rx,
		Z:    rz,
		Type: classifyType(rx, rz),
		rawX: x + 0, // drops negative zero
		rawZ: z + 0,
	}
}

// Raw returns the coordinates before rounding.
func (h HolePosition) Raw() (x, z float64) {
	return h.rawX, h.rawZ
}

func classifyType(x, z float64) HoleType {
	switch {
	case x == 0 && z == 0:
		return Center{}
	case x == 0 || z == 0:
		return Axis{Quadrant: Classify(x, z)}
	default:
		return Area{Quadrant: Classify(x, z)}
	}
}

// IsCenter reports whether h is the origin hole.
func (h HolePosition) IsCenter() bool {
	_, ok := h.Type.(Center)
	return ok
}

// Quadrant returns the quadrant of h, or false for the center hole.
func (h HolePosition) Quadrant() (Quadrant, bool) {
	return QuadrantOf(h.Type)
}

func (h HolePosition) String() string {
	return fmt.Sprintf("HolePosition(%g,%g,%s)", h.X, h.Z, Label(h.Type))
}

// Mirror reflects h through the origin: (x, z) -> (-x, -z).
func (h HolePosition) Mirror() (HolePosition, bool) {
	if h.IsCenter() {
		return HolePosition{}, false
	}
	return NewHolePosition(-h.rawX, -h.rawZ), true
}

// MirrorX reflects h across the Z axis: (x, z) -> (-x, z).
func (h HolePosition) MirrorX() (HolePosition, bool) {
	if h.IsCenter() {
		return HolePosition{}, false
	}
	return NewHolePosition(-h.rawX, h.rawZ), true
}

// MirrorZ reflects h across the X axis: (x, z) -> (x, -z).
func (h HolePosition) MirrorZ() (HolePosition, bool) {
	if h.IsCenter() {
		return HolePosition{}, false
	}
	return NewHolePosition(h.rawX, -h.rawZ), true
}

// Rotate transposes h: (x, z) -> (z, x).
func (h HolePosition) Rotate() (HolePosition, bool) {
	if h.IsCenter() {
		return HolePosition{}, false
	}
	return NewHolePosition(h.rawZ, h.rawX), true
}

// MirrorXRotate applies MirrorX followed by Rotate: (x, z) -> (z, -x).
func (h HolePosition) MirrorXRotate() (HolePosition, bool) {
	m, ok := h.MirrorX()
	if !ok {
		return HolePosition{}, false
	}
	return m.Rotate()
}

// ---------------------------------------------------------------------------
// Replication methods
// ---------------------------------------------------------------------------

// ReplicationMethod selects one of the geometric transforms.
type ReplicationMethod int

const (
	MethodMirror ReplicationMethod = iota
	MethodMirrorX
	MethodMirrorZ
	MethodRotate
	MethodMirrorXRotate
)

func (m ReplicationMethod) String() string {
	switch m {
	case MethodMirror:
		return "mirror"
	case MethodMirrorX:
		return "mirror-x"
	case MethodMirrorZ:
		return "mirror-z"
	case MethodRotate:
		return "rotate"
	case MethodMirrorXRotate:
		return "mirror-x-rotate"
	default:
		return "unknown"
	}
}

// Apply runs the transform on h. It reports false when the transform is
// not applicable, which is the case for the center hole and for unknown
// methods.
func (m ReplicationMethod) Apply(h HolePosition) (HolePosition, bool) {
	switch m {
	case MethodMirror:
		return h.Mirror()
	case MethodMirrorX:
		return h.MirrorX()
	case MethodMirrorZ:
		return h.MirrorZ()
	case MethodRotate:
		return h.Rotate()
	case MethodMirrorXRotate:
		return h.MirrorXRotate()
	default:
		return HolePosition{}, false
	}
}

// Accepts reports whether h falls within the coverage threshold. The center
// hole is always accepted.
func Accepts(coverage Quadrant, h HolePosition) bool {
	q, ok := h.Quadrant()
	if !ok {
		return h.IsCenter()
	}
	return q <= coverage
}
