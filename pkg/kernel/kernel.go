// Package kernel defines the abstract 2-D profile kernel interface.
// Implementations (sdfx) build flat outlines from primitives and boolean
// operations and export them as drawings for CAM tooling. The abstraction
// lets the rest of the system stay independent of the backend.
package kernel

// Profile is an opaque handle to a kernel outline.
// Implementations wrap their internal representation.
type Profile interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [2]float64)
}

// Kernel is the abstract 2-D profile kernel interface.
type Kernel interface {
	// Primitives
	Circle(radius float64) (Profile, error)

	// Boolean operations
	Union(profiles ...Profile) Profile
	Difference(a, b Profile) Profile

	// Transforms
	Translate(p Profile, x, y float64) Profile

	// Queries
	Contains(p Profile, x, y float64) bool

	// Drawing output
	ExportDXF(p Profile, path string) error
	ExportSVG(p Profile, path string) error
}
