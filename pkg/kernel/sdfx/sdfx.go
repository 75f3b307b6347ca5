// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/chazu/holeplate/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching squares resolution along the longest
// bounding box axis.
const defaultMeshCells = 400

// sdfxProfile wraps an sdf.SDF2 to implement kernel.Profile.
type sdfxProfile struct {
	s sdf.SDF2
}

// BoundingBox returns the axis-aligned bounding box.
func (p *sdfxProfile) BoundingBox() (min, max [2]float64) {
	bb := p.s.BoundingBox()
	min = [2]float64{bb.Min.X, bb.Min.Y}
	max = [2]float64{bb.Max.X, bb.Max.Y}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultMeshCells}
}

// WithCells returns a kernel that renders drawings with the given marching
// squares resolution.
func WithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// unwrap extracts the underlying sdf.SDF2 from a kernel.Profile.
func unwrap(p kernel.Profile) sdf.SDF2 {
	return p.(*sdfxProfile).s
}

// wrap creates a kernel.Profile from an sdf.SDF2.
func wrap(s sdf.SDF2) kernel.Profile {
	return &sdfxProfile{s: s}
}

// Circle creates a disc of the given radius centered on the origin.
func (k *SdfxKernel) Circle(radius float64) (kernel.Profile, error) {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Circle2D(%g): %w", radius, err)
	}
	return wrap(s), nil
}

// Union returns the union of the given profiles.
func (k *SdfxKernel) Union(profiles ...kernel.Profile) kernel.Profile {
	s := make([]sdf.SDF2, len(profiles))
	for i, p := range profiles {
		s[i] = unwrap(p)
	}
	return wrap(sdf.Union2D(s...))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Profile) kernel.Profile {
	return wrap(sdf.Difference2D(unwrap(a), unwrap(b)))
}

// Translate moves a profile by (x, y).
func (k *SdfxKernel) Translate(p kernel.Profile, x, y float64) kernel.Profile {
	m := sdf.Translate2d(v2.Vec{X: x, Y: y})
	return wrap(sdf.Transform2D(unwrap(p), m))
}

// Contains reports whether (x, y) lies strictly inside the material of p.
func (k *SdfxKernel) Contains(p kernel.Profile, x, y float64) bool {
	return unwrap(p).Evaluate(v2.Vec{X: x, Y: y}) < 0
}

// ExportDXF renders the outline of p to a DXF file using marching squares.
func (k *SdfxKernel) ExportDXF(p kernel.Profile, path string) error {
	return export(func() {
		render.ToDXF(unwrap(p), path, render.NewMarchingSquaresQuadtree(k.cells))
	})
}

// ExportSVG renders the outline of p to an SVG file using marching squares.
func (k *SdfxKernel) ExportSVG(p kernel.Profile, path string) error {
	return export(func() {
		render.ToSVG(unwrap(p), path, render.NewMarchingSquaresQuadtree(k.cells))
	})
}

// export runs a renderer that reports failures by panicking and converts
// the panic into an error.
func export(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sdfx render: %v", r)
		}
	}()
	fn()
	return nil
}
