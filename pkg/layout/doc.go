// Package layout computes radial hole layouts for circular plates.
// Holes are generated on a square grid of one pitch, scanned outward from
// the plate center, and replicated into the remaining quadrants by mirror
// and rotate transforms. Every value in this package is immutable once
// constructed; Generate is a pure function of its Spec.
package layout
