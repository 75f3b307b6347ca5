package layout

import "math"

// DistanceToEdge is one row of the boundary table: at radial step Step the
// hole column sits Offset away from the center, and holes in that column
// may extend up to Boundary along the perpendicular axis.
type DistanceToEdge struct {
	Step     int     `json:"step"`
	Offset   float64 `json:"offset"`
	Boundary float64 `json:"boundary"`
}

// EdgeDistances computes the half-chord of a circle of the given radius at
// each offset i*pitch for i in 0..steps:
//
//	angle    = acos(offset / radius)
//	boundary = radius * sin(angle)
//
// Generation stops at the first offset beyond the radius, where acos is
// undefined. A non-positive radius or pitch, or a step count outside
// 0..MaxSteps, yields nil.
func EdgeDistances(radius, pitch float64, steps int) []DistanceToEdge {
	if radius <= 0 || pitch <= 0 || steps < 0 || steps > MaxSteps {
		return nil
	}
	table := make([]DistanceToEdge, 0, steps+1)
	for i := 0; i <= steps; i++ {
		offset := float64(i) * pitch
		if offset > radius {
			break
		}
		angle := math.Acos(offset / radius)
		table = append(table, DistanceToEdge{
			Step:     i,
			Offset:   offset,
			Boundary: radius * math.Sin(angle),
		})
	}
	return table
}
