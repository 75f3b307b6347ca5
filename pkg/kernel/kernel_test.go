package kernel_test

import (
	"testing"

	"github.com/chazu/holeplate/pkg/kernel"
	"github.com/chazu/holeplate/pkg/kernel/sdfx"
)

// TestBooleanAlgebra checks the interface contract every backend must meet,
// using two overlapping circles.
func TestBooleanAlgebra(t *testing.T) {
	backends := map[string]kernel.Kernel{
		"sdfx": sdfx.WithCells(50),
	}

	for name, k := range backends {
		t.Run(name, func(t *testing.T) {
			a, err := k.Circle(5)
			if err != nil {
				t.Fatal(err)
			}
			b, err := k.Circle(5)
			if err != nil {
				t.Fatal(err)
			}
			b = k.Translate(b, 6, 0)

			tests := []struct {
				name string
				p    kernel.Profile
				x, y float64
				want bool
			}{
				{"union left", k.Union(a, b), -4, 0, true},
				{"union right", k.Union(a, b), 10, 0, true},
				{"union outside", k.Union(a, b), 0, 6, false},
				{"difference keeps a only", k.Difference(a, b), -4, 0, true},
				{"difference removes overlap", k.Difference(a, b), 3, 0, false},
				{"difference removes b", k.Difference(a, b), 10, 0, false},
			}
			for _, tt := range tests {
				if got := k.Contains(tt.p, tt.x, tt.y); got != tt.want {
					t.Errorf("%s: Contains(%g, %g) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
				}
			}

			min, max := k.Union(a, b).BoundingBox()
			if min[0] > -5+1e-6 || max[0] < 11-1e-6 {
				t.Errorf("union bounding box = %v..%v, want x span -5..11", min, max)
			}
		})
	}
}
