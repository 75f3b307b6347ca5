package layout

// boundaryEpsilon absorbs floating-point error when a hole lands exactly on
// the padded boundary.
const boundaryEpsilon = 1e-9

// Generate computes the hole layout for spec. The result starts with the
// center hole, followed by the holes of each radial step in discovery
// order. Every hole's quadrant is at most spec.Coverage and no coordinate
// pair appears twice. The same spec always yields the same sequence.
func Generate(spec Spec) ([]HolePosition, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	c := newCollector(spec.Coverage)
	for _, edge := range spec.EdgeTable() {
		if edge.Step == 0 {
			c.add(NewHolePosition(0, 0))
			continue
		}
		scanStep(c, edge, spec.Pitch)
	}
	return c.holes, nil
}

// scanStep walks column j = 0..i of radial step i and replicates each hole
// that fits inside the boundary.
func scanStep(c *collector, edge DistanceToEdge, pitch float64) {
	i := edge.Step
	for j := 0; j <= i; j++ {
		z := float64(j) * pitch
		if z > edge.Boundary+boundaryEpsilon {
			// The boundary is fixed for the column; larger j cannot fit.
			break
		}
		base := NewHolePosition(edge.Offset, z)
		c.replicate(base, j == i)

		if j != 0 && j != i {
			below, _ := base.MirrorZ()
			c.replicate(below, false)
		}
	}
}

// collector accumulates accepted holes in insertion order and drops
// duplicates.
type collector struct {
	coverage Quadrant
	holes    []HolePosition
	seen     map[[2]float64]struct{}
}

func newCollector(coverage Quadrant) *collector {
	return &collector{
		coverage: coverage,
		seen:     make(map[[2]float64]struct{}),
	}
}

// replicate emits seed together with its transforms. A seed on the diagonal
// is mirrored through the origin instead of rotated, since rotating it
// would reproduce the seed.
func (c *collector) replicate(seed HolePosition, diagonal bool) {
	c.add(seed)

	first := MethodRotate
	if diagonal {
		first = MethodMirror
	}
	for _, m := range []ReplicationMethod{first, MethodMirrorX, MethodMirrorXRotate} {
		if h, ok := m.Apply(seed); ok {
			c.add(h)
		}
	}
}

func (c *collector) add(h HolePosition) {
	if !Accepts(c.coverage, h) {
		return
	}
	key := [2]float64{h.X, h.Z}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.holes = append(c.holes, h)
}

// Summary counts the holes of a layout by type and quadrant.
type Summary struct {
	Total    int
	Center   int
	Axis     int
	Area     int
	Quadrant map[Quadrant]int
}

// Summarize tallies holes.
func Summarize(holes []HolePosition) Summary {
	s := Summary{Total: len(holes), Quadrant: make(map[Quadrant]int)}
	for _, h := range holes {
		switch t := h.Type.(type) {
		case Center:
			s.Center++
		case Axis:
			s.Axis++
			s.Quadrant[t.Quadrant]++
		case Area:
			s.Area++
			s.Quadrant[t.Quadrant]++
		}
	}
	return s
}
