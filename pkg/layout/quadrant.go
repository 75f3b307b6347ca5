package layout

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quadrant is one of the four 90° sectors around the plate center.
// Quadrants are totally ordered so that a coverage setting acts as an
// inclusive threshold.
type Quadrant int

const (
	QuadrantOne Quadrant = iota + 1
	QuadrantTwo
	QuadrantThree
	QuadrantFour
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantOne:
		return "one"
	case QuadrantTwo:
		return "two"
	case QuadrantThree:
		return "three"
	case QuadrantFour:
		return "four"
	default:
		return "unknown"
	}
}

// Valid reports whether q is one of the four defined quadrants.
func (q Quadrant) Valid() bool {
	return q >= QuadrantOne && q <= QuadrantFour
}

// Classify maps a point to its quadrant.
//
// The origin and the positive axes belong to QuadrantOne, the negative axes
// to QuadrantThree:
//
//	x >= 0, z >= 0 -> One
//	x <  0, z >  0 -> Two
//	x <= 0, z <= 0 -> Three
//	x >  0, z <  0 -> Four
func Classify(x, z float64) Quadrant {
	switch {
	case x >= 0 && z >= 0:
		return QuadrantOne
	case x < 0 && z > 0:
		return QuadrantTwo
	case x <= 0 && z <= 0:
		return QuadrantThree
	default:
		return QuadrantFour
	}
}

// ParseQuadrant accepts a quadrant name ("two"), ordinal ("2") or roman
// numeral ("ii"), case-insensitively.
func ParseQuadrant(s string) (Quadrant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one", "1", "i":
		return QuadrantOne, nil
	case "two", "2", "ii":
		return QuadrantTwo, nil
	case "three", "3", "iii":
		return QuadrantThree, nil
	case "four", "4", "iv":
		return QuadrantFour, nil
	}
	return 0, fmt.Errorf("invalid quadrant %q, expected one, two, three or four", s)
}

func quadrantFromInt(n int64) (Quadrant, error) {
	q := Quadrant(n)
	if !q.Valid() {
		return 0, fmt.Errorf("invalid quadrant %d, expected 1-4", n)
	}
	return q, nil
}

// MarshalText encodes the quadrant by name.
func (q Quadrant) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("invalid quadrant %d", int(q))
	}
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quadrant) UnmarshalText(text []byte) error {
	v, err := ParseQuadrant(string(text))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// UnmarshalJSON accepts "three", 3 and 3.0. A number with a fractional
// part is rejected.
func (q *Quadrant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return q.UnmarshalText([]byte(s))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 4 {
		return fmt.Errorf("invalid quadrant %s", data)
	}
	v, err := quadrantFromInt(int64(f))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// UnmarshalTOML accepts quadrants = "three", 3 or 3.0.
func (q *Quadrant) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		return q.UnmarshalText([]byte(v))
	case int64:
		p, err := quadrantFromInt(v)
		if err != nil {
			return err
		}
		*q = p
		return nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) <= 4 {
			return q.UnmarshalTOML(int64(v))
		}
	}
	return fmt.Errorf("invalid quadrant %v (%T)", data, data)
}
