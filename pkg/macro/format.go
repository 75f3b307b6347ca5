// Package macro renders hole layouts as macro script lines and splices them
// between two literal script fragments.
package macro

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/chazu/holeplate/pkg/layout"
)

// Style selects the line format.
type Style int

const (
	// StyleTuple renders holeList.append((x,z)).
	StyleTuple Style = iota
	// StyleTyped renders holeList.append(HolePosition(x,z,HoleType.LABEL)).
	StyleTyped
)

func (s Style) String() string {
	switch s {
	case StyleTuple:
		return "tuple"
	case StyleTyped:
		return "typed"
	default:
		return "unknown"
	}
}

// ParseStyle accepts "tuple" or "typed". The empty string means tuple.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "", "tuple":
		return StyleTuple, nil
	case "typed":
		return StyleTyped, nil
	}
	return 0, fmt.Errorf("invalid macro style %q, expected tuple or typed", s)
}

// formatCoord renders a coordinate rounded to layout.Precision without
// trailing zeros.
func formatCoord(v float64) string {
	return strconv.FormatFloat(layout.Round(v), 'f', -1, 64)
}

// FormatLine renders one hole.
func FormatLine(h layout.HolePosition, style Style) string {
	x, z := formatCoord(h.X), formatCoord(h.Z)
	if style == StyleTyped {
		return fmt.Sprintf("holeList.append(HolePosition(%s,%s,HoleType.%s))", x, z, layout.Label(h.Type))
	}
	return fmt.Sprintf("holeList.append((%s,%s))", x, z)
}

// WriteLines writes one line per hole, in order.
func WriteLines(w io.Writer, holes []layout.HolePosition, style Style) error {
	bw := bufio.NewWriter(w)
	for _, h := range holes {
		if _, err := bw.WriteString(FormatLine(h, style) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDump writes the layout as CSV, one x,z pair per line, in the same
// order as the macro lines. Coordinates are the unrounded values the
// generator computed, so the dump shows what rounding changed.
func WriteDump(w io.Writer, holes []layout.HolePosition) error {
	cw := csv.NewWriter(w)
	for _, h := range holes {
		x, z := h.Raw()
		rec := []string{
			strconv.FormatFloat(x, 'g', -1, 64),
			strconv.FormatFloat(z, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Stitch copies first verbatim, then the hole lines, then second verbatim.
// A fragment that does not end in a newline gets one, so hole lines always
// start on a line of their own.
func Stitch(w io.Writer, first io.Reader, holes []layout.HolePosition, second io.Reader, style Style) error {
	bw := bufio.NewWriter(w)
	if err := copyFragment(bw, first); err != nil {
		return fmt.Errorf("macro: first fragment: %w", err)
	}
	if err := WriteLines(bw, holes, style); err != nil {
		return fmt.Errorf("macro: hole lines: %w", err)
	}
	if err := copyFragment(bw, second); err != nil {
		return fmt.Errorf("macro: second fragment: %w", err)
	}
	return bw.Flush()
}

// copyFragment copies r into w line by line.
func copyFragment(w *bufio.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if _, werr := w.WriteString(line); werr != nil {
				return werr
			}
			if line[len(line)-1] != '\n' {
				if werr := w.WriteByte('\n'); werr != nil {
					return werr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
