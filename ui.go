package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chazu/holeplate/pkg/config"
	"github.com/chazu/holeplate/pkg/layout"
)

var (
	colorCyan  = lipgloss.Color("36")  // primary values
	colorGreen = lipgloss.Color("35")  // success
	colorRed   = lipgloss.Color("167") // errors
	colorDim   = lipgloss.Color("240") // muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)

	styleCell = lipgloss.NewStyle().Width(12).Align(lipgloss.Right)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+path)
}

// printGeometry prints the derived plate constants.
func printGeometry(w io.Writer, g config.Geometry) {
	fmt.Fprintln(w, styleTitle.Render("Plate"))
	rows := []struct {
		label string
		value float64
	}{
		{"radius", g.PlateRadius},
		{"padded radius", g.PaddedRadius},
		{"hole radius", g.HoleRadius},
		{"pitch", g.Pitch},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-14s %s\n", r.label, styleNumber.Render(fmt.Sprintf("%g", r.value)))
	}
}

// printSummary prints hole counts by type and by quadrant.
func printSummary(w io.Writer, s layout.Summary) {
	fmt.Fprintln(w, styleTitle.Render("Layout"))
	fmt.Fprintf(w, "  %-14s %s\n", "holes", styleNumber.Render(fmt.Sprint(s.Total)))
	fmt.Fprintf(w, "  %-14s %d center, %d axis, %d area\n", "by type", s.Center, s.Axis, s.Area)
	var parts []string
	for q := layout.QuadrantOne; q <= layout.QuadrantFour; q++ {
		if n := s.Quadrant[q]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", q, n))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  %-14s %s\n", "by quadrant", strings.Join(parts, " "))
	}
}

// printEdgeTable prints the boundary table as aligned columns.
func printEdgeTable(w io.Writer, table []layout.DistanceToEdge) {
	header := styleCell.Render("step") + styleCell.Render("offset") + styleCell.Render("boundary")
	fmt.Fprintln(w, styleTitle.Render(header))
	for _, row := range table {
		fmt.Fprintln(w,
			styleCell.Render(fmt.Sprint(row.Step))+
				styleCell.Render(fmt.Sprintf("%.4f", row.Offset))+
				styleNumber.Inherit(styleCell).Render(fmt.Sprintf("%.4f", row.Boundary)))
	}
}

// printValidation lists each validation problem on its own line.
func printValidation(w io.Writer, errs config.ValidationErrors) {
	for _, e := range errs {
		fmt.Fprintf(w, "%s %s %s: %s\n",
			styleError.Render(iconError), styleDim.Render(e.Code), e.Field, e.Message)
	}
}
