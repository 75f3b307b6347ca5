package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const (
	firstFragment  = "import FreeCAD\nholeList = []\n"
	secondFragment = "for x, z in holeList:\n    drill(x, z)\n"
)

// writeFixture creates a plate directory holding the macro fragments and a
// config file with the given name and contents. It returns the config path.
func writeFixture(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"res/firstPart.FCMacro":  firstFragment,
		"res/secondPart.FCMacro": secondFragment,
		name:                     contents,
	}
	for rel, body := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, name)
}

const referenceJSON = `{
	"hole_distance": 5,
	"hole_diameter": 2,
	"plate_diameter": 60,
	"distance_from_edge": 3,
	"quadrants": "one",
	"target_file_name": "out/holes.FCMacro",
	"first_part": "res/firstPart.FCMacro",
	"second_part": "res/secondPart.FCMacro",
	"style": "typed"
}`

func quietApp() *App {
	return NewApp(newLogger(io.Discard, log.InfoLevel))
}

func quietContext() context.Context {
	return withLogger(context.Background(), newLogger(io.Discard, log.InfoLevel))
}

// TestE2EReferencePlate exercises the full pipeline: config file, layout,
// stitched macro.
func TestE2EReferencePlate(t *testing.T) {
	app := quietApp()
	path := writeFixture(t, "plate.json", referenceJSON)

	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	res, err := app.Run(quietContext(), cfg, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Summary.Total != 15 {
		t.Errorf("holes = %d, want 15", res.Summary.Total)
	}
	if len(res.Written) != 1 || res.Written[0] != cfg.TargetFile {
		t.Errorf("written = %v, want [%s]", res.Written, cfg.TargetFile)
	}

	data, err := os.ReadFile(cfg.TargetFile)
	if err != nil {
		t.Fatalf("read macro: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, firstFragment) {
		t.Errorf("macro does not start with first fragment:\n%s", out)
	}
	if !strings.HasSuffix(out, secondFragment) {
		t.Errorf("macro does not end with second fragment:\n%s", out)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if want := 2 + 15 + 2; len(lines) != want {
		t.Fatalf("macro has %d lines, want %d", len(lines), want)
	}
	if lines[2] != "holeList.append(HolePosition(0,0,HoleType.CENTER))" {
		t.Errorf("first hole line = %q", lines[2])
	}
	if lines[3] != "holeList.append(HolePosition(7,0,HoleType.AXIS_ONE))" {
		t.Errorf("second hole line = %q", lines[3])
	}
}

// TestE2EDeterministicOutput runs the pipeline twice and compares bytes.
func TestE2EDeterministicOutput(t *testing.T) {
	app := quietApp()
	path := writeFixture(t, "plate.json", referenceJSON)

	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Quadrants = 4
	cfg.DumpFile = filepath.Join(filepath.Dir(path), "holes.csv")

	var runs [2][2][]byte
	for i := range runs {
		if _, err := app.Run(quietContext(), cfg, RunOptions{}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		for j, p := range []string{cfg.TargetFile, cfg.DumpFile} {
			data, err := os.ReadFile(p)
			if err != nil {
				t.Fatal(err)
			}
			runs[i][j] = data
		}
	}
	for j := range runs[0] {
		if !bytes.Equal(runs[0][j], runs[1][j]) {
			t.Errorf("output %d differs between runs", j)
		}
	}
}

// TestE2ERecipeMatchesJSON checks that a Lisp recipe and the equivalent
// JSON config produce the same macro.
func TestE2ERecipeMatchesJSON(t *testing.T) {
	app := quietApp()

	recipe := `
(plate :diameter 60 :clearance 3)
(holes :diameter 2 :distance 5)
(coverage :one)
(files :target "out/holes.FCMacro"
       :first "res/firstPart.FCMacro"
       :second "res/secondPart.FCMacro"
       :style :typed)
`
	outputs := make([][]byte, 0, 2)
	for _, fx := range []struct{ name, body string }{
		{"plate.json", referenceJSON},
		{"plate.lisp", recipe},
	} {
		path := writeFixture(t, fx.name, fx.body)
		cfg, err := app.LoadConfig(path)
		if err != nil {
			t.Fatalf("%s: LoadConfig: %v", fx.name, err)
		}
		if _, err := app.Run(quietContext(), cfg, RunOptions{}); err != nil {
			t.Fatalf("%s: Run: %v", fx.name, err)
		}
		data, err := os.ReadFile(cfg.TargetFile)
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, data)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Errorf("recipe macro differs from JSON macro:\n%s\n---\n%s", outputs[0], outputs[1])
	}
}

// TestE2ETOMLConfig loads the same plate from TOML.
func TestE2ETOMLConfig(t *testing.T) {
	app := quietApp()
	path := writeFixture(t, "plate.toml", `
hole_distance = 5
hole_diameter = 2
plate_diameter = 60
distance_from_edge = 3
quadrants = 2
target_file_name = "holes.FCMacro"
first_part = "res/firstPart.FCMacro"
second_part = "res/secondPart.FCMacro"
`)
	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	holes, err := app.Layout(cfg)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(holes) != 23 {
		t.Errorf("holes = %d, want 23", len(holes))
	}
}

// TestE2EDrawings writes the DXF and SVG outlines alongside the macro.
func TestE2EDrawings(t *testing.T) {
	app := quietApp()
	path := writeFixture(t, "plate.json", referenceJSON)
	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	cfg.DXFFile = filepath.Join(dir, "draw", "plate.dxf")
	cfg.SVGFile = filepath.Join(dir, "draw", "plate.svg")

	res, err := app.Run(quietContext(), cfg, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Written) != 3 {
		t.Errorf("written = %v, want macro, dxf and svg", res.Written)
	}
	for _, p := range []string{cfg.DXFFile, cfg.SVGFile} {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("%s: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}

// TestE2EShippedExamples loads the sample plates under examples/. Each
// describes the same reference plate.
func TestE2EShippedExamples(t *testing.T) {
	app := quietApp()
	for _, name := range []string{"plate.json", "plate.toml", "plate.lisp"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := app.LoadConfig(filepath.Join("examples", name))
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			holes, err := app.Layout(cfg)
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if len(holes) != 45 {
				t.Errorf("holes = %d, want 45", len(holes))
			}
			if _, err := os.Stat(cfg.FirstPart); err != nil {
				t.Errorf("first fragment: %v", err)
			}
		})
	}
}
