package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/holeplate/pkg/config"
	"github.com/chazu/holeplate/pkg/layout"
)

// ---------------------------------------------------------------------------
// Missing fragment: fail before the target is touched.
// ---------------------------------------------------------------------------

func TestE2EMissingFragmentLeavesTarget(t *testing.T) {
	app := quietApp()
	path := writeFixture(t, "plate.json", referenceJSON)
	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.TargetFile), 0755); err != nil {
		t.Fatal(err)
	}
	const previous = "previous contents\n"
	if err := os.WriteFile(cfg.TargetFile, []byte(previous), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.SecondPart = filepath.Join(filepath.Dir(path), "res", "missing.FCMacro")

	if _, err := app.Run(quietContext(), cfg, RunOptions{}); err == nil {
		t.Fatal("expected error for missing fragment")
	} else if exitCode(err) != 1 {
		t.Errorf("exitCode = %d, want 1", exitCode(err))
	}

	data, err := os.ReadFile(cfg.TargetFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != previous {
		t.Errorf("target was modified: %q", data)
	}
}

// ---------------------------------------------------------------------------
// Invalid geometry: rejected with coded errors, nothing written.
// ---------------------------------------------------------------------------

func TestE2EInvalidGeometry(t *testing.T) {
	tests := []struct {
		name string
		edit func(*config.Config)
		code string
	}{
		{"zero pitch", func(c *config.Config) { c.HoleDistance, c.HoleDiameter = 0, 0 }, config.CodeInvalidPitch},
		{"clearance past edge", func(c *config.Config) { c.DistanceFromEdge = 40 }, config.CodeInvalidClearance},
		{"negative plate", func(c *config.Config) { c.PlateDiameter = -60 }, config.CodeInvalidPlateDiameter},
		{"too many steps", func(c *config.Config) { c.PlateDiameter = 2e15 }, config.CodeTooManySteps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := quietApp()
			path := writeFixture(t, "plate.json", referenceJSON)
			cfg, err := app.LoadConfig(path)
			if err != nil {
				t.Fatal(err)
			}
			tt.edit(&cfg)

			_, err = app.Run(quietContext(), cfg, RunOptions{})
			var verrs config.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if !verrs.Has(tt.code) {
				t.Errorf("errors %v missing code %s", verrs, tt.code)
			}
			if exitCode(err) != 2 {
				t.Errorf("exitCode = %d, want 2", exitCode(err))
			}
			if _, err := os.Stat(cfg.TargetFile); !os.IsNotExist(err) {
				t.Errorf("target should not exist, stat err = %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Skipping the macro: output references are not required.
// ---------------------------------------------------------------------------

func TestE2ESkipMacroNeedsNoFragments(t *testing.T) {
	app := quietApp()
	cfg := config.Config{
		HoleDistance:     5,
		HoleDiameter:     2,
		PlateDiameter:    60,
		DistanceFromEdge: 3,
	}.WithDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to require output files")
	}
	res, err := app.Run(quietContext(), cfg, RunOptions{SkipMacro: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Summary.Total != 45 {
		t.Errorf("holes = %d, want 45", res.Summary.Total)
	}
	if len(res.Written) != 0 {
		t.Errorf("written = %v, want none", res.Written)
	}
}

// ---------------------------------------------------------------------------
// Recipe errors surface as RecipeError with line information.
// ---------------------------------------------------------------------------

func TestE2ERecipeError(t *testing.T) {
	app := quietApp()
	path := writeFixture(t, "plate.lisp", "(plate :diameter 60 :thickness 3)\n")

	_, err := app.LoadConfig(path)
	var rerr *RecipeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RecipeError, got %v", err)
	}
	if len(rerr.Errors) == 0 {
		t.Fatal("RecipeError carries no eval errors")
	}
	if !strings.Contains(err.Error(), ":thickness") {
		t.Errorf("error = %q, want mention of :thickness", err)
	}
	if exitCode(err) != 2 {
		t.Errorf("exitCode = %d, want 2", exitCode(err))
	}
}

func TestE2EMissingConfig(t *testing.T) {
	app := quietApp()
	for _, name := range []string{"nope.json", "nope.lisp"} {
		if _, err := app.LoadConfig(filepath.Join(t.TempDir(), name)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

// ---------------------------------------------------------------------------
// Cancellation stops before writing.
// ---------------------------------------------------------------------------

func TestE2ECancelledContext(t *testing.T) {
	app := quietApp()
	path := writeFixture(t, "plate.json", referenceJSON)
	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(quietContext())
	cancel()

	res, err := app.Run(ctx, cfg, RunOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if exitCode(err) != 130 {
		t.Errorf("exitCode = %d, want 130", exitCode(err))
	}
	if res == nil || len(res.Holes) != 15 {
		t.Errorf("layout should be computed before the first write")
	}
	if _, err := os.Stat(cfg.TargetFile); !os.IsNotExist(err) {
		t.Errorf("target should not exist, stat err = %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"canceled", context.Canceled, 130},
		{"validation", config.ValidationErrors{{Code: config.CodeInvalidPitch}}, 2},
		{"invalid spec", layout.ErrInvalidSpec, 2},
		{"other", errors.New("disk full"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
