package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/chazu/holeplate/pkg/config"
	"github.com/chazu/holeplate/pkg/engine"
	"github.com/chazu/holeplate/pkg/kernel"
	"github.com/chazu/holeplate/pkg/kernel/sdfx"
	"github.com/chazu/holeplate/pkg/layout"
	"github.com/chazu/holeplate/pkg/macro"
	"github.com/chazu/holeplate/pkg/profile"
)

// App runs the load -> layout -> render pipeline. It holds no per-run
// state, so one App can serve any number of runs.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	logger *log.Logger
}

// NewApp creates an App with a recipe engine and the sdfx kernel.
func NewApp(logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
		logger: logger,
	}
}

// RecipeError reports the evaluation errors of a Lisp recipe.
type RecipeError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *RecipeError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return fmt.Sprintf("recipe %s: %s", e.Path, strings.Join(msgs, "; "))
}

// isRecipe reports whether path names a Lisp recipe rather than a JSON or
// TOML configuration.
func isRecipe(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lisp", ".zy":
		return true
	}
	return false
}

// LoadConfig reads a configuration from a JSON, TOML or Lisp recipe file.
// Relative file references resolve against the file's directory.
func (a *App) LoadConfig(path string) (config.Config, error) {
	if !isRecipe(path) {
		cfg, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		a.logger.Debug("loaded config", "path", path, "format", config.FormatForPath(path))
		return cfg, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("read recipe %s: %w", path, err)
	}
	cfg, evalErrs, err := a.engine.Evaluate(string(source))
	if err != nil {
		return config.Config{}, fmt.Errorf("recipe %s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		return config.Config{}, &RecipeError{Path: path, Errors: evalErrs}
	}
	a.logger.Debug("evaluated recipe", "path", path)
	return cfg.ResolvePaths(filepath.Dir(path)), nil
}

// Layout validates the plate geometry of cfg and generates its holes.
func (a *App) Layout(cfg config.Config) ([]layout.HolePosition, error) {
	if err := cfg.ValidateGeometry(); err != nil {
		return nil, err
	}
	spec := cfg.Spec()
	holes, err := layout.Generate(spec)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("generated layout",
		"padded_radius", spec.PaddedRadius(),
		"pitch", spec.Pitch,
		"max_step", spec.MaxStep(),
		"coverage", spec.Coverage,
		"holes", len(holes))
	return holes, nil
}

// RunOptions adjusts a pipeline run.
type RunOptions struct {
	// SkipMacro leaves the macro file alone; output references then need
	// not be configured.
	SkipMacro bool
}

// Result is the outcome of one pipeline run.
type Result struct {
	Holes   []layout.HolePosition
	Summary layout.Summary
	Written []string // files written, in order
}

// Run generates the layout for cfg and writes every configured output:
// the stitched macro file, the CSV dump, and the DXF/SVG drawings.
func (a *App) Run(ctx context.Context, cfg config.Config, opts RunOptions) (*Result, error) {
	validate := cfg.Validate
	if opts.SkipMacro {
		validate = cfg.ValidateGeometry
	}
	if err := validate(); err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	holes, err := a.Layout(cfg)
	if err != nil {
		return nil, err
	}
	res := &Result{Holes: holes, Summary: layout.Summarize(holes)}
	prog.done("generated layout", "holes", len(holes), "coverage", cfg.Quadrants)

	style, err := macro.ParseStyle(cfg.Style)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		path  string
		skip  bool
		write func(string) error
	}{
		{cfg.TargetFile, opts.SkipMacro, func(p string) error {
			return macro.WriteFile(p, cfg.FirstPart, cfg.SecondPart, holes, style)
		}},
		{cfg.DumpFile, false, func(p string) error {
			return macro.WriteDumpFile(p, holes)
		}},
		{cfg.DXFFile, false, func(p string) error {
			return a.writeDrawing(cfg, holes, profile.FormatDXF, p)
		}},
		{cfg.SVGFile, false, func(p string) error {
			return a.writeDrawing(cfg, holes, profile.FormatSVG, p)
		}},
	}

	for _, s := range steps {
		if s.skip || s.path == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		prog := newProgress(logger)
		if err := s.write(s.path); err != nil {
			return res, err
		}
		res.Written = append(res.Written, s.path)
		prog.done("wrote", "path", s.path)
	}
	return res, nil
}

// writeDrawing builds the drilled plate outline and exports it.
func (a *App) writeDrawing(cfg config.Config, holes []layout.HolePosition, format profile.Format, path string) error {
	g := cfg.Geometry()
	p, err := profile.Build(a.kernel, profile.Plate{Radius: g.PlateRadius, HoleRadius: g.HoleRadius}, holes)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return profile.Export(a.kernel, p, format, path)
}

// exitCode maps a pipeline error to a process exit status.
func exitCode(err error) int {
	var verrs config.ValidationErrors
	var rerr *RecipeError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130 // Standard shell convention for SIGINT
	case errors.As(err, &verrs), errors.As(err, &rerr), errors.Is(err, layout.ErrInvalidSpec):
		return 2
	default:
		return 1
	}
}
