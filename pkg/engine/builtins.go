package engine

import (
	"fmt"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/holeplate/pkg/config"
	"github.com/chazu/holeplate/pkg/layout"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites recipe source before zygomys sees it:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbol registration.
//  2. kebab-case identifiers become snake_case (max-step -> max_step);
//     zygomys reads a hyphen inside an identifier as subtraction.
//  3. ; line comments become // comments.
//
// String literals are left untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch {
		case b[i] == '"':
			j := skipQuoted(b, i, '"', true)
			result = append(result, b[i:j]...)
			i = j
			continue
		case b[i] == '`':
			j := skipQuoted(b, i, '`', false)
			result = append(result, b[i:j]...)
			i = j
			continue
		case b[i] == ';':
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		case b[i] == ':' && i+1 < len(b) && b[i+1] == '=':
			result = append(result, b[i], b[i+1])
			i += 2
			continue
		case b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, kwPrefix...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
			continue
		case b[i] == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

// skipQuoted returns the index just past the literal opened at b[start].
func skipQuoted(b []byte, start int, quote byte, escapes bool) int {
	i := start + 1
	for i < len(b) && b[i] != quote {
		if escapes && b[i] == '\\' && i+1 < len(b) {
			i += 2
			continue
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// only rejects keywords outside allowed.
func (a kwArgs) only(fn string, allowed ...string) error {
	var unknown []string
	for name := range a.kw {
		found := false
		for _, ok := range allowed {
			if name == ok {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, ":"+name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s: unknown keyword(s) %s", fn, strings.Join(unknown, " "))
}

// float sets *dst from keyword name when present.
func (a kwArgs) float(fn, name string, dst *float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, name, err)
	}
	*dst = f
	return nil
}

// str sets *dst from keyword name when present.
func (a kwArgs) str(fn, name string, dst *string) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	s, err := toKeywordString(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, name, err)
	}
	*dst = s
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_typed) and plain strings ("typed").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toQuadrant accepts :two, "two" or 2.
func toQuadrant(s zygo.Sexp) (layout.Quadrant, error) {
	if n, ok := s.(*zygo.SexpInt); ok {
		return layout.ParseQuadrant(fmt.Sprint(n.Val))
	}
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected quadrant (:one .. :four or 1..4): %w", err)
	}
	return layout.ParseQuadrant(name)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the recipe builtins into a zygomys environment.
// Each builtin fills in part of cfg; later calls override earlier ones.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, cfg *config.Config) {

	// (plate :diameter 60 :clearance 3)
	env.AddFunction("plate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("plate", "diameter", "clearance"); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("plate", "diameter", &cfg.PlateDiameter); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("plate", "clearance", &cfg.DistanceFromEdge); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// (holes :diameter 2 :distance 5)
	env.AddFunction("holes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("holes", "diameter", "distance"); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("holes", "diameter", &cfg.HoleDiameter); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("holes", "distance", &cfg.HoleDistance); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// (coverage :three)
	env.AddFunction("coverage", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("coverage requires exactly 1 argument, got %d", len(args))
		}
		q, err := toQuadrant(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("coverage: %w", err)
		}
		cfg.Quadrants = q
		return zygo.SexpNull, nil
	})

	// (files :target "holes.FCMacro" :first "a.FCMacro" :second "b.FCMacro"
	//        :dump "holes.csv" :style :typed :dxf "plate.dxf" :svg "plate.svg")
	env.AddFunction("files", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("files", "target", "first", "second", "dump", "style", "dxf", "svg"); err != nil {
			return zygo.SexpNull, err
		}
		fields := []struct {
			kw  string
			dst *string
		}{
			{"target", &cfg.TargetFile},
			{"first", &cfg.FirstPart},
			{"second", &cfg.SecondPart},
			{"dump", &cfg.DumpFile},
			{"style", &cfg.Style},
			{"dxf", &cfg.DXFFile},
			{"svg", &cfg.SVGFile},
		}
		for _, f := range fields {
			if err := pa.str("files", f.kw, f.dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		return zygo.SexpNull, nil
	})

	// (pitch) returns hole distance + hole diameter as configured so far.
	env.AddFunction("pitch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: cfg.Geometry().Pitch}, nil
	})

	// (max-step) returns the number of whole pitches inside the padded radius.
	env.AddFunction("max_step", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(cfg.WithDefaults().Spec().MaxStep())}, nil
	})
}
