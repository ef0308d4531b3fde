// Package classify parses formula text and decides what kind of geometry it
// describes.
package classify

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/soypat/surfplot/expr"
)

// Kind is the geometric interpretation of a formula.
type Kind uint8

const (
	// Illegal formulas do not parse or have an unsupported shape.
	Illegal Kind = iota
	// Implicit is a scalar f(x,y,z) whose zero set is a surface.
	Implicit
	// ParametricCurve is a 3-vector depending on t only.
	ParametricCurve
	// ParametricSurface is a 3-vector depending on u and v only.
	ParametricSurface
	// Point is a 3-vector depending on none of t, u and v.
	Point
	// Degenerate is a scalar depending on fewer than two of x, y and z.
	Degenerate
)

var kindNames = [...]string{
	Illegal:           "illegal",
	Implicit:          "implicit",
	ParametricCurve:   "curve",
	ParametricSurface: "surface",
	Point:             "point",
	Degenerate:        "degenerate",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid kind %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", b)
}

// Reserved returns the variable names of kind that are not coefficients.
func (k Kind) Reserved() []string {
	switch k {
	case Implicit, Degenerate:
		return []string{"x", "y", "z"}
	case ParametricCurve:
		return []string{"t"}
	case ParametricSurface:
		return []string{"u", "v"}
	case Point, Illegal:
		return nil
	}
	panic("unreachable kind " + k.String())
}

// ErrIllegal is wrapped by every classification failure.
var ErrIllegal = errors.New("illegal expression")

// Result is a classified formula.
type Result struct {
	Kind Kind
	// Expr is the scalar residual for Implicit and Degenerate formulas and a
	// 3-vector for the parametric kinds and Point.
	Expr expr.Expr
	// Coefficients are the sorted free symbols that are not reserved
	// variables of Kind.
	Coefficients []string
}

// Classify parses text and classifies the result. The strict grammar is
// tried first and symbol splitting is only used when it fails. A failure
// returns a Result of kind Illegal and an error wrapping ErrIllegal.
func Classify(text string) (Result, error) {
	e, err := expr.Parse(text)
	if err != nil {
		var err2 error
		e, err2 = expr.Parse(text, expr.SplitSymbols)
		if err2 != nil {
			return Result{Kind: Illegal}, fmt.Errorf("%w: %w", ErrIllegal, err)
		}
	}
	return FromExpr(e)
}

// FromExpr classifies a parsed expression.
func FromExpr(e expr.Expr) (Result, error) {
	if eq, ok := e.(*expr.Eq); ok {
		r, err := expr.Catch(eq.Residual)
		if err != nil {
			return Result{Kind: Illegal}, fmt.Errorf("%w: %w", ErrIllegal, err)
		}
		e = r
	}
	if expr.HasCall(e) {
		return Result{Kind: Illegal}, fmt.Errorf("%w: unresolved operator call in %s", ErrIllegal, e)
	}
	free := expr.FreeSymbols(e)
	has := make(map[string]bool, len(free))
	for _, s := range free {
		has[s] = true
	}
	var kind Kind
	if v, ok := e.(*expr.Vec); ok {
		if v.Len() != 3 {
			return Result{Kind: Illegal}, fmt.Errorf("%w: %d-vector, want 3-vector", ErrIllegal, v.Len())
		}
		switch {
		case has["t"] && !has["u"] && !has["v"]:
			kind = ParametricCurve
		case has["u"] && has["v"] && !has["t"]:
			kind = ParametricSurface
		case !has["t"] && !has["u"] && !has["v"]:
			kind = Point
		default:
			return Result{Kind: Illegal}, fmt.Errorf("%w: vector depends on %v, want t or u and v", ErrIllegal, free)
		}
	} else {
		n := 0
		for _, s := range []string{"x", "y", "z"} {
			if has[s] {
				n++
			}
		}
		kind = Degenerate
		if n >= 2 {
			kind = Implicit
		}
	}
	return Result{Kind: kind, Expr: e, Coefficients: coefficients(free, kind)}, nil
}

func coefficients(free []string, k Kind) []string {
	reserved := k.Reserved()
	out := make([]string, 0, len(free))
outer:
	for _, s := range free {
		for _, r := range reserved {
			if s == r {
				continue outer
			}
		}
		out = append(out, s)
	}
	return out
}

// Info describes a Degenerate result: its numeric value when it has no free
// symbols, otherwise its simplified form.
func (r Result) Info() string {
	if r.Expr == nil {
		return ""
	}
	if v, err := expr.Value(r.Expr); err == nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return expr.Format(r.Expr)
}
