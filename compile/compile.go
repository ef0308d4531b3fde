// Package compile turns classified formulas into sanitized numeric
// evaluators. Coefficients are substituted first, then the expression tree
// is converted into a tree of closures evaluated in batches.
package compile

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/soypat/surfplot"
	"github.com/soypat/surfplot/classify"
	"github.com/soypat/surfplot/expr"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrMissingCoefficient is wrapped by MissingCoefficientError.
	ErrMissingCoefficient = errors.New("missing coefficient")
	// ErrUndefined is returned when substitution yields an undefined value
	// such as a division by zero.
	ErrUndefined = errors.New("expression is undefined")
	// ErrKind is returned for kinds that have no evaluator.
	ErrKind = errors.New("kind has no evaluator")
)

// MissingCoefficientError lists the coefficients a formula references that
// have no value.
type MissingCoefficientError struct {
	Names []string
}

func (e *MissingCoefficientError) Error() string {
	return "missing coefficient " + strings.Join(e.Names, ", ")
}

func (e *MissingCoefficientError) Unwrap() error { return ErrMissingCoefficient }

// Options configures compilation.
type Options struct {
	// Logger receives evaluation failures. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Program is a compiled formula. Exactly one evaluator is set, selected by
// Kind.
type Program struct {
	Kind    classify.Kind
	Field   *Field
	Curve   *Curve
	Surface *Surface
	Point   r3.Vec
}

// Compile substitutes coeffs into r and builds the evaluator for its kind.
func Compile(r classify.Result, coeffs map[string]float64, opts Options) (Program, error) {
	e, err := Substitute(r.Expr, r.Coefficients, coeffs)
	if err != nil {
		return Program{}, err
	}
	prog := Program{Kind: r.Kind}
	switch r.Kind {
	case classify.Implicit:
		prog.Field, err = newField(e, opts)
	case classify.ParametricCurve:
		prog.Curve, err = newCurve(e, opts)
	case classify.ParametricSurface:
		prog.Surface, err = newSurface(e, opts)
	case classify.Point:
		prog.Point, err = point(e)
	case classify.Degenerate, classify.Illegal:
		err = fmt.Errorf("%w: %s", ErrKind, r.Kind)
	default:
		panic("unreachable kind " + r.Kind.String())
	}
	if err != nil {
		return Program{}, err
	}
	return prog, nil
}

// Substitute replaces every coefficient in names with its value. All names
// must have a value.
func Substitute(e expr.Expr, names []string, coeffs map[string]float64) (expr.Expr, error) {
	vals := make(map[string]expr.Expr, len(names))
	var missing []string
	for _, name := range names {
		v, ok := coeffs[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		vals[name] = expr.Float(v)
	}
	if len(missing) > 0 {
		return nil, &MissingCoefficientError{Names: missing}
	}
	out, err := expr.Subs(e, vals)
	if err != nil {
		return nil, err
	}
	if expr.Undefined(out) {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, out)
	}
	return out, nil
}

// sanitizer replaces non-finite outputs with NaN and converts evaluation
// panics into NaN batches, logging the first one.
type sanitizer struct {
	source string
	log    *slog.Logger
	once   sync.Once
}

func (s *sanitizer) report(a any) {
	s.once.Do(func() {
		s.log.Error("evaluation failed", slog.String("expr", s.source),
			slog.Any("panic", a), slog.String("stack", string(debug.Stack())))
	})
}

func clean(f float64) float64 {
	if math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

var nanVec = r3.Vec{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

func cleanVec(v r3.Vec) r3.Vec {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) ||
		math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0) {
		return nanVec
	}
	return v
}

// Field evaluates an implicit formula f(x,y,z).
type Field struct {
	san sanitizer
	fn  scalarFunc
}

var _ surfplot.Field3 = (*Field)(nil)

func newField(e expr.Expr, opts Options) (*Field, error) {
	fn, err := lambdify(e, map[string]int{"x": 0, "y": 1, "z": 2})
	if err != nil {
		return nil, err
	}
	return &Field{san: sanitizer{source: e.String(), log: opts.logger()}, fn: fn}, nil
}

// Evaluate writes f(pos[i]) to dst[i]. Non-finite results are NaN.
func (f *Field) Evaluate(pos []r3.Vec, dst []float64) error {
	if len(dst) < len(pos) {
		return surfplot.ErrShortBuffer
	}
	defer func() {
		if a := recover(); a != nil {
			f.san.report(a)
			for i := range pos {
				dst[i] = math.NaN()
			}
		}
	}()
	var env [3]float64
	for i, p := range pos {
		env[0], env[1], env[2] = p.X, p.Y, p.Z
		dst[i] = clean(f.fn(env[:]))
	}
	return nil
}

type vecFunc [3]scalarFunc

func lambdifyVec(e expr.Expr, slots map[string]int) (vecFunc, error) {
	v, ok := e.(*expr.Vec)
	if !ok || v.Len() != 3 {
		return vecFunc{}, fmt.Errorf("want 3-vector, got %s", e)
	}
	var out vecFunc
	for i := range out {
		f, err := lambdify(v.At(i), slots)
		if err != nil {
			return vecFunc{}, err
		}
		out[i] = f
	}
	return out, nil
}

func (v vecFunc) eval(env []float64) r3.Vec {
	return cleanVec(r3.Vec{X: v[0](env), Y: v[1](env), Z: v[2](env)})
}

// Curve evaluates a parametric curve r(t).
type Curve struct {
	san sanitizer
	fn  vecFunc
}

var _ surfplot.Curve3 = (*Curve)(nil)

func newCurve(e expr.Expr, opts Options) (*Curve, error) {
	fn, err := lambdifyVec(e, map[string]int{"t": 0})
	if err != nil {
		return nil, err
	}
	return &Curve{san: sanitizer{source: e.String(), log: opts.logger()}, fn: fn}, nil
}

// Evaluate writes r(t[i]) to dst[i]. Samples with a non-finite component
// are NaN in every component.
func (c *Curve) Evaluate(t []float64, dst []r3.Vec) error {
	if len(dst) < len(t) {
		return surfplot.ErrShortBuffer
	}
	defer func() {
		if a := recover(); a != nil {
			c.san.report(a)
			for i := range t {
				dst[i] = nanVec
			}
		}
	}()
	var env [1]float64
	for i, ti := range t {
		env[0] = ti
		dst[i] = c.fn.eval(env[:])
	}
	return nil
}

// Surface evaluates a parametric surface r(u,v).
type Surface struct {
	san sanitizer
	fn  vecFunc
}

var _ surfplot.Surface3 = (*Surface)(nil)

func newSurface(e expr.Expr, opts Options) (*Surface, error) {
	fn, err := lambdifyVec(e, map[string]int{"u": 0, "v": 1})
	if err != nil {
		return nil, err
	}
	return &Surface{san: sanitizer{source: e.String(), log: opts.logger()}, fn: fn}, nil
}

// Evaluate writes r(uv[i].X, uv[i].Y) to dst[i]. Samples with a non-finite
// component are NaN in every component.
func (s *Surface) Evaluate(uv []r2.Vec, dst []r3.Vec) error {
	if len(dst) < len(uv) {
		return surfplot.ErrShortBuffer
	}
	defer func() {
		if a := recover(); a != nil {
			s.san.report(a)
			for i := range uv {
				dst[i] = nanVec
			}
		}
	}()
	var env [2]float64
	for i, p := range uv {
		env[0], env[1] = p.X, p.Y
		dst[i] = s.fn.eval(env[:])
	}
	return nil
}

func point(e expr.Expr) (r3.Vec, error) {
	fn, err := lambdifyVec(e, nil)
	if err != nil {
		return r3.Vec{}, err
	}
	p := fn.eval(nil)
	if math.IsNaN(p.X) {
		return r3.Vec{}, fmt.Errorf("%w: point %s is not finite", ErrUndefined, e)
	}
	return p, nil
}
