package compile

import (
	"fmt"
	"math"

	"github.com/soypat/surfplot/expr"
)

// scalarFunc evaluates a compiled scalar expression. env holds the values of
// the variable slots.
type scalarFunc func(env []float64) float64

// lambdify converts a numeric expression tree into a closure tree over the
// variable slots.
func lambdify(e expr.Expr, slots map[string]int) (scalarFunc, error) {
	switch n := e.(type) {
	case *expr.Num:
		c := n.Float64()
		return func([]float64) float64 { return c }, nil
	case *expr.Const:
		c := expr.ConstValue(n)
		return func([]float64) float64 { return c }, nil
	case *expr.Sym:
		i, ok := slots[n.Name()]
		if !ok {
			return nil, fmt.Errorf("unbound symbol %q", n.Name())
		}
		return func(env []float64) float64 { return env[i] }, nil
	case *expr.Add:
		fs, err := lambdifyAll(n.Terms(), slots)
		if err != nil {
			return nil, err
		}
		if len(fs) == 2 {
			a, b := fs[0], fs[1]
			return func(env []float64) float64 { return a(env) + b(env) }, nil
		}
		return func(env []float64) float64 {
			s := 0.0
			for _, f := range fs {
				s += f(env)
			}
			return s
		}, nil
	case *expr.Mul:
		fs, err := lambdifyAll(n.Factors(), slots)
		if err != nil {
			return nil, err
		}
		if len(fs) == 2 {
			a, b := fs[0], fs[1]
			return func(env []float64) float64 { return a(env) * b(env) }, nil
		}
		return func(env []float64) float64 {
			p := 1.0
			for _, f := range fs {
				p *= f(env)
			}
			return p
		}, nil
	case *expr.Pow:
		return lambdifyPow(n, slots)
	case *expr.Func:
		fn, ok := expr.MathFunc(n.Name())
		if !ok {
			return nil, fmt.Errorf("unknown function %q", n.Name())
		}
		arg, err := lambdify(n.Arg(), slots)
		if err != nil {
			return nil, err
		}
		return func(env []float64) float64 { return fn(arg(env)) }, nil
	}
	return nil, fmt.Errorf("cannot compile %T %s as a scalar", e, e)
}

func lambdifyAll(es []expr.Expr, slots map[string]int) ([]scalarFunc, error) {
	fs := make([]scalarFunc, len(es))
	for i, e := range es {
		f, err := lambdify(e, slots)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

func lambdifyPow(p *expr.Pow, slots map[string]int) (scalarFunc, error) {
	base, err := lambdify(p.Base(), slots)
	if err != nil {
		return nil, err
	}
	if k, ok := p.Exp().(*expr.Num); ok {
		switch k.Float64() {
		case 2:
			return func(env []float64) float64 { b := base(env); return b * b }, nil
		case 3:
			return func(env []float64) float64 { b := base(env); return b * b * b }, nil
		case -1:
			return func(env []float64) float64 { return 1 / base(env) }, nil
		case 0.5:
			return func(env []float64) float64 { return math.Sqrt(base(env)) }, nil
		}
	}
	exp, err := lambdify(p.Exp(), slots)
	if err != nil {
		return nil, err
	}
	return func(env []float64) float64 { return math.Pow(base(env), exp(env)) }, nil
}
