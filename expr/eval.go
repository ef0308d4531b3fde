package expr

import (
	"fmt"
	"math"
)

func eval(e Expr, env map[string]float64) (float64, error) {
	switch n := e.(type) {
	case *Num:
		return n.Float64(), nil
	case *Const:
		return ConstValue(n), nil
	case *Sym:
		v, ok := env[n.name]
		if !ok {
			return 0, fmt.Errorf("symbol %q has no value", n.name)
		}
		return v, nil
	case *Add:
		sum := 0.0
		for _, t := range n.terms {
			v, err := eval(t, env)
			if err != nil {
				return 0, err
			}
			sum += v
		}
		return sum, nil
	case *Mul:
		prod := 1.0
		for _, f := range n.factors {
			v, err := eval(f, env)
			if err != nil {
				return 0, err
			}
			prod *= v
		}
		return prod, nil
	case *Pow:
		b, err := eval(n.base, env)
		if err != nil {
			return 0, err
		}
		x, err := eval(n.exp, env)
		if err != nil {
			return 0, err
		}
		return math.Pow(b, x), nil
	case *Func:
		fn, ok := MathFunc(n.name)
		if !ok {
			return 0, fmt.Errorf("unknown function %q", n.name)
		}
		a, err := eval(n.arg, env)
		if err != nil {
			return 0, err
		}
		return fn(a), nil
	}
	return 0, fmt.Errorf("cannot evaluate %T as a scalar", e)
}
