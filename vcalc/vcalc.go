// Package vcalc resolves the vector-calculus operators a formula may call
// (curvature, torsion, tangent, normal, binormal and diff) by symbolic
// differentiation, replacing each call with its closed-form result.
package vcalc

import (
	"errors"
	"fmt"

	"github.com/soypat/surfplot/expr"
)

// Names lists the operators Rewrite resolves.
var Names = []string{"curvature", "torsion", "tangent", "normal", "binormal", "diff"}

// ErrOperator is returned (wrapped) for malformed operator calls.
var ErrOperator = errors.New("bad operator call")

// Rewrite walks e bottom-up and replaces every Call of a known operator with
// its symbolic value. Calls nested in arguments are resolved first.
func Rewrite(e expr.Expr) (expr.Expr, error) {
	var err error
	out, cerr := expr.Catch(func() expr.Expr {
		return expr.Map(e, func(n expr.Expr) expr.Expr {
			c, ok := n.(*expr.Call)
			if !ok || err != nil {
				return n
			}
			var r expr.Expr
			r, err = apply(c)
			if err != nil {
				return n
			}
			return r
		})
	})
	if cerr != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperator, cerr)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func apply(c *expr.Call) (expr.Expr, error) {
	args := c.Args()
	if c.Name() == "diff" {
		return applyDiff(args)
	}
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("%w: %s takes a curve and an optional parameter", ErrOperator, c.Name())
	}
	r, ok := args[0].(*expr.Vec)
	if !ok || r.Len() != 3 {
		return nil, fmt.Errorf("%w: %s requires a 3-vector, got %s", ErrOperator, c.Name(), args[0])
	}
	s := "t"
	if len(args) == 2 {
		sym, ok := args[1].(*expr.Sym)
		if !ok {
			return nil, fmt.Errorf("%w: %s parameter must be a symbol", ErrOperator, c.Name())
		}
		s = sym.Name()
	}
	switch c.Name() {
	case "tangent":
		return Tangent(r, s)
	case "normal":
		return Normal(r, s)
	case "binormal":
		return Binormal(r, s)
	case "curvature":
		return Curvature(r, s)
	case "torsion":
		return Torsion(r, s)
	}
	return nil, fmt.Errorf("%w: unknown operator %q", ErrOperator, c.Name())
}

func applyDiff(args []expr.Expr) (expr.Expr, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("%w: diff takes an expression, a symbol and an optional order", ErrOperator)
	}
	sym, ok := args[1].(*expr.Sym)
	if !ok {
		return nil, fmt.Errorf("%w: diff variable must be a symbol", ErrOperator)
	}
	n := 1
	if len(args) == 3 {
		k, ok := args[2].(*expr.Num)
		if !ok || !k.IsInt() || k.Float64() < 0 {
			return nil, fmt.Errorf("%w: diff order must be a non-negative integer", ErrOperator)
		}
		n = int(k.Float64())
	}
	return expr.DiffN(args[0], sym.Name(), n)
}

// derivs returns the first n derivatives of r with respect to s.
func derivs(r *expr.Vec, s string, n int) ([]expr.Expr, error) {
	out := make([]expr.Expr, n)
	var prev expr.Expr = r
	for i := range out {
		d, err := expr.Diff(prev, s)
		if err != nil {
			return nil, err
		}
		out[i] = d
		prev = d
	}
	return out, nil
}

// Tangent returns the unit tangent r′/|r′|.
func Tangent(r *expr.Vec, s string) (expr.Expr, error) {
	d, err := derivs(r, s, 1)
	if err != nil {
		return nil, err
	}
	return unit(d[0])
}

// Binormal returns the unit binormal (r′×r″)/|r′×r″|.
func Binormal(r *expr.Vec, s string) (expr.Expr, error) {
	d, err := derivs(r, s, 2)
	if err != nil {
		return nil, err
	}
	return expr.Catch(func() expr.Expr {
		c := expr.Cross(d[0], d[1])
		return expr.NewMul(c, expr.NewPow(expr.Norm(c), expr.Int(-1)))
	})
}

// Normal returns the principal normal B×T.
func Normal(r *expr.Vec, s string) (expr.Expr, error) {
	b, err := Binormal(r, s)
	if err != nil {
		return nil, err
	}
	t, err := Tangent(r, s)
	if err != nil {
		return nil, err
	}
	return expr.Catch(func() expr.Expr { return expr.Cross(b, t) })
}

// Curvature returns |r′×r″|/|r′|³.
func Curvature(r *expr.Vec, s string) (expr.Expr, error) {
	d, err := derivs(r, s, 2)
	if err != nil {
		return nil, err
	}
	return expr.Catch(func() expr.Expr {
		c := expr.Cross(d[0], d[1])
		return expr.NewMul(expr.Norm(c), expr.NewPow(expr.Norm(d[0]), expr.Int(-3)))
	})
}

// Torsion returns ((r′×r″)·r‴)/|r′×r″|².
func Torsion(r *expr.Vec, s string) (expr.Expr, error) {
	d, err := derivs(r, s, 3)
	if err != nil {
		return nil, err
	}
	return expr.Catch(func() expr.Expr {
		c := expr.Cross(d[0], d[1])
		return expr.NewMul(expr.Dot(c, d[2]), expr.NewPow(expr.Dot(c, c), expr.Int(-1)))
	})
}

func unit(v expr.Expr) (expr.Expr, error) {
	return expr.Catch(func() expr.Expr {
		return expr.NewMul(v, expr.NewPow(expr.Norm(v), expr.Int(-1)))
	})
}
