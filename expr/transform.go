package expr

import (
	"fmt"
	"sort"
)

// maxExpandTerms bounds the number of terms Expand produces for a single
// product. Larger products are left factored.
const maxExpandTerms = 4096

// Map rebuilds e bottom-up through the canonicalizing constructors, applying
// f to every rebuilt node. f must not return nil.
func Map(e Expr, f func(Expr) Expr) Expr {
	switch n := e.(type) {
	case *Add:
		terms := make([]Expr, len(n.terms))
		for i, t := range n.terms {
			terms[i] = Map(t, f)
		}
		return f(NewAdd(terms...))
	case *Mul:
		fs := make([]Expr, len(n.factors))
		for i, t := range n.factors {
			fs[i] = Map(t, f)
		}
		return f(NewMul(fs...))
	case *Pow:
		return f(NewPow(Map(n.base, f), Map(n.exp, f)))
	case *Func:
		return f(NewFunc(n.name, Map(n.arg, f)))
	case *Vec:
		elems := make([]Expr, len(n.elems))
		for i, t := range n.elems {
			elems[i] = Map(t, f)
		}
		return f(NewVec(elems...))
	case *Eq:
		return f(NewEq(Map(n.lhs, f), Map(n.rhs, f)))
	case *Call:
		args := make([]Expr, len(n.args))
		for i, t := range n.args {
			args[i] = Map(t, f)
		}
		return f(NewCall(n.name, args...))
	}
	return f(e)
}

// Walk calls fn for e and every descendant in depth-first pre-order.
func Walk(e Expr, fn func(Expr)) {
	fn(e)
	switch n := e.(type) {
	case *Add:
		for _, t := range n.terms {
			Walk(t, fn)
		}
	case *Mul:
		for _, t := range n.factors {
			Walk(t, fn)
		}
	case *Pow:
		Walk(n.base, fn)
		Walk(n.exp, fn)
	case *Func:
		Walk(n.arg, fn)
	case *Vec:
		for _, t := range n.elems {
			Walk(t, fn)
		}
	case *Eq:
		Walk(n.lhs, fn)
		Walk(n.rhs, fn)
	case *Call:
		for _, t := range n.args {
			Walk(t, fn)
		}
	}
}

// FreeSymbols returns the sorted names of the symbols in e.
func FreeSymbols(e Expr) []string {
	seen := make(map[string]bool)
	Walk(e, func(n Expr) {
		if s, ok := n.(*Sym); ok {
			seen[s.name] = true
		}
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasCall reports whether e contains an unresolved Call.
func HasCall(e Expr) bool {
	found := false
	Walk(e, func(n Expr) {
		if _, ok := n.(*Call); ok {
			found = true
		}
	})
	return found
}

// Undefined reports whether e contains zoo or nan.
func Undefined(e Expr) bool {
	found := false
	Walk(e, func(n Expr) {
		if undefined(n) {
			found = true
		}
	})
	return found
}

// Subs returns e with every symbol named in vals replaced by its value.
// Shape errors raised by the substitution are returned.
func Subs(e Expr, vals map[string]Expr) (Expr, error) {
	return Catch(func() Expr {
		return Map(e, func(n Expr) Expr {
			if s, ok := n.(*Sym); ok {
				if v, ok := vals[s.name]; ok {
					return v
				}
			}
			return n
		})
	})
}

// Expand distributes products over sums and expands positive integer powers
// of sums.
func Expand(e Expr) Expr {
	return Map(e, expandNode)
}

func expandNode(e Expr) Expr {
	switch n := e.(type) {
	case *Mul:
		return distribute(n.factors)
	case *Pow:
		add, ok := n.base.(*Add)
		k, ok2 := n.exp.(*Num)
		if !ok || !ok2 || !k.r.IsInt() || k.r.Sign() <= 0 || !k.r.Num().IsInt64() {
			return e
		}
		times := k.r.Num().Int64()
		if times > 16 {
			return e
		}
		factors := make([]Expr, times)
		for i := range factors {
			factors[i] = add
		}
		return distribute(factors)
	}
	return e
}

func distribute(factors []Expr) Expr {
	terms := []Expr{Int(1)}
	for _, f := range factors {
		add, ok := f.(*Add)
		if !ok {
			for i := range terms {
				terms[i] = NewMul(terms[i], f)
			}
			continue
		}
		if len(terms)*len(add.terms) > maxExpandTerms {
			return NewMul(factors...)
		}
		next := make([]Expr, 0, len(terms)*len(add.terms))
		for _, t := range terms {
			for _, a := range add.terms {
				next = append(next, NewMul(t, a))
			}
		}
		terms = next
	}
	return NewAdd(terms...)
}

// Canonical returns the expanded canonical string of e used for equality
// and hashing. Equations are canonicalized through their residual.
func Canonical(e Expr) string {
	if eq, ok := e.(*Eq); ok {
		e = eq.Residual()
	}
	c, err := Catch(func() Expr { return Expand(e) })
	if err != nil {
		return e.String()
	}
	return c.String()
}

// Format returns the parseable text of e.
func Format(e Expr) string { return e.String() }

// Value evaluates a closed scalar expression in float64 arithmetic.
func Value(e Expr) (float64, error) {
	switch n := e.(type) {
	case *Num:
		return n.Float64(), nil
	case *Const:
		return ConstValue(n), nil
	}
	if syms := FreeSymbols(e); len(syms) > 0 {
		return 0, fmt.Errorf("expression has free symbols %v", syms)
	}
	return eval(e, nil)
}

// Eval evaluates a scalar expression with symbol values taken from env.
func Eval(e Expr, env map[string]float64) (float64, error) {
	return eval(e, env)
}
