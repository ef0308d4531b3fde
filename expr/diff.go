package expr

import "fmt"

// Diff returns the derivative of e with respect to the symbol named v.
// Vectors are differentiated elementwise and equations through their
// residual. Diff fails on unresolved Call nodes.
func Diff(e Expr, v string) (Expr, error) {
	var err error
	d, cerr := Catch(func() Expr {
		var r Expr
		r, err = diff(e, v)
		return r
	})
	if cerr != nil {
		return nil, cerr
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DiffN returns the n-th derivative of e with respect to v.
func DiffN(e Expr, v string, n int) (Expr, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative derivative order %d", n)
	}
	var err error
	for i := 0; i < n; i++ {
		e, err = Diff(e, v)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func diff(e Expr, v string) (Expr, error) {
	switch e := e.(type) {
	case *Num, *Const:
		return Int(0), nil
	case *Sym:
		if e.name == v {
			return Int(1), nil
		}
		return Int(0), nil
	case *Add:
		terms := make([]Expr, len(e.terms))
		for i, t := range e.terms {
			d, err := diff(t, v)
			if err != nil {
				return nil, err
			}
			terms[i] = d
		}
		return NewAdd(terms...), nil
	case *Mul:
		terms := make([]Expr, 0, len(e.factors))
		for i, f := range e.factors {
			d, err := diff(f, v)
			if err != nil {
				return nil, err
			}
			if isZero(d) {
				continue
			}
			prod := make([]Expr, 0, len(e.factors))
			prod = append(prod, e.factors[:i]...)
			prod = append(prod, d)
			prod = append(prod, e.factors[i+1:]...)
			terms = append(terms, NewMul(prod...))
		}
		return NewAdd(terms...), nil
	case *Pow:
		db, err := diff(e.base, v)
		if err != nil {
			return nil, err
		}
		de, err := diff(e.exp, v)
		if err != nil {
			return nil, err
		}
		if isZero(de) {
			// d(b^n) = n*b^(n-1)*b'
			return NewMul(e.exp, NewPow(e.base, Sub(e.exp, Int(1))), db), nil
		}
		// d(b^e) = b^e*(e'*log(b) + e*b'/b)
		return NewMul(e, NewAdd(
			NewMul(de, NewFunc("log", e.base)),
			NewMul(e.exp, db, NewPow(e.base, Int(-1))),
		)), nil
	case *Func:
		du, err := diff(e.arg, v)
		if err != nil {
			return nil, err
		}
		if isZero(du) {
			return Int(0), nil
		}
		return NewMul(derivative(e.name, e.arg), du), nil
	case *Vec:
		elems := make([]Expr, len(e.elems))
		for i, el := range e.elems {
			d, err := diff(el, v)
			if err != nil {
				return nil, err
			}
			elems[i] = d
		}
		return NewVec(elems...), nil
	case *Eq:
		return diff(e.Residual(), v)
	case *Call:
		return nil, fmt.Errorf("cannot differentiate unresolved %s", e.name)
	}
	return nil, fmt.Errorf("cannot differentiate %T", e)
}

// derivative returns f'(u) for the builtin named f.
func derivative(name string, u Expr) Expr {
	switch name {
	case "sin":
		return NewFunc("cos", u)
	case "cos":
		return Neg(NewFunc("sin", u))
	case "tan":
		return NewPow(NewFunc("cos", u), Int(-2))
	case "cot":
		return Neg(NewPow(NewFunc("sin", u), Int(-2)))
	case "sec":
		return NewMul(NewFunc("sin", u), NewPow(NewFunc("cos", u), Int(-2)))
	case "csc":
		return Neg(NewMul(NewFunc("cos", u), NewPow(NewFunc("sin", u), Int(-2))))
	case "asin":
		return NewPow(Sub(Int(1), NewPow(u, Int(2))), Rat(-1, 2))
	case "acos":
		return Neg(NewPow(Sub(Int(1), NewPow(u, Int(2))), Rat(-1, 2)))
	case "atan":
		return NewPow(NewAdd(Int(1), NewPow(u, Int(2))), Int(-1))
	case "sinh":
		return NewFunc("cosh", u)
	case "cosh":
		return NewFunc("sinh", u)
	case "tanh":
		return Sub(Int(1), NewPow(NewFunc("tanh", u), Int(2)))
	case "exp":
		return NewFunc("exp", u)
	case "log":
		return NewPow(u, Int(-1))
	case "abs":
		return NewFunc("sign", u)
	}
	// sign, floor and ceiling are piecewise constant.
	return Int(0)
}
