package expr

import (
	"math/big"
	"sort"
)

// maxIntPow bounds exact integer powers of rationals.
const maxIntPow = 256

// NewAdd returns the canonical sum of terms. Nested sums are flattened,
// numbers are folded, like terms are collected and sin(a)^2 + cos(a)^2
// pairs collapse to 1. Vector terms are added elementwise.
func NewAdd(terms ...Expr) Expr {
	var flat []Expr
	var vecs []*Vec
	for _, t := range terms {
		switch t := t.(type) {
		case *Add:
			flat = append(flat, t.terms...)
		case *Vec:
			vecs = append(vecs, t)
		default:
			if undefined(t) {
				return t
			}
			flat = append(flat, t)
		}
	}
	if len(vecs) > 0 {
		if len(flat) > 0 {
			throwShape("cannot add scalar and %d-vector", vecs[0].Len())
		}
		return addVecs(vecs)
	}

	type group struct {
		coeff *big.Rat
		rest  Expr
	}
	sum := new(big.Rat)
	groups := make(map[string]*group)
	var keys []string
	for _, t := range flat {
		c, rest := splitCoeff(t)
		if rest == nil {
			sum.Add(sum, c)
			continue
		}
		k := rest.String()
		g, ok := groups[k]
		if !ok {
			g = &group{coeff: new(big.Rat), rest: rest}
			groups[k] = g
			keys = append(keys, k)
		}
		g.coeff.Add(g.coeff, c)
	}
	// Pythagorean identity: cs*sin(a)^2 + cc*cos(a)^2 = cc + (cs-cc)*sin(a)^2.
	for _, k := range keys {
		gs := groups[k]
		arg, ok := squaredTrig(gs.rest, "sin")
		if !ok || gs.coeff.Sign() == 0 {
			continue
		}
		gc, ok := groups[NewPow(NewFunc("cos", arg), Int(2)).String()]
		if !ok || gc.coeff.Sign() == 0 {
			continue
		}
		sum.Add(sum, gc.coeff)
		gs.coeff.Sub(gs.coeff, gc.coeff)
		gc.coeff.SetInt64(0)
	}
	sort.Strings(keys)
	out := make([]Expr, 0, len(keys)+1)
	for _, k := range keys {
		g := groups[k]
		if g.coeff.Sign() == 0 {
			continue
		}
		out = append(out, scaleTerm(g.coeff, g.rest))
	}
	if sum.Sign() != 0 {
		out = append(out, &Num{r: sum})
	}
	switch len(out) {
	case 0:
		return Int(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

func addVecs(vecs []*Vec) Expr {
	n := vecs[0].Len()
	for _, v := range vecs[1:] {
		if v.Len() != n {
			throwShape("cannot add %d-vector and %d-vector", n, v.Len())
		}
	}
	elems := make([]Expr, n)
	for i := range elems {
		terms := make([]Expr, len(vecs))
		for j, v := range vecs {
			terms[j] = v.elems[i]
		}
		elems[i] = NewAdd(terms...)
	}
	return &Vec{elems: elems}
}

func squaredTrig(e Expr, name string) (arg Expr, ok bool) {
	p, ok := e.(*Pow)
	if !ok {
		return nil, false
	}
	n, ok := p.exp.(*Num)
	if !ok || n.r.Cmp(big.NewRat(2, 1)) != 0 {
		return nil, false
	}
	f, ok := p.base.(*Func)
	if !ok || f.name != name {
		return nil, false
	}
	return f.arg, true
}

// splitCoeff separates the numeric coefficient of a term. rest is nil for
// pure numbers.
func splitCoeff(t Expr) (*big.Rat, Expr) {
	switch t := t.(type) {
	case *Num:
		return t.r, nil
	case *Mul:
		if n, ok := t.factors[0].(*Num); ok {
			if len(t.factors) == 2 {
				return n.r, t.factors[1]
			}
			return n.r, &Mul{factors: t.factors[1:]}
		}
	}
	return big.NewRat(1, 1), t
}

func scaleTerm(c *big.Rat, rest Expr) Expr {
	if c.Cmp(big.NewRat(1, 1)) == 0 {
		return rest
	}
	coeff := &Num{r: new(big.Rat).Set(c)}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{coeff}, m.factors...)}
	}
	return &Mul{factors: []Expr{coeff, rest}}
}

// NewMul returns the canonical product of factors. Nested products are
// flattened, numbers are folded and powers of a common base are combined.
// At most one factor may be a vector, which is then scaled elementwise.
func NewMul(factors ...Expr) Expr {
	coeff := big.NewRat(1, 1)
	var vec *Vec
	var scalars []Expr
	type group struct {
		base Expr
		exps []Expr
	}
	groups := make(map[string]*group)
	var keys []string
	var queue []Expr
	queue = append(queue, factors...)
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		switch f := f.(type) {
		case *Mul:
			queue = append(queue, f.factors...)
			continue
		case *Num:
			coeff.Mul(coeff, f.r)
			continue
		case *Vec:
			if vec != nil {
				throwShape("cannot multiply two vectors, use dot or cross")
			}
			vec = f
			continue
		}
		if undefined(f) {
			return f
		}
		scalars = append(scalars, f)
		base, exp := f, Expr(Int(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		k := base.String()
		g, ok := groups[k]
		if !ok {
			g = &group{base: base}
			groups[k] = g
			keys = append(keys, k)
		}
		g.exps = append(g.exps, exp)
	}
	if vec != nil {
		scale := NewMul(append(scalars, &Num{r: coeff})...)
		elems := make([]Expr, vec.Len())
		for i, e := range vec.elems {
			elems[i] = NewMul(scale, e)
		}
		return &Vec{elems: elems}
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}

	var out []Expr
	reprocess := false
	for _, k := range keys {
		g := groups[k]
		var p Expr
		if len(g.exps) == 1 {
			p = NewPow(g.base, g.exps[0])
		} else {
			p = NewPow(g.base, NewAdd(g.exps...))
		}
		switch pp := p.(type) {
		case *Num:
			if pp.r.Sign() == 0 {
				return Int(0)
			}
			coeff.Mul(coeff, pp.r)
			continue
		case *Mul:
			reprocess = true
		}
		if undefined(p) {
			return p
		}
		out = append(out, p)
	}
	if reprocess {
		return NewMul(append(out, &Num{r: coeff})...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	if coeff.Cmp(big.NewRat(1, 1)) != 0 {
		out = append([]Expr{&Num{r: coeff}}, out...)
	}
	switch len(out) {
	case 0:
		return &Num{r: coeff}
	case 1:
		return out[0]
	}
	return &Mul{factors: out}
}

// NewPow returns the canonical power base^exp.
func NewPow(base, exp Expr) Expr {
	if _, ok := base.(*Vec); ok {
		throwShape("cannot raise a vector to a power")
	}
	if _, ok := exp.(*Vec); ok {
		throwShape("vector exponent")
	}
	switch {
	case undefined(base):
		return base
	case undefined(exp):
		return exp
	case isZero(exp):
		return Int(1)
	case isOne(exp):
		return base
	case isOne(base):
		return Int(1)
	}
	en, expNum := exp.(*Num)
	switch b := base.(type) {
	case *Num:
		if expNum {
			return powNum(b.r, en.r)
		}
	case *Pow:
		if expNum && en.r.IsInt() {
			return NewPow(b.base, NewMul(b.exp, exp))
		}
	case *Mul:
		if expNum && en.r.IsInt() {
			fs := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				fs[i] = NewPow(f, exp)
			}
			return NewMul(fs...)
		}
	case *Func:
		if b.name == "exp" {
			return NewFunc("exp", NewMul(b.arg, exp))
		}
	case *Const:
		if b == E {
			return NewFunc("exp", exp)
		}
	}
	return &Pow{base: base, exp: exp}
}

func powNum(b, e *big.Rat) Expr {
	if b.Sign() == 0 {
		if e.Sign() < 0 {
			return Zoo
		}
		return Int(0)
	}
	if e.IsInt() {
		n := e.Num()
		if !n.IsInt64() || n.Int64() > maxIntPow || n.Int64() < -maxIntPow {
			return &Pow{base: &Num{r: b}, exp: &Num{r: e}}
		}
		k := n.Int64()
		neg := k < 0
		if neg {
			k = -k
		}
		kk := big.NewInt(k)
		num := new(big.Int).Exp(b.Num(), kk, nil)
		den := new(big.Int).Exp(b.Denom(), kk, nil)
		r := new(big.Rat).SetFrac(num, den)
		if neg {
			r.Inv(r)
		}
		return &Num{r: r}
	}
	if b.Sign() > 0 && e.Denom().Cmp(big.NewInt(2)) == 0 {
		sn := new(big.Int).Sqrt(b.Num())
		sd := new(big.Int).Sqrt(b.Denom())
		if new(big.Int).Mul(sn, sn).Cmp(b.Num()) == 0 && new(big.Int).Mul(sd, sd).Cmp(b.Denom()) == 0 {
			root := new(big.Rat).SetFrac(sn, sd)
			return powNum(root, new(big.Rat).SetInt(e.Num()))
		}
	}
	return &Pow{base: &Num{r: b}, exp: &Num{r: e}}
}

// NewFunc returns the canonical application of the named unary function.
// Exactly known values such as sin(0) and log(1) are folded.
func NewFunc(name string, arg Expr) Expr {
	if _, ok := arg.(*Vec); ok {
		throwShape("%s of a vector", name)
	}
	if undefined(arg) {
		return arg
	}
	n, isNum := arg.(*Num)
	inner, isFunc := arg.(*Func)
	switch name {
	case "sqrt":
		return Sqrt(arg)
	case "ln":
		name = "log"
	case "ceil":
		name = "ceiling"
	}
	switch name {
	case "sin", "tan", "asin", "atan", "sinh", "tanh":
		if isZero(arg) {
			return Int(0)
		}
		if arg == Pi && (name == "sin" || name == "tan") {
			return Int(0)
		}
	case "cos", "cosh":
		if isZero(arg) {
			return Int(1)
		}
		if arg == Pi && name == "cos" {
			return Int(-1)
		}
	case "acos":
		if isOne(arg) {
			return Int(0)
		}
	case "exp":
		if isZero(arg) {
			return Int(1)
		}
		if isFunc && inner.name == "log" {
			return inner.arg
		}
	case "log":
		switch {
		case isOne(arg):
			return Int(0)
		case isZero(arg):
			return Zoo
		case arg == E:
			return Int(1)
		case isFunc && inner.name == "exp":
			return inner.arg
		}
	case "abs":
		if isNum {
			return &Num{r: new(big.Rat).Abs(n.r)}
		}
		if isFunc && inner.name == "abs" {
			return inner
		}
	case "sign":
		if isNum {
			return Int(int64(n.r.Sign()))
		}
	case "floor", "ceiling":
		if isNum {
			q := new(big.Int)
			m := new(big.Int)
			q.DivMod(n.r.Num(), n.r.Denom(), m) // Euclidean: floor for positive denominators.
			if name == "ceiling" && m.Sign() != 0 {
				q.Add(q, big.NewInt(1))
			}
			return &Num{r: new(big.Rat).SetInt(q)}
		}
	}
	return &Func{name: name, arg: arg}
}
