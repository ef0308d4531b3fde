// Package expr implements the immutable symbolic expression trees used to
// represent user formulas. Trees are built through canonicalizing
// constructors (NewAdd, NewMul, NewPow, NewFunc) so that structurally equal
// expressions print identically.
package expr

import (
	"fmt"
	"math/big"
	"strings"
)

// Expr is a node of a symbolic expression tree. Expr values are never
// mutated after construction.
type Expr interface {
	// String returns a representation that Parse accepts.
	String() string
	prec() int
}

// Formatting precedences.
const (
	precEq = iota
	precAdd
	precMul
	precNeg
	precPow
	precAtom
)

// ShapeError is raised by tree constructors when operands have incompatible
// shapes, such as adding a scalar to a vector.
type ShapeError struct {
	msg string
}

func (s *ShapeError) Error() string { return s.msg }

func throwShape(format string, args ...any) {
	panic(&ShapeError{msg: fmt.Sprintf(format, args...)})
}

// Catch runs f and converts ShapeError panics raised by the tree
// constructors into a returned error. Other panics propagate.
func Catch(f func() Expr) (e Expr, err error) {
	defer func() {
		if a := recover(); a != nil {
			se, ok := a.(*ShapeError)
			if !ok {
				panic(a)
			}
			e, err = nil, se
		}
	}()
	return f(), nil
}

// Num is an exact rational number.
type Num struct{ r *big.Rat }

// Int returns the integer n.
func Int(n int64) *Num { return &Num{r: new(big.Rat).SetInt64(n)} }

// Rat returns the rational p/q. q must not be zero.
func Rat(p, q int64) *Num {
	if q == 0 {
		panic("expr: zero denominator")
	}
	return &Num{r: big.NewRat(p, q)}
}

// Float returns the exact rational value of f. Infinities yield Zoo and NaN
// yields NaN.
func Float(f float64) Expr {
	r, ok := new(big.Rat).SetString(fmt.Sprint(f))
	if !ok {
		// SetString rejects Inf/NaN formatting.
		if f != f {
			return NaN
		}
		return Zoo
	}
	return &Num{r: r}
}

// Rat returns a copy of the number's value.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.r) }

// Float64 returns the nearest float64 value.
func (n *Num) Float64() float64 {
	f, _ := n.r.Float64()
	return f
}

// IsInt reports whether n is an integer.
func (n *Num) IsInt() bool { return n.r.IsInt() }

func (n *Num) String() string {
	if n.r.IsInt() {
		return n.r.Num().String()
	}
	return n.r.RatString()
}

func (n *Num) prec() int {
	switch {
	case n.r.Sign() < 0:
		return precNeg
	case !n.r.IsInt():
		return precMul
	}
	return precAtom
}

// Sym is a named free symbol.
type Sym struct{ name string }

// S returns the symbol called name.
func S(name string) *Sym { return &Sym{name: name} }

// Name returns the symbol name.
func (s *Sym) Name() string   { return s.name }
func (s *Sym) String() string { return s.name }
func (s *Sym) prec() int      { return precAtom }

// Const is a named mathematical constant.
type Const struct{ name string }

var (
	// Pi is the ratio of a circle's circumference to its diameter.
	Pi = &Const{name: "pi"}
	// E is Euler's number.
	E = &Const{name: "E"}
	// Zoo is the complex infinity produced by divisions by zero.
	Zoo = &Const{name: "zoo"}
	// NaN is an undefined numeric result.
	NaN = &Const{name: "nan"}
)

// Name returns the constant name.
func (c *Const) Name() string   { return c.name }
func (c *Const) String() string { return c.name }
func (c *Const) prec() int      { return precAtom }

// Undefined reports whether c has no finite real value.
func (c *Const) Undefined() bool { return c == Zoo || c == NaN }

// Add is a canonical sum. Terms are sorted and like terms are collected.
type Add struct{ terms []Expr }

// Terms returns a copy of the summands.
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

func (a *Add) String() string {
	var sb strings.Builder
	for i, t := range a.terms {
		s := wrap(t, precAdd)
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}
func (a *Add) prec() int { return precAdd }

// Mul is a canonical product. A numeric coefficient, if any, is the first
// factor; the remaining factors are sorted.
type Mul struct{ factors []Expr }

// Factors returns a copy of the factors.
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

func (m *Mul) String() string {
	var sb strings.Builder
	factors := m.factors
	if n, ok := factors[0].(*Num); ok {
		if n.r.Cmp(big.NewRat(-1, 1)) == 0 {
			sb.WriteByte('-')
		} else {
			sb.WriteString(n.String())
			sb.WriteByte('*')
		}
		factors = factors[1:]
	}
	for i, f := range factors {
		if i > 0 {
			sb.WriteByte('*')
		}
		sb.WriteString(wrap(f, precMul+1))
	}
	return sb.String()
}

func (m *Mul) prec() int {
	if n, ok := m.factors[0].(*Num); ok && n.r.Sign() < 0 {
		return precNeg
	}
	return precMul
}

// Pow is base raised to exponent.
type Pow struct{ base, exp Expr }

// Base returns the base of the power.
func (p *Pow) Base() Expr { return p.base }

// Exp returns the exponent of the power.
func (p *Pow) Exp() Expr { return p.exp }

func (p *Pow) String() string {
	return wrap(p.base, precPow+1) + "^" + wrap(p.exp, precPow)
}
func (p *Pow) prec() int { return precPow }

// Func is a named unary function application such as sin(x).
type Func struct {
	name string
	arg  Expr
}

// Name returns the function name.
func (f *Func) Name() string { return f.name }

// Arg returns the function argument.
func (f *Func) Arg() Expr      { return f.arg }
func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }
func (f *Func) prec() int      { return precAtom }

// Vec is a column vector literal. Its elements are scalars.
type Vec struct{ elems []Expr }

// NewVec returns a vector of the given scalar elements.
func NewVec(elems ...Expr) *Vec {
	for _, e := range elems {
		if _, ok := e.(*Vec); ok {
			throwShape("nested vectors are not supported")
		}
	}
	return &Vec{elems: append([]Expr(nil), elems...)}
}

// Len returns the number of elements.
func (v *Vec) Len() int { return len(v.elems) }

// At returns the i'th element.
func (v *Vec) At(i int) Expr { return v.elems[i] }

// Elems returns a copy of the elements.
func (v *Vec) Elems() []Expr { return append([]Expr(nil), v.elems...) }

func (v *Vec) String() string {
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (v *Vec) prec() int { return precAtom }

// Eq is an equation lhs = rhs.
type Eq struct{ lhs, rhs Expr }

// NewEq returns the equation lhs = rhs.
func NewEq(lhs, rhs Expr) *Eq { return &Eq{lhs: lhs, rhs: rhs} }

// LHS returns the left hand side.
func (e *Eq) LHS() Expr { return e.lhs }

// RHS returns the right hand side.
func (e *Eq) RHS() Expr { return e.rhs }

// Residual returns lhs - rhs.
func (e *Eq) Residual() Expr { return Sub(e.lhs, e.rhs) }

func (e *Eq) String() string { return e.lhs.String() + " = " + e.rhs.String() }
func (e *Eq) prec() int      { return precEq }

// Call is an application of a named operator that the tree constructors do
// not evaluate, such as curvature(r). Calls are resolved by a later pass.
type Call struct {
	name string
	args []Expr
}

// NewCall returns an unresolved call of name with args.
func NewCall(name string, args ...Expr) *Call {
	return &Call{name: name, args: append([]Expr(nil), args...)}
}

// Name returns the operator name.
func (c *Call) Name() string { return c.name }

// Args returns a copy of the arguments.
func (c *Call) Args() []Expr { return append([]Expr(nil), c.args...) }

func (c *Call) String() string {
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		parts[i] = a.String()
	}
	return c.name + "(" + strings.Join(parts, ", ") + ")"
}
func (c *Call) prec() int { return precAtom }

func wrap(e Expr, min int) string {
	if e.prec() < min {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Neg returns -e.
func Neg(e Expr) Expr { return NewMul(Int(-1), e) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return NewAdd(a, Neg(b)) }

// Div returns a / b.
func Div(a, b Expr) Expr { return NewMul(a, NewPow(b, Int(-1))) }

// Sqrt returns the principal square root of e.
func Sqrt(e Expr) Expr { return NewPow(e, Rat(1, 2)) }

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.r.Sign() == 0
}

func isOne(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.r.IsInt() && n.r.Num().IsInt64() && n.r.Num().Int64() == 1
}

func undefined(e Expr) bool {
	c, ok := e.(*Const)
	return ok && c.Undefined()
}
