package expr

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ErrSyntax is returned (wrapped) for text that does not parse.
var ErrSyntax = errors.New("syntax error")

type parseConfig struct {
	split bool
	ops   map[string]bool
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

// SplitSymbols makes Parse split unknown multi-letter identifiers into known
// names and single letters, so "xy" reads as x*y and "xsin(y)" as x*sin(y).
// Without it such identifiers are a syntax error.
func SplitSymbols(c *parseConfig) { c.split = true }

// WithOperators registers names that parse as unresolved Call nodes when
// followed by an argument list.
func WithOperators(names ...string) ParseOption {
	return func(c *parseConfig) {
		if c.ops == nil {
			c.ops = make(map[string]bool)
		}
		for _, n := range names {
			c.ops[n] = true
		}
	}
}

// Parse parses a formula. It accepts implicit multiplication ("2x", "x y",
// "x(y+1)"), "^" and "**" for powers, function exponentiation ("sin^2(x)"),
// implicit application ("sin x"), tuple and bracket vector literals,
// Matrix([...]), infix cross and dot, the builtins norm, dot and cross and a
// single top-level "=".
func Parse(src string, opts ...ParseOption) (Expr, error) {
	var cfg parseConfig
	for _, o := range opts {
		o(&cfg)
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	if cfg.split {
		toks = splitTokens(toks, &cfg)
	}
	p := &parser{toks: toks, cfg: &cfg}
	var perr error
	e, err := Catch(func() Expr {
		var x Expr
		x, perr = p.parseTop()
		return x
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if perr != nil {
		return nil, perr
	}
	return e, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) isOp(op string) bool { return t.kind == tokOp && t.text == op }

func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			j := i
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			if j < len(src) && src[j] == '.' {
				j++
				for j < len(src) && isDigit(src[j]) {
					j++
				}
			}
			if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
				k := j + 1
				if k < len(src) && (src[k] == '+' || src[k] == '-') {
					k++
				}
				if k < len(src) && isDigit(src[k]) {
					for k < len(src) && isDigit(src[k]) {
						k++
					}
					j = k
				}
			}
			toks = append(toks, token{kind: tokNum, text: src[i:j], pos: i})
			i = j
		case isLetter(c):
			j := i
			for j < len(src) && (isLetter(src[j]) || isDigit(src[j])) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j], pos: i})
			i = j
		case c == '*' && i+1 < len(src) && src[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.IndexByte("+-*/^()[],=", c) >= 0:
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		default:
			r := []rune(src[i:])[0]
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, r, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c == '_' || unicode.IsLetter(rune(c)) && c < 0x80 }

// known reports whether name has a meaning besides being a free symbol.
func (c *parseConfig) known(name string) bool {
	switch name {
	case "pi", "E", "Matrix", "cross", "dot", "norm":
		return true
	}
	return IsFunction(name) || greek[name] || c.ops[name]
}

func splitTokens(toks []token, cfg *parseConfig) []token {
	out := make([]token, 0, len(toks))
	for _, t := range toks {
		if t.kind != tokIdent || cfg.known(t.text) || symbolName(t.text) {
			out = append(out, t)
			continue
		}
		s := t.text
		for i := 0; i < len(s); {
			if isDigit(s[i]) {
				j := i
				for j < len(s) && isDigit(s[j]) {
					j++
				}
				out = append(out, token{kind: tokNum, text: s[i:j], pos: t.pos + i})
				i = j
				continue
			}
			n := 0
			for j := len(s); j > i+1; j-- {
				if cfg.known(s[i:j]) {
					n = j - i
					break
				}
			}
			if n == 0 {
				// Single letter with its subscript, as in k_1 or a2.
				n = 1
				for i+n < len(s) && (isDigit(s[i+n]) || s[i+n] == '_') {
					n++
				}
			}
			out = append(out, token{kind: tokIdent, text: s[i : i+n], pos: t.pos + i})
			i += n
		}
	}
	return out
}

type parser struct {
	toks []token
	pos  int
	cfg  *parseConfig
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, t.pos, fmt.Sprintf(format, args...))
}

func (p *parser) parseTop() (Expr, error) {
	if p.peek().kind == tokEOF {
		return nil, p.errorf(p.peek(), "empty expression")
	}
	lhs, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.peek().isOp("=") {
		p.next()
		rhs, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		lhs = NewEq(lhs, rhs)
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return lhs, nil
}

func (p *parser) parseSum() (Expr, error) {
	x, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.isOp("+") && !t.isOp("-") {
			return x, nil
		}
		p.next()
		y, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if t.text == "+" {
			x = NewAdd(x, y)
		} else {
			x = Sub(x, y)
		}
	}
}

func (p *parser) parseProduct() (Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch {
		case t.isOp("*"), t.isOp("/"):
			p.next()
			y, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if t.text == "*" {
				x = NewMul(x, y)
			} else {
				x = Div(x, y)
			}
		case t.kind == tokIdent && (t.text == "cross" || t.text == "dot"):
			p.next()
			y, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if t.text == "cross" {
				x = Cross(x, y)
			} else {
				x = Dot(x, y)
			}
		case startsOperand(t):
			y, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			x = NewMul(x, y)
		default:
			return x, nil
		}
	}
}

func startsOperand(t token) bool {
	return t.kind == tokNum || t.kind == tokIdent || t.isOp("(") || t.isOp("[")
}

func (p *parser) parseUnary() (Expr, error) {
	t := p.peek()
	if t.isOp("-") || t.isOp("+") {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return Neg(x), nil
		}
		return x, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.peek().isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return NewPow(base, exp), nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch {
	case t.kind == tokNum:
		text := t.text
		if text[0] == '.' {
			text = "0" + text
		}
		r, ok := new(big.Rat).SetString(text)
		if !ok {
			return nil, p.errorf(t, "bad number %q", t.text)
		}
		return &Num{r: r}, nil
	case t.isOp("("):
		elems, err := p.parseList(")")
		if err != nil {
			return nil, err
		}
		if len(elems) == 1 {
			return elems[0], nil
		}
		return NewVec(elems...), nil
	case t.isOp("["):
		elems, err := p.parseList("]")
		if err != nil {
			return nil, err
		}
		return vecLiteral(elems), nil
	case t.kind == tokIdent:
		return p.parseIdent(t)
	case t.kind == tokEOF:
		return nil, p.errorf(t, "unexpected end of expression")
	}
	return nil, p.errorf(t, "unexpected %q", t.text)
}

// vecLiteral builds a vector from bracket elements, accepting column
// notation [[a],[b],[c]].
func vecLiteral(elems []Expr) Expr {
	column := true
	for _, e := range elems {
		if v, ok := e.(*Vec); !ok || v.Len() != 1 {
			column = false
			break
		}
	}
	if column {
		for i, e := range elems {
			elems[i] = e.(*Vec).elems[0]
		}
	}
	return NewVec(elems...)
}

func (p *parser) parseList(closing string) ([]Expr, error) {
	if t := p.peek(); t.isOp(closing) {
		return nil, p.errorf(t, "empty %s%s", map[string]string{")": "(", "]": "["}[closing], closing)
	}
	var elems []Expr
	for {
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		t := p.next()
		switch {
		case t.isOp(","):
			continue
		case t.isOp(closing):
			return elems, nil
		}
		return nil, p.errorf(t, "expected %q or \",\", got %q", closing, t.text)
	}
}

func (p *parser) parseArgs(name string) ([]Expr, error) {
	t := p.next()
	if !t.isOp("(") {
		return nil, p.errorf(t, "%s requires an argument list", name)
	}
	return p.parseList(")")
}

func (p *parser) parseIdent(t token) (Expr, error) {
	name := t.text
	switch name {
	case "pi":
		return Pi, nil
	case "E":
		return E, nil
	case "Matrix":
		args, err := p.parseArgs(name)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, p.errorf(t, "Matrix takes one argument")
		}
		if _, ok := args[0].(*Vec); !ok {
			return nil, p.errorf(t, "Matrix argument must be a list")
		}
		return args[0], nil
	case "cross", "dot", "norm":
		args, err := p.parseArgs(name)
		if err != nil {
			return nil, err
		}
		if name == "norm" {
			if len(args) != 1 {
				return nil, p.errorf(t, "norm takes one argument")
			}
			return Norm(args[0]), nil
		}
		if len(args) != 2 {
			return nil, p.errorf(t, "%s takes two arguments", name)
		}
		if name == "cross" {
			return Cross(args[0], args[1]), nil
		}
		return Dot(args[0], args[1]), nil
	}
	if IsFunction(name) {
		return p.parseFunc(t)
	}
	if p.cfg.ops[name] {
		args, err := p.parseArgs(name)
		if err != nil {
			return nil, err
		}
		return NewCall(name, args...), nil
	}
	if len(name) > 1 {
		if p.peek().isOp("(") {
			return nil, p.errorf(t, "unknown function %q", name)
		}
		if !symbolName(name) {
			return nil, p.errorf(t, "unknown identifier %q", name)
		}
	}
	return S(name), nil
}

var greek = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"zeta": true, "eta": true, "theta": true, "iota": true, "kappa": true,
	"lambda": true, "mu": true, "nu": true, "xi": true, "omicron": true,
	"rho": true, "sigma": true, "tau": true, "upsilon": true, "phi": true,
	"chi": true, "psi": true, "omega": true,
}

// symbolName reports whether a multi-letter identifier is accepted as a
// single symbol: a Greek letter name or one letter followed by digits and
// underscores, as in a1 or k_2.
func symbolName(name string) bool {
	if greek[name] {
		return true
	}
	for i := 1; i < len(name); i++ {
		if !isDigit(name[i]) && name[i] != '_' {
			return false
		}
	}
	return true
}

func (p *parser) parseFunc(t token) (Expr, error) {
	var power Expr
	if p.peek().isOp("^") {
		p.next()
		var err error
		power, err = p.parsePrimary()
		if err != nil {
			return nil, err
		}
	}
	var arg Expr
	switch next := p.peek(); {
	case next.isOp("("):
		args, err := p.parseArgs(t.text)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, p.errorf(t, "%s takes one argument", t.text)
		}
		arg = args[0]
	case startsOperand(next):
		var err error
		arg, err = p.parsePower()
		if err != nil {
			return nil, err
		}
	default:
		return nil, p.errorf(t, "%s requires an argument", t.text)
	}
	f := NewFunc(t.text, arg)
	if power != nil {
		return NewPow(f, power), nil
	}
	return f, nil
}
