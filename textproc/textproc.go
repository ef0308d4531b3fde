// Package textproc normalizes raw formula text before it is parsed. It
// inserts the multiplication signs users leave out and expands calls of the
// vector-calculus operators into plain expressions.
package textproc

import (
	"regexp"
	"strings"

	"github.com/soypat/surfplot/expr"
	"github.com/soypat/surfplot/vcalc"
)

// exceptions are substrings that disable every rewrite. Multi-argument
// calls such as integrate(f, (x, 0, 1)) would be corrupted by them.
var exceptions = []string{"integrate"}

var (
	reTokenSpaceToken = regexp.MustCompile(`([A-Za-z0-9_.]+)\s+([A-Za-z0-9_.]+)`)
	reDigitLetter     = regexp.MustCompile(`(\d)([A-Za-z_])`)
	reLetterDigit     = regexp.MustCompile(`([A-Za-z_]+)(\d)`)
	reParenToken      = regexp.MustCompile(`\)(\s*)([A-Za-z0-9_.]+)`)
	reTokenSpaceParen = regexp.MustCompile(`([A-Za-z0-9_.]+)\s+\(`)
)

// maxPasses bounds the fixed-point iteration of overlapping rewrites such as
// "a b c".
const maxPasses = 8

// keyword reports whether name must not be joined to its neighbours by an
// inserted multiplication.
func keyword(name string) bool {
	switch name {
	case "cross", "dot", "norm", "Matrix":
		return true
	}
	if expr.IsFunction(name) {
		return true
	}
	for _, op := range vcalc.Names {
		if op == name {
			return true
		}
	}
	return false
}

func infix(name string) bool { return name == "cross" || name == "dot" }

// InsertMultiplication applies the ordered implicit-multiplication rewrites
// to text. Text containing an exception pattern is returned unchanged.
func InsertMultiplication(text string) string {
	for _, ex := range exceptions {
		if strings.Contains(text, ex) {
			return text
		}
	}
	for i := 0; i < maxPasses; i++ {
		next := rewriteOnce(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func rewriteOnce(s string) string {
	s = replaceSubmatch(reTokenSpaceToken, s, func(m []string) string {
		a, b := m[1], m[2]
		if keyword(a) || infix(b) {
			return m[0]
		}
		return a + "*" + b
	})
	s = replaceSubmatchIndex(reDigitLetter, s, func(m []int) string {
		if exponent(s, m[4]) {
			return s[m[0]:m[1]]
		}
		return s[m[2]:m[3]] + "*" + s[m[4]:m[5]]
	})
	s = replaceSubmatchIndex(reLetterDigit, s, func(m []int) string {
		name := s[m[2]:m[3]]
		if keyword(name) || (len(name) == 1 && exponent(s, m[2])) {
			return s[m[0]:m[1]]
		}
		return name + "*" + s[m[4]:m[5]]
	})
	s = replaceSubmatch(reParenToken, s, func(m []string) string {
		if infix(m[2]) {
			return m[0]
		}
		return ")" + m[1] + "*" + m[2]
	})
	s = replaceSubmatch(reTokenSpaceParen, s, func(m []string) string {
		if keyword(m[1]) {
			return m[0]
		}
		return m[1] + "*("
	})
	return s
}

func replaceSubmatch(re *regexp.Regexp, s string, fn func(m []string) string) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		return fn(re.FindStringSubmatch(match))
	})
}

// replaceSubmatchIndex is like replaceSubmatch but passes the submatch
// offsets into s so fn can look at the text around the match.
func replaceSubmatchIndex(re *regexp.Regexp, s string, fn func(m []int) string) string {
	var b strings.Builder
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:m[0]])
		b.WriteString(fn(m))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// exponent reports whether the e or E at s[i] is the exponent marker of a
// number literal such as 1e5, 2.5E-3 or .5e+2.
func exponent(s string, i int) bool {
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return false
	}
	start := i
	for start > 0 && (isDigit(s[start-1]) || s[start-1] == '.') {
		start--
	}
	if start == i || s[start:i] == "." {
		return false
	}
	if start > 0 && isWordByte(s[start-1]) {
		// Digits ending an identifier such as x2e3.
		return false
	}
	j := i + 1
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	return j < len(s) && isDigit(s[j])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ExpandOperators parses text, resolves vector-calculus operator calls and
// prints the result back as plain text. Text without operator calls is
// returned unchanged.
func ExpandOperators(text string) (string, error) {
	if !mentionsOperator(text) {
		return text, nil
	}
	ops := expr.WithOperators(vcalc.Names...)
	e, err := expr.Parse(text, ops)
	if err != nil {
		e, err = expr.Parse(text, ops, expr.SplitSymbols)
		if err != nil {
			return "", err
		}
	}
	e, err = vcalc.Rewrite(e)
	if err != nil {
		return "", err
	}
	return expr.Format(e), nil
}

func mentionsOperator(text string) bool {
	for _, op := range vcalc.Names {
		if strings.Contains(text, op+"(") || strings.Contains(text, op+" (") {
			return true
		}
	}
	return false
}

// Preprocess returns text ready for classification. On any failure the
// original input is returned so the classifier reports it.
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	out := InsertMultiplication(text)
	out, err := ExpandOperators(out)
	if err != nil {
		return text
	}
	return out
}
