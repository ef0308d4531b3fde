package expr

import "math"

// builtin unary functions and their float64 implementations. Results outside
// the real domain are NaN.
var builtins = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"cot":  func(x float64) float64 { return 1 / math.Tan(x) },
	"sec":  func(x float64) float64 { return 1 / math.Cos(x) },
	"csc":  func(x float64) float64 { return 1 / math.Sin(x) },
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
	"exp":  math.Exp,
	"log":  math.Log,
	"abs":  math.Abs,
	"sign": func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		case x == 0:
			return 0
		}
		return math.NaN()
	},
	"floor":   math.Floor,
	"ceiling": math.Ceil,
}

// aliases are accepted by the parser and rewritten by NewFunc.
var aliases = map[string]bool{
	"sqrt": true,
	"ln":   true,
	"ceil": true,
}

// IsFunction reports whether name is a builtin unary function.
func IsFunction(name string) bool {
	_, ok := builtins[name]
	return ok || aliases[name]
}

// MathFunc returns the float64 implementation of a builtin function name as
// stored in a Func node.
func MathFunc(name string) (func(float64) float64, bool) {
	f, ok := builtins[name]
	return f, ok
}

// ConstValue returns the float64 value of c. Undefined constants are NaN.
func ConstValue(c *Const) float64 {
	switch c {
	case Pi:
		return math.Pi
	case E:
		return math.E
	}
	return math.NaN()
}
