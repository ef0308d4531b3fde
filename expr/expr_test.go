package expr

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, test := range []struct {
		src  string
		want string
	}{
		{src: "x + x", want: "2*x"},
		{src: "x*x", want: "x^2"},
		{src: "2^-1", want: "1/2"},
		{src: "x**2 + y**2 + z**2 - 1", want: "x^2 + y^2 + z^2 - 1"},
		{src: "sin^2(x)", want: "sin(x)^2"},
		{src: "sin x", want: "sin(x)"},
		{src: "2x y", want: "2*x*y"},
		{src: "x(y+1)", want: "x*(y + 1)"},
		{src: "sqrt(4)", want: "2"},
		{src: "ln(E)", want: "1"},
		{src: "sin(x)^2 + cos(x)^2", want: "1"},
		{src: "(1,2,3) cross (0,0,1)", want: "(2, -1, 0)"},
		{src: "dot((1,2,3), (1,1,1))", want: "6"},
		{src: "[[t],[t^2],[1]]", want: "(t, t^2, 1)"},
		{src: "Matrix([u, v, 0])", want: "(u, v, 0)"},
		{src: "2*(cos(t), sin(t), t)", want: "(2*cos(t), 2*sin(t), 2*t)"},
		{src: "x^2 = y", want: "x^2 = y"},
	} {
		e, err := Parse(test.src)
		if err != nil {
			t.Errorf("Parse(%q): %s", test.src, err)
			continue
		}
		if got := e.String(); got != test.want {
			t.Errorf("Parse(%q) = %q, want %q", test.src, got, test.want)
		}
	}
}

func TestFormatReparses(t *testing.T) {
	for _, src := range []string{
		"x^2 + y^2 + z^2 - 1",
		"sin(x)*cos(y) - z",
		"(cos(u), sin(u), v)",
		"exp(-t^2)",
		"x^(1/3)",
		"-x^2",
		"2^(x+1)",
		"(x - 1)^(-2)",
		"abs(x)/3",
		"a*x^2/b - (c + 1)^3",
	} {
		e, err := Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q): %s", src, err)
		}
		e2, err := Parse(e.String())
		if err != nil {
			t.Fatalf("re-Parse(%q): %s", e.String(), err)
		}
		if e.String() != e2.String() {
			t.Errorf("format of %q not stable: %q then %q", src, e.String(), e2.String())
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"x +",
		"(1, 2) + 1",
		"(x, y",
		"foo(x)",
		"sinx",
		"x $ y",
		"sin",
		"(1,2) * (3,4)",
	} {
		_, err := Parse(src)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want error", src)
		} else if !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) error %v does not wrap ErrSyntax", src, err)
		}
	}
}

func TestSplitSymbols(t *testing.T) {
	if _, err := Parse("ab + c"); err == nil {
		t.Error("strict parse accepted ab")
	}
	strict, err := Parse("alpha + k_1 + a2")
	if err != nil {
		t.Fatal(err)
	}
	if got := FreeSymbols(strict); !reflect.DeepEqual(got, []string{"a2", "alpha", "k_1"}) {
		t.Errorf("strict free symbols = %v", got)
	}
	for _, test := range []struct {
		src  string
		want string
	}{
		{src: "ab + c", want: "a*b + c"},
		{src: "xsin(y)", want: "sin(y)*x"},
		{src: "2pix", want: "2*pi*x"},
		{src: "ak_1", want: "a*k_1"},
		{src: "alphax", want: "alpha*x"},
	} {
		e, err := Parse(test.src, SplitSymbols)
		if err != nil {
			t.Errorf("Parse(%q, SplitSymbols): %s", test.src, err)
			continue
		}
		if got := e.String(); got != test.want {
			t.Errorf("Parse(%q, SplitSymbols) = %q, want %q", test.src, got, test.want)
		}
	}
}

func TestOperatorsParseAsCall(t *testing.T) {
	e, err := Parse("curvature((cos(t), sin(t), t))", WithOperators("curvature"))
	if err != nil {
		t.Fatal(err)
	}
	c, ok := e.(*Call)
	if !ok || c.Name() != "curvature" || len(c.Args()) != 1 {
		t.Fatalf("got %#v, want curvature call", e)
	}
	if !HasCall(e) {
		t.Error("HasCall = false")
	}
	if _, err := Parse("curvature(t)"); err == nil {
		t.Error("unregistered operator parsed")
	}
}

func TestCanonical(t *testing.T) {
	for _, test := range []struct {
		a, b  string
		equal bool
	}{
		{a: "(x+1)^2", b: "x^2 + 2x + 1", equal: true},
		{a: "x*(y+z)", b: "x y + x z", equal: true},
		{a: "x^2 + y^2 = 1", b: "x^2 + y^2 - 1", equal: true},
		{a: "x + y", b: "y + x", equal: true},
		{a: "x - y", b: "y - x", equal: false},
		{a: "sin(x)^2 + cos(x)^2 + z", b: "z + 1", equal: true},
	} {
		a, err := Parse(test.a)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Parse(test.b)
		if err != nil {
			t.Fatal(err)
		}
		if got := Canonical(a) == Canonical(b); got != test.equal {
			t.Errorf("Canonical(%q)=%q, Canonical(%q)=%q, equal=%v want %v",
				test.a, Canonical(a), test.b, Canonical(b), got, test.equal)
		}
	}
}

func TestDiff(t *testing.T) {
	for _, test := range []struct {
		src, v, want string
	}{
		{src: "x^3", v: "x", want: "3*x^2"},
		{src: "sin(x)", v: "x", want: "cos(x)"},
		{src: "cos(2t)", v: "t", want: "-2*sin(2*t)"},
		{src: "a*x + b", v: "x", want: "a"},
		{src: "exp(t^2)", v: "t", want: "2*exp(t^2)*t"},
		{src: "log(t)", v: "t", want: "t^(-1)"},
		{src: "(cos(t), sin(t), t)", v: "t", want: "(-sin(t), cos(t), 1)"},
	} {
		e, err := Parse(test.src)
		if err != nil {
			t.Fatal(err)
		}
		d, err := Diff(e, test.v)
		if err != nil {
			t.Fatal(err)
		}
		if got := d.String(); got != test.want {
			t.Errorf("d/d%s %s = %q, want %q", test.v, test.src, got, test.want)
		}
	}
}

func TestDiffNumeric(t *testing.T) {
	// Compare symbolic derivatives against central differences.
	const h = 1e-6
	for _, src := range []string{
		"x^x", "tan(x)", "asin(x/2)", "atan(x)", "sqrt(1 + x^2)", "tanh(x)*sec(x)",
	} {
		e, err := Parse(src)
		if err != nil {
			t.Fatal(err)
		}
		d, err := Diff(e, "x")
		if err != nil {
			t.Fatal(err)
		}
		for _, x := range []float64{0.3, 0.7, 1.1} {
			fp, _ := Eval(e, map[string]float64{"x": x + h})
			fm, _ := Eval(e, map[string]float64{"x": x - h})
			want := (fp - fm) / (2 * h)
			got, err := Eval(d, map[string]float64{"x": x})
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-want) > 1e-5*math.Max(1, math.Abs(want)) {
				t.Errorf("d/dx %s at %g = %g, want %g", src, x, got, want)
			}
		}
	}
}

func TestUndefined(t *testing.T) {
	e, err := Parse("x + 1/a")
	if err != nil {
		t.Fatal(err)
	}
	s, err := Subs(e, map[string]Expr{"a": Int(0)})
	if err != nil {
		t.Fatal(err)
	}
	if !Undefined(s) {
		t.Errorf("%s is not undefined", s)
	}
	s, err = Subs(e, map[string]Expr{"a": Float(0.5)})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.String(); got != "x + 2" {
		t.Errorf("got %q, want x + 2", got)
	}
}

func TestValue(t *testing.T) {
	e, err := Parse("2pi")
	if err != nil {
		t.Fatal(err)
	}
	v, err := Value(e)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v-2*math.Pi) > 1e-12 {
		t.Errorf("2pi = %g", v)
	}
	e, _ = Parse("x + 1")
	if _, err := Value(e); err == nil {
		t.Error("Value with free symbol succeeded")
	}
}
