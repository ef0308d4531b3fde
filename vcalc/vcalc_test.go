package vcalc

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/surfplot/expr"
)

func parse(t *testing.T, src string) expr.Expr {
	t.Helper()
	e, err := expr.Parse(src, expr.WithOperators(Names...))
	if err != nil {
		t.Fatalf("Parse(%q): %s", src, err)
	}
	return e
}

func TestHelix(t *testing.T) {
	// r(t) = (a cos t, a sin t, b t) has curvature a/(a²+b²) and torsion b/(a²+b²).
	for _, test := range []struct {
		src  string
		want float64
	}{
		{src: "curvature((cos(t), sin(t), t))", want: 0.5},
		{src: "torsion((cos(t), sin(t), t))", want: 0.5},
		{src: "curvature((2cos(s), 2sin(s), s), s)", want: 0.4},
		{src: "torsion((2cos(s), 2sin(s), s), s)", want: 0.2},
	} {
		e, err := Rewrite(parse(t, test.src))
		if err != nil {
			t.Fatalf("Rewrite(%q): %s", test.src, err)
		}
		for _, param := range []float64{0, 0.7, 2.3} {
			got, err := expr.Eval(e, map[string]float64{"t": param, "s": param})
			if err != nil {
				t.Fatalf("%s: %s", e, err)
			}
			if math.Abs(got-test.want) > 1e-12 {
				t.Errorf("%s at %g = %g, want %g", test.src, param, got, test.want)
			}
		}
	}
}

func TestHelixExact(t *testing.T) {
	e, err := Rewrite(parse(t, "curvature((cos(t), sin(t), t))"))
	if err != nil {
		t.Fatal(err)
	}
	if got := e.String(); got != "1/2" {
		t.Errorf("curvature of unit helix = %q, want 1/2", got)
	}
}

func TestFrame(t *testing.T) {
	// Circle in the xy plane: T=(-sin,cos,0), N=(-cos,-sin,0), B=(0,0,1).
	const param = 0.9
	want := map[string][3]float64{
		"tangent":  {-math.Sin(param), math.Cos(param), 0},
		"normal":   {-math.Cos(param), -math.Sin(param), 0},
		"binormal": {0, 0, 1},
	}
	for name, w := range want {
		e, err := Rewrite(parse(t, name+"((cos(t), sin(t), 0))"))
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		v, ok := e.(*expr.Vec)
		if !ok || v.Len() != 3 {
			t.Fatalf("%s returned %s, want 3-vector", name, e)
		}
		for i := 0; i < 3; i++ {
			got, err := expr.Eval(v.At(i), map[string]float64{"t": param})
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-w[i]) > 1e-12 {
				t.Errorf("%s[%d] = %g, want %g", name, i, got, w[i])
			}
		}
	}
}

func TestDiffOperator(t *testing.T) {
	for _, test := range []struct {
		src, want string
	}{
		{src: "diff(x^3, x)", want: "3*x^2"},
		{src: "diff(x^3, x, 2)", want: "6*x"},
		{src: "diff((t, t^2, 0), t)", want: "(1, 2*t, 0)"},
		{src: "x + diff(sin(y), y)", want: "cos(y) + x"},
	} {
		e, err := Rewrite(parse(t, test.src))
		if err != nil {
			t.Fatalf("Rewrite(%q): %s", test.src, err)
		}
		if got := e.String(); got != test.want {
			t.Errorf("Rewrite(%q) = %q, want %q", test.src, got, test.want)
		}
	}
}

func TestRewriteErrors(t *testing.T) {
	for _, src := range []string{
		"curvature(t)",
		"curvature((t, t))",
		"tangent((t, t, t), 2)",
		"diff(x)",
		"diff(x, x, -1)",
	} {
		_, err := Rewrite(parse(t, src))
		if err == nil {
			t.Errorf("Rewrite(%q) succeeded", src)
			continue
		}
		if !errors.Is(err, ErrOperator) {
			t.Errorf("Rewrite(%q) = %v, want ErrOperator", src, err)
		}
	}
}
