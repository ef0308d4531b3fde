package classify

import (
	"errors"
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	for _, test := range []struct {
		src    string
		kind   Kind
		coeffs []string
	}{
		{src: "x^2 + y^2 + z^2 - 1", kind: Implicit, coeffs: []string{}},
		{src: "x^2/a^2 + y^2/b^2 - z^2/c^2 = 1", kind: Implicit, coeffs: []string{"a", "b", "c"}},
		{src: "x^2 + y^2 = r^2", kind: Implicit, coeffs: []string{"r"}},
		{src: "z = sin(x) cos(y)", kind: Implicit, coeffs: []string{}},
		{src: "(cos(t), sin(t), t)", kind: ParametricCurve, coeffs: []string{}},
		{src: "(a cos(t), a sin(t), b t)", kind: ParametricCurve, coeffs: []string{"a", "b"}},
		{src: "[u, v, u^2 - v^2]", kind: ParametricSurface, coeffs: []string{}},
		{src: "Matrix([cos(u) sin(v), sin(u) sin(v), k cos(v)])", kind: ParametricSurface, coeffs: []string{"k"}},
		{src: "(1, 2, 3)", kind: Point, coeffs: []string{}},
		{src: "(a, b, 0)", kind: Point, coeffs: []string{"a", "b"}},
		{src: "2 + 3", kind: Degenerate, coeffs: []string{}},
		{src: "x^2 - a", kind: Degenerate, coeffs: []string{"a"}},
		// Falls back to symbol splitting.
		{src: "xy - z", kind: Implicit, coeffs: []string{}},
	} {
		r, err := Classify(test.src)
		if err != nil {
			t.Errorf("Classify(%q): %s", test.src, err)
			continue
		}
		if r.Kind != test.kind {
			t.Errorf("Classify(%q) kind = %s, want %s", test.src, r.Kind, test.kind)
		}
		if !reflect.DeepEqual(r.Coefficients, test.coeffs) {
			t.Errorf("Classify(%q) coefficients = %v, want %v", test.src, r.Coefficients, test.coeffs)
		}
	}
}

func TestClassifyIllegal(t *testing.T) {
	for _, src := range []string{
		"x +",
		"(t, u, v)",
		"(t, u)",
		"(u, u^2, 0)",
		"(t, t) + 1",
		"(1,2,3,4)",
		"sin(",
	} {
		r, err := Classify(src)
		if err == nil {
			t.Errorf("Classify(%q) = %s, want error", src, r.Kind)
			continue
		}
		if !errors.Is(err, ErrIllegal) {
			t.Errorf("Classify(%q) error %v does not wrap ErrIllegal", src, err)
		}
		if r.Kind != Illegal {
			t.Errorf("Classify(%q) kind = %s, want illegal", src, r.Kind)
		}
	}
}

func TestDegenerateInfo(t *testing.T) {
	r, err := Classify("2 pi")
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind != Degenerate {
		t.Fatalf("kind = %s", r.Kind)
	}
	if got := r.Info(); got != "6.283185307179586" {
		t.Errorf("Info = %q", got)
	}
	r, _ = Classify("x + 1 + 1")
	if got := r.Info(); got != "x + 2" {
		t.Errorf("Info = %q", got)
	}
}

func TestKindText(t *testing.T) {
	for k := Illegal; k <= Degenerate; k++ {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Kind
		if err := got.UnmarshalText(b); err != nil {
			t.Fatal(err)
		}
		if got != k {
			t.Errorf("%s round tripped to %s", k, got)
		}
	}
}
