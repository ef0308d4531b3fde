package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertMultiplication(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{in: "2x", want: "2*x"},
		{in: "x y", want: "x*y"},
		{in: "a b c", want: "a*b*c"},
		{in: "x2", want: "x*2"},
		{in: "2x3", want: "2*x*3"},
		{in: "1.5x", want: "1.5*x"},
		{in: "(x+1)y", want: "(x+1)*y"},
		{in: "(x+1) 2", want: "(x+1) *2"},
		{in: "x (y+1)", want: "x*(y+1)"},
		{in: "sin x", want: "sin x"},
		{in: "sin (x)", want: "sin (x)"},
		{in: "x^2 + y^2 - 1", want: "x^2 + y^2 - 1"},
		{in: "a cross b", want: "a cross b"},
		{in: "(1,0,0) cross (0,1,0)", want: "(1,0,0) cross (0,1,0)"},
		{in: "integrate(x y, x)", want: "integrate(x y, x)"},
		{in: "1e5", want: "1e5"},
		{in: "x^2 - 2.5E-3", want: "x^2 - 2.5E-3"},
		{in: ".5e+2 x", want: ".5e+2*x"},
		{in: "1e3x", want: "1e3*x"},
		{in: "2e", want: "2*e"},
		{in: "2ex", want: "2*ex"},
		{in: "3 e2", want: "3*e*2"},
	} {
		assert.Equal(t, test.want, InsertMultiplication(test.in), "input %q", test.in)
	}
}

func TestExpandOperators(t *testing.T) {
	got, err := ExpandOperators("curvature((cos(t), sin(t), t))")
	assert.NoError(t, err)
	assert.Equal(t, "1/2", got)

	got, err = ExpandOperators("x^2 + y^2")
	assert.NoError(t, err)
	assert.Equal(t, "x^2 + y^2", got, "text without operators must pass through")

	_, err = ExpandOperators("curvature(t)")
	assert.Error(t, err)
}

func TestPreprocess(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{in: "  x^2 + y^2 + z^2 - 1  ", want: "x^2 + y^2 + z^2 - 1"},
		{in: "2x y", want: "2*x*y"},
		{in: "x y z - 1e3", want: "x*y*z - 1e3"},
		{in: "tangent((cos(t), sin(t), 0))", want: "(-sin(t), cos(t), 0)"},
		{in: "diff(x^2 y, x) - z", want: "2*x*y - z"},
		// Failures return the original text.
		{in: "curvature(", want: "curvature("},
		{in: "torsion((t, t))", want: "torsion((t, t))"},
	} {
		assert.Equal(t, test.want, Preprocess(test.in), "input %q", test.in)
	}
}
