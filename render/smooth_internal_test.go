package render

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// response evaluates the Chebyshev series c at frequency k in [0, 2].
func response(c []float64, k float64) (f float64) {
	theta := math.Acos(1 - 0.5*k)
	for i, ci := range c {
		f += ci * math.Cos(float64(i)*theta)
	}
	return f
}

func TestSincCoefficients(t *testing.T) {
	c := sincCoefficients(15, 0.1)
	if len(c) != 16 {
		t.Fatalf("got %d coefficients", len(c))
	}
	if got := response(c, 0.1); math.Abs(got-1) > 1e-3 {
		t.Errorf("pass band response %g, want 1", got)
	}
	if got := response(c, 0); math.Abs(got-1) > 1e-2 {
		t.Errorf("zero frequency response %g, want about 1", got)
	}
	for _, k := range []float64{1, 1.5, 2} {
		if got := response(c, k); math.Abs(got) > 0.1 {
			t.Errorf("stop band response at %g is %g", k, got)
		}
	}
}

func TestSampleCount(t *testing.T) {
	for _, test := range []struct {
		k    float64
		want int
	}{
		{0, 20}, {1, 100}, {0.05, 60}, {math.NaN(), 20}, {-1, 20},
	} {
		if got := sampleCount(test.k, 20, 100); got != test.want {
			t.Errorf("sampleCount(%g) = %d, want %d", test.k, got, test.want)
		}
	}
}

func TestDashPattern(t *testing.T) {
	d := newDashPattern(500, 1, false)
	if d.dash != 10 || d.gap != 10 {
		t.Fatalf("got %+v", d)
	}
	if !d.drawn(0) || !d.drawn(8) || d.drawn(9) || d.drawn(19) || !d.drawn(20) {
		t.Error("unexpected dash layout")
	}
	if short := newDashPattern(60, 0.5, false); short.dash != 2 || short.gap != 1 {
		t.Errorf("short line pattern %+v", short)
	}
	dots := newDashPattern(500, 1, true)
	if dots.dash != 2 || dots.gap != 10 {
		t.Fatalf("got dotted %+v", dots)
	}
	if !dots.drawn(0) || dots.drawn(1) || dots.drawn(11) || !dots.drawn(12) {
		t.Error("unexpected dot layout")
	}
	if !(dashPattern{}).drawn(7) {
		t.Error("solid pattern skips segments")
	}
}

func TestSmoothBoundaryFixed(t *testing.T) {
	// Fan around a raised center vertex with an open rim.
	m := &Mesh{
		Vertices:  []r3.Vec{{Z: 1}, {X: 1}, {Y: 1}, {X: -1}, {Y: -1}},
		Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 1}},
	}
	orig := append([]r3.Vec(nil), m.Vertices...)
	Smooth(m, SmoothConfig{FixBoundary: true})
	if m.Vertices[0].Z >= 1 {
		t.Errorf("interior vertex not smoothed: %v", m.Vertices[0])
	}
	for i := 1; i < len(orig); i++ {
		if m.Vertices[i] != orig[i] {
			t.Errorf("boundary vertex %d moved from %v to %v", i, orig[i], m.Vertices[i])
		}
	}
}
