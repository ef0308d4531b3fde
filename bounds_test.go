package surfplot

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMergeBounds(t *testing.T) {
	global := DefaultBounds()
	for _, test := range []struct {
		local, want Bounds
	}{
		{
			// Local bounds closer to zero win.
			local: NewBounds(-5, 5, -5, 5, -5, 5),
			want:  NewBounds(-5, 5, -5, 5, -5, 5),
		},
		{
			// Global bounds closer to zero win.
			local: NewBounds(-20, 20, -20, 20, -20, 20),
			want:  NewBounds(-10, 10, -10, 10, -10, 10),
		},
		{
			local: NewBounds(-20, 3, 1, 2, -10, 10),
			want:  NewBounds(-10, 3, 1, 2, -10, 10),
		},
		{
			// Comparison is by magnitude: a min of 15 is farther from zero than -10.
			local: NewBounds(15, 20, -1, 30, -2, -1),
			want:  NewBounds(-10, 10, -1, 10, -2, -1),
		},
	} {
		got := MergeBounds(global, test.local)
		if got != test.want {
			t.Errorf("MergeBounds(%s, %s) = %s, want %s", global, test.local, got, test.want)
		}
	}
}

func TestBoundsValidate(t *testing.T) {
	if err := DefaultBounds().Validate(); err != nil {
		t.Error(err)
	}
	for _, b := range []Bounds{
		NewBounds(1, -1, 0, 1, 0, 1),
		NewBounds(0, 1, math.NaN(), 1, 0, 1),
		NewBounds(0, 1, 0, 1, 0, math.Inf(1)),
	} {
		if err := b.Validate(); err == nil {
			t.Errorf("%s validated", b)
		}
	}
}

func TestBoundsContains(t *testing.T) {
	b := NewBounds(-1, 1, -1, 1, -1, 1)
	for _, test := range []struct {
		p    r3.Vec
		want bool
	}{
		{p: r3.Vec{}, want: true},
		{p: r3.Vec{X: 1, Y: -1, Z: 1}, want: true},
		{p: r3.Vec{X: 1.0001}, want: false},
		{p: r3.Vec{Z: math.NaN()}, want: false},
	} {
		if got := b.Contains(test.p); got != test.want {
			t.Errorf("Contains(%v) = %v, want %v", test.p, got, test.want)
		}
	}
}

func TestFuncAdapters(t *testing.T) {
	field := FieldFunc(func(p r3.Vec) float64 { return r3.Norm(p) - 1 })
	dst := make([]float64, 2)
	if err := field.Evaluate([]r3.Vec{{X: 1}, {X: 3}}, dst); err != nil {
		t.Fatal(err)
	}
	if dst[0] != 0 || dst[1] != 2 {
		t.Errorf("field = %v", dst)
	}
	if err := field.Evaluate(make([]r3.Vec, 3), dst); err != ErrShortBuffer {
		t.Errorf("got %v, want ErrShortBuffer", err)
	}
	surf := SurfaceFunc(func(u, v float64) r3.Vec { return r3.Vec{X: u, Y: v} })
	out := make([]r3.Vec, 1)
	if err := surf.Evaluate([]r2.Vec{{X: 2, Y: 3}}, out); err != nil {
		t.Fatal(err)
	}
	if out[0] != (r3.Vec{X: 2, Y: 3}) {
		t.Errorf("surface = %v", out[0])
	}
}
