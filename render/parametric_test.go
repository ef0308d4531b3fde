package render_test

import (
	"errors"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/soypat/surfplot"
	"github.com/soypat/surfplot/render"
	"gonum.org/v1/gonum/spatial/r3"
)

var unit = surfplot.Interval{Min: 0, Max: 1}

func TestParametricUniformGrid(t *testing.T) {
	plane := surfplot.SurfaceFunc(func(u, v float64) r3.Vec { return r3.Vec{X: u, Y: v} })
	m, err := render.ParametricSurface(plane, unit, unit, surfplot.DefaultBounds(), render.ParametricConfig{MinSamples: 11, MaxSamples: 11})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 121 || len(m.Quads) != 100 || len(m.Triangles) != 0 {
		t.Fatalf("got %d vertices, %d quads, %d triangles", len(m.Vertices), len(m.Quads), len(m.Triangles))
	}
	if m.Colors != nil {
		t.Error("mesh colored without gradient")
	}
}

func TestParametricRejectsSpike(t *testing.T) {
	spike := surfplot.SurfaceFunc(func(u, v float64) r3.Vec {
		p := r3.Vec{X: u, Y: v}
		if math.Abs(u-0.5) < 1e-9 && math.Abs(v-0.5) < 1e-9 {
			p.Z = 5
		}
		return p
	})
	m, err := render.ParametricSurface(spike, unit, unit, surfplot.DefaultBounds(), render.ParametricConfig{MinSamples: 11, MaxSamples: 11})
	if err != nil {
		t.Fatal(err)
	}
	// The four quads around the spike are stretched across it.
	if len(m.Quads) != 96 {
		t.Errorf("got %d quads, want 96", len(m.Quads))
	}
}

func TestAcceptQuad(t *testing.T) {
	square := [4]r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	if !render.AcceptQuad(square) {
		t.Error("unit square rejected")
	}
	stretched := square
	stretched[2] = r3.Vec{X: 1, Y: 1, Z: 12}
	if render.AcceptQuad(stretched) {
		t.Error("stretched quad accepted")
	}
	collapsed := [4]r3.Vec{}
	if render.AcceptQuad(collapsed) {
		t.Error("collapsed quad accepted")
	}
}

func TestParametricBoundsMask(t *testing.T) {
	slope := surfplot.SurfaceFunc(func(u, v float64) r3.Vec { return r3.Vec{X: u, Y: v, Z: u} })
	r := surfplot.Interval{Min: -2, Max: 2}
	b := surfplot.NewBounds(-1, 1, -10, 10, -10, 10)
	m, err := render.ParametricSurface(slope, r, r, b, render.ParametricConfig{MinSamples: 11, MaxSamples: 11})
	if err != nil {
		t.Fatal(err)
	}
	// Five columns of u in [-0.8, 0.8] survive.
	if len(m.Vertices) != 55 || len(m.Quads) != 40 {
		t.Fatalf("got %d vertices and %d quads, want 55 and 40", len(m.Vertices), len(m.Quads))
	}
	for _, v := range m.Vertices {
		if !b.Contains(v) {
			t.Fatalf("vertex %v outside bounds", v)
		}
	}

	_, err = render.ParametricSurface(slope, r, r, surfplot.NewBounds(5, 6, 5, 6, 5, 6), render.ParametricConfig{})
	if !errors.Is(err, render.ErrEmpty) {
		t.Errorf("got %v, want ErrEmpty", err)
	}
}

func TestParametricAdaptiveSamples(t *testing.T) {
	plane := surfplot.SurfaceFunc(func(u, v float64) r3.Vec { return r3.Vec{X: u, Y: v} })
	m, err := render.ParametricSurface(plane, unit, unit, surfplot.DefaultBounds(), render.ParametricConfig{})
	if err != nil {
		t.Fatal(err)
	}
	// Flat along both parameters: minimum sample count.
	if len(m.Vertices) != 20*20 {
		t.Errorf("plane sampled with %d vertices, want 400", len(m.Vertices))
	}

	wavy := surfplot.SurfaceFunc(func(u, v float64) r3.Vec {
		return r3.Vec{X: u, Y: v, Z: 0.2 * math.Sin(40*u)}
	})
	m, err = render.ParametricSurface(wavy, unit, unit, surfplot.DefaultBounds(), render.ParametricConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) <= 400 || len(m.Vertices) > 100*20 {
		t.Errorf("wavy surface sampled with %d vertices", len(m.Vertices))
	}
}

func TestParametricBadConfig(t *testing.T) {
	plane := surfplot.SurfaceFunc(func(u, v float64) r3.Vec { return r3.Vec{X: u, Y: v} })
	for _, cfg := range []render.ParametricConfig{
		{MinSamples: 1, MaxSamples: 10},
		{MinSamples: 30, MaxSamples: 10},
	} {
		if _, err := render.ParametricSurface(plane, unit, unit, surfplot.DefaultBounds(), cfg); err == nil {
			t.Errorf("config %+v accepted", cfg)
		}
	}
	if _, err := render.ParametricSurface(plane, surfplot.Interval{Min: 1, Max: 1}, unit, surfplot.DefaultBounds(), render.ParametricConfig{}); err == nil {
		t.Error("empty u range accepted")
	}
}

func TestWeldCylinder(t *testing.T) {
	cylinder := surfplot.SurfaceFunc(func(u, v float64) r3.Vec {
		return r3.Vec{X: math.Cos(u), Y: math.Sin(u), Z: v}
	})
	full := surfplot.Interval{Max: 2 * math.Pi}
	cfg := render.ParametricConfig{MinSamples: 9, MaxSamples: 9}
	open, err := render.ParametricSurface(cylinder, full, unit, surfplot.DefaultBounds(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(open.Vertices) != 81 || len(open.Quads) != 64 {
		t.Fatalf("got %d vertices and %d quads", len(open.Vertices), len(open.Quads))
	}
	cfg.WeldTolerance = 1e-6
	closed, err := render.ParametricSurface(cylinder, full, unit, surfplot.DefaultBounds(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	// The seam at u=0 and u=2π is merged.
	if len(closed.Vertices) != 72 || len(closed.Quads) != 64 {
		t.Fatalf("welded: got %d vertices and %d quads, want 72 and 64", len(closed.Vertices), len(closed.Quads))
	}
}

func TestWeldCollapsedQuad(t *testing.T) {
	m := &render.Mesh{
		Vertices: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {X: 1, Y: 1 + 1e-12}},
		Quads:    [][4]int{{0, 1, 2, 3}},
	}
	w := render.Weld(m, 1e-9)
	if len(w.Vertices) != 3 || len(w.Quads) != 0 || len(w.Triangles) != 1 {
		t.Fatalf("got %+v, want single triangle", w)
	}
}

func TestColorize(t *testing.T) {
	g := render.Gradient{
		Start:   colorful.Color{R: 0, G: 0, B: 0},
		End:     colorful.Color{R: 1, G: 1, B: 1},
		Opacity: 0.5,
	}
	m := &render.Mesh{
		Vertices:  []r3.Vec{{Z: -1}, {Z: 0}, {Z: 1}, {Z: math.NaN()}},
		Triangles: [][3]int{{0, 1, 2}},
	}
	render.Colorize(m, g)
	if len(m.Colors) != 4 {
		t.Fatalf("got %d colors", len(m.Colors))
	}
	if got := m.Colors[0]; got.R != 0 || got.A != 128 {
		t.Errorf("bottom color %v", got)
	}
	if got := m.Colors[1]; got.R != 128 || got.G != 128 || got.B != 128 || got.A != 128 {
		t.Errorf("middle color %v, want gray with alpha 128", got)
	}
	if got := m.Colors[2]; got.R != 255 {
		t.Errorf("top color %v", got)
	}
	if got := m.Colors[3]; got.A != 0 {
		t.Errorf("NaN vertex color %v, want transparent", got)
	}

	flat := &render.Mesh{Vertices: []r3.Vec{{Z: 2}, {Z: 2}}}
	render.Colorize(flat, g)
	if flat.Colors[0] != flat.Colors[1] || flat.Colors[0].R != 0 {
		t.Errorf("flat mesh colors %v", flat.Colors)
	}
}
