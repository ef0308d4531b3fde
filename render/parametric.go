package render

import (
	"fmt"
	"math"

	"github.com/soypat/surfplot"
	"github.com/soypat/surfplot/internal/d3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// curvatureProbes is the number of samples used to estimate how much a
	// surface bends along one parameter.
	curvatureProbes = 100
	// curvatureScale is the turning per sample step mapped to the maximum
	// sample count.
	curvatureScale = 0.1
	// maxEdgeRatio rejects quads with one length larger than this many
	// times the average.
	maxEdgeRatio = 3
)

// ParametricConfig configures ParametricSurface.
type ParametricConfig struct {
	// MinSamples and MaxSamples bound the adaptive per-parameter sample
	// count. They default to 20 and 100.
	MinSamples, MaxSamples int
	// WeldTolerance merges vertices closer than it, closing seams of
	// periodic surfaces. Zero disables welding.
	WeldTolerance float64
	// Gradient colors vertices by height when not nil.
	Gradient *Gradient
}

func (cfg ParametricConfig) withDefaults() (ParametricConfig, error) {
	if cfg.MinSamples == 0 {
		cfg.MinSamples = 20
	}
	if cfg.MaxSamples == 0 {
		cfg.MaxSamples = 100
	}
	if cfg.MinSamples < 2 || cfg.MaxSamples < cfg.MinSamples {
		return cfg, fmt.Errorf("bad sample bounds [%d, %d]", cfg.MinSamples, cfg.MaxSamples)
	}
	return cfg, nil
}

// ParametricSurface meshes s over u×v. The sample count of each parameter
// is chosen from the curvature of the surface along it. Grid points
// outside b are dropped and quads are only emitted when all four corners
// are kept and pass the edge-length test of AcceptQuad.
func ParametricSurface(s surfplot.Surface3, u, v surfplot.Interval, b surfplot.Bounds, cfg ParametricConfig) (*Mesh, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("u range: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("v range: %w", err)
	}
	nu, err := adaptiveSamples(s, u, v.Mid(), true, cfg)
	if err != nil {
		return nil, err
	}
	nv, err := adaptiveSamples(s, v, u.Mid(), false, cfg)
	if err != nil {
		return nil, err
	}
	us := floats.Span(make([]float64, nu), u.Min, u.Max)
	vs := floats.Span(make([]float64, nv), v.Min, v.Max)
	uv := make([]r2.Vec, 0, nu*nv)
	for _, uu := range us {
		for _, vv := range vs {
			uv = append(uv, r2.Vec{X: uu, Y: vv})
		}
	}
	pts := make([]r3.Vec, len(uv))
	if err := s.Evaluate(uv, pts); err != nil {
		return nil, fmt.Errorf("evaluating surface: %w", err)
	}
	m := gridMesh(pts, nu, nv, b)
	if cfg.WeldTolerance > 0 {
		m = Weld(m, cfg.WeldTolerance)
	}
	if m.Empty() {
		return nil, ErrEmpty
	}
	if cfg.Gradient != nil {
		Colorize(m, *cfg.Gradient)
	}
	return m, nil
}

// gridMesh connects an nu×nv grid of points stored v-fastest into quads.
// Only points inside b become vertices.
func gridMesh(pts []r3.Vec, nu, nv int, b surfplot.Bounds) *Mesh {
	m := &Mesh{}
	sparse := make([]int, len(pts))
	for i, p := range pts {
		if !b.Contains(p) {
			sparse[i] = -1
			continue
		}
		sparse[i] = len(m.Vertices)
		m.Vertices = append(m.Vertices, p)
	}
	for i := 0; i < nu-1; i++ {
		for j := 0; j < nv-1; j++ {
			q := [4]int{
				sparse[i*nv+j],
				sparse[(i+1)*nv+j],
				sparse[(i+1)*nv+j+1],
				sparse[i*nv+j+1],
			}
			if q[0] < 0 || q[1] < 0 || q[2] < 0 || q[3] < 0 {
				continue
			}
			if !AcceptQuad([4]r3.Vec{m.Vertices[q[0]], m.Vertices[q[1]], m.Vertices[q[2]], m.Vertices[q[3]]}) {
				continue
			}
			m.Quads = append(m.Quads, q)
		}
	}
	return m
}

// AcceptQuad reports whether the grid quad p0-p1-p2-p3 is a genuine patch
// of the surface and not a face stretched across a discontinuity. For each
// corner the two sides meeting at it and both diagonals are measured; the
// quad is rejected when at any corner the longest of the four is not
// smaller than 3 times their average.
func AcceptQuad(p [4]r3.Vec) bool {
	d02 := r3.Norm(r3.Sub(p[2], p[0]))
	d13 := r3.Norm(r3.Sub(p[3], p[1]))
	for k := range p {
		s1 := r3.Norm(r3.Sub(p[(k+1)%4], p[k]))
		s2 := r3.Norm(r3.Sub(p[(k+3)%4], p[k]))
		maxEdge := math.Max(math.Max(s1, s2), math.Max(d02, d13))
		avgEdge := (s1 + s2 + d02 + d13) / 4
		if !(maxEdge < maxEdgeRatio*avgEdge) {
			return false
		}
	}
	return true
}

// adaptiveSamples returns the sample count along one parameter of s, the
// other being held at fixed.
func adaptiveSamples(s surfplot.Surface3, along surfplot.Interval, fixed float64, alongU bool, cfg ParametricConfig) (int, error) {
	if cfg.MinSamples == cfg.MaxSamples {
		return cfg.MinSamples, nil
	}
	ts := floats.Span(make([]float64, curvatureProbes), along.Min, along.Max)
	uv := make([]r2.Vec, len(ts))
	for i, t := range ts {
		if alongU {
			uv[i] = r2.Vec{X: t, Y: fixed}
		} else {
			uv[i] = r2.Vec{X: fixed, Y: t}
		}
	}
	pts := make([]r3.Vec, len(uv))
	if err := s.Evaluate(uv, pts); err != nil {
		return 0, fmt.Errorf("probing surface: %w", err)
	}
	return sampleCount(turning(pts), cfg.MinSamples, cfg.MaxSamples), nil
}

// turning estimates the curvature of a sampled curve as the mean norm of
// its second differences over the mean norm of its first differences.
// Non-finite differences are ignored.
func turning(pts []r3.Vec) float64 {
	var d1, d2 float64
	var n1, n2 int
	for i := 0; i+1 < len(pts); i++ {
		d := r3.Sub(pts[i+1], pts[i])
		if d3.Finite(d) {
			d1 += r3.Norm(d)
			n1++
		}
		if i+2 < len(pts) {
			dd := r3.Add(r3.Sub(pts[i+2], r3.Scale(2, pts[i+1])), pts[i])
			if d3.Finite(dd) {
				d2 += r3.Norm(dd)
				n2++
			}
		}
	}
	if n1 == 0 || n2 == 0 || d1 == 0 {
		return 0
	}
	return (d2 / float64(n2)) / (d1 / float64(n1))
}

// sampleCount maps a curvature estimate linearly to [min, max].
func sampleCount(k float64, min, max int) int {
	frac := math.Min(1, math.Max(0, k/curvatureScale))
	if math.IsNaN(frac) {
		frac = 0
	}
	return min + int(math.Round(frac*float64(max-min)))
}
