package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/soypat/surfplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sample count limits of curves and surface traces.
const (
	minCurveSamples = 50
	maxCurveSamples = 1000
	minTraceSamples = 50
	maxTraceSamples = 500
)

// TubeRadius returns the tube radius of a line of the given thickness.
func TubeRadius(thickness float64) float64 { return thickness * 0.01 }

// CurveResolution returns the number of samples of a curve over a parameter
// span drawn with the given thickness: span×25×(1 + 0.05/radius), clamped
// to [50, 1000]. Thin tubes need more samples to look smooth.
func CurveResolution(span, thickness float64) int {
	factor := 1.0
	if r := TubeRadius(thickness); r > 0 {
		factor += 0.05 / r
	}
	return clampSamples(math.Abs(span)*25*factor, minCurveSamples, maxCurveSamples)
}

// TraceResolution returns the number of samples of a surface trace over a
// parameter span when traces are spacing apart: span/spacing×5, clamped to
// [50, 500].
func TraceResolution(span, spacing float64) int {
	if !(spacing > 0) {
		return maxTraceSamples
	}
	return clampSamples(math.Abs(span)/spacing*5, minTraceSamples, maxTraceSamples)
}

func clampSamples(f float64, lo, hi int) int {
	if math.IsNaN(f) || f < float64(lo) {
		return lo
	}
	if f > float64(hi) {
		return hi
	}
	return int(math.Round(f))
}

// dashPattern alternates dash samples drawn with gap samples skipped.
// The zero value draws solid lines.
type dashPattern struct {
	dash, gap int
}

// newDashPattern returns the pattern of a line of resolution samples. Dashes
// are max(2, resolution/50) samples long and gaps dashSpacing times that.
// A dotted pattern keeps the gaps and shortens every dash to one segment.
func newDashPattern(resolution int, dashSpacing float64, dotted bool) dashPattern {
	if !(dashSpacing > 0) {
		return dashPattern{}
	}
	dash := max(2, resolution/50)
	gap := max(1, int(math.Round(float64(dash)*dashSpacing)))
	if dotted {
		dash = 2
	}
	return dashPattern{dash: dash, gap: gap}
}

// drawn reports whether the segment joining samples i and i+1 is drawn.
func (d dashPattern) drawn(i int) bool {
	if d.dash == 0 {
		return true
	}
	return i%(d.dash+d.gap) < d.dash-1
}

// joinSegments joins consecutive drawn segments into strips. seg returns
// the endpoints of segment i and false when the segment is not drawn.
func joinSegments(nseg int, dash dashPattern, seg func(i int) (a, b r3.Vec, ok bool)) [][]r3.Vec {
	var out [][]r3.Vec
	var cur []r3.Vec
	flush := func() {
		if len(cur) >= 2 {
			out = append(out, cur)
		}
		cur = nil
	}
	for i := 0; i < nseg; i++ {
		if !dash.drawn(i) {
			flush()
			continue
		}
		a, b, ok := seg(i)
		if !ok {
			flush()
			continue
		}
		if len(cur) > 0 && cur[len(cur)-1] == a {
			cur = append(cur, b)
			continue
		}
		flush()
		cur = []r3.Vec{a, b}
	}
	flush()
	return out
}

// CurveConfig configures Curve.
type CurveConfig struct {
	// Thickness sets the tube radius (see TubeRadius) and with it the
	// sample count.
	Thickness float64
	// DashSpacing is the gap to dash length ratio. Zero draws a solid line.
	DashSpacing float64
	// Dotted draws single-segment dots in place of dashes.
	Dotted bool
	// Resolution overrides CurveResolution when positive.
	Resolution int
	Color      color.NRGBA
}

// Curve samples c over r and keeps the maximal runs of consecutive samples
// inside b. A sample outside b splits the line without computing where it
// crosses the boundary. ErrEmpty is returned when no two consecutive
// samples are kept.
func Curve(c surfplot.Curve3, r surfplot.Interval, b surfplot.Bounds, cfg CurveConfig) (*Polyline, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("t range: %w", err)
	}
	res := cfg.Resolution
	if res <= 0 {
		res = CurveResolution(r.Span(), cfg.Thickness)
	}
	if res < 2 {
		return nil, fmt.Errorf("curve resolution %d less than 2", res)
	}
	ts := floats.Span(make([]float64, res), r.Min, r.Max)
	pts := make([]r3.Vec, res)
	if err := c.Evaluate(ts, pts); err != nil {
		return nil, fmt.Errorf("evaluating curve: %w", err)
	}
	keep := make([]bool, res)
	for i, p := range pts {
		keep[i] = b.Contains(p)
	}
	pl := &Polyline{Color: cfg.Color}
	pl.Strips = joinSegments(res-1, newDashPattern(res, cfg.DashSpacing, cfg.Dotted), func(i int) (r3.Vec, r3.Vec, bool) {
		return pts[i], pts[i+1], keep[i] && keep[i+1]
	})
	if pl.Empty() {
		return nil, ErrEmpty
	}
	return pl, nil
}

// Dashed returns a copy of p with every strip broken into dashes. The
// pattern of each strip is computed from its number of points.
func (p *Polyline) Dashed(dashSpacing float64) *Polyline { return p.broken(dashSpacing, false) }

// Dotted is like Dashed but breaks strips into single-segment dots.
func (p *Polyline) Dotted(dashSpacing float64) *Polyline { return p.broken(dashSpacing, true) }

func (p *Polyline) broken(dashSpacing float64, dotted bool) *Polyline {
	if p == nil || !(dashSpacing > 0) {
		return p
	}
	out := &Polyline{Color: p.Color}
	for _, s := range p.Strips {
		s := s
		out.Strips = append(out.Strips, joinSegments(len(s)-1, newDashPattern(len(s), dashSpacing, dotted), func(i int) (r3.Vec, r3.Vec, bool) {
			return s[i], s[i+1], true
		})...)
	}
	return out
}
