package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/soypat/surfplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// TraceConfig configures Traces.
type TraceConfig struct {
	// Spacing is the parameter distance between consecutive traces.
	Spacing float64
	// DashSpacing is the gap to dash length ratio. Zero draws solid lines.
	DashSpacing float64
	// Dotted draws single-segment dots in place of dashes.
	Dotted bool
	Color  color.NRGBA
}

// Levels returns the multiples of spacing in [min, max] in increasing order.
func Levels(min, max, spacing float64) []float64 {
	if !(spacing > 0) || !(min <= max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil
	}
	const eps = 1e-9
	first := math.Ceil(min/spacing - eps)
	last := math.Floor(max/spacing + eps)
	var out []float64
	for k := first; k <= last; k++ {
		out = append(out, k*spacing)
	}
	return out
}

// Traces draws the wireframe of a parametric surface: curves of constant u
// and of constant v at the multiples of cfg.Spacing. Segments crossing the
// boundary of b are clipped exactly at it.
func Traces(s surfplot.Surface3, u, v surfplot.Interval, b surfplot.Bounds, cfg TraceConfig) (*Polyline, error) {
	if !(cfg.Spacing > 0) {
		return nil, errors.New("trace spacing must be positive")
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("u range: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("v range: %w", err)
	}
	pl := &Polyline{Color: cfg.Color}
	for _, uc := range Levels(u.Min, u.Max, cfg.Spacing) {
		strips, err := trace(s, uc, v, false, b, cfg)
		if err != nil {
			return nil, err
		}
		pl.Strips = append(pl.Strips, strips...)
	}
	for _, vc := range Levels(v.Min, v.Max, cfg.Spacing) {
		strips, err := trace(s, vc, u, true, b, cfg)
		if err != nil {
			return nil, err
		}
		pl.Strips = append(pl.Strips, strips...)
	}
	if pl.Empty() {
		return nil, ErrEmpty
	}
	return pl, nil
}

// trace samples s along one parameter with the other held at fixed.
func trace(s surfplot.Surface3, fixed float64, along surfplot.Interval, alongU bool, b surfplot.Bounds, cfg TraceConfig) ([][]r3.Vec, error) {
	res := TraceResolution(along.Span(), cfg.Spacing)
	ts := floats.Span(make([]float64, res), along.Min, along.Max)
	uv := make([]r2.Vec, res)
	for i, t := range ts {
		if alongU {
			uv[i] = r2.Vec{X: t, Y: fixed}
		} else {
			uv[i] = r2.Vec{X: fixed, Y: t}
		}
	}
	pts := make([]r3.Vec, res)
	if err := s.Evaluate(uv, pts); err != nil {
		return nil, fmt.Errorf("evaluating trace: %w", err)
	}
	return clipPolyline(pts, b, newDashPattern(res, cfg.DashSpacing, cfg.Dotted)), nil
}

// clipPolyline clips every segment of the sampled line pts against b and
// joins the results into strips.
func clipPolyline(pts []r3.Vec, b surfplot.Bounds, dash dashPattern) [][]r3.Vec {
	if len(pts) < 2 {
		return nil
	}
	return joinSegments(len(pts)-1, dash, func(i int) (r3.Vec, r3.Vec, bool) {
		return ClipSegment(pts[i], pts[i+1], b)
	})
}
