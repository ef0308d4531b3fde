package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/soypat/surfplot/internal/d3"
)

// Gradient is a linear color ramp from Start to End with constant opacity.
type Gradient struct {
	Start, End colorful.Color
	// Opacity is the alpha of every color in [0, 1].
	Opacity float64
}

// At returns the gradient color at t in [0,1]. t is clamped. A NaN t yields
// a fully transparent color.
func (g Gradient) At(t float64) color.NRGBA {
	if math.IsNaN(t) || math.IsNaN(g.Opacity) {
		return color.NRGBA{}
	}
	t = math.Min(1, math.Max(0, t))
	r, gr, b := g.Start.BlendRgb(g.End, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: gr, B: b, A: alpha(g.Opacity)}
}

// Solid returns the start color of the gradient with its opacity.
func (g Gradient) Solid() color.NRGBA { return g.At(0) }

func alpha(opacity float64) uint8 {
	return uint8(math.Round(255 * math.Min(1, math.Max(0, opacity))))
}

// Colorize assigns every vertex of m the gradient color of its height
// relative to the lowest and highest vertex. A flat mesh uses a height range
// of 1. Vertices with a non-finite coordinate are fully transparent.
func Colorize(m *Mesh, g Gradient) {
	if m == nil {
		return
	}
	zmin, zmax := math.Inf(1), math.Inf(-1)
	for _, v := range m.Vertices {
		if d3.Finite(v) {
			zmin = math.Min(zmin, v.Z)
			zmax = math.Max(zmax, v.Z)
		}
	}
	zrange := zmax - zmin
	if !(zrange > 0) || math.IsInf(zrange, 0) {
		zrange = 1
	}
	if cap(m.Colors) >= len(m.Vertices) {
		m.Colors = m.Colors[:len(m.Vertices)]
	} else {
		m.Colors = make([]color.NRGBA, len(m.Vertices))
	}
	for i, v := range m.Vertices {
		if !d3.Finite(v) {
			m.Colors[i] = color.NRGBA{}
			continue
		}
		m.Colors[i] = g.At((v.Z - zmin) / zrange)
	}
}
