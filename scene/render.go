package scene

import (
	"errors"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/soypat/surfplot/classify"
	"github.com/soypat/surfplot/render"
)

// RenderConfig holds the display parameters of a Function.
type RenderConfig struct {
	ShowSurface bool
	ShowLines   bool
	ShowContour bool
	// Thickness scales tube radius, curve resolution and point markers.
	Thickness float64
	// DashSpacing is the gap to dash ratio of lines. Zero draws solid lines.
	DashSpacing float64
	// Dotted draws lines as dots spaced like the gaps of dashes.
	Dotted bool
	// Opacity of surfaces in [0, 1].
	Opacity float64
	// ColorStart and ColorEnd are the bottom and top colors of the height
	// gradient of surfaces.
	ColorStart colorful.Color
	ColorEnd   colorful.Color
	LineColor  colorful.Color
	// TraceSpacing is the distance between traces and contour levels.
	TraceSpacing float64
}

// DefaultRenderConfig returns the display parameters of a new Function.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		ShowSurface:  true,
		ShowLines:    true,
		Thickness:    1,
		Opacity:      1,
		ColorStart:   colorful.Color{R: 0, G: 127.0 / 255, B: 1},
		ColorEnd:     colorful.Color{R: 1, G: 127.0 / 255, B: 80.0 / 255},
		LineColor:    colorful.Color{R: 44.0 / 255, G: 53.0 / 255, B: 57.0 / 255},
		TraceSpacing: 0.5,
	}
}

// Validate checks the numeric fields of c.
func (c RenderConfig) Validate() error {
	switch {
	case !(c.Thickness > 0) || math.IsInf(c.Thickness, 0):
		return errors.New("thickness must be positive")
	case !(c.DashSpacing >= 0) || math.IsInf(c.DashSpacing, 0):
		return errors.New("dash spacing must be non-negative")
	case !(c.Opacity >= 0 && c.Opacity <= 1):
		return errors.New("opacity outside [0, 1]")
	case !(c.TraceSpacing > 0) || math.IsInf(c.TraceSpacing, 0):
		return errors.New("trace spacing must be positive")
	}
	return nil
}

func (c RenderConfig) gradient() render.Gradient {
	return render.Gradient{Start: c.ColorStart, End: c.ColorEnd, Opacity: c.Opacity}
}

func (c RenderConfig) lineColor() color.NRGBA {
	return render.Gradient{Start: c.LineColor, End: c.LineColor, Opacity: 1}.Solid()
}

// parts is a set of geometry parts of a Function.
type parts uint8

const (
	partSurface parts = 1 << iota
	partLines
	partContour

	allParts = partSurface | partLines | partContour
)

// invalidated returns the parts of a Function of kind k that must be
// tessellated again when its render config changes from old to c. Toggling
// visibility invalidates nothing.
func (c RenderConfig) invalidated(old RenderConfig, k classify.Kind) parts {
	var p parts
	if c.ColorStart != old.ColorStart || c.ColorEnd != old.ColorEnd || c.Opacity != old.Opacity {
		p |= partSurface
	}
	if c.DashSpacing != old.DashSpacing || c.Dotted != old.Dotted || c.LineColor != old.LineColor || c.TraceSpacing != old.TraceSpacing {
		p |= partLines | partContour
	}
	if c.Thickness != old.Thickness {
		switch k {
		case classify.Point:
			p |= partSurface
		case classify.ParametricCurve:
			p |= partLines
		case classify.Implicit, classify.ParametricSurface, classify.Degenerate, classify.Illegal:
		default:
			panic("unreachable kind " + k.String())
		}
	}
	return p
}

// primary returns the parts of kind k that are computed regardless of
// visibility flags.
func primary(k classify.Kind) parts {
	switch k {
	case classify.Implicit, classify.ParametricSurface, classify.Point:
		return partSurface
	case classify.ParametricCurve:
		return partLines
	case classify.Degenerate, classify.Illegal:
		return 0
	}
	panic("unreachable kind " + k.String())
}

// supported returns every part a Function of kind k can produce.
func supported(k classify.Kind) parts {
	switch k {
	case classify.Implicit, classify.ParametricSurface:
		return allParts
	case classify.ParametricCurve:
		return partLines
	case classify.Point:
		return partSurface
	case classify.Degenerate, classify.Illegal:
		return 0
	}
	panic("unreachable kind " + k.String())
}
