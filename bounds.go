package surfplot

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/surfplot/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultExtent is the half-size of the default global bounding box.
const DefaultExtent = 10

// Bounds is an axis aligned bounding box
// (xmin,xmax,ymin,ymax,zmin,zmax) in which geometry is kept.
type Bounds r3.Box

// NewBounds returns the box [xmin,xmax]×[ymin,ymax]×[zmin,zmax].
func NewBounds(xmin, xmax, ymin, ymax, zmin, zmax float64) Bounds {
	return Bounds{
		Min: r3.Vec{X: xmin, Y: ymin, Z: zmin},
		Max: r3.Vec{X: xmax, Y: ymax, Z: zmax},
	}
}

// DefaultBounds returns the cube [-10,10]³.
func DefaultBounds() Bounds {
	return NewBounds(-DefaultExtent, DefaultExtent, -DefaultExtent, DefaultExtent, -DefaultExtent, DefaultExtent)
}

// Box returns b as a gonum box.
func (b Bounds) Box() r3.Box { return r3.Box(b) }

// Size returns the extent of b along each axis.
func (b Bounds) Size() r3.Vec { return d3.Box(b).Size() }

// Center returns the center of b.
func (b Bounds) Center() r3.Vec { return d3.Box(b).Center() }

// Contains reports whether p lies in b, boundary included. Points with
// NaN components are never contained.
func (b Bounds) Contains(p r3.Vec) bool { return d3.Box(b).Contains(p) }

// Axis returns the interval of b along axis 0 (x), 1 (y) or 2 (z).
func (b Bounds) Axis(axis int) (min, max float64) {
	return d3.Comp(b.Min, axis), d3.Comp(b.Max, axis)
}

// Validate checks that every bound is finite and min <= max on each axis.
func (b Bounds) Validate() error {
	for axis := 0; axis < 3; axis++ {
		lo, hi := b.Axis(axis)
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return fmt.Errorf("%c bounds not finite: [%g, %g]", "xyz"[axis], lo, hi)
		}
		if lo > hi {
			return fmt.Errorf("%c bounds inverted: min %g > max %g", "xyz"[axis], lo, hi)
		}
	}
	return nil
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g,%g]x[%g,%g]x[%g,%g]", b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
}

// MergeBounds returns the effective bounds of a function given the global
// and the function's local bounds. On each axis a local bound only takes
// precedence when it is closer to zero than the global one:
//
//	min = global.Min if |global.Min| < |local.Min| else local.Min
//	max = global.Max if |local.Max| > |global.Max| else local.Max
func MergeBounds(global, local Bounds) Bounds {
	var out Bounds
	for axis := 0; axis < 3; axis++ {
		gmin, gmax := global.Axis(axis)
		lmin, lmax := local.Axis(axis)
		min, max := lmin, lmax
		if math.Abs(gmin) < math.Abs(lmin) {
			min = gmin
		}
		if math.Abs(lmax) > math.Abs(gmax) {
			max = gmax
		}
		out.Min = d3.SetComp(out.Min, axis, min)
		out.Max = d3.SetComp(out.Max, axis, max)
	}
	return out
}

// Interval is a closed parameter interval [Min, Max].
type Interval struct {
	Min, Max float64
}

// Span returns Max - Min.
func (i Interval) Span() float64 { return i.Max - i.Min }

// Mid returns the interval midpoint.
func (i Interval) Mid() float64 { return 0.5 * (i.Min + i.Max) }

// Validate checks the interval is finite with Min < Max.
func (i Interval) Validate() error {
	if math.IsNaN(i.Min) || math.IsNaN(i.Max) || math.IsInf(i.Min, 0) || math.IsInf(i.Max, 0) {
		return errors.New("interval not finite")
	}
	if !(i.Min < i.Max) {
		return fmt.Errorf("empty interval [%g, %g]", i.Min, i.Max)
	}
	return nil
}

// ParamRange holds the parameter intervals of parametric functions: T for
// curves, U and V for surfaces.
type ParamRange struct {
	T, U, V Interval
}

// DefaultParamRange returns [0,2π] for every parameter.
func DefaultParamRange() ParamRange {
	full := Interval{Min: 0, Max: 2 * math.Pi}
	return ParamRange{T: full, U: full, V: full}
}
