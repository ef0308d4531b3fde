package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// R3 vector helpers not provided by gonum.

// Comp returns component axis (0:x, 1:y, 2:z) of v.
func Comp(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic("bad axis")
}

// SetComp returns v with component axis set to f.
func SetComp(v r3.Vec, axis int, f float64) r3.Vec {
	switch axis {
	case 0:
		v.X = f
	case 1:
		v.Y = f
	case 2:
		v.Z = f
	default:
		panic("bad axis")
	}
	return v
}

// Finite reports whether no component of v is NaN or infinite.
func Finite(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Lerp interpolates linearly from a (t=0) to b (t=1).
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}
