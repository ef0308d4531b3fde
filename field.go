// Package surfplot holds the geometry shared by the formula compiler and the
// tessellators: bounding boxes, parameter ranges and the batched evaluator
// interfaces that compiled formulas implement.
package surfplot

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrShortBuffer is returned by evaluators whose destination is shorter
// than their input.
var ErrShortBuffer = errors.New("destination buffer shorter than input")

// Field3 is a scalar field f(x,y,z) evaluated in batches. Evaluate writes
// f(pos[i]) to dst[i]. Samples outside the real domain are NaN.
type Field3 interface {
	Evaluate(pos []r3.Vec, dst []float64) error
}

// Curve3 is a parametric curve r(t) evaluated in batches.
type Curve3 interface {
	Evaluate(t []float64, dst []r3.Vec) error
}

// Surface3 is a parametric surface r(u,v) evaluated in batches. The
// parameters of sample i are uv[i].X and uv[i].Y.
type Surface3 interface {
	Evaluate(uv []r2.Vec, dst []r3.Vec) error
}

// FieldFunc adapts a pointwise function to Field3.
type FieldFunc func(p r3.Vec) float64

func (f FieldFunc) Evaluate(pos []r3.Vec, dst []float64) error {
	if len(dst) < len(pos) {
		return ErrShortBuffer
	}
	for i, p := range pos {
		dst[i] = f(p)
	}
	return nil
}

// CurveFunc adapts a pointwise function to Curve3.
type CurveFunc func(t float64) r3.Vec

func (f CurveFunc) Evaluate(t []float64, dst []r3.Vec) error {
	if len(dst) < len(t) {
		return ErrShortBuffer
	}
	for i, ti := range t {
		dst[i] = f(ti)
	}
	return nil
}

// SurfaceFunc adapts a pointwise function to Surface3.
type SurfaceFunc func(u, v float64) r3.Vec

func (f SurfaceFunc) Evaluate(uv []r2.Vec, dst []r3.Vec) error {
	if len(dst) < len(uv) {
		return ErrShortBuffer
	}
	for i, p := range uv {
		dst[i] = f(p.X, p.Y)
	}
	return nil
}
