package render

import (
	"github.com/soypat/surfplot"
	"github.com/soypat/surfplot/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ClipSegment clips segment p1-p2 against b. When an endpoint is outside,
// the clipped endpoint lies exactly on the boundary plane that cut it. ok is
// false if no part of the segment lies in b or an endpoint is not finite.
func ClipSegment(p1, p2 r3.Vec, b surfplot.Bounds) (q1, q2 r3.Vec, ok bool) {
	if !d3.Finite(p1) || !d3.Finite(p2) {
		return q1, q2, false
	}
	d := r3.Sub(p2, p1)
	t0, t1 := 0.0, 1.0
	axis0, axis1 := -1, -1
	var snap0, snap1 float64
	for axis := 0; axis < 3; axis++ {
		lo, hi := b.Axis(axis)
		p := d3.Comp(p1, axis)
		dp := d3.Comp(d, axis)
		// p + t*dp >= lo and p + t*dp <= hi written as P*t <= Q.
		for _, c := range [2]struct{ P, Q, plane float64 }{
			{P: -dp, Q: p - lo, plane: lo},
			{P: dp, Q: hi - p, plane: hi},
		} {
			if c.P == 0 {
				if c.Q < 0 {
					return q1, q2, false
				}
				continue
			}
			r := c.Q / c.P
			if c.P < 0 {
				// Entering the half space.
				if r > t1 {
					return q1, q2, false
				}
				if r > t0 {
					t0, axis0, snap0 = r, axis, c.plane
				}
			} else {
				if r < t0 {
					return q1, q2, false
				}
				if r < t1 {
					t1, axis1, snap1 = r, axis, c.plane
				}
			}
		}
	}
	q1, q2 = p1, p2
	if axis0 >= 0 {
		q1 = d3.SetComp(r3.Add(p1, r3.Scale(t0, d)), axis0, snap0)
	}
	if axis1 >= 0 {
		q2 = d3.SetComp(r3.Add(p1, r3.Scale(t1, d)), axis1, snap1)
	}
	return q1, q2, true
}
