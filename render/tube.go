package render

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultTubeSides is the number of vertices around a tube ring.
const DefaultTubeSides = 8

// Tube extrudes every strip of p into an open tube of the given radius with
// sides vertices per ring. Rings are oriented with parallel transport frames
// so tubes do not twist. Triangles face outwards.
func Tube(p *Polyline, radius float64, sides int) *Mesh {
	m := &Mesh{}
	if p == nil || !(radius > 0) {
		return m
	}
	if sides < 3 {
		sides = DefaultTubeSides
	}
	for _, s := range p.Strips {
		tubeStrip(m, s, radius, sides)
	}
	m.Colors = make([]color.NRGBA, len(m.Vertices))
	for i := range m.Colors {
		m.Colors[i] = p.Color
	}
	return m
}

func tubeStrip(m *Mesh, s []r3.Vec, radius float64, sides int) {
	if len(s) < 2 {
		return
	}
	tangents := stripTangents(s)
	if tangents == nil {
		return
	}
	base := len(m.Vertices)
	n := perpendicular(tangents[0])
	for i, p := range s {
		t := tangents[i]
		if i > 0 {
			n = transport(n, t)
		}
		b := r3.Cross(t, n)
		for k := 0; k < sides; k++ {
			a := 2 * math.Pi * float64(k) / float64(sides)
			off := r3.Add(r3.Scale(math.Cos(a), n), r3.Scale(math.Sin(a), b))
			m.Vertices = append(m.Vertices, r3.Add(p, r3.Scale(radius, off)))
		}
	}
	for i := 0; i+1 < len(s); i++ {
		ring := base + i*sides
		for k := 0; k < sides; k++ {
			a := ring + k
			b := ring + (k+1)%sides
			c := b + sides
			d := a + sides
			m.Triangles = append(m.Triangles, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
}

// stripTangents returns unit tangents of a strip. Zero length steps take the
// tangent of a neighbor. It returns nil when every point of s coincides.
func stripTangents(s []r3.Vec) []r3.Vec {
	t := make([]r3.Vec, len(s))
	valid := -1
	for i := range s {
		lo, hi := max(i-1, 0), min(i+1, len(s)-1)
		d := r3.Sub(s[hi], s[lo])
		if n := r3.Norm(d); n > 0 {
			t[i] = r3.Scale(1/n, d)
			if valid < 0 {
				valid = i
			}
		}
	}
	if valid < 0 {
		return nil
	}
	for i := valid - 1; i >= 0; i-- {
		t[i] = t[i+1]
	}
	for i := valid + 1; i < len(t); i++ {
		if t[i] == (r3.Vec{}) {
			t[i] = t[i-1]
		}
	}
	return t
}

// perpendicular returns a unit vector perpendicular to unit vector t.
func perpendicular(t r3.Vec) r3.Vec {
	axis := r3.Vec{X: 1}
	ax, ay, az := math.Abs(t.X), math.Abs(t.Y), math.Abs(t.Z)
	switch {
	case ay <= ax && ay <= az:
		axis = r3.Vec{Y: 1}
	case az <= ax && az <= ay:
		axis = r3.Vec{Z: 1}
	}
	return r3.Unit(r3.Cross(t, axis))
}

// transport projects normal n onto the plane perpendicular to t.
func transport(n, t r3.Vec) r3.Vec {
	p := r3.Sub(n, r3.Scale(r3.Dot(n, t), t))
	if r3.Norm(p) < 1e-12 {
		return perpendicular(t)
	}
	return r3.Unit(p)
}
