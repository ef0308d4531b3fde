package render

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// MarkerRadius returns the radius of a point marker drawn with the given
// line thickness.
func MarkerRadius(thickness float64) float64 { return thickness * 0.05 }

// Marker returns an octahedron of the given radius centered at p with
// outward facing triangles.
func Marker(p r3.Vec, radius float64, c color.NRGBA) *Mesh {
	m := &Mesh{
		Vertices: []r3.Vec{
			r3.Add(p, r3.Vec{X: radius}), r3.Add(p, r3.Vec{X: -radius}),
			r3.Add(p, r3.Vec{Y: radius}), r3.Add(p, r3.Vec{Y: -radius}),
			r3.Add(p, r3.Vec{Z: radius}), r3.Add(p, r3.Vec{Z: -radius}),
		},
		Triangles: [][3]int{
			{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
			{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
		},
		Colors: make([]color.NRGBA, 6),
	}
	for i := range m.Colors {
		m.Colors[i] = c
	}
	return m
}
