// Package render tessellates compiled formulas into meshes and polylines:
// isosurfaces of implicit fields, adaptive grids of parametric surfaces,
// clipped and dashed curves, surface traces and contours.
package render

import (
	"errors"
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmpty is returned when tessellation produces no geometry. It is not
// fatal: the formula simply has nothing visible inside the bounds.
var ErrEmpty = errors.New("empty geometry")

// Renderer streams triangles. ReadTriangles returns io.EOF once all
// triangles have been read.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of the triangle following the right hand
// rule on its vertex order.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two vertices are within tol of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return r3.Norm(r3.Sub(t[0], t[1])) <= tol ||
		r3.Norm(r3.Sub(t[1], t[2])) <= tol ||
		r3.Norm(r3.Sub(t[2], t[0])) <= tol
}

// Mesh is an indexed polygon mesh made of triangles and quads.
type Mesh struct {
	Vertices  []r3.Vec
	Triangles [][3]int
	// Quads are emitted by the parametric tessellator in grid order
	// (u,v), (u+1,v), (u+1,v+1), (u,v+1).
	Quads [][4]int
	// Colors is nil or holds one color per vertex.
	Colors []color.NRGBA
}

// Empty returns true if the mesh has no faces.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Triangles)+len(m.Quads) == 0
}

// FaceCount returns the number of triangles the mesh has once its quads are
// split in two.
func (m *Mesh) FaceCount() int {
	if m == nil {
		return 0
	}
	return len(m.Triangles) + 2*len(m.Quads)
}

// Triangulate returns the faces of the mesh as triangles. Quads are split
// along their (0,2) diagonal.
func (m *Mesh) Triangulate() []Triangle3 {
	if m == nil {
		return nil
	}
	out := make([]Triangle3, 0, m.FaceCount())
	for _, t := range m.Triangles {
		out = append(out, Triangle3{m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]})
	}
	for _, q := range m.Quads {
		out = append(out,
			Triangle3{m.Vertices[q[0]], m.Vertices[q[1]], m.Vertices[q[2]]},
			Triangle3{m.Vertices[q[0]], m.Vertices[q[2]], m.Vertices[q[3]]},
		)
	}
	return out
}

// triangleIndices returns the triangle index triplets of the mesh with quads
// split the same way Triangulate does.
func (m *Mesh) triangleIndices() [][3]int {
	out := make([][3]int, 0, m.FaceCount())
	out = append(out, m.Triangles...)
	for _, q := range m.Quads {
		out = append(out, [3]int{q[0], q[1], q[2]}, [3]int{q[0], q[2], q[3]})
	}
	return out
}

// Polyline is a set of line strips sharing one color.
type Polyline struct {
	Strips [][]r3.Vec
	Color  color.NRGBA
}

// Empty returns true if the polyline has no segment.
func (p *Polyline) Empty() bool {
	if p == nil {
		return true
	}
	for _, s := range p.Strips {
		if len(s) >= 2 {
			return false
		}
	}
	return true
}

// Segments returns the number of line segments in the polyline.
func (p *Polyline) Segments() (n int) {
	if p == nil {
		return 0
	}
	for _, s := range p.Strips {
		if len(s) >= 2 {
			n += len(s) - 1
		}
	}
	return n
}

// Geometry is the renderable output of one formula. Each part is nil when
// absent and carries a visibility flag the renderer may toggle without
// tessellating again.
type Geometry struct {
	// Surface is an isosurface, a parametric surface or a point marker.
	Surface *Mesh
	// Lines is a parametric curve or the traces of a surface.
	Lines *Polyline
	// Tubes is Lines extruded to the configured thickness.
	Tubes *Mesh
	// Contour holds z-level contours of a surface.
	Contour *Polyline

	ShowSurface bool
	ShowLines   bool
	ShowContour bool
}

// Empty returns true if no part of g has visible geometry.
func (g Geometry) Empty() bool {
	return g.Surface.Empty() && g.Lines.Empty() && g.Tubes.Empty() && g.Contour.Empty()
}
