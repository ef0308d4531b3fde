package render

import (
	"github.com/soypat/surfplot/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = kdVertices{}
	_ kdtree.Comparable = kdVertex{}
)

// Weld returns a copy of m where vertices closer than tol share one index.
// The first vertex of each group in index order survives. Faces that
// collapse to fewer than three distinct vertices are dropped and quads
// that lose one corner become triangles.
func Weld(m *Mesh, tol float64) *Mesh {
	if m == nil || tol <= 0 || len(m.Vertices) == 0 {
		return m
	}
	pts := make(kdVertices, len(m.Vertices))
	for i, v := range m.Vertices {
		pts[i] = kdVertex{Vec: v, idx: i}
	}
	tree := kdtree.New(pts, false)

	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = -1
	}
	out := &Mesh{}
	for i, v := range m.Vertices {
		if remap[i] >= 0 {
			continue
		}
		k := len(out.Vertices)
		remap[i] = k
		out.Vertices = append(out.Vertices, v)
		if m.Colors != nil {
			out.Colors = append(out.Colors, m.Colors[i])
		}
		keep := kdtree.NewDistKeeper(tol * tol)
		tree.NearestSet(keep, kdVertex{Vec: v})
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue // sentinel
			}
			if j := c.Comparable.(kdVertex).idx; remap[j] < 0 {
				remap[j] = k
			}
		}
	}

	for _, t := range m.Triangles {
		t = [3]int{remap[t[0]], remap[t[1]], remap[t[2]]}
		if t[0] != t[1] && t[1] != t[2] && t[2] != t[0] {
			out.Triangles = append(out.Triangles, t)
		}
	}
	for _, q := range m.Quads {
		var face []int
		for k := range q {
			a, b := remap[q[k]], remap[q[(k+1)%4]]
			if a != b {
				face = append(face, a)
			}
		}
		switch {
		case len(face) == 4 && face[0] != face[2] && face[1] != face[3]:
			out.Quads = append(out.Quads, [4]int{face[0], face[1], face[2], face[3]})
		case len(face) == 3 && face[0] != face[2]:
			out.Triangles = append(out.Triangles, [3]int{face[0], face[1], face[2]})
		}
	}
	return out
}

type kdVertices []kdVertex

// kdVertex is a mesh vertex stored in a k-d tree along with its index.
type kdVertex struct {
	r3.Vec
	idx int
}

func (k kdVertices) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdVertices) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdVertices) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), vertices: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdVertices) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a kdVertex) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return d3.Comp(a.Vec, int(d)) - d3.Comp(b.(kdVertex).Vec, int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdVertex) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdVertex) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.Vec, b.(kdVertex).Vec))
}

type kdPlane struct {
	dim      int
	vertices kdVertices
}

func (p kdPlane) Less(i, j int) bool {
	return p.vertices[i].Compare(p.vertices[j], kdtree.Dim(p.dim)) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
}
func (p kdPlane) Len() int {
	return len(p.vertices)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.vertices = p.vertices[start:end]
	return p
}
