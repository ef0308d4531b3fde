package render

import (
	"github.com/soypat/surfplot/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Slice intersects the faces of m with the planes where coordinate axis
// (0:x, 1:y, 2:z) equals each level. Intersection points lie exactly on
// their plane. Closed loops repeat their first point at the end.
func Slice(m *Mesh, axis int, levels []float64) *Polyline {
	pl := &Polyline{}
	if m.Empty() {
		return pl
	}
	tris := m.triangleIndices()
	for _, level := range levels {
		pl.Strips = append(pl.Strips, sliceLevel(m.Vertices, tris, axis, level)...)
	}
	return pl
}

// meshEdge is an edge of a mesh with the lower vertex index first.
type meshEdge [2]int

func newMeshEdge(a, b int) meshEdge {
	if a > b {
		a, b = b, a
	}
	return meshEdge{a, b}
}

func sliceLevel(verts []r3.Vec, tris [][3]int, axis int, level float64) [][]r3.Vec {
	points := make(map[meshEdge]r3.Vec)
	adj := make(map[meshEdge][]meshEdge)
	var order []meshEdge
	above := func(i int) bool { return d3.Comp(verts[i], axis) >= level }
	crossing := func(a, b int) meshEdge {
		e := newMeshEdge(a, b)
		if _, ok := points[e]; !ok {
			da := d3.Comp(verts[e[0]], axis) - level
			db := d3.Comp(verts[e[1]], axis) - level
			p := d3.Lerp(verts[e[0]], verts[e[1]], da/(da-db))
			points[e] = d3.SetComp(p, axis, level)
			order = append(order, e)
		}
		return e
	}
	for _, t := range tris {
		if !d3.Finite(verts[t[0]]) || !d3.Finite(verts[t[1]]) || !d3.Finite(verts[t[2]]) {
			continue
		}
		var hits [3]meshEdge
		n := 0
		for k := 0; k < 3; k++ {
			a, b := t[k], t[(k+1)%3]
			if above(a) != above(b) {
				hits[n] = crossing(a, b)
				n++
			}
		}
		if n == 2 {
			adj[hits[0]] = append(adj[hits[0]], hits[1])
			adj[hits[1]] = append(adj[hits[1]], hits[0])
		}
	}

	visited := make(map[meshEdge]bool, len(order))
	walk := func(start meshEdge) []r3.Vec {
		strip := []r3.Vec{points[start]}
		visited[start] = true
		cur := start
		for {
			next, found := cur, false
			for _, e := range adj[cur] {
				if !visited[e] {
					next, found = e, true
					break
				}
			}
			if !found {
				break
			}
			visited[next] = true
			strip = append(strip, points[next])
			cur = next
		}
		if len(strip) > 2 {
			for _, e := range adj[cur] {
				if e == start {
					strip = append(strip, points[start])
					break
				}
			}
		}
		return strip
	}
	var out [][]r3.Vec
	// Open chains start at their ends.
	for _, e := range order {
		if !visited[e] && len(adj[e]) == 1 {
			out = append(out, walk(e))
		}
	}
	for _, e := range order {
		if !visited[e] && len(adj[e]) > 0 {
			out = append(out, walk(e))
		}
	}
	return out
}
