package render

import (
	"fmt"
	"math"

	"github.com/soypat/surfplot"
	"github.com/soypat/surfplot/internal/d3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultResolution is the default number of isosurface samples per axis.
const DefaultResolution = 100

// IsoConfig configures Isosurface.
type IsoConfig struct {
	// Resolution is the number of samples per axis. Zero means
	// DefaultResolution.
	Resolution int
	// Smooth configures the smoothing pass applied to the contour.
	Smooth SmoothConfig
	// SkipSmooth disables smoothing.
	SkipSmooth bool
}

// Isosurface samples f on a regular grid over b and extracts its zero level
// set as an indexed triangle mesh. Triangles face towards increasing field.
// Cells with a NaN corner are skipped. ErrEmpty is returned when the zero
// set does not cross the grid.
func Isosurface(f surfplot.Field3, b surfplot.Bounds, cfg IsoConfig) (*Mesh, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Resolution
	if n == 0 {
		n = DefaultResolution
	}
	if n < 2 {
		return nil, fmt.Errorf("isosurface resolution %d less than 2", n)
	}
	g := newGrid(b, n)
	vals := make([]float64, len(g.pos))
	if err := f.Evaluate(g.pos, vals); err != nil {
		return nil, fmt.Errorf("evaluating field: %w", err)
	}
	ms := mesher{
		g:     g,
		vals:  vals,
		edges: make(map[[2]int]int),
		m:     &Mesh{},
	}
	ms.march()
	if ms.m.Empty() {
		return nil, ErrEmpty
	}
	if !cfg.SkipSmooth {
		Smooth(ms.m, cfg.Smooth)
	}
	return ms.m, nil
}

// grid is a regular lattice of n samples per axis. Samples are stored with
// x varying fastest.
type grid struct {
	n   int
	pos []r3.Vec
}

func newGrid(b surfplot.Bounds, n int) grid {
	xs := floats.Span(make([]float64, n), b.Min.X, b.Max.X)
	ys := floats.Span(make([]float64, n), b.Min.Y, b.Max.Y)
	zs := floats.Span(make([]float64, n), b.Min.Z, b.Max.Z)
	g := grid{n: n, pos: make([]r3.Vec, n*n*n)}
	for k, z := range zs {
		for j, y := range ys {
			for i, x := range xs {
				g.pos[g.index(i, j, k)] = r3.Vec{X: x, Y: y, Z: z}
			}
		}
	}
	return g
}

func (g grid) index(i, j, k int) int { return i + g.n*(j+g.n*k) }

// Cube corners as (i,j,k) offsets.
var cubeCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// Six tetrahedra around the 0-6 diagonal. Every cube is split the same way
// so face diagonals of neighboring cubes coincide.
var cubeTetrahedra = [6][4]int{
	{0, 5, 1, 6}, {0, 1, 2, 6}, {0, 2, 3, 6},
	{0, 3, 7, 6}, {0, 7, 4, 6}, {0, 4, 5, 6},
}

type mesher struct {
	g    grid
	vals []float64
	// edges maps a grid edge (lower index first) to the mesh vertex on it.
	edges map[[2]int]int
	m     *Mesh
}

func (ms *mesher) march() {
	n := ms.g.n
	var idx [8]int
	for k := 0; k < n-1; k++ {
		for j := 0; j < n-1; j++ {
		cells:
			for i := 0; i < n-1; i++ {
				var below int
				for c, off := range cubeCorners {
					idx[c] = ms.g.index(i+off[0], j+off[1], k+off[2])
					v := ms.vals[idx[c]]
					if math.IsNaN(v) {
						continue cells
					}
					if v < 0 {
						below++
					}
				}
				if below == 0 || below == 8 {
					continue
				}
				for _, tet := range cubeTetrahedra {
					ms.tetrahedron([4]int{idx[tet[0]], idx[tet[1]], idx[tet[2]], idx[tet[3]]})
				}
			}
		}
	}
}

func (ms *mesher) tetrahedron(ids [4]int) {
	var in, out [4]int
	var ni, no int
	for _, id := range ids {
		if ms.vals[id] < 0 {
			in[ni] = id
			ni++
		} else {
			out[no] = id
			no++
		}
	}
	if ni == 0 || no == 0 {
		return
	}
	// Direction of increasing field across the tetrahedron.
	var cin, cout r3.Vec
	for _, id := range in[:ni] {
		cin = r3.Add(cin, ms.g.pos[id])
	}
	for _, id := range out[:no] {
		cout = r3.Add(cout, ms.g.pos[id])
	}
	dir := r3.Sub(r3.Scale(1/float64(no), cout), r3.Scale(1/float64(ni), cin))
	switch ni {
	case 1:
		ms.triangle(ms.vertex(in[0], out[0]), ms.vertex(in[0], out[1]), ms.vertex(in[0], out[2]), dir)
	case 3:
		ms.triangle(ms.vertex(out[0], in[0]), ms.vertex(out[0], in[1]), ms.vertex(out[0], in[2]), dir)
	case 2:
		a := ms.vertex(in[0], out[0])
		b := ms.vertex(in[0], out[1])
		c := ms.vertex(in[1], out[1])
		d := ms.vertex(in[1], out[0])
		ms.triangle(a, b, c, dir)
		ms.triangle(a, c, d, dir)
	}
}

// vertex returns the mesh vertex where the zero level crosses grid edge a-b.
func (ms *mesher) vertex(a, b int) int {
	if a > b {
		a, b = b, a
	}
	key := [2]int{a, b}
	if v, ok := ms.edges[key]; ok {
		return v
	}
	va, vb := ms.vals[a], ms.vals[b]
	t := va / (va - vb)
	v := len(ms.m.Vertices)
	ms.m.Vertices = append(ms.m.Vertices, d3.Lerp(ms.g.pos[a], ms.g.pos[b], t))
	ms.edges[key] = v
	return v
}

func (ms *mesher) triangle(a, b, c int, dir r3.Vec) {
	if a == b || b == c || c == a {
		return
	}
	p := ms.m.Vertices
	n := r3.Cross(r3.Sub(p[b], p[a]), r3.Sub(p[c], p[a]))
	if r3.Dot(n, dir) < 0 {
		b, c = c, b
	}
	ms.m.Triangles = append(ms.m.Triangles, [3]int{a, b, c})
}
