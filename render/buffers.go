package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Buffers holds a mesh flattened for upload to a GPU: float32 positions,
// smooth vertex normals, RGBA colors in [0,1] and triangle indices.
type Buffers struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	Colors    [][4]float32
	Indices   []uint32
}

// NewBuffers flattens m. Quads are split in two triangles. Vertices without
// color are opaque white. Normals are the area weighted average of the
// normals of the faces around each vertex.
func NewBuffers(m *Mesh) (Buffers, error) {
	if m.Empty() {
		return Buffers{}, ErrEmpty
	}
	if int64(len(m.Vertices)) > math.MaxUint32 {
		return Buffers{}, errors.New("too many vertices for 32 bit indices")
	}
	if m.Colors != nil && len(m.Colors) != len(m.Vertices) {
		return Buffers{}, fmt.Errorf("have %d colors for %d vertices", len(m.Colors), len(m.Vertices))
	}
	bufs := Buffers{
		Positions: make([]ms3.Vec, len(m.Vertices)),
		Normals:   make([]ms3.Vec, len(m.Vertices)),
		Colors:    make([][4]float32, len(m.Vertices)),
	}
	for i, v := range m.Vertices {
		p := ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
		if badVec32(p) {
			return Buffers{}, fmt.Errorf("vertex %d not representable as float32: %v", i, v)
		}
		bufs.Positions[i] = p
		if m.Colors == nil {
			bufs.Colors[i] = [4]float32{1, 1, 1, 1}
			continue
		}
		c := m.Colors[i]
		bufs.Colors[i] = [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
	}
	tris := m.triangleIndices()
	bufs.Indices = make([]uint32, 0, 3*len(tris))
	for _, t := range tris {
		bufs.Indices = append(bufs.Indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
		tri := ms3.Triangle{bufs.Positions[t[0]], bufs.Positions[t[1]], bufs.Positions[t[2]]}
		// Unnormalized normal has the length of twice the triangle area.
		n := ms3.Cross(ms3.Sub(tri[1], tri[0]), ms3.Sub(tri[2], tri[0]))
		for _, vi := range t {
			bufs.Normals[vi] = ms3.Add(bufs.Normals[vi], n)
		}
	}
	for i, n := range bufs.Normals {
		if ms3.Norm(n) > 0 {
			bufs.Normals[i] = ms3.Unit(n)
		}
	}
	return bufs, nil
}

// Triangles returns the indexed triangles of the buffers.
func (b Buffers) Triangles() []ms3.Triangle {
	out := make([]ms3.Triangle, len(b.Indices)/3)
	for i := range out {
		out[i] = ms3.Triangle{
			b.Positions[b.Indices[3*i]],
			b.Positions[b.Indices[3*i+1]],
			b.Positions[b.Indices[3*i+2]],
		}
	}
	return out
}

func badVec32(v ms3.Vec) bool {
	return math32.IsNaN(v.X) || math32.IsInf(v.X, 0) ||
		math32.IsNaN(v.Y) || math32.IsInf(v.Y, 0) ||
		math32.IsNaN(v.Z) || math32.IsInf(v.Z, 0)
}
