package render

import "io"

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var err error
	var nt int
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// MultiRenderer returns a Renderer that is the logical concatenation of
// rs. Triangles are read from each in turn until all have returned io.EOF.
func MultiRenderer(rs ...Renderer) Renderer {
	return &multiRenderer{rs: append([]Renderer(nil), rs...)}
}

type multiRenderer struct {
	rs []Renderer
}

func (mr *multiRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	for len(mr.rs) > 0 {
		n, err = mr.rs[0].ReadTriangles(dst)
		if err == io.EOF {
			mr.rs = mr.rs[1:]
		}
		if n > 0 || err != io.EOF {
			if err == io.EOF && len(mr.rs) > 0 {
				err = nil
			}
			return n, err
		}
	}
	return 0, io.EOF
}

// meshReader streams the faces of a Mesh. Quads are split like
// Mesh.Triangulate does.
type meshReader struct {
	m    *Mesh
	next int // index of next triangle, quads count twice after triangles.
}

// NewMeshReader returns a Renderer that streams the faces of m.
func NewMeshReader(m *Mesh) Renderer {
	return &meshReader{m: m}
}

// ReadTriangles writes triangles of the mesh into dst and returns
// the number written. io.EOF is returned once every face was read.
func (r *meshReader) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	total := r.m.FaceCount()
	nt := len(r.m.Triangles)
	for n < len(dst) && r.next < total {
		i := r.next
		if i < nt {
			t := r.m.Triangles[i]
			dst[n] = Triangle3{r.m.Vertices[t[0]], r.m.Vertices[t[1]], r.m.Vertices[t[2]]}
		} else {
			q := r.m.Quads[(i-nt)/2]
			if (i-nt)%2 == 0 {
				dst[n] = Triangle3{r.m.Vertices[q[0]], r.m.Vertices[q[1]], r.m.Vertices[q[2]]}
			} else {
				dst[n] = Triangle3{r.m.Vertices[q[0]], r.m.Vertices[q[2]], r.m.Vertices[q[3]]}
			}
		}
		n++
		r.next++
	}
	if r.next == total {
		return n, io.EOF
	}
	return n, nil
}
