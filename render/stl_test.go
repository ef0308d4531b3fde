package render_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/surfplot/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLCreateWrite(t *testing.T) {
	sphere := unitSphere(t, 20)
	path := filepath.Join(t.TempDir(), "sphere.stl")
	if err := render.CreateSTL(path, render.NewMeshReader(sphere)); err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewMeshReader(sphere))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatal("WriteSTL and CreateSTL output length mismatch")
	}
	if b.Len() != 84+50*sphere.FaceCount() {
		t.Fatalf("STL of %d bytes for %d triangles", b.Len(), sphere.FaceCount())
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
}

func TestSTLRoundTrip(t *testing.T) {
	marker := render.Marker(r3.Vec{X: 0.1, Y: -3, Z: 7}, 0.3, render.Gradient{}.Solid())
	model := marker.Triangulate()
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	got, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(model))
	}
	for i := range got {
		for k := 0; k < 3; k++ {
			if !equalFloat32(got[i][k], model[i][k]) {
				t.Fatalf("triangle %d vertex %d: read %v, wrote %v", i, k, got[i][k], model[i][k])
			}
		}
	}
}

func equalFloat32(a, b r3.Vec) bool {
	return float32(a.X) == float32(b.X) && float32(a.Y) == float32(b.Y) && float32(a.Z) == float32(b.Z)
}

func TestSTLEmpty(t *testing.T) {
	if err := render.WriteSTL(&bytes.Buffer{}, nil); !errors.Is(err, render.ErrEmpty) {
		t.Errorf("WriteSTL: got %v, want ErrEmpty", err)
	}
	path := filepath.Join(t.TempDir(), "empty.stl")
	if err := render.CreateSTL(path, render.NewMeshReader(&render.Mesh{})); !errors.Is(err, render.ErrEmpty) {
		t.Errorf("CreateSTL: got %v, want ErrEmpty", err)
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 84))); err == nil {
		t.Error("ReadSTL accepted zero triangles")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 20))); err == nil {
		t.Error("ReadSTL accepted short header")
	}
}

func TestBuffers(t *testing.T) {
	m := &render.Mesh{
		Vertices: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Quads:    [][4]int{{0, 1, 2, 3}},
	}
	render.Colorize(m, render.Gradient{Opacity: 1})
	bufs, err := render.NewBuffers(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(bufs.Indices) != 6 || len(bufs.Positions) != 4 || len(bufs.Colors) != 4 {
		t.Fatalf("got %d indices, %d positions, %d colors", len(bufs.Indices), len(bufs.Positions), len(bufs.Colors))
	}
	for i, n := range bufs.Normals {
		if math32.Abs(n.Z-1) > 1e-6 || n.X != 0 || n.Y != 0 {
			t.Errorf("normal %d = %v, want +z", i, n)
		}
	}
	if bufs.Colors[0][3] != 1 {
		t.Errorf("alpha %g, want 1", bufs.Colors[0][3])
	}
	if tris := bufs.Triangles(); len(tris) != 2 || tris[1][1] != bufs.Positions[2] {
		t.Errorf("unexpected triangles %v", tris)
	}

	if _, err := render.NewBuffers(&render.Mesh{}); !errors.Is(err, render.ErrEmpty) {
		t.Errorf("got %v, want ErrEmpty", err)
	}
	m.Colors = m.Colors[:2]
	if _, err := render.NewBuffers(m); err == nil {
		t.Error("color count mismatch accepted")
	}
}
