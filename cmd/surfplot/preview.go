package main

import (
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/surfplot/render"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Scale down previews relative to Full HD resolution.
	fhdScaler     = 0.4
	width, height = int(1920. * fhdScaler), int(1080. * fhdScaler) // preview size in pixels
)

type viewConfig struct {
	// what position (point) to look at
	lookat r3.Vec
	// which way is up (direction)
	up r3.Vec
	// where the camera/eye located at (point)
	eyepos r3.Vec
	far    float64
	near   float64
}

var defaultView = viewConfig{
	up:     r3.Vec{Z: 1},
	eyepos: r3.Vec{X: 2.4, Y: 2.4, Z: 2.4}, // iso view.
	near:   1,
	far:    10,
}

// meshToPNG renders meshes with a phong shader and writes the image to
// outputname. Meshes go through the same float32 buffers a GPU would get.
func meshToPNG(meshes []*render.Mesh, outputname string, view viewConfig) error {
	const (
		scale = 2  // supersampling
		fovy  = 30 // vertical field of view in degrees
	)
	var tris []*fauxgl.Triangle
	for _, m := range meshes {
		bufs, err := render.NewBuffers(m)
		if err != nil {
			return err
		}
		for _, t := range bufs.Triangles() {
			tris = append(tris, fauxgl.NewTriangleForPoints(vec32(t[0]), vec32(t[1]), vec32(t[2])))
		}
	}
	mesh := fauxgl.NewTriangleMesh(tris)

	var (
		eye    = vec(view.eyepos)
		center = vec(view.lookat)
		up     = vec(view.up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.near, view.far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor("#007FFF")
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(width), uint(height), image, resize.Bilinear)
	return fauxgl.SavePNG(outputname, image)
}

func vec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }

func vec32(v ms3.Vec) fauxgl.Vector { return fauxgl.V(float64(v.X), float64(v.Y), float64(v.Z)) }
