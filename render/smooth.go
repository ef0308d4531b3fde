package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SmoothConfig configures the windowed sinc smoothing filter.
type SmoothConfig struct {
	// Iterations is the degree of the Chebyshev expansion. Defaults to 15.
	Iterations int
	// PassBand is the filter pass band in (0, 2). Defaults to 0.1.
	PassBand float64
	// FixBoundary keeps boundary vertices in place instead of smoothing
	// them along the boundary.
	FixBoundary bool
	// FixNonManifold keeps vertices on edges shared by more than two faces
	// in place instead of smoothing them along those edges.
	FixNonManifold bool
}

func (cfg SmoothConfig) withDefaults() SmoothConfig {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 15
	}
	if cfg.PassBand <= 0 {
		cfg.PassBand = 0.1
	}
	return cfg
}

// Smooth moves the vertices of m with a windowed sinc low-pass filter
// (Hamming window) applied through a Chebyshev recurrence of the mesh
// Laplacian. Unlike plain Laplacian smoothing it does not shrink the mesh.
// Boundary and non-manifold vertices move only along their boundary or
// non-manifold edges, and only when they have exactly two such neighbors.
func Smooth(m *Mesh, cfg SmoothConfig) {
	if m.Empty() {
		return
	}
	cfg = cfg.withDefaults()
	nbrs := smoothingNeighbors(m, cfg)
	c := sincCoefficients(cfg.Iterations, cfg.PassBand)

	nv := len(m.Vertices)
	x0 := append([]r3.Vec(nil), m.Vertices...)
	x1 := make([]r3.Vec, nv)
	x2 := make([]r3.Vec, nv)
	out := make([]r3.Vec, nv)
	for i, p := range x0 {
		x1[i] = r3.Add(p, r3.Scale(0.5, laplacian(x0, i, nbrs[i])))
		out[i] = r3.Add(r3.Scale(c[0], p), r3.Scale(c[1], x1[i]))
	}
	for it := 2; it <= cfg.Iterations; it++ {
		for i := range x2 {
			// T_{k+1}(A)x = 2A T_k(A)x - T_{k-1}(A)x with A = I + L/2.
			x2[i] = r3.Add(r3.Sub(r3.Scale(2, x1[i]), x0[i]), laplacian(x1, i, nbrs[i]))
			out[i] = r3.Add(out[i], r3.Scale(c[it], x2[i]))
		}
		x0, x1, x2 = x1, x2, x0
	}
	for i, nb := range nbrs {
		if len(nb) > 0 {
			m.Vertices[i] = out[i]
		}
	}
}

// laplacian returns the mean of the neighbors of vertex i minus vertex i.
func laplacian(x []r3.Vec, i int, nb []int) r3.Vec {
	if len(nb) == 0 {
		return r3.Vec{}
	}
	var sum r3.Vec
	for _, j := range nb {
		sum = r3.Add(sum, x[j])
	}
	return r3.Sub(r3.Scale(1/float64(len(nb)), sum), x[i])
}

// smoothingNeighbors returns for each vertex the neighbors it is smoothed
// towards. Vertices that stay fixed have no neighbors. Neighbor order
// follows face order so results are deterministic.
func smoothingNeighbors(m *Mesh, cfg SmoothConfig) [][]int {
	faces := make([][]int, 0, len(m.Triangles)+len(m.Quads))
	for i := range m.Triangles {
		faces = append(faces, m.Triangles[i][:])
	}
	for i := range m.Quads {
		faces = append(faces, m.Quads[i][:])
	}
	edgeKey := func(a, b int) [2]int {
		if a > b {
			a, b = b, a
		}
		return [2]int{a, b}
	}
	uses := make(map[[2]int]int)
	for _, f := range faces {
		for k := range f {
			uses[edgeKey(f[k], f[(k+1)%len(f)])]++
		}
	}
	nv := len(m.Vertices)
	all := make([][]int, nv)
	special := make([][]int, nv)
	onSpecial := make([]bool, nv)
	fixed := make([]bool, nv)
	add := func(list [][]int, a, b int) {
		for _, x := range list[a] {
			if x == b {
				return
			}
		}
		list[a] = append(list[a], b)
	}
	for _, f := range faces {
		for k := range f {
			a, b := f[k], f[(k+1)%len(f)]
			add(all, a, b)
			add(all, b, a)
			n := uses[edgeKey(a, b)]
			boundary, nonManifold := n == 1, n > 2
			if !boundary && !nonManifold {
				continue
			}
			onSpecial[a], onSpecial[b] = true, true
			if (boundary && cfg.FixBoundary) || (nonManifold && cfg.FixNonManifold) {
				fixed[a], fixed[b] = true, true
				continue
			}
			add(special, a, b)
			add(special, b, a)
		}
	}
	for i := range all {
		switch {
		case fixed[i]:
			all[i] = nil
		case onSpecial[i]:
			// Corners of the boundary stay put.
			if len(special[i]) == 2 {
				all[i] = special[i]
			} else {
				all[i] = nil
			}
		}
	}
	return all
}

// sincCoefficients returns the Chebyshev coefficients of a Hamming windowed
// sinc filter of degree n and pass band kpb. The cutoff is shifted by a
// Newton search so that the filter response at the pass band is 1.
func sincCoefficients(n int, kpb float64) []float64 {
	thetaPB := math.Acos(1 - 0.5*kpb)
	w := make([]float64, n+1)
	for i := range w {
		w[i] = 0.54 + 0.46*math.Cos(float64(i)*math.Pi/float64(n+1))
	}
	c := make([]float64, n+1)
	cprime := make([]float64, n+1)
	var sigma float64
	for iter := 0; iter < 500; iter++ {
		theta := thetaPB + sigma
		c[0] = w[0] * theta / math.Pi
		for i := 1; i <= n; i++ {
			c[i] = 2 * w[i] * math.Sin(float64(i)*theta) / (float64(i) * math.Pi)
		}
		if n < 2 {
			break
		}
		// Chebyshev coefficients of the filter derivative.
		cprime[n] = 0
		cprime[n-1] = 0
		cprime[n-2] = 2 * float64(n-1) * c[n-1]
		for i := n - 3; i >= 0; i-- {
			cprime[i] = cprime[i+2] + 2*float64(i+1)*c[i+1]
		}
		var f, fprime float64
		for i := 0; i <= n; i++ {
			ti := math.Cos(float64(i) * thetaPB)
			f += c[i] * ti
			fprime += cprime[i] * ti
		}
		if math.Abs(f-1) < 1e-3 || fprime == 0 {
			break
		}
		sigma -= (f - 1) / fprime
	}
	return c
}
