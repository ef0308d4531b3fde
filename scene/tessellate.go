package scene

import (
	"errors"
	"log/slog"

	"github.com/soypat/surfplot"
	"github.com/soypat/surfplot/classify"
	"github.com/soypat/surfplot/compile"
	"github.com/soypat/surfplot/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// job is a snapshot of the state needed to tessellate the stale parts of a
// Function.
type job struct {
	result classify.Result
	bounds surfplot.Bounds
	rng    surfplot.ParamRange
	rc     RenderConfig
	todo   parts
	gen    uint64
	// surface is the cached surface, sliced when only traces or contours
	// are stale.
	surface *render.Mesh
	log     *slog.Logger
}

// newJob returns the tessellation job of f with bounds merged against
// global. ok is false when nothing is stale.
func (f *Function) newJob(global surfplot.Bounds, log *slog.Logger) (j job, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	todo := f.pending()
	if todo == 0 {
		return j, false
	}
	return job{
		result:  f.result,
		bounds:  surfplot.MergeBounds(global, f.bounds),
		rng:     f.rng,
		rc:      f.render,
		todo:    todo,
		gen:     f.gen,
		surface: f.geom.Surface,
		log:     log,
	}, true
}

// tessellate recomputes the stale parts of f using coefficient values
// coeffs and stores the result.
func (f *Function) tessellate(coeffs map[string]float64, global surfplot.Bounds, cfg Config, log *slog.Logger) {
	j, ok := f.newJob(global, log)
	if !ok {
		return
	}
	g, err := j.run(coeffs, cfg)
	if err != nil {
		log.Warn("tessellation failed", slog.String("kind", j.result.Kind.String()), slog.Any("err", err))
	}
	f.commit(j, g, err)
}

// commit stores the parts computed by j. Parts invalidated while j ran stay
// stale.
func (f *Function) commit(j job, g render.Geometry, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j.todo&partSurface != 0 {
		f.geom.Surface = g.Surface
	}
	if j.todo&partLines != 0 {
		f.geom.Lines = g.Lines
		f.geom.Tubes = g.Tubes
	}
	if j.todo&partContour != 0 {
		f.geom.Contour = g.Contour
	}
	f.err = err
	if f.gen == j.gen {
		f.dirty &^= j.todo
	}
}

func (j *job) run(coeffs map[string]float64, cfg Config) (render.Geometry, error) {
	var g render.Geometry
	prog, err := compile.Compile(j.result, coeffs, compile.Options{Logger: j.log})
	if err != nil {
		return g, err
	}
	switch prog.Kind {
	case classify.Implicit:
		return j.implicit(prog.Field, cfg)
	case classify.ParametricSurface:
		return j.parametric(prog.Surface, cfg)
	case classify.ParametricCurve:
		return j.curve(prog.Curve, cfg)
	case classify.Point:
		return j.point(prog.Point)
	case classify.Degenerate, classify.Illegal:
		return g, nil
	}
	panic("unreachable kind " + prog.Kind.String())
}

// check filters out render.ErrEmpty, which only means part has nothing
// inside the bounds.
func (j *job) check(part string, err error) error {
	if errors.Is(err, render.ErrEmpty) {
		j.log.Debug("empty geometry", slog.String("part", part), slog.String("bounds", j.bounds.String()))
		return nil
	}
	return err
}

func (j *job) implicit(field surfplot.Field3, cfg Config) (g render.Geometry, err error) {
	surface := j.surface
	if j.todo&partSurface != 0 {
		surface, err = render.Isosurface(field, j.bounds, cfg.iso())
		if err = j.check("surface", err); err != nil {
			return g, err
		}
		if surface != nil {
			render.Colorize(surface, j.rc.gradient())
		}
		g.Surface = surface
	}
	if j.todo&partLines != 0 && surface != nil {
		// Vertical traces at constant x and constant y.
		pl := &render.Polyline{Color: j.rc.lineColor()}
		for axis := 0; axis < 2; axis++ {
			lo, hi := j.bounds.Axis(axis)
			s := render.Slice(surface, axis, render.Levels(lo, hi, j.rc.TraceSpacing))
			pl.Strips = append(pl.Strips, s.Strips...)
		}
		g.Lines = j.lines(pl)
	}
	if j.todo&partContour != 0 {
		g.Contour = j.contour(surface)
	}
	return g, nil
}

func (j *job) parametric(s surfplot.Surface3, cfg Config) (g render.Geometry, err error) {
	surface := j.surface
	if j.todo&partSurface != 0 {
		grad := j.rc.gradient()
		surface, err = render.ParametricSurface(s, j.rng.U, j.rng.V, j.bounds, cfg.parametric(&grad))
		if err = j.check("surface", err); err != nil {
			return g, err
		}
		g.Surface = surface
	}
	if j.todo&partLines != 0 {
		pl, err := render.Traces(s, j.rng.U, j.rng.V, j.bounds, render.TraceConfig{
			Spacing:     j.rc.TraceSpacing,
			DashSpacing: j.rc.DashSpacing,
			Dotted:      j.rc.Dotted,
			Color:       j.rc.lineColor(),
		})
		if err = j.check("traces", err); err != nil {
			return g, err
		}
		g.Lines = pl
	}
	if j.todo&partContour != 0 {
		g.Contour = j.contour(surface)
	}
	return g, nil
}

func (j *job) curve(c surfplot.Curve3, cfg Config) (g render.Geometry, err error) {
	pl, err := render.Curve(c, j.rng.T, j.bounds, render.CurveConfig{
		Thickness:   j.rc.Thickness,
		DashSpacing: j.rc.DashSpacing,
		Dotted:      j.rc.Dotted,
		Color:       j.rc.lineColor(),
	})
	if err = j.check("curve", err); err != nil || pl == nil {
		return g, err
	}
	g.Lines = pl
	g.Tubes = render.Tube(pl, render.TubeRadius(j.rc.Thickness), cfg.TubeSides)
	return g, nil
}

func (j *job) point(p r3.Vec) (g render.Geometry, err error) {
	if !j.bounds.Contains(p) {
		return g, j.check("point", render.ErrEmpty)
	}
	g.Surface = render.Marker(p, render.MarkerRadius(j.rc.Thickness), j.rc.gradient().Solid())
	return g, nil
}

// contour returns the z level contours of m every trace spacing.
func (j *job) contour(m *render.Mesh) *render.Polyline {
	if m == nil {
		return nil
	}
	lo, hi := j.bounds.Axis(2)
	pl := render.Slice(m, 2, render.Levels(lo, hi, j.rc.TraceSpacing))
	pl.Color = j.rc.lineColor()
	return j.lines(pl)
}

// lines applies the dash pattern to pl and drops it when empty.
func (j *job) lines(pl *render.Polyline) *render.Polyline {
	if j.rc.Dotted {
		pl = pl.Dotted(j.rc.DashSpacing)
	} else {
		pl = pl.Dashed(j.rc.DashSpacing)
	}
	if pl.Empty() {
		return nil
	}
	return pl
}
