package scene

import (
	"hash/fnv"
	"strings"
	"sync"

	"github.com/soypat/surfplot"
	"github.com/soypat/surfplot/classify"
	"github.com/soypat/surfplot/expr"
	"github.com/soypat/surfplot/render"
	"github.com/soypat/surfplot/textproc"
)

// Function is one committed formula with its display state and cached
// geometry. Its methods are safe for concurrent use.
type Function struct {
	source    string
	result    classify.Result
	canonical string

	mu     sync.Mutex
	bounds surfplot.Bounds
	rng    surfplot.ParamRange
	render RenderConfig
	geom   render.Geometry
	// dirty holds the parts whose cached geometry is stale.
	dirty parts
	// gen is incremented on every invalidation so a tessellation started
	// before a change does not mark the new state as clean.
	gen uint64
	err error
}

// NewFunction preprocesses and classifies source the way Scene.Commit does
// and returns its Function. Illegal formulas yield an error wrapping
// classify.ErrIllegal.
func NewFunction(source string) (*Function, error) {
	source = strings.TrimSpace(source)
	r, err := classify.Classify(textproc.Preprocess(source))
	if err != nil {
		return nil, err
	}
	return newFunction(source, r), nil
}

func newFunction(source string, r classify.Result) *Function {
	return &Function{
		source:    source,
		result:    r,
		canonical: expr.Canonical(r.Expr),
		bounds:    surfplot.DefaultBounds(),
		rng:       surfplot.DefaultParamRange(),
		render:    DefaultRenderConfig(),
		dirty:     supported(r.Kind),
	}
}

// Source returns the formula text the Function was created from.
func (f *Function) Source() string { return f.source }

// Kind returns the classification of the formula.
func (f *Function) Kind() classify.Kind { return f.result.Kind }

// Coefficients returns the sorted coefficient names of the formula.
func (f *Function) Coefficients() []string {
	return append([]string(nil), f.result.Coefficients...)
}

// Canonical returns the expanded and simplified form of the formula.
func (f *Function) Canonical() string { return f.canonical }

// Hash returns the FNV-64a hash of the canonical form. Equal Functions have
// equal hashes.
func (f *Function) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(f.canonical))
	return h.Sum64()
}

// Equal reports whether f and g describe the same geometry: their canonical
// forms or their sources are equal.
func (f *Function) Equal(g *Function) bool {
	return f.canonical == g.canonical || f.source == g.source
}

// Bounds returns the local bounds of f.
func (f *Function) Bounds() surfplot.Bounds {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bounds
}

// SetBounds sets the local bounds of f. They are merged with the scene's
// global bounds with surfplot.MergeBounds.
func (f *Function) SetBounds(b surfplot.Bounds) error {
	if err := b.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if b != f.bounds {
		f.bounds = b
		f.invalidate(allParts)
	}
	return nil
}

// Range returns the parameter ranges of f.
func (f *Function) Range() surfplot.ParamRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng
}

// SetRange sets the parameter ranges of f. Only the intervals used by the
// kind of f are validated.
func (f *Function) SetRange(r surfplot.ParamRange) error {
	var used []surfplot.Interval
	switch f.Kind() {
	case classify.ParametricCurve:
		used = []surfplot.Interval{r.T}
	case classify.ParametricSurface:
		used = []surfplot.Interval{r.U, r.V}
	case classify.Implicit, classify.Point, classify.Degenerate, classify.Illegal:
	default:
		panic("unreachable kind " + f.Kind().String())
	}
	for _, iv := range used {
		if err := iv.Validate(); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if r != f.rng {
		f.rng = r
		if len(used) > 0 {
			f.invalidate(allParts)
		}
	}
	return nil
}

// Render returns the display parameters of f.
func (f *Function) Render() RenderConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.render
}

// SetRender sets the display parameters of f. Only the geometry affected
// by the changed fields is tessellated again.
func (f *Function) SetRender(c RenderConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidate(c.invalidated(f.render, f.Kind()))
	f.render = c
	return nil
}

// Geometry returns the cached geometry of f with the current visibility
// flags. Parts are nil when absent or not yet tessellated.
func (f *Function) Geometry() render.Geometry {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := f.geom
	g.ShowSurface = f.render.ShowSurface
	g.ShowLines = f.render.ShowLines
	g.ShowContour = f.render.ShowContour
	return g
}

// Dirty reports whether visible geometry of f needs tessellation.
func (f *Function) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending() != 0
}

// Err returns the error of the last tessellation, nil when it succeeded or
// produced no visible geometry.
func (f *Function) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Info returns informational text about f: the value of a Degenerate
// formula or the error of the last tessellation.
func (f *Function) Info() string {
	if f.Kind() == classify.Degenerate {
		return f.result.Info()
	}
	if err := f.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// uses reports whether the formula of f references coefficient name.
func (f *Function) uses(name string) bool {
	for _, c := range f.result.Coefficients {
		if c == name {
			return true
		}
	}
	return false
}

// invalidate marks parts stale. Called with f.mu held.
func (f *Function) invalidate(p parts) {
	p &= supported(f.Kind())
	if p == 0 {
		return
	}
	f.dirty |= p
	f.gen++
}

// pending returns the stale parts that must be computed now: the primary
// part of the kind and the visible secondary parts. Called with f.mu held.
func (f *Function) pending() parts {
	want := primary(f.Kind())
	if f.render.ShowLines {
		want |= partLines
	}
	if f.render.ShowContour {
		want |= partContour
	}
	return f.dirty & want & supported(f.Kind())
}
