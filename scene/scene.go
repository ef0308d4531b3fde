// Package scene keeps the committed formulas of a plot, their shared
// coefficients and their cached geometry. Geometry is tessellated lazily:
// edits mark the affected parts of a Function stale and Scene.Update
// recomputes them.
package scene

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/soypat/surfplot"
	"github.com/soypat/surfplot/classify"
	"github.com/soypat/surfplot/textproc"
	"golang.org/x/sync/errgroup"
)

// Scene is a set of Functions sharing global bounds and a coefficient
// registry. Its methods are safe for concurrent use.
type Scene struct {
	// Logger receives tessellation diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// updating serializes Update so a Function is tessellated by at most
	// one goroutine at a time.
	updating sync.Mutex

	mu     sync.Mutex
	cfg    Config
	bounds surfplot.Bounds
	funcs  []*Function
	reg    *Registry
}

// New returns an empty scene with the default global bounds.
func New(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scene{
		cfg:    cfg,
		bounds: surfplot.DefaultBounds(),
		reg:    NewRegistry(),
	}, nil
}

func (s *Scene) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Line is the outcome of committing one line of text.
type Line struct {
	// Text is the line as typed.
	Text string
	Kind classify.Kind
	// Err is set for Illegal lines.
	Err error
	// Func is the Function of the line, nil for Illegal and redundant lines.
	Func *Function
	// Redundant is set when the line is equal to an earlier line.
	Redundant bool
}

// Commit replaces the formulas of the scene with the lines of text. Blank
// lines are ignored. Functions equal to one already in the scene are kept
// along with their display state and cached geometry; Functions whose line
// was removed are dropped. The coefficient registry is recomputed from the
// resulting set.
func (s *Scene) Commit(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		ln := Line{Text: raw}
		r, err := classify.Classify(textproc.Preprocess(raw))
		ln.Kind = r.Kind
		if err != nil {
			ln.Err = err
		} else {
			ln.Func = newFunction(raw, r)
		}
		lines = append(lines, ln)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*Function
	for i := range lines {
		ln := &lines[i]
		if ln.Func == nil {
			continue
		}
		if dup := find(kept, ln.Func); dup != nil {
			ln.Func, ln.Redundant = nil, true
			continue
		}
		if old := find(s.funcs, ln.Func); old != nil {
			ln.Func = old
		}
		kept = append(kept, ln.Func)
	}
	s.funcs = kept
	s.syncRegistry()
	return lines
}

// find returns the first Function of list equal to f.
func find(list []*Function, f *Function) *Function {
	for _, g := range list {
		if g.Equal(f) {
			return g
		}
	}
	return nil
}

// syncRegistry recomputes coefficient references. Called with s.mu held.
func (s *Scene) syncRegistry() {
	active := make([][]string, len(s.funcs))
	for i, f := range s.funcs {
		active[i] = f.result.Coefficients
	}
	added, removed := s.reg.Sync(active)
	if len(added)+len(removed) > 0 {
		s.logger().Debug("coefficients changed", slog.Any("added", added), slog.Any("removed", removed))
	}
	// Functions referencing a new coefficient compiled against nothing.
	for _, f := range s.funcs {
		for _, name := range added {
			if f.uses(name) {
				f.mu.Lock()
				f.invalidate(allParts)
				f.mu.Unlock()
				break
			}
		}
	}
}

// Functions returns the Functions of the scene in commit order.
func (s *Scene) Functions() []*Function {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Function(nil), s.funcs...)
}

// Coefficients returns the coefficients of the scene sorted by name.
func (s *Scene) Coefficients() []Coefficient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Coefficients()
}

// SetCoefficient changes a coefficient value and marks every Function
// referencing it stale.
func (s *Scene) SetCoefficient(name string, v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, _ := s.reg.Get(name)
	if err := s.reg.Set(name, v); err != nil {
		return err
	}
	if old.Value != v {
		s.invalidateUsers(name)
	}
	return nil
}

// SetCoefficientBounds changes the slider bounds of a coefficient. Functions
// are marked stale when the value had to be clamped.
func (s *Scene) SetCoefficientBounds(name string, min, max float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, _ := s.reg.Get(name)
	if err := s.reg.SetBounds(name, min, max); err != nil {
		return err
	}
	if c, _ := s.reg.Get(name); c.Value != old.Value {
		s.invalidateUsers(name)
	}
	return nil
}

// invalidateUsers marks every Function using coefficient name stale. Called
// with s.mu held.
func (s *Scene) invalidateUsers(name string) {
	for _, f := range s.funcs {
		if f.uses(name) {
			f.mu.Lock()
			f.invalidate(allParts)
			f.mu.Unlock()
		}
	}
}

// Bounds returns the global bounds.
func (s *Scene) Bounds() surfplot.Bounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// SetBounds changes the global bounds and marks every Function stale.
func (s *Scene) SetBounds(b surfplot.Bounds) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if b == s.bounds {
		return nil
	}
	s.bounds = b
	for _, f := range s.funcs {
		f.mu.Lock()
		f.invalidate(allParts)
		f.mu.Unlock()
	}
	return nil
}

// Config returns the tessellation settings of the scene.
func (s *Scene) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Update tessellates the stale parts of every Function concurrently. All
// Functions see the coefficient values and bounds current when Update is
// called. Failures are contained per Function and reported through
// Function.Err; Update only returns an error when ctx is cancelled.
func (s *Scene) Update(ctx context.Context) error {
	s.updating.Lock()
	defer s.updating.Unlock()

	s.mu.Lock()
	coeffs := s.reg.Snapshot()
	global := s.bounds
	cfg := s.cfg
	funcs := append([]*Function(nil), s.funcs...)
	s.mu.Unlock()

	log := s.logger()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range funcs {
		if gctx.Err() != nil {
			break
		}
		if !f.Dirty() {
			continue
		}
		i, f := i, f // per-iteration copies (Go 1.22 loopvar semantics on go1.21)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f.tessellate(coeffs, global, cfg, log.With(slog.Int("line", i), slog.String("source", f.source)))
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("scene update: %w", err)
	}
	return nil
}
