package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/soypat/surfplot"
)

// State is a serializable snapshot of a scene: global bounds, coefficient
// values and the per-Function display state.
type State struct {
	Bounds       BoundsState        `toml:"bounds" yaml:"bounds" json:"bounds"`
	Coefficients []CoefficientState `toml:"coefficients" yaml:"coefficients" json:"coefficients"`
	Functions    []FunctionState    `toml:"functions" yaml:"functions" json:"functions"`
}

// BoundsState is a bounding box as (x,y,z) minimum and maximum.
type BoundsState struct {
	Min [3]float64 `toml:"min" yaml:"min,flow" json:"min"`
	Max [3]float64 `toml:"max" yaml:"max,flow" json:"max"`
}

// CoefficientState is the value and slider bounds of a coefficient.
type CoefficientState struct {
	Name  string  `toml:"name" yaml:"name" json:"name"`
	Value float64 `toml:"value" yaml:"value" json:"value"`
	Min   float64 `toml:"min" yaml:"min" json:"min"`
	Max   float64 `toml:"max" yaml:"max" json:"max"`
}

// FunctionState is the display state of one Function.
type FunctionState struct {
	Source string      `toml:"source" yaml:"source" json:"source"`
	Bounds BoundsState `toml:"bounds" yaml:"bounds" json:"bounds"`
	// T, U and V are parameter intervals as (min, max).
	T      [2]float64  `toml:"t" yaml:"t,flow" json:"t"`
	U      [2]float64  `toml:"u" yaml:"u,flow" json:"u"`
	V      [2]float64  `toml:"v" yaml:"v,flow" json:"v"`
	Render RenderState `toml:"render" yaml:"render" json:"render"`
}

// RGB is a color as red, green and blue components in [0, 1]. Components
// are stored at full precision so a restored color is bit-identical.
type RGB [3]float64

func rgb(c colorful.Color) RGB { return RGB{c.R, c.G, c.B} }

// Color returns c as a colorful.Color.
func (c RGB) Color() colorful.Color { return colorful.Color{R: c[0], G: c[1], B: c[2]} }

// Hex returns c rounded to 8 bits per channel as "#rrggbb".
func (c RGB) Hex() string { return c.Color().Hex() }

func (c RGB) validate() error {
	for _, v := range c {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("color component %v outside [0, 1]", v)
		}
	}
	return nil
}

// RenderState is the serializable form of RenderConfig.
type RenderState struct {
	ShowSurface  bool    `toml:"show_surface" yaml:"show_surface" json:"show_surface"`
	ShowLines    bool    `toml:"show_lines" yaml:"show_lines" json:"show_lines"`
	ShowContour  bool    `toml:"show_contour" yaml:"show_contour" json:"show_contour"`
	Thickness    float64 `toml:"thickness" yaml:"thickness" json:"thickness"`
	DashSpacing  float64 `toml:"dash_spacing" yaml:"dash_spacing" json:"dash_spacing"`
	Dotted       bool    `toml:"dotted" yaml:"dotted" json:"dotted"`
	Opacity      float64 `toml:"opacity" yaml:"opacity" json:"opacity"`
	ColorStart   RGB     `toml:"color_start" yaml:"color_start,flow" json:"color_start"`
	ColorEnd     RGB     `toml:"color_end" yaml:"color_end,flow" json:"color_end"`
	LineColor    RGB     `toml:"line_color" yaml:"line_color,flow" json:"line_color"`
	TraceSpacing float64 `toml:"trace_spacing" yaml:"trace_spacing" json:"trace_spacing"`
}

func boundsState(b surfplot.Bounds) BoundsState {
	return BoundsState{
		Min: [3]float64{b.Min.X, b.Min.Y, b.Min.Z},
		Max: [3]float64{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

func (b BoundsState) bounds() surfplot.Bounds {
	return surfplot.NewBounds(b.Min[0], b.Max[0], b.Min[1], b.Max[1], b.Min[2], b.Max[2])
}

func interval(iv [2]float64) surfplot.Interval { return surfplot.Interval{Min: iv[0], Max: iv[1]} }

func pair(iv surfplot.Interval) [2]float64 { return [2]float64{iv.Min, iv.Max} }

// NewRenderState returns the serializable form of c.
func NewRenderState(c RenderConfig) RenderState {
	return RenderState{
		ShowSurface:  c.ShowSurface,
		ShowLines:    c.ShowLines,
		ShowContour:  c.ShowContour,
		Thickness:    c.Thickness,
		DashSpacing:  c.DashSpacing,
		Dotted:       c.Dotted,
		Opacity:      c.Opacity,
		ColorStart:   rgb(c.ColorStart),
		ColorEnd:     rgb(c.ColorEnd),
		LineColor:    rgb(c.LineColor),
		TraceSpacing: c.TraceSpacing,
	}
}

// Config returns the RenderConfig of r and validates it.
func (r RenderState) Config() (RenderConfig, error) {
	for _, c := range []RGB{r.ColorStart, r.ColorEnd, r.LineColor} {
		if err := c.validate(); err != nil {
			return RenderConfig{}, err
		}
	}
	c := RenderConfig{
		ShowSurface:  r.ShowSurface,
		ShowLines:    r.ShowLines,
		ShowContour:  r.ShowContour,
		Thickness:    r.Thickness,
		DashSpacing:  r.DashSpacing,
		Dotted:       r.Dotted,
		Opacity:      r.Opacity,
		ColorStart:   r.ColorStart.Color(),
		ColorEnd:     r.ColorEnd.Color(),
		LineColor:    r.LineColor.Color(),
		TraceSpacing: r.TraceSpacing,
	}
	return c, c.Validate()
}

// State returns the display state of f.
func (f *Function) State() FunctionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FunctionState{
		Source: f.source,
		Bounds: boundsState(f.bounds),
		T:      pair(f.rng.T),
		U:      pair(f.rng.U),
		V:      pair(f.rng.V),
		Render: NewRenderState(f.render),
	}
}

// restore applies the display state of st to f.
func (f *Function) restore(st FunctionState) error {
	rc, err := st.Render.Config()
	if err != nil {
		return err
	}
	err = f.SetBounds(st.Bounds.bounds())
	if err != nil {
		return err
	}
	err = f.SetRange(surfplot.ParamRange{T: interval(st.T), U: interval(st.U), V: interval(st.V)})
	if err != nil {
		return err
	}
	return f.SetRender(rc)
}

// State returns a snapshot of s.
func (s *Scene) State() State {
	st := State{Bounds: boundsState(s.Bounds())}
	for _, c := range s.Coefficients() {
		st.Coefficients = append(st.Coefficients, CoefficientState{
			Name: c.Name, Value: c.Value, Min: c.Min, Max: c.Max,
		})
	}
	for _, f := range s.Functions() {
		st.Functions = append(st.Functions, f.State())
	}
	return st
}

// Restore replaces the contents of s with st. Functions whose source no
// longer classifies are dropped and reported in the returned error after
// the rest of the state is restored.
func (s *Scene) Restore(st State) error {
	err := s.SetBounds(st.Bounds.bounds())
	if err != nil {
		return fmt.Errorf("restoring bounds: %w", err)
	}
	sources := make([]string, len(st.Functions))
	for i, fs := range st.Functions {
		src := strings.TrimSpace(fs.Source)
		if src == "" || strings.ContainsRune(src, '\n') {
			return fmt.Errorf("function %d: source must be a single non-empty line", i)
		}
		sources[i] = src
	}
	var errs []error
	lines := s.Commit(strings.Join(sources, "\n"))
	for i, ln := range lines {
		switch {
		case ln.Err != nil:
			errs = append(errs, fmt.Errorf("function %d: %w", i, ln.Err))
		case ln.Func != nil:
			if err := ln.Func.restore(st.Functions[i]); err != nil {
				errs = append(errs, fmt.Errorf("function %d %q: %w", i, ln.Text, err))
			}
		}
	}
	for _, c := range st.Coefficients {
		err := s.SetCoefficientBounds(c.Name, c.Min, c.Max)
		if err == nil {
			err = s.SetCoefficient(c.Name, c.Value)
		}
		if errors.Is(err, ErrUnknownCoefficient) {
			s.logger().Debug("dropping unreferenced coefficient", slog.String("name", c.Name))
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("coefficient %s: %w", c.Name, err))
		}
	}
	return errors.Join(errs...)
}
