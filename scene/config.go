package scene

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/surfplot/render"
)

// Config holds the tessellation settings shared by every Function of a
// scene.
type Config struct {
	// Resolution is the isosurface sample count per axis.
	Resolution int `toml:"resolution"`
	// MinSamples and MaxSamples bound adaptive parametric sampling.
	MinSamples int `toml:"min_samples"`
	MaxSamples int `toml:"max_samples"`
	// WeldTolerance merges parametric surface vertices closer than it.
	WeldTolerance float64 `toml:"weld_tolerance"`
	// TubeSides is the number of vertices around curve tubes.
	TubeSides int `toml:"tube_sides"`
	// SmoothIterations and PassBand configure isosurface smoothing.
	SmoothIterations int     `toml:"smooth_iterations"`
	PassBand         float64 `toml:"pass_band"`
	SkipSmooth       bool    `toml:"skip_smooth"`
}

// DefaultConfig returns the settings of the interactive plotter.
func DefaultConfig() Config {
	return Config{
		Resolution:       render.DefaultResolution,
		MinSamples:       20,
		MaxSamples:       100,
		WeldTolerance:    1e-6,
		TubeSides:        render.DefaultTubeSides,
		SmoothIterations: 15,
		PassBand:         0.1,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.Resolution < 2:
		return fmt.Errorf("resolution %d less than 2", c.Resolution)
	case c.MinSamples < 2 || c.MaxSamples < c.MinSamples:
		return fmt.Errorf("bad parametric sample bounds [%d, %d]", c.MinSamples, c.MaxSamples)
	case c.WeldTolerance < 0:
		return errors.New("negative weld tolerance")
	case c.TubeSides < 3:
		return fmt.Errorf("tube needs at least 3 sides, got %d", c.TubeSides)
	case c.SmoothIterations < 0:
		return errors.New("negative smoothing iterations")
	case c.PassBand < 0 || c.PassBand >= 2:
		return fmt.Errorf("pass band %g outside [0, 2)", c.PassBand)
	}
	return nil
}

// DecodeConfig reads a TOML configuration. Keys missing from r keep their
// DefaultConfig value and unknown keys are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) iso() render.IsoConfig {
	return render.IsoConfig{
		Resolution: c.Resolution,
		Smooth: render.SmoothConfig{
			Iterations: c.SmoothIterations,
			PassBand:   c.PassBand,
		},
		SkipSmooth: c.SkipSmooth,
	}
}

func (c Config) parametric(g *render.Gradient) render.ParametricConfig {
	return render.ParametricConfig{
		MinSamples:    c.MinSamples,
		MaxSamples:    c.MaxSamples,
		WeldTolerance: c.WeldTolerance,
		Gradient:      g,
	}
}
