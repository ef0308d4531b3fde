// Command surfplot classifies formulas and tessellates them into meshes.
//
//	surfplot classify formulas.txt
//	surfplot mesh -o out.stl --png out.png --set a=2 formulas.txt
//	surfplot watch -o out.stl formulas.txt
//	surfplot presets
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/soypat/surfplot"
	"github.com/soypat/surfplot/scene"
	"github.com/soypat/surfplot/session"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// options are the flags shared by every command.
type options struct {
	configFile  string
	verbose     int
	sets        []string
	sessionFile string
	preset      string
	bounds      []float64
	log         *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "surfplot",
		Short:        "Classify and tessellate implicit and parametric formulas",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			switch {
			case opts.verbose >= 2:
				level = slog.LevelDebug
			case opts.verbose == 1:
				level = slog.LevelInfo
			}
			opts.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(opts.log)
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "TOML file with tessellation settings")
	pf.CountVarP(&opts.verbose, "verbose", "v", "log more (-v info, -vv debug)")
	pf.StringArrayVar(&opts.sets, "set", nil, "coefficient value as name=value, may be repeated")
	pf.StringVar(&opts.sessionFile, "session", "", "load formulas and state from a .toml, .yaml or .json session")
	pf.StringVar(&opts.preset, "preset", "", "use a preset formula instead of an input file")
	pf.Float64SliceVar(&opts.bounds, "bounds", nil, "global bounds as xmin,xmax,ymin,ymax,zmin,zmax")

	root.AddCommand(
		newClassifyCmd(opts),
		newMeshCmd(opts),
		newWatchCmd(opts),
		newPresetsCmd(),
	)
	return root
}

// config returns the tessellation settings.
func (o *options) config() (scene.Config, error) {
	if o.configFile == "" {
		return scene.DefaultConfig(), nil
	}
	fp, err := os.Open(o.configFile)
	if err != nil {
		return scene.Config{}, err
	}
	defer fp.Close()
	return scene.DecodeConfig(fp)
}

// newScene returns an empty scene with the settings and bounds of o.
func (o *options) newScene() (*scene.Scene, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	s, err := scene.New(cfg)
	if err != nil {
		return nil, err
	}
	s.Logger = o.log
	if o.bounds != nil {
		if len(o.bounds) != 6 {
			return nil, fmt.Errorf("bounds need 6 values, got %d", len(o.bounds))
		}
		b := o.bounds
		err = s.SetBounds(surfplot.NewBounds(b[0], b[1], b[2], b[3], b[4], b[5]))
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// input returns the formula text named by the flags or args. An argument
// of "-" reads standard input.
func (o *options) input(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case o.preset != "":
		p, ok := scene.LookupPreset(o.preset)
		if !ok {
			return "", fmt.Errorf("unknown preset %q", o.preset)
		}
		return p.Formula, nil
	case len(args) == 0:
		return "", fmt.Errorf("no input: pass a formula file, - for stdin or --preset")
	case args[0] == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}

// load builds the scene from the session file or the formula input and
// applies --set values. lines is nil when loading a session.
func (o *options) load(cmd *cobra.Command, args []string) (s *scene.Scene, lines []scene.Line, err error) {
	s, err = o.newScene()
	if err != nil {
		return nil, nil, err
	}
	if o.sessionFile != "" {
		err = session.LoadScene(s, o.sessionFile)
		if err != nil {
			return nil, nil, err
		}
	} else {
		text, err := o.input(cmd, args)
		if err != nil {
			return nil, nil, err
		}
		lines = s.Commit(text)
	}
	return s, lines, o.applySets(s)
}

func (o *options) applySets(s *scene.Scene) error {
	for _, kv := range o.sets {
		name, val, err := parseSet(kv)
		if err != nil {
			return err
		}
		if err = s.SetCoefficient(name, val); err != nil {
			return err
		}
	}
	return nil
}

// parseSet parses a name=value coefficient assignment.
func parseSet(kv string) (string, float64, error) {
	name, val, ok := strings.Cut(kv, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, fmt.Errorf("bad coefficient assignment %q, want name=value", kv)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return "", 0, fmt.Errorf("coefficient %s: %w", name, err)
	}
	return name, v, nil
}
