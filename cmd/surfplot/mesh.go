package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/soypat/surfplot/render"
	"github.com/soypat/surfplot/scene"
	"github.com/soypat/surfplot/session"
	"github.com/spf13/cobra"
)

type meshFlags struct {
	out     string
	png     string
	save    string
	noTubes bool
}

func (mf *meshFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&mf.out, "output", "o", "surfplot.stl", "binary STL output file, - for stdout")
	f.StringVar(&mf.png, "png", "", "also render a PNG preview of the mesh")
	f.StringVar(&mf.save, "save", "", "save the session to a .toml, .yaml or .json file")
	f.BoolVar(&mf.noTubes, "no-tubes", false, "leave curve tubes out of the output")
}

func newMeshCmd(opts *options) *cobra.Command {
	mf := &meshFlags{}
	cmd := &cobra.Command{
		Use:   "mesh [file | -]",
		Short: "Tessellate formulas into a binary STL file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, lines, err := opts.load(cmd, args)
			if err != nil {
				return err
			}
			printLines(cmd.ErrOrStderr(), lines, true)
			return mf.run(cmd, s, opts.log)
		},
	}
	mf.register(cmd)
	return cmd
}

// run tessellates s and writes the requested outputs.
func (mf *meshFlags) run(cmd *cobra.Command, s *scene.Scene, log *slog.Logger) error {
	start := time.Now()
	if err := s.Update(cmd.Context()); err != nil {
		return err
	}
	for _, f := range s.Functions() {
		if err := f.Err(); err != nil {
			log.Warn("no geometry", slog.String("source", f.Source()), slog.Any("err", err))
		}
	}
	meshes := collect(s, !mf.noTubes)
	faces := 0
	for _, m := range meshes {
		faces += m.FaceCount()
	}
	log.Info("tessellated", slog.Int("triangles", faces), slog.Duration("elapsed", time.Since(start)))
	if faces == 0 {
		return render.ErrEmpty
	}
	if err := mf.writeSTL(cmd.OutOrStdout(), meshes); err != nil {
		return err
	}
	if mf.out == "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "stdout: %d triangles\n", faces)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d triangles, %s\n", mf.out, faces, humanSize(mf.out))
	}
	if mf.png != "" {
		if err := meshToPNG(meshes, mf.png, defaultView); err != nil {
			return fmt.Errorf("rendering preview: %w", err)
		}
	}
	if mf.save != "" {
		return session.SaveScene(s, mf.save)
	}
	return nil
}

// collect returns every visible non-empty surface, and curve tubes when
// tubes is set.
func collect(s *scene.Scene, tubes bool) []*render.Mesh {
	var meshes []*render.Mesh
	for _, f := range s.Functions() {
		g := f.Geometry()
		if g.ShowSurface && !g.Surface.Empty() {
			meshes = append(meshes, g.Surface)
		}
		if tubes && g.ShowLines && !g.Tubes.Empty() {
			meshes = append(meshes, g.Tubes)
		}
	}
	return meshes
}

// writeSTL streams meshes into the output file. An output of "-" writes to
// stdout instead.
func (mf *meshFlags) writeSTL(stdout io.Writer, meshes []*render.Mesh) error {
	readers := make([]render.Renderer, len(meshes))
	for i, m := range meshes {
		readers[i] = render.NewMeshReader(m)
	}
	r := render.MultiRenderer(readers...)
	if mf.out != "-" {
		return render.CreateSTL(mf.out, r)
	}
	model, err := render.RenderAll(r)
	if err != nil {
		return err
	}
	return render.WriteSTL(stdout, model)
}

func humanSize(filename string) string {
	const (
		kB = 1000
		MB = 1000 * kB
		GB = 1000 * MB
	)
	info, err := os.Stat(filename)
	if err != nil {
		return "unknown size"
	}
	bytes := info.Size()
	switch {
	case bytes < 10*kB:
		return fmt.Sprintf("%dB", bytes)
	case bytes < 10*MB:
		return fmt.Sprintf("%dkB", bytes/kB)
	case bytes < 10*GB:
		return fmt.Sprintf("%dMB", bytes/MB)
	}
	return fmt.Sprintf("%dGB", bytes/GB)
}
