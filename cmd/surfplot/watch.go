package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/soypat/surfplot/render"
	"github.com/soypat/surfplot/scene"
	"github.com/spf13/cobra"
)

// settle is how long watch waits for a burst of file events to end.
const settle = 100 * time.Millisecond

func newWatchCmd(opts *options) *cobra.Command {
	mf := &meshFlags{}
	cmd := &cobra.Command{
		Use:   "watch file",
		Short: "Rewrite the STL output every time the formula file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, lines, err := opts.load(cmd, args)
			if err != nil {
				return err
			}
			w := &watcher{s: s, mf: mf, cmd: cmd, log: opts.log, file: args[0]}
			w.report(lines)
			w.remesh()
			return w.watch()
		},
	}
	mf.register(cmd)
	return cmd
}

type watcher struct {
	s    *scene.Scene
	mf   *meshFlags
	cmd  *cobra.Command
	log  *slog.Logger
	file string
}

// watch recommits the formula file on every change until the command
// context is cancelled. The parent directory is watched so that editors
// replacing the file by rename are seen.
func (w *watcher) watch() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err = fw.Add(filepath.Dir(w.file)); err != nil {
		return err
	}
	target := filepath.Clean(w.file)
	ctx := w.cmd.Context()
	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) == target && event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				timer.Reset(settle)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("file watcher", slog.Any("err", err))
		case <-timer.C:
			w.recommit()
		}
	}
}

func (w *watcher) recommit() {
	b, err := os.ReadFile(w.file)
	if errors.Is(err, os.ErrNotExist) {
		// Mid-rename; the Create event that follows triggers a reload.
		return
	} else if err != nil {
		w.log.Error("reading formulas", slog.Any("err", err))
		return
	}
	w.report(w.s.Commit(string(b)))
	w.remesh()
}

func (w *watcher) report(lines []scene.Line) {
	printLines(w.cmd.ErrOrStderr(), lines, true)
}

func (w *watcher) remesh() {
	err := w.mf.run(w.cmd, w.s, w.log)
	switch {
	case errors.Is(err, render.ErrEmpty):
		fmt.Fprintln(w.cmd.ErrOrStderr(), "nothing to mesh")
	case err != nil:
		w.log.Error("meshing", slog.Any("err", err))
	}
}
