package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/soypat/surfplot/classify"
	"github.com/soypat/surfplot/scene"
	"github.com/spf13/cobra"
)

func newClassifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file | -]",
		Short: "Print the kind and coefficients of each formula",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newScene()
			if err != nil {
				return err
			}
			text, err := opts.input(cmd, args)
			if err != nil {
				return err
			}
			printLines(cmd.OutOrStdout(), s.Commit(text), false)
			return nil
		},
	}
}

// printLines writes one row per committed line, or per illegal and
// redundant line when flaggedOnly is set. Flagged lines are highlighted
// when w is a terminal.
func printLines(w io.Writer, lines []scene.Line, flaggedOnly bool) {
	out := termenv.NewOutput(w)
	for i, ln := range lines {
		if flaggedOnly && ln.Err == nil && !ln.Redundant {
			continue
		}
		row := fmt.Sprintf("%3d  %-18s  %s", i+1, ln.Kind, ln.Text)
		var note string
		style := out.String()
		switch {
		case ln.Err != nil:
			note = ln.Err.Error()
			style = style.Foreground(out.Color("1")).Bold()
		case ln.Redundant:
			note = "redundant"
			style = style.Faint()
		case ln.Kind == classify.Degenerate:
			note = "= " + ln.Func.Info()
			style = style.Foreground(out.Color("3"))
		default:
			if coeffs := ln.Func.Coefficients(); len(coeffs) > 0 {
				note = "coefficients: " + strings.Join(coeffs, " ")
			}
		}
		if note != "" {
			row += "  # " + note
		}
		fmt.Fprintln(w, style.Styled(row))
	}
}
