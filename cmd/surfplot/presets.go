package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/soypat/surfplot/scene"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the preset quadric formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range scene.Presets {
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Formula)
			}
			return tw.Flush()
		},
	}
}
