package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/pathviz/internal/render"
	"github.com/msalah0e/pathviz/internal/ui"
)

func graphCmd() *cobra.Command {
	var ticks int

	cmd := &cobra.Command{
		Use:     "graph",
		Short:   "Fetch the graph and show its settled layout",
		Aliases: []string{"show"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctrl, p := newEngine(out, nil)
			p.quiet = true
			if err := loadGraph(cmd.Context(), ctrl, p); err != nil {
				return err
			}

			snap := ctrl.Snapshot()
			stats := snap.Stats()
			ui.Banner(out, "route graph")

			if stats.Nodes == 0 {
				fmt.Fprintln(out, "  Empty graph. Get started:")
				fmt.Fprintln(out)
				ui.Info.Fprintln(out, "  pathviz node add <id>")
				ui.Info.Fprintln(out, "  pathviz edge add <from> <to> <weight>")
				return nil
			}

			fmt.Fprintf(out, "  %s  %d\n", ui.Brand.Sprintf("%-14s", "Nodes"), stats.Nodes)
			fmt.Fprintf(out, "  %s  %d\n", ui.Brand.Sprintf("%-14s", "Edges"), stats.Edges)
			fmt.Fprintf(out, "  %s  %s\n", ui.Brand.Sprintf("%-14s", "Total weight"), render.WeightLabel(stats.TotalWeight))
			fmt.Fprintln(out)

			n := ctrl.Projector().Settle(ticks)
			logger.Debug("layout settled", "ticks", n, "alpha", ctrl.Projector().Alpha())
			render.Tables(out, ctrl.Projector().Frame(), ctrl.Overlay())
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 300, "Maximum simulation ticks before printing positions")
	return cmd
}
