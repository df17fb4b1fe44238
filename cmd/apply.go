package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/pathviz/internal/parallel"
	"github.com/msalah0e/pathviz/internal/ui"
)

func applyCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "apply <plan.toml>",
		Short: "Submit a batch of graph changes from a TOML plan",
		Long: `Submit nodes, edges, weight updates and zone unions from a TOML plan.

Nodes are added first, then edges, then weight updates, then unions. A plan
may reweight an edge it adds. Changes inside a phase are sent concurrently. The graph is reloaded once at the end.

  [[node]]
  id = 4
  x = 120.0
  y = 80.0

  [[edge]]
  from = 1
  to = 4
  weight = 2.5

  [[weight]]
  from = 1
  to = 4
  weight = 7

  [[unite]]
  a = 1
  b = 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			plan, err := parallel.LoadPlan(args[0])
			if err != nil {
				return err
			}
			if concurrency <= 0 {
				concurrency = cfg.Batch.Concurrency
			}

			fmt.Fprintf(out, "  Applying %d changes from %s\n", plan.Len(), ui.Info.Sprint(args[0]))
			results := parallel.Apply(cmd.Context(), out, newClient(), plan, concurrency)

			ctrl, p := newEngine(out, nil)
			if err := loadGraph(cmd.Context(), ctrl, p); err != nil {
				return err
			}
			stats := ctrl.Snapshot().Stats()
			fmt.Fprintf(out, "  %d nodes, %d edges\n", stats.Nodes, stats.Edges)

			if failed := parallel.Failed(results); failed > 0 {
				fmt.Fprintf(out, "  %s %d of %d changes failed\n", ui.WarnIcon(), failed, len(results))
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "Concurrent requests per phase (default from config)")
	return cmd
}
