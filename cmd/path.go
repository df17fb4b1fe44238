package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/pathviz/internal/controller"
	"github.com/msalah0e/pathviz/internal/ui"
)

func pathCmd() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "path <start> <end>",
		Short: "Find the shortest path between two nodes",
		Example: `  pathviz path 1 3
  pathviz path 1 3 --algorithm astar`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctrl, p := newEngine(out, nil)
			p.quiet = true
			if err := loadGraph(cmd.Context(), ctrl, p); err != nil {
				return err
			}

			ctrl.FindShortestPath(cmd.Context(), controller.PathInput{
				Start:     args[0],
				End:       args[1],
				Algorithm: algorithm,
			})
			if err := p.err(); err != nil {
				return err
			}

			if marked := ctrl.Overlay().Marked(); len(marked) > 0 {
				rows := make([][]string, 0, len(marked))
				for _, key := range marked {
					e, _ := ctrl.Snapshot().Edge(key)
					rows = append(rows, []string{
						ui.NodeLabel(int64(key.A)),
						ui.NodeLabel(int64(key.B)),
						fmt.Sprintf("%.1f", e.Weight),
					})
				}
				fmt.Fprintln(out)
				ui.TableTo(out, []string{"FROM", "TO", "WEIGHT"}, rows)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", controller.Dijkstra, "Path algorithm: dijkstra or astar")
	_ = cmd.RegisterFlagCompletionFunc("algorithm", cobra.FixedCompletions(
		[]string{controller.Dijkstra, controller.AStar}, cobra.ShellCompDirectiveNoFileComp))
	cmd.ValidArgsFunction = nodeIDCompletionFunc
	return cmd
}
