package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msalah0e/pathviz/internal/controller"
)

func nodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage graph nodes",
	}
	cmd.AddCommand(nodeAddCmd())
	return cmd
}

func nodeAddCmd() *cobra.Command {
	var x, y string

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a node, optionally at a fixed position",
		Example: `  pathviz node add 7
  pathviz node add 7 --x 120 --y 80`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, p := newEngine(cmd.OutOrStdout(), nil)
			p.quiet = true
			ctrl.AddNode(cmd.Context(), controller.NodeInput{ID: args[0], X: x, Y: y})
			return p.err()
		},
	}

	cmd.Flags().StringVar(&x, "x", "", "X coordinate")
	cmd.Flags().StringVar(&y, "y", "", "Y coordinate")
	cmd.MarkFlagsRequiredTogether("x", "y")
	return cmd
}
