package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msalah0e/pathviz/internal/controller"
)

func edgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Manage graph edges",
	}
	cmd.AddCommand(edgeAddCmd(), edgeWeightCmd())
	return cmd
}

func edgeAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "add <from> <to> <weight>",
		Short:             "Add a weighted edge between two nodes",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: nodeIDCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, p := newEngine(cmd.OutOrStdout(), nil)
			p.quiet = true
			ctrl.AddEdge(cmd.Context(), controller.EdgeInput{From: args[0], To: args[1], Weight: args[2]})
			return p.err()
		},
	}
}

func edgeWeightCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "weight <from> <to> <weight>",
		Short:             "Change the weight of an existing edge",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: nodeIDCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, p := newEngine(cmd.OutOrStdout(), nil)
			p.quiet = true
			ctrl.UpdateEdgeWeight(cmd.Context(), controller.EdgeInput{From: args[0], To: args[1], Weight: args[2]})
			return p.err()
		},
	}
}
