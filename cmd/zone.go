package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/pathviz/internal/ui"
)

func zoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "zone",
		Short:   "Query and merge node zones",
		Aliases: []string{"set"},
	}
	cmd.AddCommand(zoneFindCmd(), zoneUniteCmd())
	return cmd
}

func zoneFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "find <id>",
		Short:             "Show the zone representative of a node",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: nodeIDCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctrl, p := newEngine(out, nil)
			ctrl.FindSet(cmd.Context(), args[0])
			if err := p.err(); err != nil {
				return err
			}
			fmt.Fprintf(out, "  %s\n", ui.Info.Sprint(ctrl.SetResult()))
			return nil
		},
	}
}

func zoneUniteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "unite <id1> <id2>",
		Short:             "Merge the zones of two nodes",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: nodeIDCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, p := newEngine(cmd.OutOrStdout(), nil)
			p.quiet = true
			ctrl.UniteSets(cmd.Context(), args[0], args[1])
			return p.err()
		},
	}
}
