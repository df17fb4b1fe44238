package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/pathviz/internal/controller"
	"github.com/msalah0e/pathviz/internal/render"
	"github.com/msalah0e/pathviz/internal/ui"
)

func renderCmd() *cobra.Command {
	var (
		output    string
		from, to  string
		algorithm string
		ticks     int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export the settled layout as SVG",
		Example: `  pathviz render -o graph.svg
  pathviz render -o route.svg --from 1 --to 3 --algorithm astar`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Messages go to stderr when the SVG itself is written to stdout.
			msgOut := cmd.OutOrStdout()
			if output == "" || output == "-" {
				msgOut = cmd.ErrOrStderr()
			}

			ctrl, p := newEngine(msgOut, nil)
			p.quiet = true
			if err := loadGraph(cmd.Context(), ctrl, p); err != nil {
				return err
			}
			if from != "" || to != "" {
				ctrl.FindShortestPath(cmd.Context(), controller.PathInput{Start: from, End: to, Algorithm: algorithm})
				if err := p.err(); err != nil {
					return err
				}
			}

			proj := ctrl.Projector()
			proj.Settle(ticks)
			params := proj.Params()

			var buf bytes.Buffer
			if err := render.SVG(&buf, proj.Frame(), ctrl.Overlay(), params.Width, params.Height); err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(msgOut, "  %s Wrote %s\n", ui.StatusIcon(true), ui.Info.Sprint(output))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "SVG file to write (default stdout)")
	f.StringVar(&from, "from", "", "Highlight the path starting at this node")
	f.StringVar(&to, "to", "", "Highlight the path ending at this node")
	f.StringVarP(&algorithm, "algorithm", "a", controller.Dijkstra, "Path algorithm: dijkstra or astar")
	f.IntVar(&ticks, "ticks", 300, "Maximum simulation ticks before export")
	cmd.MarkFlagsRequiredTogether("from", "to")
	return cmd
}
