package render

import (
	"fmt"
	"io"

	"github.com/msalah0e/pathviz/internal/layout"
	"github.com/msalah0e/pathviz/internal/ui"
)

// Tables writes the nodes and edges of f as two aligned tables. On-path edges
// are flagged in the last column.
func Tables(w io.Writer, f layout.Frame, marks Marks) {
	if marks == nil {
		marks = noMarks{}
	}

	nodes := sortedNodes(f.Nodes)
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		pin := ""
		if n.Pinned() {
			pin = ui.Warn.Sprint("pinned")
		}
		rows = append(rows, []string{
			ui.NodeLabel(int64(n.ID)),
			fmt.Sprintf("%.1f", n.X),
			fmt.Sprintf("%.1f", n.Y),
			pin,
		})
	}
	ui.TableTo(w, []string{"NODE", "X", "Y", ""}, rows)
	if len(rows) > 0 {
		fmt.Fprintln(w)
	}

	edges := sortedEdges(f.Edges)
	rows = rows[:0]
	for _, e := range edges {
		path := ""
		if marks.OnPath(e.Key) {
			path = ui.Path.Sprint("●")
		}
		rows = append(rows, []string{
			ui.NodeLabel(int64(e.Key.A)),
			ui.NodeLabel(int64(e.Key.B)),
			WeightLabel(e.Weight),
			path,
		})
	}
	ui.TableTo(w, []string{"FROM", "TO", "WEIGHT", "PATH"}, rows)
}
