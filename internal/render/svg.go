// Package render paints layout frames: an SVG document for export and plain
// tables for the terminal.
package render

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/msalah0e/pathviz/internal/graph"
	"github.com/msalah0e/pathviz/internal/layout"
	"github.com/msalah0e/pathviz/internal/ui"
)

// NodeRadius is the drawn radius of a node circle.
const NodeRadius = 10

// Marks reports whether an edge is on the highlighted path.
type Marks interface {
	OnPath(key graph.EdgeKey) bool
}

type noMarks struct{}

func (noMarks) OnPath(graph.EdgeKey) bool { return false }

// SVG writes f as a standalone SVG document of the given size. Edges are drawn
// under nodes; on-path edges use the path stroke.
func SVG(w io.Writer, f layout.Frame, marks Marks, width, height float64) error {
	if marks == nil {
		marks = noMarks{}
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		width, height, width, height)
	fmt.Fprintf(bw, `  <rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")

	bw.WriteString(`  <g class="edges">` + "\n")
	for _, e := range sortedEdges(f.Edges) {
		stroke, sw := ui.EdgeStroke, 1.5
		if marks.OnPath(e.Key) {
			stroke, sw = ui.PathStroke, 3
		}
		fmt.Fprintf(bw, `    <line data-edge="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%g"/>`+"\n",
			e.Key, e.X1, e.Y1, e.X2, e.Y2, stroke, sw)
		fmt.Fprintf(bw, `    <text x="%.2f" y="%.2f" font-size="10" fill="#555555">%s</text>`+"\n",
			e.LabelX, e.LabelY, WeightLabel(e.Weight))
	}
	bw.WriteString("  </g>\n")

	bw.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range sortedNodes(f.Nodes) {
		fmt.Fprintf(bw, `    <circle data-node="%d" cx="%.2f" cy="%.2f" r="%d" fill="%s" stroke="#ffffff" stroke-width="1.5"/>`+"\n",
			n.ID, n.X, n.Y, NodeRadius, ui.NodeFill(int64(n.ID)))
		fmt.Fprintf(bw, `    <text x="%.2f" y="%.2f" font-size="10" text-anchor="middle">%d</text>`+"\n",
			n.X, n.Y-NodeRadius-3, n.ID)
	}
	bw.WriteString("  </g>\n")
	bw.WriteString("</svg>\n")

	return bw.Flush()
}

// WeightLabel formats an edge weight the way it is drawn.
func WeightLabel(w float64) string {
	return fmt.Sprintf("%.1f", w)
}

func sortedNodes(in []layout.Placement) []layout.Placement {
	out := slices.Clone(in)
	slices.SortFunc(out, func(a, b layout.Placement) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func sortedEdges(in []layout.EdgeSegment) []layout.EdgeSegment {
	out := slices.Clone(in)
	slices.SortFunc(out, func(a, b layout.EdgeSegment) int {
		if c := cmp.Compare(a.Key.A, b.Key.A); c != 0 {
			return c
		}
		return cmp.Compare(a.Key.B, b.Key.B)
	})
	return out
}
