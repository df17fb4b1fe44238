package render

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/pathviz/internal/graph"
	"github.com/msalah0e/pathviz/internal/layout"
	"github.com/msalah0e/pathviz/internal/ui"
)

type pathMarks map[graph.EdgeKey]bool

func (m pathMarks) OnPath(k graph.EdgeKey) bool { return m[k] }

func sampleFrame() layout.Frame {
	return layout.Frame{
		Alpha: 0.2,
		Nodes: []layout.Placement{
			{ID: 2, X: 100, Y: 50},
			{ID: 1, X: 10, Y: 20},
			{ID: 3, X: 200, Y: 80},
		},
		Edges: []layout.EdgeSegment{
			{Key: graph.KeyOf(2, 3), Source: 2, Target: 3, Weight: 1, X1: 100, Y1: 50, X2: 200, Y2: 80, LabelX: 150, LabelY: 65},
			{Key: graph.KeyOf(1, 2), Source: 1, Target: 2, Weight: 4.25, X1: 10, Y1: 20, X2: 100, Y2: 50, LabelX: 55, LabelY: 35},
		},
	}
}

func TestSVGIsWellFormed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sampleFrame(), nil, 800, 500))

	dec := xml.NewDecoder(&buf)
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestSVGHighlightsPath(t *testing.T) {
	var buf bytes.Buffer
	marks := pathMarks{graph.KeyOf(1, 2): true}
	require.NoError(t, SVG(&buf, sampleFrame(), marks, 800, 500))
	out := buf.String()

	assert.Contains(t, out, `data-edge="1-2" x1="10.00" y1="20.00" x2="100.00" y2="50.00" stroke="`+ui.PathStroke+`"`)
	assert.Contains(t, out, `data-edge="2-3" x1="100.00" y1="50.00" x2="200.00" y2="80.00" stroke="`+ui.EdgeStroke+`"`)
	assert.Contains(t, out, `>4.2</text>`)
	assert.Contains(t, out, `>1.0</text>`)
}

func TestSVGNodeOrderAndFill(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sampleFrame(), nil, 800, 500))
	out := buf.String()

	i1 := strings.Index(out, `data-node="1"`)
	i2 := strings.Index(out, `data-node="2"`)
	i3 := strings.Index(out, `data-node="3"`)
	require.True(t, i1 > 0 && i2 > 0 && i3 > 0)
	assert.Less(t, i1, i2)
	assert.Less(t, i2, i3)
	assert.Contains(t, out, `data-node="3" cx="200.00" cy="80.00" r="10" fill="`+ui.NodeFill(3)+`"`)

	// Edges are painted before nodes.
	assert.Less(t, strings.Index(out, "<line"), strings.Index(out, "<circle"))
}

func TestWeightLabel(t *testing.T) {
	assert.Equal(t, "5.0", WeightLabel(5))
	assert.Equal(t, "0.3", WeightLabel(0.25000001))
	assert.Equal(t, "-2.5", WeightLabel(-2.5))
}

func TestTables(t *testing.T) {
	ui.SetColor(false)
	defer ui.SetColor(true)

	fx, fy := 10.0, 20.0
	f := sampleFrame()
	f.Nodes[1].FX, f.Nodes[1].FY = &fx, &fy

	var buf bytes.Buffer
	Tables(&buf, f, pathMarks{graph.KeyOf(2, 3): true})
	out := buf.String()

	assert.Contains(t, out, "NODE")
	assert.Contains(t, out, "pinned")
	assert.Contains(t, out, "WEIGHT")
	lines := strings.Split(out, "\n")
	var pathRow string
	for _, l := range lines {
		if strings.Contains(l, "●") {
			pathRow = l
		}
	}
	assert.True(t, strings.HasPrefix(strings.TrimSpace(pathRow), "2"), "path row %q", pathRow)
	assert.Contains(t, pathRow, "1.0")
}
