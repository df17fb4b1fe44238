package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/pathviz/internal/graph"
)

type staticEdges []graph.EdgeKey

func (s staticEdges) EdgeKeys() []graph.EdgeKey { return s }

func lineEdges() staticEdges {
	return staticEdges{graph.KeyOf(1, 2), graph.KeyOf(2, 3), graph.KeyOf(3, 4)}
}

func TestMarkConsecutivePairs(t *testing.T) {
	o := New(lineEdges())
	n := o.Mark([]graph.NodeID{1, 2, 3})

	assert.Equal(t, 2, n)
	assert.True(t, o.OnPath(graph.KeyOf(1, 2)))
	assert.True(t, o.OnPath(graph.KeyOf(2, 3)))
	assert.False(t, o.OnPath(graph.KeyOf(3, 4)))
}

func TestMarkReversedPath(t *testing.T) {
	forward := New(lineEdges())
	forward.Mark([]graph.NodeID{1, 2, 3})

	backward := New(lineEdges())
	backward.Mark([]graph.NodeID{3, 2, 1})

	assert.Equal(t, forward.Marked(), backward.Marked())
}

func TestMarkReplacesPrevious(t *testing.T) {
	o := New(lineEdges())
	o.Mark([]graph.NodeID{1, 2})
	o.Mark([]graph.NodeID{3, 4})

	assert.Equal(t, []graph.EdgeKey{graph.KeyOf(3, 4)}, o.Marked())
}

func TestMarkSkipsUnknownNodes(t *testing.T) {
	o := New(lineEdges())
	n := o.Mark([]graph.NodeID{1, 2, 42, 3, 4})

	assert.Equal(t, 2, n)
	assert.Equal(t, []graph.EdgeKey{graph.KeyOf(1, 2), graph.KeyOf(3, 4)}, o.Marked())
}

func TestMarkShortPath(t *testing.T) {
	o := New(lineEdges())
	assert.Equal(t, 0, o.Mark([]graph.NodeID{1}))
	assert.Equal(t, 0, o.Mark(nil))
	assert.Empty(t, o.Marked())
}

func TestApplyHoldsResult(t *testing.T) {
	o := New(lineEdges())
	ids := []graph.NodeID{1, 2, 3}
	o.Apply(PathResult{Algorithm: "dijkstra", NodeIDs: ids, Weight: 5})
	ids[0] = 99

	r, ok := o.Result()
	require.True(t, ok)
	assert.Equal(t, []graph.NodeID{1, 2, 3}, r.NodeIDs)
	assert.Equal(t, 5.0, r.Weight)
}

func TestClearIdempotent(t *testing.T) {
	o := New(lineEdges())
	o.Apply(PathResult{NodeIDs: []graph.NodeID{1, 2, 3}})

	o.Clear()
	once := o.Marked()
	_, hadResult := o.Result()

	o.Clear()
	assert.Equal(t, once, o.Marked())
	_, stillResult := o.Result()
	assert.Equal(t, hadResult, stillResult)
	assert.Empty(t, o.Marked())
	assert.False(t, stillResult)
}

func TestApplyIdempotent(t *testing.T) {
	o := New(lineEdges())
	r := PathResult{NodeIDs: []graph.NodeID{2, 3, 4}}
	o.Apply(r)
	first := o.Marked()
	o.Apply(r)
	assert.Equal(t, first, o.Marked())
}
