// Package overlay marks the edges of the most recent path result.
package overlay

import (
	"github.com/msalah0e/pathviz/internal/graph"
)

// PathResult is a path returned by the service.
type PathResult struct {
	Algorithm string
	NodeIDs   []graph.NodeID
	Weight    float64
}

// EdgeSet is the rendered edge set the overlay marks against.
type EdgeSet interface {
	EdgeKeys() []graph.EdgeKey
}

// Overlay holds the on-path marks. Both Apply and Clear are idempotent.
type Overlay struct {
	edges  EdgeSet
	marked map[graph.EdgeKey]bool
	result *PathResult
}

// New creates an overlay over the given rendered edges.
func New(edges EdgeSet) *Overlay {
	return &Overlay{edges: edges, marked: make(map[graph.EdgeKey]bool)}
}

// Apply clears previous marks, records r and marks its edges.
func (o *Overlay) Apply(r PathResult) int {
	n := o.Mark(r.NodeIDs)
	kept := r
	kept.NodeIDs = append([]graph.NodeID(nil), r.NodeIDs...)
	o.result = &kept
	return n
}

// Mark clears previous marks and marks every rendered edge whose unordered
// endpoints match a consecutive pair of ids. Ids without a rendered edge are
// skipped. It returns the number of marked edges.
func (o *Overlay) Mark(ids []graph.NodeID) int {
	o.Clear()
	if len(ids) < 2 {
		return 0
	}

	want := make(map[graph.EdgeKey]bool, len(ids)-1)
	for i := 0; i+1 < len(ids); i++ {
		want[graph.KeyOf(ids[i], ids[i+1])] = true
	}
	for _, key := range o.edges.EdgeKeys() {
		if want[key] {
			o.marked[key] = true
		}
	}
	return len(o.marked)
}

// Clear removes all marks and the held path result.
func (o *Overlay) Clear() {
	clear(o.marked)
	o.result = nil
}

// OnPath reports whether the edge is marked.
func (o *Overlay) OnPath(key graph.EdgeKey) bool {
	return o.marked[key]
}

// Marked returns the marked edge keys in rendered order.
func (o *Overlay) Marked() []graph.EdgeKey {
	var keys []graph.EdgeKey
	for _, key := range o.edges.EdgeKeys() {
		if o.marked[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

// Result returns the held path result, if any.
func (o *Overlay) Result() (PathResult, bool) {
	if o.result == nil {
		return PathResult{}, false
	}
	return *o.result, true
}
