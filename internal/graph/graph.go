package graph

import (
	"fmt"
	"math"
	"sort"
)

// NodeID is the externally assigned identity of a node.
type NodeID int64

// Node is a vertex as delivered by the service. X and Y may be absent when the
// producer did not place the node.
type Node struct {
	ID NodeID   `json:"id"`
	X  *float64 `json:"x,omitempty"`
	Y  *float64 `json:"y,omitempty"`
}

// HasPosition reports whether the producer supplied both coordinates.
func (n Node) HasPosition() bool {
	return n.X != nil && n.Y != nil
}

// Edge is a weighted connection. Edges are undirected for display and matching.
type Edge struct {
	Source NodeID  `json:"source"`
	Target NodeID  `json:"target"`
	Weight float64 `json:"weight"`
}

// Key returns the unordered endpoint pair identifying the edge.
func (e Edge) Key() EdgeKey {
	return KeyOf(e.Source, e.Target)
}

// EdgeKey is an unordered endpoint pair with A <= B.
type EdgeKey struct {
	A NodeID
	B NodeID
}

// KeyOf builds the unordered key for a pair of endpoints.
func KeyOf(a, b NodeID) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("%d-%d", k.A, k.B)
}

// Snapshot is the full node/edge set at a point in time. A snapshot is never
// mutated after it has been installed in a Model.
type Snapshot struct {
	nodes []Node
	edges []Edge
	index map[NodeID]int
	keys  map[EdgeKey]int
}

// Stats holds summary counts.
type Stats struct {
	Nodes       int
	Edges       int
	TotalWeight float64
}

// NewSnapshot validates nodes and edges and builds an indexed snapshot.
func NewSnapshot(nodes []Node, edges []Edge) (Snapshot, error) {
	s := Snapshot{
		nodes: make([]Node, len(nodes)),
		edges: make([]Edge, len(edges)),
		index: make(map[NodeID]int, len(nodes)),
		keys:  make(map[EdgeKey]int, len(edges)),
	}
	copy(s.nodes, nodes)
	copy(s.edges, edges)

	for i, n := range s.nodes {
		if _, dup := s.index[n.ID]; dup {
			return Snapshot{}, &IntegrityError{Reason: fmt.Sprintf("duplicate node id %d", n.ID)}
		}
		s.index[n.ID] = i
	}
	for i, e := range s.edges {
		if _, ok := s.index[e.Source]; !ok {
			return Snapshot{}, &IntegrityError{Edge: e.Key(), Reason: fmt.Sprintf("edge references missing node %d", e.Source)}
		}
		if _, ok := s.index[e.Target]; !ok {
			return Snapshot{}, &IntegrityError{Edge: e.Key(), Reason: fmt.Sprintf("edge references missing node %d", e.Target)}
		}
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return Snapshot{}, &IntegrityError{Edge: e.Key(), Reason: "edge weight is not finite"}
		}
		// A duplicate unordered pair collapses onto the last occurrence.
		s.keys[e.Key()] = i
	}
	return s, nil
}

// Nodes returns the snapshot's nodes in producer order.
func (s Snapshot) Nodes() []Node {
	return s.nodes
}

// Edges returns the snapshot's edges in producer order.
func (s Snapshot) Edges() []Edge {
	return s.edges
}

// Contains reports whether id is a node of the snapshot.
func (s Snapshot) Contains(id NodeID) bool {
	_, ok := s.index[id]
	return ok
}

// Node looks up a node by id.
func (s Snapshot) Node(id NodeID) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Edge looks up an edge by its unordered endpoint pair.
func (s Snapshot) Edge(key EdgeKey) (Edge, bool) {
	i, ok := s.keys[key]
	if !ok {
		return Edge{}, false
	}
	return s.edges[i], true
}

// NodeIDs returns the node ids in ascending order.
func (s Snapshot) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(s.nodes))
	for _, n := range s.nodes {
		ids = append(ids, n.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Stats returns summary counts for display. Edges are counted once per
// unordered pair, matching what is rendered.
func (s Snapshot) Stats() Stats {
	st := Stats{Nodes: len(s.nodes), Edges: len(s.keys)}
	for _, i := range s.keys {
		st.TotalWeight += s.edges[i].Weight
	}
	return st
}

// Model holds the current snapshot. The zero value is an empty graph.
type Model struct {
	current Snapshot
}

// New creates an empty model.
func New() *Model {
	empty, _ := NewSnapshot(nil, nil)
	return &Model{current: empty}
}

// Replace atomically swaps in a new snapshot. If the new node/edge set is
// inconsistent the previous snapshot is kept and an *IntegrityError returned.
func (m *Model) Replace(nodes []Node, edges []Edge) (Snapshot, error) {
	next, err := NewSnapshot(nodes, edges)
	if err != nil {
		return m.current, err
	}
	m.current = next
	return next, nil
}

// Get returns the current snapshot. Callers must not mutate the returned slices.
func (m *Model) Get() Snapshot {
	return m.current
}
