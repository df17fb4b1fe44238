// Package selection tracks the nodes a user picks while composing an edge.
package selection

import (
	"fmt"
	"strconv"

	"github.com/msalah0e/pathviz/internal/graph"
)

// Kind enumerates the machine's states.
type Kind int

const (
	Idle Kind = iota
	FirstPicked
	BothPicked
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case FirstPicked:
		return "first-picked"
	case BothPicked:
		return "both-picked"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// State is an immutable value describing the current selection.
type State struct {
	Kind   Kind
	First  graph.NodeID
	Second graph.NodeID
}

func (s State) String() string {
	switch s.Kind {
	case FirstPicked:
		return fmt.Sprintf("first-picked(%d)", s.First)
	case BothPicked:
		return fmt.Sprintf("both-picked(%d,%d)", s.First, s.Second)
	}
	return s.Kind.String()
}

// Selected returns the ids that carry the visual selected mark.
func (s State) Selected() []graph.NodeID {
	switch s.Kind {
	case FirstPicked:
		return []graph.NodeID{s.First}
	case BothPicked:
		return []graph.NodeID{s.First, s.Second}
	}
	return nil
}

// Next is the pure transition function for a click on node id.
func (s State) Next(id graph.NodeID) State {
	switch s.Kind {
	case FirstPicked:
		if id == s.First {
			return s
		}
		return State{Kind: BothPicked, First: s.First, Second: id}
	default:
		// Idle starts a pair; a third pick abandons the current pair.
		return State{Kind: FirstPicked, First: id}
	}
}

// Fields mirrors the "from" and "to" inputs of the pending edge form.
type Fields struct {
	From string
	To   string
}

// FieldsOf renders the form values implied by a state.
func FieldsOf(s State) Fields {
	switch s.Kind {
	case FirstPicked:
		return Fields{From: formatID(s.First)}
	case BothPicked:
		return Fields{From: formatID(s.First), To: formatID(s.Second)}
	}
	return Fields{}
}

func formatID(id graph.NodeID) string {
	return strconv.FormatInt(int64(id), 10)
}

// Membership answers whether a node id is part of the bound snapshot.
type Membership interface {
	Contains(id graph.NodeID) bool
}

// Machine owns the selection state and pushes it into the edge form fields on
// every transition. Fields never flow back into the machine.
type Machine struct {
	state    State
	nodes    Membership
	onChange func(State, Fields)
}

// New creates an idle machine. nodes may be nil, in which case every click is
// accepted.
func New(nodes Membership) *Machine {
	return &Machine{nodes: nodes}
}

// SetMembership replaces the identity source used to validate clicks.
func (m *Machine) SetMembership(nodes Membership) {
	m.nodes = nodes
}

// OnChange registers the sink that receives every new state and its fields.
func (m *Machine) OnChange(fn func(State, Fields)) {
	m.onChange = fn
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Fields returns the form values for the current state.
func (m *Machine) Fields() Fields {
	return FieldsOf(m.state)
}

// Click applies a node click. Clicks on nodes outside the bound snapshot are
// ignored and reported as false.
func (m *Machine) Click(id graph.NodeID) (State, bool) {
	if m.nodes != nil && !m.nodes.Contains(id) {
		return m.state, false
	}
	m.set(m.state.Next(id))
	return m.state, true
}

// ClickBackground clears the selection.
func (m *Machine) ClickBackground() State {
	m.set(State{})
	return m.state
}

// Reset returns to Idle after a snapshot replace.
func (m *Machine) Reset() {
	m.set(State{})
}

func (m *Machine) set(s State) {
	m.state = s
	if m.onChange != nil {
		m.onChange(s, FieldsOf(s))
	}
}
