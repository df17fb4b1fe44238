// Package layout binds graph snapshots to a running force simulation and owns
// every node position between reloads.
package layout

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/msalah0e/pathviz/internal/graph"
)

// Placement is the projector's view of one node: its simulated position and
// optional pin.
type Placement struct {
	ID graph.NodeID
	X  float64
	Y  float64
	FX *float64
	FY *float64
}

// Pinned reports whether the node is held in place.
func (p Placement) Pinned() bool {
	return p.FX != nil && p.FY != nil
}

// EdgeSegment is an edge positioned from its endpoints' current positions.
type EdgeSegment struct {
	Key    graph.EdgeKey
	Source graph.NodeID
	Target graph.NodeID
	Weight float64
	X1, Y1 float64
	X2, Y2 float64
	LabelX float64
	LabelY float64
}

// Frame is what subscribers receive after every bind and tick.
type Frame struct {
	Alpha float64
	Nodes []Placement
	Edges []EdgeSegment
}

// BindResult describes the membership change applied by Bind.
type BindResult struct {
	Delta graph.Delta
}

// Projector keeps a force simulation in step with the bound snapshot. Only the
// projector writes positions; everything else reads frames or placements.
type Projector struct {
	sim      *Simulation
	bound    graph.Snapshot
	bodies   map[graph.NodeID]*body
	dragging map[graph.NodeID]bool
	subs     []subscriber
	nextSub  int
}

type subscriber struct {
	id int
	fn func(Frame)
}

// New creates a projector with nothing bound.
func New(params Params) *Projector {
	return &Projector{
		sim:      newSimulation(params),
		bodies:   make(map[graph.NodeID]*body),
		dragging: make(map[graph.NodeID]bool),
	}
}

// Params returns the effective simulation parameters.
func (p *Projector) Params() Params {
	return p.sim.params
}

// Bind reconciles the simulation with snap by node id and unordered edge pair.
// Retained nodes keep their position and pin; removed nodes lose their body
// and any drag in progress; new nodes start at the producer's position or a
// random point on the canvas. The simulation is restarted at full energy.
func (p *Projector) Bind(snap graph.Snapshot) BindResult {
	delta := graph.Diff(p.bound, snap)

	for _, id := range delta.RemovedNodes {
		delete(p.bodies, id)
		delete(p.dragging, id)
	}
	if len(p.dragging) == 0 {
		p.sim.setAlphaTarget(0)
	}

	bodies := make([]*body, 0, len(snap.Nodes()))
	for _, n := range snap.Nodes() {
		b, ok := p.bodies[n.ID]
		if !ok {
			b = &body{id: n.ID}
			if n.HasPosition() {
				b.pos = r2.Vec{X: *n.X, Y: *n.Y}
			} else {
				b.pos = p.sim.randomPosition()
			}
			p.bodies[n.ID] = b
		}
		bodies = append(bodies, b)
	}

	seen := make(map[graph.EdgeKey]bool, len(snap.Edges()))
	links := make([]*link, 0, len(snap.Edges()))
	for _, e := range snap.Edges() {
		key := e.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		canonical, _ := snap.Edge(key)
		links = append(links, &link{
			key:    key,
			source: p.bodies[canonical.Source],
			target: p.bodies[canonical.Target],
			weight: canonical.Weight,
		})
	}

	p.bound = snap
	p.sim.setMembers(bodies, links)
	p.sim.restart(1)
	p.emit()

	return BindResult{Delta: delta}
}

// Bound returns the snapshot currently driving the simulation.
func (p *Projector) Bound() graph.Snapshot {
	return p.bound
}

// Tick advances the simulation by one step and notifies subscribers. It
// returns false without stepping once the simulation has cooled.
func (p *Projector) Tick() bool {
	if !p.sim.hot() {
		return false
	}
	p.sim.step()
	p.emit()
	return true
}

// Settle ticks until the simulation cools or maxTicks is reached and returns
// the number of ticks run.
func (p *Projector) Settle(maxTicks int) int {
	n := 0
	for n < maxTicks && p.Tick() {
		n++
	}
	return n
}

// Running reports whether Tick would advance the simulation.
func (p *Projector) Running() bool {
	return p.sim.hot()
}

// Alpha returns the current simulation energy.
func (p *Projector) Alpha() float64 {
	return p.sim.alpha
}

// Subscribe registers fn for every emitted frame. The returned func removes it.
func (p *Projector) Subscribe(fn func(Frame)) (cancel func()) {
	p.nextSub++
	id := p.nextSub
	p.subs = append(p.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

// DragStart pins id at its current position. The first active drag raises the
// alpha target so the rest of the graph reflows without a full restart.
func (p *Projector) DragStart(id graph.NodeID) bool {
	b, ok := p.bodies[id]
	if !ok {
		return false
	}
	if len(p.dragging) == 0 {
		p.sim.setAlphaTarget(p.sim.params.DragAlphaTarget)
	}
	p.dragging[id] = true
	pin := b.pos
	b.pin = &pin
	return true
}

// DragMove moves the pin of a node being dragged.
func (p *Projector) DragMove(id graph.NodeID, x, y float64) bool {
	if !p.dragging[id] {
		return false
	}
	p.bodies[id].pin = &r2.Vec{X: x, Y: y}
	return true
}

// DragEnd releases the pin so the node integrates freely again.
func (p *Projector) DragEnd(id graph.NodeID) bool {
	if !p.dragging[id] {
		return false
	}
	delete(p.dragging, id)
	p.bodies[id].pin = nil
	if len(p.dragging) == 0 {
		p.sim.setAlphaTarget(0)
	}
	return true
}

// Dragging reports whether id has an active drag.
func (p *Projector) Dragging(id graph.NodeID) bool {
	return p.dragging[id]
}

// Node returns the placement of id.
func (p *Projector) Node(id graph.NodeID) (Placement, bool) {
	b, ok := p.bodies[id]
	if !ok {
		return Placement{}, false
	}
	return placementOf(b), true
}

// EdgeKeys returns the keys of every rendered edge.
func (p *Projector) EdgeKeys() []graph.EdgeKey {
	keys := make([]graph.EdgeKey, 0, len(p.sim.links))
	for _, l := range p.sim.links {
		keys = append(keys, l.key)
	}
	return keys
}

// Frame builds the current frame without stepping.
func (p *Projector) Frame() Frame {
	f := Frame{
		Alpha: p.sim.alpha,
		Nodes: make([]Placement, 0, len(p.sim.bodies)),
		Edges: make([]EdgeSegment, 0, len(p.sim.links)),
	}
	for _, b := range p.sim.bodies {
		f.Nodes = append(f.Nodes, placementOf(b))
	}
	for _, l := range p.sim.links {
		f.Edges = append(f.Edges, segmentOf(l))
	}
	return f
}

func (p *Projector) emit() {
	if len(p.subs) == 0 {
		return
	}
	f := p.Frame()
	for _, s := range p.subs {
		s.fn(f)
	}
}

func placementOf(b *body) Placement {
	pl := Placement{ID: b.id, X: b.pos.X, Y: b.pos.Y}
	if b.pin != nil {
		fx, fy := b.pin.X, b.pin.Y
		pl.FX, pl.FY = &fx, &fy
	}
	return pl
}

// segmentOf derives an edge's geometry from its endpoints alone.
func segmentOf(l *link) EdgeSegment {
	s, t := l.source.pos, l.target.pos
	mid := r2.Scale(0.5, r2.Add(s, t))
	return EdgeSegment{
		Key:    l.key,
		Source: l.source.id,
		Target: l.target.id,
		Weight: l.weight,
		X1:     s.X,
		Y1:     s.Y,
		X2:     t.X,
		Y2:     t.Y,
		LabelX: mid.X,
		LabelY: mid.Y,
	}
}
