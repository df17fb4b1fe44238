// Package controller turns user intents into remote calls and reconciles the
// results with the graph model, layout, selection and path overlay.
package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msalah0e/pathviz/internal/api"
	"github.com/msalah0e/pathviz/internal/graph"
	"github.com/msalah0e/pathviz/internal/layout"
	"github.com/msalah0e/pathviz/internal/overlay"
	"github.com/msalah0e/pathviz/internal/selection"
)

// Op names a user-triggered operation.
type Op string

const (
	OpReload       Op = "reload"
	OpAddNode      Op = "add node"
	OpAddEdge      Op = "add edge"
	OpUpdateWeight Op = "update edge weight"
	OpShortestPath Op = "shortest path"
	OpFindSet      Op = "find set"
	OpUniteSets    Op = "unite sets"
	OpSelect       Op = "select"
)

// Service is the remote route optimizer.
type Service interface {
	FetchGraph(ctx context.Context) (*api.GraphResponse, error)
	ShortestPath(ctx context.Context, req api.ShortestPathRequest) (*api.ShortestPathResponse, error)
	AddNode(ctx context.Context, req api.AddNodeRequest) (*api.MessageResponse, error)
	AddEdge(ctx context.Context, req api.AddEdgeRequest) (*api.MessageResponse, error)
	UpdateWeight(ctx context.Context, req api.UpdateWeightRequest) (*api.MessageResponse, error)
	FindSet(ctx context.Context, req api.FindSetRequest) (*api.FindSetResponse, error)
	UniteSets(ctx context.Context, req api.UniteSetsRequest) (*api.MessageResponse, error)
}

// Message is one user-visible outcome. Err is set for failures.
type Message struct {
	Op   Op
	Text string
	Err  error
}

// IsError reports whether the message describes a failure.
func (m Message) IsError() bool {
	return m.Err != nil
}

// Notifier receives every user-visible message.
type Notifier interface {
	Notify(Message)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Message)

// Notify implements Notifier.
func (f NotifierFunc) Notify(m Message) { f(m) }

// Options configures a Controller.
type Options struct {
	Service   Service
	Scheduler Scheduler
	Projector *layout.Projector
	Notifier  Notifier
	Logger    *slog.Logger
}

// Controller owns the interaction state: graph model, selection, overlay and
// the projector binding. All methods must be called from the interaction
// loop; completions arrive there through the Scheduler.
type Controller struct {
	svc      Service
	sched    Scheduler
	model    *graph.Model
	proj     *layout.Projector
	sel      *selection.Machine
	overlay  *overlay.Overlay
	notifier Notifier
	log      *slog.Logger

	form      selection.Fields
	setResult string

	// Reloads are tagged in issue order; completions older than the newest
	// applied reload are dropped.
	issued  uint64
	applied uint64
	pending int
	idle    []func()
}

// New creates a controller with an empty graph.
func New(opts Options) *Controller {
	if opts.Scheduler == nil {
		opts.Scheduler = Inline{}
	}
	if opts.Projector == nil {
		opts.Projector = layout.New(layout.DefaultParams())
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(Message) {})
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	c := &Controller{
		svc:      opts.Service,
		sched:    opts.Scheduler,
		model:    graph.New(),
		proj:     opts.Projector,
		overlay:  overlay.New(opts.Projector),
		notifier: opts.Notifier,
		log:      opts.Logger,
	}
	c.sel = selection.New(modelMembership{c.model})
	c.sel.OnChange(func(_ selection.State, f selection.Fields) {
		c.form = f
	})
	return c
}

type modelMembership struct{ m *graph.Model }

func (mm modelMembership) Contains(id graph.NodeID) bool { return mm.m.Get().Contains(id) }

// Snapshot returns the current graph snapshot.
func (c *Controller) Snapshot() graph.Snapshot { return c.model.Get() }

// Projector returns the layout projector bound to the model.
func (c *Controller) Projector() *layout.Projector { return c.proj }

// Overlay returns the path highlight overlay.
func (c *Controller) Overlay() *overlay.Overlay { return c.overlay }

// Selection returns the current selection state.
func (c *Controller) Selection() selection.State { return c.sel.State() }

// EdgeForm returns the pending edge form, as last written by the selection.
func (c *Controller) EdgeForm() selection.Fields { return c.form }

// SetResult returns the last find-set result line.
func (c *Controller) SetResult() string { return c.setResult }

// Pending returns the number of remote calls awaiting completion.
func (c *Controller) Pending() int { return c.pending }

// WhenIdle runs fn once no remote call is pending, at once if none is.
// Callbacks run on the scheduler's completion path in registration order.
func (c *Controller) WhenIdle(fn func()) {
	if c.pending == 0 {
		fn()
		return
	}
	c.idle = append(c.idle, fn)
}

func (c *Controller) notify(op Op, err error, format string, args ...any) {
	m := Message{Op: op, Text: fmt.Sprintf(format, args...), Err: err}
	if err != nil {
		c.log.Warn("operation failed", "op", string(op), "error", err)
	} else {
		c.log.Info(m.Text, "op", string(op))
	}
	c.notifier.Notify(m)
}

func (c *Controller) run(ctx context.Context, call func(context.Context) error, done func(error)) {
	c.pending++
	c.sched.Go(ctx, call, func(err error) {
		c.pending--
		done(err)
		for c.pending == 0 && len(c.idle) > 0 {
			fn := c.idle[0]
			c.idle = c.idle[1:]
			fn()
		}
	})
}

// Reload fetches the full graph and, if it is consistent and not stale,
// replaces the model, rebinds the projector, clears the path overlay and
// resets the selection. A failed or inconsistent fetch leaves everything as
// it was.
func (c *Controller) Reload(ctx context.Context) {
	c.issued++
	tag := c.issued

	var resp *api.GraphResponse
	c.run(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.svc.FetchGraph(ctx)
		return err
	}, func(err error) {
		c.applyReload(tag, resp, err)
	})
}

func (c *Controller) applyReload(tag uint64, resp *api.GraphResponse, err error) {
	if err != nil {
		c.notify(OpReload, err, "Error fetching graph data: %s", reason(err))
		return
	}
	if tag < c.applied {
		c.log.Debug("discarding stale reload", "tag", tag, "applied", c.applied)
		return
	}

	nodes, edges := fromWire(resp)
	snap, err := c.model.Replace(nodes, edges)
	if err != nil {
		c.notify(OpReload, err, "Error fetching graph data: %s", reason(err))
		return
	}

	c.applied = tag
	c.overlay.Clear()
	c.proj.Bind(snap)
	c.sel.Reset()
	c.notify(OpReload, nil, "Graph loaded successfully.")
}

func fromWire(resp *api.GraphResponse) ([]graph.Node, []graph.Edge) {
	nodes := make([]graph.Node, 0, len(resp.Nodes))
	for _, n := range resp.Nodes {
		nodes = append(nodes, graph.Node{ID: graph.NodeID(n.ID), X: n.X, Y: n.Y})
	}
	edges := make([]graph.Edge, 0, len(resp.Edges))
	for _, e := range resp.Edges {
		edges = append(edges, graph.Edge{
			Source: graph.NodeID(e.FromNode),
			Target: graph.NodeID(e.ToNode),
			Weight: e.Weight,
		})
	}
	return nodes, edges
}

// ClickNode feeds a node click to the selection machine.
func (c *Controller) ClickNode(id graph.NodeID) selection.State {
	s, ok := c.sel.Click(id)
	if !ok {
		return s
	}
	switch s.Kind {
	case selection.FirstPicked:
		c.notify(OpSelect, nil, "Node %d selected as FROM node.", s.First)
	case selection.BothPicked:
		c.notify(OpSelect, nil, "Node %d selected as TO node. Ready to add edge.", s.Second)
	}
	return s
}

// ClickBackground clears the selection.
func (c *Controller) ClickBackground() {
	c.sel.ClickBackground()
	c.notify(OpSelect, nil, "Selection cleared.")
}
