package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/msalah0e/pathviz/internal/api"
	"github.com/msalah0e/pathviz/internal/graph"
	"github.com/msalah0e/pathviz/internal/overlay"
)

// Algorithms accepted by FindShortestPath.
const (
	Dijkstra = "dijkstra"
	AStar    = "astar"
)

// NodeInput is the add-node form. X and Y may be blank.
type NodeInput struct {
	ID string
	X  string
	Y  string
}

// EdgeInput is the add-edge and update-weight form.
type EdgeInput struct {
	From   string
	To     string
	Weight string
}

// PathInput is the shortest-path form.
type PathInput struct {
	Start     string
	End       string
	Algorithm string
}

// mutate runs a graph-changing call. On success the server message is shown
// and a full reload follows; on failure nothing local changes.
func (c *Controller) mutate(ctx context.Context, op Op, failure, fallback string, call func(context.Context) (*api.MessageResponse, error)) {
	var resp *api.MessageResponse
	c.run(ctx, func(ctx context.Context) error {
		var err error
		resp, err = call(ctx)
		return err
	}, func(err error) {
		if err != nil {
			c.notify(op, err, "%s: %s", failure, reason(err))
			return
		}
		text := resp.Message
		if text == "" {
			text = fallback
		}
		c.notify(op, nil, "%s", text)
		c.Reload(ctx)
	})
}

func (c *Controller) reject(err *ValidationError) error {
	c.notify(err.Op, err, "%s", err.Msg)
	return err
}

// AddNode validates in and asks the service to create the node.
func (c *Controller) AddNode(ctx context.Context, in NodeInput) error {
	id, ok := parseID(in.ID)
	if !ok {
		return c.reject(invalid(OpAddNode, "id", "Please enter a valid Node ID to add."))
	}
	x, okX := parseOptional(in.X)
	y, okY := parseOptional(in.Y)
	if !okX || !okY {
		return c.reject(invalid(OpAddNode, "position", "Please enter numeric X and Y coordinates or leave them blank."))
	}
	if (x == nil) != (y == nil) {
		return c.reject(invalid(OpAddNode, "position", "Please enter both X and Y coordinates or leave both blank."))
	}

	req := api.AddNodeRequest{ID: int64(id), X: x, Y: y}
	c.mutate(ctx, OpAddNode, "Error adding node", "Node added successfully.",
		func(ctx context.Context) (*api.MessageResponse, error) { return c.svc.AddNode(ctx, req) })
	return nil
}

// AddEdge validates in and asks the service to create the edge.
func (c *Controller) AddEdge(ctx context.Context, in EdgeInput) error {
	from, okFrom := parseID(in.From)
	to, okTo := parseID(in.To)
	w, okW := parseFinite(in.Weight)
	if !okFrom || !okTo || !okW {
		return c.reject(invalid(OpAddEdge, "edge", "Please select valid FROM and TO nodes and enter a valid Weight."))
	}

	req := api.AddEdgeRequest{FromNode: int64(from), ToNode: int64(to), Weight: w}
	c.mutate(ctx, OpAddEdge, "Error adding edge", "Edge added successfully.",
		func(ctx context.Context) (*api.MessageResponse, error) { return c.svc.AddEdge(ctx, req) })
	return nil
}

// AddEdgeFromSelection adds an edge between the nodes currently filled into
// the edge form by the selection.
func (c *Controller) AddEdgeFromSelection(ctx context.Context, weight string) error {
	f := c.EdgeForm()
	return c.AddEdge(ctx, EdgeInput{From: f.From, To: f.To, Weight: weight})
}

// UpdateEdgeWeight validates in and asks the service to change the weight.
func (c *Controller) UpdateEdgeWeight(ctx context.Context, in EdgeInput) error {
	from, okFrom := parseID(in.From)
	to, okTo := parseID(in.To)
	w, okW := parseFinite(in.Weight)
	if !okFrom || !okTo || !okW {
		return c.reject(invalid(OpUpdateWeight, "edge", "Please enter valid FROM node, TO node, and New Weight."))
	}

	req := api.UpdateWeightRequest{FromNode: int64(from), ToNode: int64(to), NewWeight: w}
	c.mutate(ctx, OpUpdateWeight, "Error updating edge weight", "Edge weight updated successfully.",
		func(ctx context.Context) (*api.MessageResponse, error) { return c.svc.UpdateWeight(ctx, req) })
	return nil
}

// UniteSets validates both ids and asks the service to merge their zones.
func (c *Controller) UniteSets(ctx context.Context, a, b string) error {
	id1, ok1 := parseID(a)
	id2, ok2 := parseID(b)
	if !ok1 || !ok2 {
		return c.reject(invalid(OpUniteSets, "node_id", "Please enter valid Node ID 1 and Node ID 2 for Unite Sets."))
	}

	req := api.UniteSetsRequest{NodeID1: int64(id1), NodeID2: int64(id2)}
	c.mutate(ctx, OpUniteSets, "Error uniting sets", "Sets united successfully.",
		func(ctx context.Context) (*api.MessageResponse, error) { return c.svc.UniteSets(ctx, req) })
	return nil
}

// AlgorithmLabel is the display name of an algorithm.
func AlgorithmLabel(algorithm string) string {
	if algorithm == AStar {
		return "A*"
	}
	return "Dijkstra"
}

// FindShortestPath queries a path and, when one exists, highlights it. It
// never reloads the graph.
func (c *Controller) FindShortestPath(ctx context.Context, in PathInput) error {
	algorithm := strings.ToLower(strings.TrimSpace(in.Algorithm))
	if algorithm == "" {
		algorithm = Dijkstra
	}
	if algorithm != Dijkstra && algorithm != AStar {
		return c.reject(invalid(OpShortestPath, "algorithm", "Invalid algorithm. Choose 'dijkstra' or 'astar'."))
	}
	start, okStart := parseID(in.Start)
	end, okEnd := parseID(in.End)
	if !okStart || !okEnd {
		return c.reject(invalid(OpShortestPath, "node", "Please enter valid Start and End Node IDs for %s.", AlgorithmLabel(algorithm)))
	}

	req := api.ShortestPathRequest{StartNode: int64(start), EndNode: int64(end), Algorithm: algorithm}
	var resp *api.ShortestPathResponse
	c.run(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.svc.ShortestPath(ctx, req)
		return err
	}, func(err error) {
		if err != nil {
			c.notify(OpShortestPath, err, "Error finding shortest path: %s", reason(err))
			return
		}
		c.applyPath(algorithm, resp)
	})
	return nil
}

// ErrNoPath is attached to the message shown when the service finds no path.
var ErrNoPath = errors.New("no path")

func (c *Controller) applyPath(algorithm string, resp *api.ShortestPathResponse) {
	if len(resp.Path) == 0 {
		c.overlay.Clear()
		text := resp.Message
		if text == "" {
			text = "No path found."
		}
		c.notify(OpShortestPath, ErrNoPath, "%s", text)
		return
	}

	ids := make([]graph.NodeID, len(resp.Path))
	hops := make([]string, len(resp.Path))
	for i, id := range resp.Path {
		ids[i] = graph.NodeID(id)
		hops[i] = strconv.FormatInt(id, 10)
	}
	c.overlay.Apply(overlay.PathResult{Algorithm: algorithm, NodeIDs: ids, Weight: resp.Weight})
	c.notify(OpShortestPath, nil, "%s Path: %s, Weight: %.2f",
		AlgorithmLabel(algorithm), strings.Join(hops, " -> "), resp.Weight)
}

// FindSet queries the zone of a node and records the result line. It never
// reloads the graph.
func (c *Controller) FindSet(ctx context.Context, node string) error {
	id, ok := parseID(node)
	if !ok {
		return c.reject(invalid(OpFindSet, "node_id", "Please enter a valid Node ID for Find Set."))
	}

	req := api.FindSetRequest{NodeID: int64(id)}
	var resp *api.FindSetResponse
	c.run(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.svc.FindSet(ctx, req)
		return err
	}, func(err error) {
		if err != nil {
			c.notify(OpFindSet, err, "Error finding set: %s", reason(err))
			return
		}
		c.setResult = fmt.Sprintf("Set for node %d: %d", resp.NodeID, resp.SetRepresentative)
		if resp.Message != "" {
			c.notify(OpFindSet, nil, "%s", resp.Message)
			return
		}
		c.notify(OpFindSet, nil, "Set for node %d is %d.", resp.NodeID, resp.SetRepresentative)
	})
	return nil
}
