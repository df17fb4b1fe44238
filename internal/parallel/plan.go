package parallel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/msalah0e/pathviz/internal/api"
)

// Plan is a batch of mutations read from a TOML file. Weight updates run after
// every edge add, so a plan may add an edge and reweight it:
//
//	[[node]]
//	id = 4
//	x = 120.0
//	y = 80.0
//
//	[[edge]]
//	from = 1
//	to = 4
//	weight = 2.5
//
//	[[weight]]
//	from = 1
//	to = 4
//	weight = 7
//
//	[[unite]]
//	a = 1
//	b = 4
type Plan struct {
	Nodes   []PlanNode  `toml:"node"`
	Edges   []PlanEdge  `toml:"edge"`
	Weights []PlanEdge  `toml:"weight"`
	Unites  []PlanUnite `toml:"unite"`
}

// PlanNode adds a node, optionally at a fixed position.
type PlanNode struct {
	ID int64    `toml:"id"`
	X  *float64 `toml:"x"`
	Y  *float64 `toml:"y"`
}

// PlanEdge adds an edge or updates its weight.
type PlanEdge struct {
	From   int64   `toml:"from"`
	To     int64   `toml:"to"`
	Weight float64 `toml:"weight"`
}

// PlanUnite merges the zones of two nodes.
type PlanUnite struct {
	A int64 `toml:"a"`
	B int64 `toml:"b"`
}

// Len returns the number of mutations in the plan.
func (p *Plan) Len() int {
	return len(p.Nodes) + len(p.Edges) + len(p.Weights) + len(p.Unites)
}

// LoadPlan reads and validates a plan file. Unknown keys are rejected.
func LoadPlan(path string) (*Plan, error) {
	var p Plan
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("plan %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return &p, nil
}

// Validate rejects non-finite numbers.
func (p *Plan) Validate() error {
	var errs []error
	for i, n := range p.Nodes {
		if (n.X != nil && !finite(*n.X)) || (n.Y != nil && !finite(*n.Y)) {
			errs = append(errs, fmt.Errorf("node[%d]: position must be finite", i))
		}
		if (n.X == nil) != (n.Y == nil) {
			errs = append(errs, fmt.Errorf("node[%d]: x and y must be given together", i))
		}
	}
	for i, e := range p.Edges {
		if !finite(e.Weight) {
			errs = append(errs, fmt.Errorf("edge[%d]: weight must be finite", i))
		}
	}
	for i, e := range p.Weights {
		if !finite(e.Weight) {
			errs = append(errs, fmt.Errorf("weight[%d]: weight must be finite", i))
		}
	}
	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Mutator is the subset of the service a plan needs.
type Mutator interface {
	AddNode(ctx context.Context, req api.AddNodeRequest) (*api.MessageResponse, error)
	AddEdge(ctx context.Context, req api.AddEdgeRequest) (*api.MessageResponse, error)
	UpdateWeight(ctx context.Context, req api.UpdateWeightRequest) (*api.MessageResponse, error)
	UniteSets(ctx context.Context, req api.UniteSetsRequest) (*api.MessageResponse, error)
}

// Apply submits the plan in dependent phases: nodes, then edges, then weight
// updates, then unites. Mutations inside a phase run concurrently. Every
// result is returned in plan order; failures do not stop later phases.
func Apply(ctx context.Context, w io.Writer, m Mutator, p *Plan, concurrency int) []Result {
	phases := [][]Task{nodeTasks(m, p), edgeTasks(m, p), weightTasks(m, p), uniteTasks(m, p)}

	var results []Result
	for _, tasks := range phases {
		if len(tasks) == 0 {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		results = append(results, Run(ctx, w, tasks, concurrency)...)
	}
	return results
}

func message(resp *api.MessageResponse, err error) (string, error) {
	if err != nil {
		var se *api.ServiceError
		if errors.As(err, &se) {
			return "", errors.New(se.Reason())
		}
		return "", err
	}
	return resp.Message, nil
}

func nodeTasks(m Mutator, p *Plan) []Task {
	tasks := make([]Task, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		req := api.AddNodeRequest{ID: n.ID, X: n.X, Y: n.Y}
		tasks = append(tasks, Task{
			Name: fmt.Sprintf("add node %d", n.ID),
			Fn: func(ctx context.Context) (string, error) {
				return message(m.AddNode(ctx, req))
			},
		})
	}
	return tasks
}

func edgeTasks(m Mutator, p *Plan) []Task {
	tasks := make([]Task, 0, len(p.Edges))
	for _, e := range p.Edges {
		req := api.AddEdgeRequest{FromNode: e.From, ToNode: e.To, Weight: e.Weight}
		tasks = append(tasks, Task{
			Name: fmt.Sprintf("add edge %d-%d", e.From, e.To),
			Fn: func(ctx context.Context) (string, error) {
				return message(m.AddEdge(ctx, req))
			},
		})
	}
	return tasks
}

func weightTasks(m Mutator, p *Plan) []Task {
	tasks := make([]Task, 0, len(p.Weights))
	for _, e := range p.Weights {
		req := api.UpdateWeightRequest{FromNode: e.From, ToNode: e.To, NewWeight: e.Weight}
		tasks = append(tasks, Task{
			Name: fmt.Sprintf("update weight %d-%d", e.From, e.To),
			Fn: func(ctx context.Context) (string, error) {
				return message(m.UpdateWeight(ctx, req))
			},
		})
	}
	return tasks
}

func uniteTasks(m Mutator, p *Plan) []Task {
	tasks := make([]Task, 0, len(p.Unites))
	for _, u := range p.Unites {
		req := api.UniteSetsRequest{NodeID1: u.A, NodeID2: u.B}
		tasks = append(tasks, Task{
			Name: fmt.Sprintf("unite %d %d", u.A, u.B),
			Fn: func(ctx context.Context) (string, error) {
				return message(m.UniteSets(ctx, req))
			},
		})
	}
	return tasks
}

// Failed counts the failed results.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK {
			n++
		}
	}
	return n
}
