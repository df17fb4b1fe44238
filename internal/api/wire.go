package api

import (
	"encoding/json"
	"strings"
)

// --- Wire types ---

// WireNode is a node as reported by the service.
type WireNode struct {
	ID int64    `json:"id"`
	X  *float64 `json:"x"`
	Y  *float64 `json:"y"`
}

// WireEdge is an edge as reported by the service.
type WireEdge struct {
	FromNode int64   `json:"from_node"`
	ToNode   int64   `json:"to_node"`
	Weight   float64 `json:"weight"`
}

// GraphResponse is the full graph snapshot.
type GraphResponse struct {
	Nodes   []WireNode `json:"nodes"`
	Edges   []WireEdge `json:"edges"`
	Message string     `json:"message,omitempty"`
}

// ShortestPathRequest asks for a path using "dijkstra" or "astar".
type ShortestPathRequest struct {
	StartNode int64  `json:"start_node"`
	EndNode   int64  `json:"end_node"`
	Algorithm string `json:"algorithm"`
}

// ShortestPathResponse carries the path, or an empty path and a message when
// none exists.
type ShortestPathResponse struct {
	Path    []int64 `json:"path"`
	Weight  float64 `json:"weight"`
	Message string  `json:"message,omitempty"`
}

// AddNodeRequest creates a node; nil coordinates are sent as null.
type AddNodeRequest struct {
	ID int64    `json:"id"`
	X  *float64 `json:"x"`
	Y  *float64 `json:"y"`
}

// AddEdgeRequest creates an edge.
type AddEdgeRequest struct {
	FromNode int64   `json:"from_node"`
	ToNode   int64   `json:"to_node"`
	Weight   float64 `json:"weight"`
}

// UpdateWeightRequest changes an edge weight.
type UpdateWeightRequest struct {
	FromNode  int64   `json:"from_node"`
	ToNode    int64   `json:"to_node"`
	NewWeight float64 `json:"new_weight"`
}

// FindSetRequest asks for the zone of a node.
type FindSetRequest struct {
	NodeID int64 `json:"node_id"`
}

// FindSetResponse names the zone representative.
type FindSetResponse struct {
	NodeID            int64  `json:"node_id"`
	SetRepresentative int64  `json:"set_representative"`
	Message           string `json:"message,omitempty"`
}

// UniteSetsRequest merges two zones.
type UniteSetsRequest struct {
	NodeID1 int64 `json:"node_id1"`
	NodeID2 int64 `json:"node_id2"`
}

// MessageResponse is the reply to every mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is returned with non-success statuses. Detail is either a
// string or a list of validation issues.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func (e ErrorResponse) detailText() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	var issues []validationIssue
	if err := json.Unmarshal(e.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, is := range issues {
			if is.Msg != "" {
				msgs = append(msgs, is.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return strings.TrimSpace(string(e.Detail))
}
