// Package api provides the client for the route optimizer service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is the service address used when none is configured.
const DefaultBaseURL = "http://127.0.0.1:8000/api/v1"

// RequestIDHeader carries a per-call id that the client logs alongside errors.
const RequestIDHeader = "X-Request-ID"

// Client talks to the route optimizer service over HTTP/JSON.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a client for baseURL (e.g. http://127.0.0.1:8000/api/v1).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     slog.New(slog.DiscardHandler),
	}
}

// --- API Methods ---

// FetchGraph retrieves the full graph snapshot.
func (c *Client) FetchGraph(ctx context.Context) (*GraphResponse, error) {
	var out GraphResponse
	if err := c.do(ctx, "fetch graph", http.MethodGet, "/graph", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShortestPath asks the service for a path between two nodes.
func (c *Client) ShortestPath(ctx context.Context, req ShortestPathRequest) (*ShortestPathResponse, error) {
	var out ShortestPathResponse
	if err := c.do(ctx, "shortest path", http.MethodPost, "/shortest_path", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddNode creates a node.
func (c *Client) AddNode(ctx context.Context, req AddNodeRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, "add node", http.MethodPost, "/add_node", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddEdge creates an edge.
func (c *Client) AddEdge(ctx context.Context, req AddEdgeRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, "add edge", http.MethodPost, "/add_edge", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWeight changes the weight of an existing edge.
func (c *Client) UpdateWeight(ctx context.Context, req UpdateWeightRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, "update edge weight", http.MethodPut, "/update_weight", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindSet returns the zone representative of a node.
func (c *Client) FindSet(ctx context.Context, req FindSetRequest) (*FindSetResponse, error) {
	var out FindSetResponse
	if err := c.do(ctx, "find set", http.MethodPost, "/zones/find_set", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UniteSets merges the zones of two nodes.
func (c *Client) UniteSets(ctx context.Context, req UniteSetsRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, "unite sets", http.MethodPost, "/zones/unite_sets", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn("request failed", "op", op, "request_id", reqID, "error", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.Logger.Debug("request done", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "request_id", reqID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func parseError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil {
		return &ServiceError{Op: op, Status: resp.StatusCode, Detail: errResp.detailText()}
	}
	return &ServiceError{Op: op, Status: resp.StatusCode}
}
