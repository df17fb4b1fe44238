package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8000/api/v1/", 0)
	assert.Equal(t, "http://localhost:8000/api/v1", client.BaseURL, "trailing slash should be trimmed")
	require.NotNil(t, client.HTTPClient)
	assert.Equal(t, 30*time.Second, client.HTTPClient.Timeout)

	assert.Equal(t, DefaultBaseURL, NewClient("", time.Second).BaseURL)
}

func TestClient_FetchGraph(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/graph", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader), "missing request id header")
		w.Write([]byte(`{"nodes":[{"id":1,"x":10.5,"y":null},{"id":2}],
			"edges":[{"from_node":1,"to_node":2,"weight":4.0}],"message":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/v1", time.Second)
	g, err := client.FetchGraph(context.Background())
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)

	require.NotNil(t, g.Nodes[0].X)
	assert.Equal(t, 10.5, *g.Nodes[0].X)
	assert.Nil(t, g.Nodes[0].Y, "null y should decode as nil")
	assert.Equal(t, WireEdge{FromNode: 1, ToNode: 2, Weight: 4}, g.Edges[0])
}

func TestClient_ShortestPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shortest_path", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ShortestPathRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, ShortestPathRequest{StartNode: 1, EndNode: 3, Algorithm: "astar"}, req)
		json.NewEncoder(w).Encode(ShortestPathResponse{Path: []int64{1, 2, 3}, Weight: 5})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	resp, err := client.ShortestPath(context.Background(), ShortestPathRequest{StartNode: 1, EndNode: 3, Algorithm: "astar"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, resp.Path)
	assert.Equal(t, 5.0, resp.Weight)
}

func TestClient_Mutations(t *testing.T) {
	type call struct {
		method string
		body   map[string]any
	}
	calls := make(map[string]call)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		calls[r.URL.Path] = call{method: r.Method, body: body}
		json.NewEncoder(w).Encode(map[string]any{"message": "done " + r.URL.Path, "node_id": 4, "set_representative": 1})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	ctx := context.Background()

	_, err := client.AddNode(ctx, AddNodeRequest{ID: 4})
	require.NoError(t, err)
	_, err = client.AddEdge(ctx, AddEdgeRequest{FromNode: 1, ToNode: 2, Weight: 2.5})
	require.NoError(t, err)
	_, err = client.UpdateWeight(ctx, UpdateWeightRequest{FromNode: 1, ToNode: 2, NewWeight: 7})
	require.NoError(t, err)
	_, err = client.UniteSets(ctx, UniteSetsRequest{NodeID1: 1, NodeID2: 4})
	require.NoError(t, err)
	fs, err := client.FindSet(ctx, FindSetRequest{NodeID: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(4), fs.NodeID)
	assert.Equal(t, int64(1), fs.SetRepresentative)

	addNode := calls["/add_node"]
	assert.Equal(t, http.MethodPost, addNode.method)
	v, present := addNode.body["x"]
	assert.True(t, present, "add_node should send an explicit null x")
	assert.Nil(t, v)

	assert.Equal(t, float64(1), calls["/add_edge"].body["from_node"])
	assert.Equal(t, 2.5, calls["/add_edge"].body["weight"])
	assert.Equal(t, http.MethodPut, calls["/update_weight"].method)
	assert.Equal(t, float64(7), calls["/update_weight"].body["new_weight"])
	assert.Equal(t, float64(4), calls["/zones/unite_sets"].body["node_id2"])
	assert.Equal(t, float64(4), calls["/zones/find_set"].body["node_id"])
}

func TestClient_ServiceErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Node 6 does not exist."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.AddEdge(context.Background(), AddEdgeRequest{FromNode: 5, ToNode: 6, Weight: 2})

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "Node 6 does not exist.", se.Reason())
}

func TestClient_ServiceErrorValidationList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","weight"],"msg":"field required"},{"loc":["body","to_node"],"msg":"value is not a valid integer"}]}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).AddEdge(context.Background(), AddEdgeRequest{})
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "field required; value is not a valid integer", se.Reason())
}

func TestClient_ServiceErrorWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).FetchGraph(context.Background())
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Empty(t, se.Detail)
	assert.Equal(t, "HTTP error! status: 503 Service Unavailable", se.Reason())
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).FetchGraph(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "fetch graph", te.Op)
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).FetchGraph(context.Background())
	var te *TransportError
	assert.ErrorAs(t, err, &te, "undecodable body is a transport failure")
}
