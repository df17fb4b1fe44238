//go:build e2e

package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathvizBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "pathviz-e2e-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}
	defer os.RemoveAll(tmp)

	pathvizBin = filepath.Join(tmp, "pathviz")
	build := exec.Command("go", "build", "-ldflags", "-X github.com/msalah0e/pathviz/cmd.version=0.3.0-test", "-o", pathvizBin, ".")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		panic("failed to build pathviz: " + err.Error())
	}

	os.Exit(m.Run())
}

// graphServer serves a fixed three-node graph and rejects every mutation.
func graphServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/graph":
			w.Write([]byte(`{"nodes":[{"id":1,"x":null,"y":null},{"id":2,"x":100,"y":100},{"id":3,"x":null,"y":null}],` +
				`"edges":[{"from_node":1,"to_node":2,"weight":4},{"from_node":2,"to_node":3,"weight":1}]}`))
		case "/shortest_path":
			w.Write([]byte(`{"path":[1,2,3],"weight":5.0}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"read-only test server"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// runPathviz executes the pathviz binary with an isolated HOME directory.
func runPathviz(t *testing.T, server string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(pathvizBin, args...)
	home := t.TempDir()
	cmd.Dir = home
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"NO_COLOR=1",
		"PATHVIZ_SERVER="+server,
	)

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode = 0
	if err != nil {
		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr, "failed to run pathviz %v", args)
		exitCode = exitErr.ExitCode()
	}
	return outBuf.String(), errBuf.String(), exitCode
}

// --- Core CLI ---

func TestE2E_Version(t *testing.T) {
	out, _, code := runPathviz(t, "http://127.0.0.1:1", "--version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "0.3.0-test")
}

func TestE2E_Help(t *testing.T) {
	out, _, code := runPathviz(t, "http://127.0.0.1:1", "--help")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Available Commands")
}

// --- Graph ---

func TestE2E_Graph(t *testing.T) {
	out, _, code := runPathviz(t, graphServer(t), "graph")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Edges")
}

func TestE2E_Path(t *testing.T) {
	out, _, code := runPathviz(t, graphServer(t), "path", "1", "3")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Dijkstra Path: 1 -> 2 -> 3, Weight: 5.00")
}

func TestE2E_RejectedMutationExitsNonZero(t *testing.T) {
	out, _, code := runPathviz(t, graphServer(t), "edge", "add", "5", "6", "2.0")
	assert.NotEqual(t, 0, code, "expected non-zero exit for rejected edge")
	assert.Contains(t, out, "Error adding edge: read-only test server")
}

func TestE2E_Unreachable(t *testing.T) {
	_, _, code := runPathviz(t, "http://127.0.0.1:1", "graph")
	assert.NotEqual(t, 0, code, "expected non-zero exit when the service is down")
}

// --- Export ---

func TestE2E_RenderSVG(t *testing.T) {
	out, _, code := runPathviz(t, graphServer(t), "render")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "<svg"), "expected svg on stdout, got %q", out)
}

// --- Config ---

func TestE2E_ConfigInitAndShow(t *testing.T) {
	server := graphServer(t)
	_, _, code := runPathviz(t, server, "config", "init")
	require.Equal(t, 0, code, "config init")

	out, _, code := runPathviz(t, server, "config", "show")
	require.Equal(t, 0, code, "config show")
	assert.Contains(t, out, "[layout]")
}
