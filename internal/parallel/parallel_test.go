package parallel

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context) (string, error) { return "", nil }

func TestRun_Success(t *testing.T) {
	tasks := []Task{
		{Name: "task1", Fn: noop},
		{Name: "task2", Fn: noop},
		{Name: "task3", Fn: noop},
	}

	results := Run(context.Background(), io.Discard, tasks, 4)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.OK, "task %s should be OK", r.Name)
		assert.NoError(t, r.Err, "task %s", r.Name)
	}
}

func TestRun_WithErrors(t *testing.T) {
	tasks := []Task{
		{Name: "ok-task", Fn: noop},
		{Name: "fail-task", Fn: func(context.Context) (string, error) {
			return "some output", fmt.Errorf("simulated failure")
		}},
	}

	results := Run(context.Background(), io.Discard, tasks, 4)
	require.Len(t, results, 2)

	// Results should be in order
	assert.True(t, results[0].OK, "first task should be OK")
	assert.False(t, results[1].OK, "second task should have failed")
	assert.Equal(t, "some output", results[1].Output)
	assert.Equal(t, 1, Failed(results))
}

func TestRun_Concurrency(t *testing.T) {
	var maxConcurrent int64
	var current int64

	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = Task{
			Name: fmt.Sprintf("task-%d", i),
			Fn: func(context.Context) (string, error) {
				c := atomic.AddInt64(&current, 1)
				for {
					old := atomic.LoadInt64(&maxConcurrent)
					if c <= old || atomic.CompareAndSwapInt64(&maxConcurrent, old, c) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return "", nil
			},
		}
	}

	results := Run(context.Background(), io.Discard, tasks, 2)

	require.Len(t, results, 10)
	assert.LessOrEqual(t, atomic.LoadInt64(&maxConcurrent), int64(2))
}

func TestRun_DefaultConcurrency(t *testing.T) {
	tasks := []Task{{Name: "test", Fn: noop}}

	results := Run(context.Background(), io.Discard, tasks, 0)
	assert.Len(t, results, 1)
}

func TestRun_OutputCaptured(t *testing.T) {
	tasks := []Task{
		{Name: "with-output", Fn: func(context.Context) (string, error) { return "Node 4 added.", nil }},
	}

	results := Run(context.Background(), io.Discard, tasks, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "Node 4 added.", results[0].Output)
}

func TestTruncateLines(t *testing.T) {
	lines := truncateLines("a\nb\nc\nd", 2)
	assert.Equal(t, []string{"a", "b", "... (2 more lines)"}, lines)
}
