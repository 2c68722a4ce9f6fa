package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_WorkloadFIFO(t *testing.T) {
	q := New(16)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, q.AddWorkload(ctx, fmt.Sprintf("line %d", i)))
	}
	q.StopWorkload()

	for i := 0; i < 10; i++ {
		line, ok := q.QueryWorkload(ctx)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("line %d", i), line, "single-producer input is FIFO")
	}

	_, ok := q.QueryWorkload(ctx)
	assert.False(t, ok, "drained and stopped queue yields nothing")
}

func TestQueue_StopWorkloadIdempotent(t *testing.T) {
	q := New(1)

	q.StopWorkload()
	assert.NotPanics(t, q.StopWorkload, "stopping twice is a no-op")

	_, ok := q.QueryWorkload(context.Background())
	assert.False(t, ok)
}

func TestQueue_QueryResultProbe(t *testing.T) {
	q := New(4)
	ctx := context.Background()

	_, ok := q.QueryResult(false)
	assert.False(t, ok, "probe on an empty queue returns immediately")

	require.NoError(t, q.AddResult(ctx, "scored"))
	line, ok := q.QueryResult(false)
	require.True(t, ok)
	assert.Equal(t, "scored", line)
}

func TestQueue_DrainCompleteWithoutWorkers(t *testing.T) {
	q := New(4)
	require.NoError(t, q.AddResult(context.Background(), "leftover"))
	q.CloseWhenDone()

	line, ok := q.QueryResult(true)
	require.True(t, ok, "buffered results are still served after workers exit")
	assert.Equal(t, "leftover", line)

	_, ok = q.QueryResult(true)
	assert.False(t, ok, "drain complete once no workers remain and the buffer is empty")
}

func TestQueue_AddWorkloadCancelled(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, q.AddWorkload(ctx, "fills the buffer"))

	done := make(chan error, 1)
	go func() { done <- q.AddWorkload(ctx, "blocks") }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("AddWorkload did not observe cancellation")
	}
}
