// Package queue coordinates one producer feeding chess positions to a fixed
// pool of engine-owning workers and collecting scored results in completion
// order.
//
// The shared state is a pair of channels: workloads flow in on one, results
// flow out on the other. Closing the workload channel signals end of input;
// the result channel is closed by a collector goroutine once every worker
// has exited, so "result channel closed and drained" is exactly the
// drain-complete condition. A WaitGroup counts active workers, incremented
// at registration and decremented on every exit path.
package queue

import (
	"context"
	"sync"
)

// DefaultBuffer is the channel capacity used by the CLI. Workers consume
// continuously, so a bounded buffer just gives natural backpressure when the
// producer outruns the engines.
const DefaultBuffer = 1024

// Queue is the shared coordination point between the dispatcher and its
// workers.
type Queue struct {
	workloads chan string
	results   chan string

	stop    sync.Once
	workers sync.WaitGroup
}

// New creates a queue whose channels buffer up to capacity lines each.
func New(capacity int) *Queue {
	return &Queue{
		workloads: make(chan string, capacity),
		results:   make(chan string, capacity),
	}
}

// AddWorkload enqueues one dataset line. It blocks when the buffer is full
// and workers are behind, and returns ctx.Err if the run is cancelled first.
func (q *Queue) AddWorkload(ctx context.Context, line string) error {
	select {
	case q.workloads <- line:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueryWorkload dequeues the next line in FIFO order. ok is false once the
// workload channel is closed and drained, or when ctx is cancelled.
func (q *Queue) QueryWorkload(ctx context.Context) (line string, ok bool) {
	select {
	case line, ok = <-q.workloads:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

// StopWorkload marks the workload as finished. Idempotent: later calls are
// no-ops.
func (q *Queue) StopWorkload() {
	q.stop.Do(func() { close(q.workloads) })
}

// AddResult enqueues one scored line.
func (q *Queue) AddResult(ctx context.Context, line string) error {
	select {
	case q.results <- line:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueryResult dequeues the next result. With retry false it is a
// non-blocking probe; with retry true it blocks until a result appears or
// every worker has exited with the result channel drained, in which case ok
// is false.
func (q *Queue) QueryResult(retry bool) (line string, ok bool) {
	if !retry {
		select {
		case line, ok = <-q.results:
			return line, ok
		default:
			return "", false
		}
	}
	line, ok = <-q.results
	return line, ok
}

// register adds one active worker. Called by NewWorker after the engine
// handshake succeeded, before the worker goroutine starts.
func (q *Queue) register() {
	q.workers.Add(1)
}

// deregister removes one active worker. Deferred by Worker.Run so it fires
// on every exit path.
func (q *Queue) deregister() {
	q.workers.Done()
}

// CloseWhenDone closes the result channel once every registered worker has
// exited. Call it exactly once, after all workers are registered.
func (q *Queue) CloseWhenDone() {
	go func() {
		q.workers.Wait()
		close(q.results)
	}()
}
