package queue

import (
	"context"
	"fmt"

	"github.com/roach88/fenscore/internal/dataset"
)

// Dispatcher is the single producer side of the queue. It feeds dataset
// lines in and drains scored lines out in two phases: an opportunistic,
// non-blocking drain while input is still being read, then a blocking drain
// until every worker has exited and the result channel is empty.
type Dispatcher struct {
	queue *Queue
}

// NewDispatcher wraps the shared queue.
func NewDispatcher(q *Queue) *Dispatcher {
	return &Dispatcher{queue: q}
}

// AddWorkload enqueues one dataset line.
func (d *Dispatcher) AddWorkload(ctx context.Context, line string) error {
	return d.queue.AddWorkload(ctx, line)
}

// StopWorkload signals that no more input will arrive. Idempotent.
func (d *Dispatcher) StopWorkload() {
	d.queue.StopWorkload()
}

// QueryResponse fetches one scored line. With retry false it returns
// immediately when none is ready; with retry true it blocks until a result
// appears or the run is fully drained, in which case ok is false.
func (d *Dispatcher) QueryResponse(retry bool) (line string, ok bool) {
	return d.queue.QueryResult(retry)
}

// Run executes the full feed/drain protocol: read every line from in,
// enqueueing each and opportunistically writing any result that is already
// waiting, then stop the workload and block until the results are exhausted.
// Returns the number of positions scored.
func (d *Dispatcher) Run(ctx context.Context, in *dataset.Reader, out *dataset.Sink, progress *dataset.Progress) (int, error) {
	// Workers must see end-of-input even when this loop bails out early,
	// or they would wait forever on the workload channel.
	defer d.StopWorkload()

	for {
		line, ok := in.Next()
		if !ok {
			break
		}
		if err := d.AddWorkload(ctx, line); err != nil {
			break
		}
		progress.AddQuery()

		if scored, ok := d.QueryResponse(false); ok {
			if err := out.WriteResult(scored); err != nil {
				return progress.Responses(), err
			}
			progress.AddResponse()
		}
	}
	if err := in.Err(); err != nil {
		return progress.Responses(), fmt.Errorf("read input: %w", err)
	}

	d.StopWorkload()

	for {
		scored, ok := d.QueryResponse(true)
		if !ok {
			break
		}
		if err := out.WriteResult(scored); err != nil {
			return progress.Responses(), err
		}
		progress.AddResponse()
	}

	return progress.Responses(), nil
}
