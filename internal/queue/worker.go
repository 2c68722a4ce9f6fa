package queue

import (
	"context"
	"fmt"

	"github.com/roach88/fenscore/internal/dataset"
	"github.com/roach88/fenscore/internal/uci"
)

// Engine is the slice of the protocol driver a worker needs. *uci.Driver
// implements it; tests substitute a stub.
type Engine interface {
	SetupPosition(fen string) error
	Search(limit uci.SearchLimit) (int, error)
}

// Worker pulls workloads off the queue, scores them on its own engine, and
// pushes result lines back. Each worker exclusively owns its engine for its
// entire lifetime; engines are never shared or migrated between goroutines.
type Worker struct {
	queue  *Queue
	engine Engine
	limit  uci.SearchLimit
}

// NewWorker registers a worker whose engine has already completed its
// handshake.
func NewWorker(q *Queue, engine Engine, limit uci.SearchLimit) *Worker {
	q.register()
	return &Worker{queue: q, engine: engine, limit: limit}
}

// Run scores workloads until the queue is stopped and drained. The first
// failure aborts the loop and is returned; the deferred deregistration runs
// on every exit path so the drain-complete condition still fires.
func (w *Worker) Run(ctx context.Context) error {
	defer w.queue.deregister()

	for {
		line, ok := w.queue.QueryWorkload(ctx)
		if !ok {
			return ctx.Err()
		}
		if err := w.score(ctx, line); err != nil {
			return err
		}
	}
}

func (w *Worker) score(ctx context.Context, line string) error {
	fen, label, err := dataset.SplitWorkload(line)
	if err != nil {
		return err
	}
	if err := w.engine.SetupPosition(fen); err != nil {
		return fmt.Errorf("position %q: %w", fen, err)
	}
	score, err := w.engine.Search(w.limit)
	if err != nil {
		return fmt.Errorf("position %q: %w", fen, err)
	}
	return w.queue.AddResult(ctx, dataset.FormatResult(fen, label, score))
}
