package worker

import (
	"context"

	"github.com/raoulx24/log-janitor/internal/summary"
)

// contains the loop that pulls patterns from the queue and processes them
// until the queue is drained, ctx ends or a fatal error occurs.

func RunLoop(ctx context.Context, w *Worker, q *Queue, sum *summary.Summary) error {
	for {
		job, ok := q.Pop(ctx)
		if !ok {
			return nil
		}

		if err := w.Handle(ctx, job, sum); err != nil {
			return err
		}
	}
}
