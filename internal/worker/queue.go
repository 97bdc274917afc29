package worker

import "context"

// provides a simple in-memory job queue feeding the worker pool.

type Queue struct {
	Ch chan Job
}

func NewQueue(size int) *Queue {
	return &Queue{Ch: make(chan Job, size)}
}

func (q *Queue) Push(j Job) {
	q.Ch <- j
}

// Close signals that no more jobs will be pushed.
func (q *Queue) Close() {
	close(q.Ch)
}

func (q *Queue) Pop(ctx context.Context) (Job, bool) {
	select {
	case j, ok := <-q.Ch:
		return j, ok
	case <-ctx.Done():
		return Job{}, false
	}
}
