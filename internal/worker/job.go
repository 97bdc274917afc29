package worker

// Job is one configured pattern handed to a worker.
type Job struct {
	Index   int
	Pattern string
}
