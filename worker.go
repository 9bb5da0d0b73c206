package qsearch

import (
	"fmt"
)

// Worker pulls jobs off the pool queue until the pool shuts down.
type Worker struct {
	id   int
	pool *Pool
}

func (w *Worker) run() error {
	for {
		select {
		case <-w.pool.ctx.Done():
			return nil
		case job := <-w.pool.jobs:
			result, err := w.process(job)
			w.pool.space.Store(job.ID, result, err)
		}
	}
}

func (w *Worker) process(job Job) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked on worker %d: %v", job.ID, w.id, r)
		}
	}()

	result, err = job.Fn()
	if err != nil {
		logger.Debug("job failed", "job", job.ID, "worker", w.id, "err", err)
		return nil, fmt.Errorf("job %s: %w", job.ID, err)
	}

	return result, nil
}
