package qsearch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

/*
Pool is a fixed set of workers draining a shared job queue, with results
handed back through a Space. The sampling executor uses one pool per
execution to run measurement batches side by side.
*/
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	jobs   chan Job
	space  *Space
}

// NewPool starts workers goroutines, at least one, bound to ctx.
func NewPool(ctx context.Context, workers int) *Pool {
	workers = max(workers, 1)

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	p := &Pool{
		ctx:    ctx,
		cancel: cancel,
		group:  group,
		jobs:   make(chan Job, workers*4),
		space:  newSpace(),
	}

	for i := 0; i < workers; i++ {
		w := &Worker{id: i, pool: p}
		group.Go(w.run)
	}

	return p
}

// Schedule queues fn under id and returns the channel its result will arrive on.
func (p *Pool) Schedule(id string, fn func() (any, error)) chan Value {
	job := Job{
		ID: id,
		Fn: fn,
	}

	if p.ctx.Err() != nil {
		return p.refuse(id)
	}

	select {
	case p.jobs <- job:
		return p.space.Await(id)
	case <-p.ctx.Done():
		return p.refuse(id)
	}
}

func (p *Pool) refuse(id string) chan Value {
	ch := make(chan Value, 1)
	ch <- Value{
		Error:     fmt.Errorf("job %s not scheduled: %w", id, p.ctx.Err()),
		CreatedAt: time.Now(),
	}
	close(ch)

	return ch
}

// Close stops the workers and waits for them to exit.
func (p *Pool) Close() error {
	if p == nil {
		return nil
	}

	p.cancel()
	return p.group.Wait()
}
