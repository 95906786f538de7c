// Package batch runs N independent mutations through a fixed pool of workers,
// returning one result per item instead of a single all-or-nothing error.
package batch

import (
	"context"
	"sync"
)

// Action is one unit of batch work.
type Action interface {
	// ID identifies the item in the per-item results.
	ID() int64
	Perform(ctx context.Context) error
}

// ItemResult reports the outcome of one action.
type ItemResult struct {
	ID  int64
	Err error
}

type item struct {
	ctx      context.Context
	action   Action
	response chan ItemResult
}

// Executor manages the queue and the worker pool. The worker count is the
// concurrency cap for every batch processed through it.
type Executor struct {
	queue      chan item
	numWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

func NewExecutor(numWorkers int) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Executor{
		queue:      make(chan item, 1000),
		numWorkers: numWorkers,
	}
}

func (e *Executor) Start() {
	for i := 0; i < e.numWorkers; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for it := range e.queue {
				it.response <- ItemResult{ID: it.action.ID(), Err: it.action.Perform(it.ctx)}
			}
		}()
	}
}

func (e *Executor) Stop() {
	e.stopOnce.Do(func() {
		close(e.queue)
		e.wg.Wait()
	})
}

// Process enqueues every action and waits for all of them. Results come back
// in completion order. When the context is cancelled before an item ran, its
// result carries the context error.
func (e *Executor) Process(ctx context.Context, actions []Action) []ItemResult {
	respCh := make(chan ItemResult, len(actions))

	enqueued := 0
	for _, action := range actions {
		select {
		case e.queue <- item{ctx: ctx, action: action, response: respCh}:
			enqueued++
		case <-ctx.Done():
			respCh <- ItemResult{ID: action.ID(), Err: ctx.Err()}
			enqueued++
		}
	}

	results := make([]ItemResult, 0, enqueued)
	for i := 0; i < enqueued; i++ {
		results = append(results, <-respCh)
	}
	return results
}
