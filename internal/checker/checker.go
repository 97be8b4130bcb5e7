package checker

import (
	"context"
	"sync"
	"time"
)

// Task processes the item at index. The context carries the per-item timeout.
type Task func(ctx context.Context, index int)

// Runner dispatches indexed tasks over a fixed pool of workers.
type Runner struct {
	Concurrency int           // Number of workers
	Timeout     time.Duration // Timeout for each task, zero means none
}

// Run executes task for every index in [0, total) and reports which indices ran.
//
// Cancelling ctx stops dispatch of new indices. Tasks already handed to a worker
// keep running until they return or hit their own timeout, so callers always get
// a consistent view of the completed work.
func (r *Runner) Run(ctx context.Context, total int, task Task) []bool {
	done := make([]bool, total)
	if total <= 0 {
		return done
	}

	workers := r.Concurrency
	if workers <= 0 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				taskCtx, cancel := r.taskContext(ctx)
				task(taskCtx, idx)
				cancel()
				// each index is owned by exactly one worker
				done[idx] = true
			}
		}()
	}

dispatch:
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)

	wg.Wait()
	return done
}

func (r *Runner) taskContext(parent context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(parent)
	if r.Timeout <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, r.Timeout)
}
