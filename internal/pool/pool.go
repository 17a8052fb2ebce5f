// Package pool runs batches of independent tasks on a fixed number of
// workers. Results come back in task order no matter which worker finished
// first, and one failing task never takes its siblings down with it.
package pool

import (
	"context"
	"sync"
)

// Task computes the value for one index of the batch.
type Task[T any] func(ctx context.Context, index int) (T, error)

// ErrorFunc receives the failure of one task. Called from worker
// goroutines; implementations must be safe for concurrent use.
type ErrorFunc func(index int, err error)

// Map runs task(i) for every i in [0, n) on a pool of limit workers pulling
// indexes from a shared queue. The returned slice has length n and holds
// each task's value at its own index. A failing task leaves the zero value
// in its slot and reports the error to onError (which may be nil); sibling
// tasks are unaffected.
//
// A canceled context stops dispatching; tasks that never started keep the
// zero value in their slot.
func Map[T any](ctx context.Context, n, limit int, task Task[T], onError ErrorFunc) []T {
	results := make([]T, n)
	if n == 0 {
		return results
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > n {
		limit = n
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	for worker := 0; worker < limit; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				value, err := task(ctx, idx)
				if err != nil {
					if onError != nil {
						onError(idx, err)
					}
					continue
				}
				results[idx] = value
			}
		}()
	}

dispatch:
	for i := 0; i < n; i++ {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(indexes)
	wg.Wait()

	return results
}
