package util

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Op represents a function that returns a value and/or an error
type Op[T any] func() (T, error)

// Concurrent runs the operations specified in multiple goroutines, up to the
// limit of max_concurrent at the same time. Results and errors are
// index-aligned with ops, so callers can match outputs back to inputs.
// A cancelled context stops unstarted operations; running ones finish
func Concurrent[T any](ctx context.Context, ops []Op[T], max_concurrent int64) ([]T, []error) {
	results := make([]T, len(ops))
	errors := make([]error, len(ops))

	sem := semaphore.NewWeighted(max_concurrent)
	var wg sync.WaitGroup
	wg.Add(len(ops))

	for i, o := range ops {
		go func(i int, o Op[T]) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				errors[i] = err
				return
			}
			defer sem.Release(1)

			results[i], errors[i] = o()
		}(i, o)
	}

	wg.Wait() // will wait until all done
	return results, errors
}
