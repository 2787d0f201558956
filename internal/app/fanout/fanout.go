// Package fanout runs one function over many items with a bounded number of
// goroutines. Results keep input order.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Result is the outcome for one item: Value on success, Err otherwise.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for every item, at most workers at a time, and blocks until
// all calls return. Items still waiting for a slot when ctx is done record
// ctx.Err() without calling fn. workers < 1 is treated as 1.
func Run[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	sem := make(chan struct{}, max(workers, 1))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Go(func() {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = Result[R]{Err: ctx.Err()}
				return
			}

			val, err := fn(ctx, item)
			results[i] = Result[R]{Value: val, Err: err}
		})
	}

	wg.Wait()
	return results
}

// Collect splits results into values and one joined error. Each error is
// prefixed with its item index; values of failed items are omitted.
func Collect[R any](results []Result[R]) ([]R, error) {
	values := make([]R, 0, len(results))
	var errs []error
	for i, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, r.Err))
			continue
		}
		values = append(values, r.Value)
	}
	return values, errors.Join(errs...)
}
