package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of one task in a Gather run: either a value or
// the captured failure, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Gather runs the tasks concurrently and collects every outcome. A failing
// task never cancels its siblings; all tasks run to completion and their
// results come back in task order. limit bounds the number of tasks in
// flight; limit <= 0 means unbounded.
func Gather[T any](ctx context.Context, limit int, tasks []func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			value, err := task(ctx)
			results[i] = Result[T]{Value: value, Err: err}
			// Individual failures are captured, not propagated, so the
			// group context is never canceled by a sibling.
			return nil
		})
	}

	g.Wait()
	return results
}
