package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs action for each element in its own goroutine, at most workers
// at a time. A workers value below 1 means no limit. It waits for all
// goroutines to finish and returns the first error encountered; the context
// passed to action is cancelled once any action fails.
func ForEach[T any](ctx context.Context, in []T, workers int, action func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, v := range in {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return action(gctx, v)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Map applies mapFn to each element in parallel, preserving order.
// The workers parameter controls the number of goroutines.
func Map[T any, R any](ctx context.Context, in []T, workers int, mapFn func(T) R) ([]R, error) {
	out := make([]R, len(in))
	err := ForEach(ctx, indices(len(in)), workers, func(_ context.Context, i int) error {
		out[i] = mapFn(in[i])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func indices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
