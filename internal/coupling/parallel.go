package coupling

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps tiny sweeps on a single goroutine.
const minChunk = 64

// RunParallel computes the same records as Run, splitting the step range into
// contiguous chunks. workers <= 0 uses GOMAXPROCS. Every chunk writes a
// disjoint slice range, so no locking is needed.
func RunParallel(ctx context.Context, p Params, workers int) ([]Record, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	records := make([]Record, p.StepCount)
	err := ParallelFor(ctx, p.StepCount, minChunk, workers, func(start, end int) {
		fillRange(p, records, start, end)
	})
	if err != nil {
		return nil, fmt.Errorf("coupling: sweep interrupted: %w", err)
	}
	return records, nil
}

// ParallelFor runs fn over [0, n) in chunks of at least minChunk items on at
// most workers goroutines. Chunks not yet started when ctx is done are
// skipped and ctx.Err() is returned.
func ParallelFor(ctx context.Context, n, minChunk, workers int, fn func(start, end int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	if workers < 1 {
		workers = 1
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
