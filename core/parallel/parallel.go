// Package parallel provides small worker-pool helpers over index ranges.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// DefaultThreshold is the work size below which helpers run sequentially.
const DefaultThreshold = 1000

// Parallelize splits [0, n) into contiguous ranges and runs fn on each range
// using up to GOMAXPROCS goroutines. Ranges never overlap.
func Parallelize(n int, fn func(start, end int)) {
	ParallelizeWorkers(n, runtime.GOMAXPROCS(0), fn)
}

// ParallelizeWithThreshold runs fn(0, n) inline when n < threshold, and
// Parallelize otherwise.
func ParallelizeWithThreshold(n, threshold int, fn func(start, end int)) {
	if n < threshold {
		if n > 0 {
			fn(0, n)
		}
		return
	}
	Parallelize(n, fn)
}

// ParallelizeWorkers is Parallelize with an explicit worker count.
// numWorkers <= 1 runs fn(0, n) on the calling goroutine.
func ParallelizeWorkers(n, numWorkers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if numWorkers <= 1 || n == 1 {
		fn(0, n)
		return
	}
	if numWorkers > n {
		numWorkers = n
	}

	var wg sync.WaitGroup
	perWorker := (n + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := min(start+perWorker, n)
		if start >= n {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}

// MapReduce evaluates mapFn for every index in [0, n) on up to numWorkers
// goroutines and folds the results with reduce. reduce must be associative
// and commutative; results are folded per worker and then across workers.
// The first error returned by mapFn cancels the remaining work.
func MapReduce[T any](ctx context.Context, n, numWorkers int, mapFn func(ctx context.Context, i int) (T, error), reduce func(a, b T) T) (T, error) {
	var zero T
	if n <= 0 {
		return zero, ctx.Err()
	}
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	partials := make([]T, 0, numWorkers)
	var (
		mu       sync.Mutex
		firstErr error
	)
	ParallelizeWorkers(n, numWorkers, func(start, end int) {
		acc := zero
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			v, err := mapFn(ctx, i)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
				return
			}
			acc = reduce(acc, v)
		}
		mu.Lock()
		partials = append(partials, acc)
		mu.Unlock()
	})

	if firstErr != nil {
		return zero, firstErr
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	acc := zero
	for _, p := range partials {
		acc = reduce(acc, p)
	}
	return acc, nil
}
