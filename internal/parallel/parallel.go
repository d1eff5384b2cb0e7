// Package parallel provides bounded-concurrency helpers for the CPU backend.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minParallelWork is the smallest task count worth fanning out for.
// Below this the goroutine overhead dominates.
const minParallelWork = 4

// For runs fn(i) for every i in [0, n), distributing iterations over a
// pool bounded by GOMAXPROCS. Small n runs inline on the caller's
// goroutine. Returns the first non-nil error from fn.
func For(n int, fn func(i int) error) error {
	if n < minParallelWork || runtime.GOMAXPROCS(0) == 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}
