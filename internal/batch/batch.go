// Package batch runs one encoder operation over many inputs on a bounded number of goroutines.
// Encoders are immutable, so a single encoder is shared by all the goroutines.
package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/komuw/brevis/errors"
)

// Some of the code here is inspired by(or taken from):
//   (a) https://github.com/golang/sync/tree/v0.3.0/errgroup whose license(BSD 3-Clause) can be found here: https://github.com/golang/sync/blob/v0.3.0/LICENSE
//   (b) https://go-review.googlesource.com/c/sync/+/416555

// Map calls fn for each of items, on at most n goroutines at a time, and returns the results in the order of items.
// If n<=0, the limit is [runtime.NumCPU].
//
// Every item is processed even if some fail; the errors are joined in the order of items.
// If fn panics, Map re-panics in the caller's goroutine with the stack of the panicking goroutine.
// If ctx is cancelled, items not yet started are skipped and the returned error leads with ctx.Err(),
// followed by the errors of the items that did run.
func Map[T, R any](ctx context.Context, n int, items []T, fn func(T) (R, error)) ([]R, error) {
	if n <= 0 {
		n = runtime.NumCPU()
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	sem := make(chan struct{}, n)
	var (
		wg       sync.WaitGroup
		panicMu  sync.Mutex
		panicked any // guarded by panicMu until wg.Wait returns.
		ctxErr   error
	)

loop:
	for i, item := range items {
		select {
		case <-ctx.Done():
			ctxErr = errors.Wrap(ctx.Err())
			break loop
		case sem <- struct{}{}:
		}
		if err := ctx.Err(); err != nil {
			<-sem
			ctxErr = errors.Wrap(err)
			break
		}

		wg.Add(1)
		go func() {
			defer func() {
				if v := recover(); v != nil {
					panicMu.Lock()
					if panicked == nil {
						panicked = addStack(v)
					}
					panicMu.Unlock()
				}
				<-sem
				wg.Done()
			}()

			results[i], errs[i] = fn(item)
		}()
	}
	wg.Wait()

	if panicked != nil {
		panic(panicked)
	}
	if ctxErr != nil {
		// Join only unwraps to its first error.
		return results, errors.Join(append([]error{ctxErr}, errs...)...)
	}
	return results, errors.Join(errs...)
}
