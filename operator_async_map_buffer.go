package ro

import (
	"context"
	"sync"
)

// AsyncMapBuffer runs f on batches of buffered values: the first source
// value is passed to f alone; while f is in flight, further values
// accumulate into a list, and when f completes, if that list is non-empty,
// f runs again with it (spec.md §4.5 — conceptually buffer(workFinished)
// followed by a map over each flushed batch).
func AsyncMapBuffer[T, R any](f func(ctx context.Context, batch []T) (R, error)) Operator[T, R] {
	return asyncMapWithAggregation[T, []T, R](
		func(v T, current *[]T) []T {
			if current == nil {
				return []T{v}
			}
			return append(*current, v)
		},
		f,
	)
}

// AsyncMapSample is AsyncMapBuffer but retains only the single most recent
// value while f is in flight, discarding earlier ones that arrived meanwhile.
func AsyncMapSample[T, R any](f func(ctx context.Context, v T) (R, error)) Operator[T, R] {
	return asyncMapWithAggregation[T, T, R](
		func(v T, _ *T) T { return v },
		f,
	)
}

func asyncMapWithAggregation[T, Acc, R any](aggregate func(v T, current *Acc) Acc, f func(ctx context.Context, batch Acc) (R, error)) Operator[T, R] {
	return func(source Observable[T]) Observable[R] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			var mu sync.Mutex
			var pending *Acc
			working := false
			sourceDone := false
			closed := false

			// startWork requires mu held on entry and guarantees mu is NOT
			// held when it returns (whether directly or via recursion). It
			// runs on its own goroutine, so source values keep arriving and
			// accumulate in pending while f is in flight.
			var startWork func(c context.Context)
			startWork = func(c context.Context) {
				batch := *pending
				pending = nil
				working = true
				mu.Unlock()

				r, err := f(c, batch)

				mu.Lock()
				working = false
				if err != nil {
					mu.Unlock()
					destination.ErrorWithContext(c, err)
					mu.Lock()
				} else {
					mu.Unlock()
					destination.NextWithContext(c, r)
					mu.Lock()
				}

				if pending != nil {
					startWork(c)
					return
				}

				if sourceDone && !closed {
					closed = true
					mu.Unlock()
					destination.CompleteWithContext(c)
					return
				}

				mu.Unlock()
			}

			sub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) {
					mu.Lock()
					next := aggregate(v, pending)
					pending = &next
					if !working {
						// mu is handed to the worker goroutine, which
						// releases it before calling f.
						go startWork(c)
						return
					}
					mu.Unlock()
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					sourceDone = true
					if !working && pending == nil && !closed {
						closed = true
						mu.Unlock()
						destination.CompleteWithContext(c)
						return
					}
					mu.Unlock()
				},
			))

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}
