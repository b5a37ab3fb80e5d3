package ro

import (
	"context"
	"sync"
)

// TakeUntil forwards source until future produces any event (Next, Error, or
// Complete), at which point the output completes and source is canceled.
// Events from source already in flight when future fires are still
// delivered, since cancellation only stops future emissions.
func TakeUntil[T, U any](future Observable[U]) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var mu sync.Mutex
			closed := false

			closeOnce := func(c context.Context) {
				mu.Lock()
				if closed {
					mu.Unlock()
					return
				}
				closed = true
				mu.Unlock()
				destination.CompleteWithContext(c)
			}

			sourceSub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) {
					mu.Lock()
					done := closed
					mu.Unlock()
					if !done {
						destination.NextWithContext(c, v)
					}
				},
				func(c context.Context, err error) {
					mu.Lock()
					done := closed
					closed = true
					mu.Unlock()
					if !done {
						destination.ErrorWithContext(c, err)
					}
				},
				func(c context.Context) { closeOnce(c) },
			))

			futureSub := future.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, _ U) { closeOnce(c) },
				func(c context.Context, _ error) { closeOnce(c) },
				func(c context.Context) { closeOnce(c) },
			))

			return func() {
				sourceSub.Unsubscribe()
				futureSub.Unsubscribe()
			}
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}
