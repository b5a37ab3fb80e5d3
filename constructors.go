package ro

import "context"

// Just creates a single-subscription Observable that emits the given values,
// in order, then completes.
func Just[T any](values ...T) Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		for _, v := range values {
			if destination.IsClosed() {
				return nil
			}
			destination.NextWithContext(ctx, v)
		}
		destination.CompleteWithContext(ctx)
		return nil
	})
}

// Empty creates an Observable that emits no values and completes immediately.
func Empty[T any]() Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		destination.CompleteWithContext(ctx)
		return nil
	})
}

// Throw creates an Observable that immediately emits err then completes.
func Throw[T any](err error) Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		destination.ErrorWithContext(ctx, err)
		destination.CompleteWithContext(ctx)
		return nil
	})
}

// Never creates an Observable that never emits and never completes.
func Never[T any]() Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		return nil
	})
}

// FromSlice creates a single-subscription Observable from a slice.
func FromSlice[T any](items []T) Observable[T] {
	return Just(items...)
}

// FromChannel creates a single-subscription Observable that forwards every
// value received on ch. It completes when ch is closed; when the context is
// canceled or the subscription is disposed it stops without completing. One
// goroutine is started per subscription.
func FromChannel[T any](ch <-chan T) Observable[T] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})

		go func() {
			defer close(done)
			for {
				select {
				case v, ok := <-ch:
					if !ok {
						destination.CompleteWithContext(runCtx)
						return
					}
					destination.NextWithContext(runCtx, v)
				case <-runCtx.Done():
					return
				}
			}
		}()

		return func() {
			cancel()
			<-done
		}
	})
}
