package ro

import (
	"context"
	"sync"
)

// Map transforms each value of source with fn. This is the Handler
// Transformer primitive of spec.md §4.1 specialized to the data handler.
func Map[T, R any](fn func(T) R) Operator[T, R] {
	return func(source Observable[T]) Observable[R] {
		built := NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(c context.Context, v T) {
						destination.NextWithContext(c, fn(v))
					},
					func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
					func(c context.Context) { destination.CompleteWithContext(c) },
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// Filter forwards only values for which predicate returns true.
func Filter[T any](predicate func(T) bool) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(c context.Context, v T) {
						if predicate(v) {
							destination.NextWithContext(c, v)
						}
					},
					func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
					func(c context.Context) { destination.CompleteWithContext(c) },
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// WhereType forwards values for which convert returns (v, true), converted to
// V. This is the typed rendering of spec.md §9's whereType re-architecture:
// a runtime type test plus a safe downcast becomes a caller-supplied
// predicate/conversion function.
func WhereType[T, V any](convert func(T) (V, bool)) Operator[T, V] {
	return func(source Observable[T]) Observable[V] {
		built := NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[V]) Teardown {
			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(c context.Context, v T) {
						if converted, ok := convert(v); ok {
							destination.NextWithContext(c, converted)
						}
					},
					func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
					func(c context.Context) { destination.CompleteWithContext(c) },
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// Take forwards at most count values then completes and cancels source.
func Take[T any](count int64) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			if count <= 0 {
				destination.CompleteWithContext(ctx)
				return nil
			}

			var mu sync.Mutex
			seen := int64(0)

			var sub Subscription
			sub = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(c context.Context, v T) {
						mu.Lock()
						if seen >= count {
							mu.Unlock()
							return
						}
						seen++
						done := seen >= count
						mu.Unlock()

						destination.NextWithContext(c, v)

						if done {
							destination.CompleteWithContext(c)
							sub.Unsubscribe()
						}
					},
					func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
					func(c context.Context) { destination.CompleteWithContext(c) },
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// Skip ignores the first count values of source, forwarding the rest.
func Skip[T any](count int64) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			seen := int64(0)

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(c context.Context, v T) {
						if seen < count {
							seen++
							return
						}
						destination.NextWithContext(c, v)
					},
					func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
					func(c context.Context) { destination.CompleteWithContext(c) },
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}
