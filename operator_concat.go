package ro

import "context"

// FollowedBy subscribes to source, forwards its events, and once it
// completes subscribes to next and forwards that in turn (spec.md §4.9).
// An error on either side forwards immediately but is non-terminal
// (spec.md §7): source moving on to next, or next's own events, still
// happen exactly as if no error had occurred.
func FollowedBy[T any](next Observable[T]) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var nextSub Subscription

			firstSub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) { destination.NextWithContext(c, v) },
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					nextSub = next.SubscribeWithContext(c, NewObserverWithContext(
						func(ic context.Context, v T) { destination.NextWithContext(ic, v) },
						func(ic context.Context, err error) { destination.ErrorWithContext(ic, err) },
						func(ic context.Context) { destination.CompleteWithContext(ic) },
					))
				},
			))

			return func() {
				firstSub.Unsubscribe()
				if nextSub != nil {
					nextSub.Unsubscribe()
				}
			}
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// StartWith prepends a fixed set of values ahead of source, emitted
// synchronously before source is subscribed.
func StartWith[T any](values ...T) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		return FollowedBy[T](source)(Just(values...))
	}
}

// StartWithMany is an alias of StartWith taking a slice instead of a
// variadic list, useful when the values are already collected.
func StartWithMany[T any](values []T) Operator[T, T] {
	return StartWith(values...)
}

// StartWithStream prepends an entire Observable ahead of source: source is
// only subscribed once the prefix stream completes.
func StartWithStream[T any](prefix Observable[T]) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		return FollowedBy[T](source)(prefix)
	}
}
