package ro

import "context"

// Distinct suppresses a value equal to the immediately preceding value seen
// on source (not the preceding value emitted — see DistinctWhen).
func Distinct[T comparable]() Operator[T, T] {
	return DistinctBy(func(v T) T { return v })
}

// DistinctBy is Distinct keyed by a derived, comparable projection of T.
func DistinctBy[T any, K comparable](keySelector func(T) K) Operator[T, T] {
	return DistinctWhen(func(a, b T) bool {
		return keySelector(a) == keySelector(b)
	}, func(T) bool { return true })
}

// DistinctWhen generalizes distinctUntilChanged with a separate acceptance
// predicate, resolving spec.md §9's distinctWhen ambiguity: a source value is
// emitted when it differs from the last value *seen* (by equals) OR predicate
// rejects it — whichever makes the value non-duplicate. lastSeen always
// advances to the newest value, whether or not it was emitted.
func DistinctWhen[T any](equals func(a, b T) bool, predicate func(T) bool) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var lastSeen T
			hasSeen := false

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(c context.Context, v T) {
						emit := !hasSeen || !equals(lastSeen, v) || !predicate(v)
						lastSeen = v
						hasSeen = true

						if emit {
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
