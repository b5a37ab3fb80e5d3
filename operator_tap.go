package ro

import "context"

// Tap invokes onNext/onError/onComplete for their side effects before
// forwarding the corresponding event unchanged. Per spec.md §4.6, a panic
// from any of the three callbacks is swallowed rather than forwarded — tap
// callbacks exist purely for observation.
func Tap[T any](onNext func(T), onError func(error), onComplete func()) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(c context.Context, v T) {
						safeCall(func() { onNext(v) })
						destination.NextWithContext(c, v)
					},
					func(c context.Context, err error) {
						safeCall(func() { onError(err) })
						destination.ErrorWithContext(c, err)
					},
					func(c context.Context) {
						safeCall(onComplete)
						destination.CompleteWithContext(c)
					},
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// DoOnNext is Tap with only the data handler populated.
func DoOnNext[T any](onNext func(T)) Operator[T, T] {
	return Tap[T](onNext, func(error) {}, func() {})
}

// DoOnError is Tap with only the error handler populated.
func DoOnError[T any](onError func(error)) Operator[T, T] {
	return Tap[T](func(T) {}, onError, func() {})
}

// DoOnComplete is Tap with only the done handler populated.
func DoOnComplete[T any](onComplete func()) Operator[T, T] {
	return Tap[T](func(T) {}, func(error) {}, onComplete)
}

func safeCall(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
