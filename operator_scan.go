package ro

import "context"

// Scan emits a running accumulation of source, starting from seed: one
// output value per source value, in source order (spec.md §4.4). Because
// combine runs synchronously inside the upstream-serialized handler, a
// combine that itself blocks on I/O naturally holds back subsequent source
// events exactly as spec.md §4.4 describes for an async combine — no
// separate queue is needed on a single cooperative goroutine.
func Scan[T, R any](seed R, combine func(acc R, v T) R) Operator[T, R] {
	return ScanWithContext[T, R](seed, func(ctx context.Context, acc R, v T) (R, error) {
		return combine(acc, v), nil
	})
}

// ScanWithContext is the context- and error-aware variant of Scan: a combine
// returning a non-nil error forwards it as a (non-terminal, per spec.md §7)
// stream error instead of advancing the accumulator.
func ScanWithContext[T, R any](seed R, combine func(ctx context.Context, acc R, v T) (R, error)) Operator[T, R] {
	return func(source Observable[T]) Observable[R] {
		built := NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			acc := seed

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(c context.Context, v T) {
						next, err := combine(c, acc, v)
						if err != nil {
							destination.ErrorWithContext(c, err)
							return
						}
						acc = next
						destination.NextWithContext(c, acc)
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
