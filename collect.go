package ro

import (
	"context"
	"sync"
)

// Collect subscribes to source and blocks until it completes or errors,
// returning every value it emitted in order. Collect returns at the first
// error without waiting for a completion, even though the stream protocol
// itself treats errors as non-terminal (spec.md §7) — Collect is a terminal
// convenience, not an operator. Values the source delivers before Collect
// returns are included, even ones that follow the error within the same
// synchronous Subscribe call.
func Collect[T any](source Observable[T]) ([]T, error) {
	values, _, err := CollectWithContext(context.Background(), source)
	return values, err
}

// CollectWithContext is the context-aware variant of Collect. The returned
// context is the one last seen by the subscription (carried through by
// operators that derive a new context per event).
func CollectWithContext[T any](ctx context.Context, source Observable[T]) ([]T, context.Context, error) {
	var (
		values  []T
		lastErr error
		lastCtx = ctx
	)

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	sub := source.SubscribeWithContext(ctx, NewObserverWithContext(
		func(c context.Context, v T) {
			lastCtx = c
			values = append(values, v)
		},
		func(c context.Context, err error) {
			lastCtx = c
			lastErr = err
			finish()
		},
		func(c context.Context) {
			lastCtx = c
			finish()
		},
	))
	defer sub.Unsubscribe()

	select {
	case <-done:
	case <-ctx.Done():
		return values, lastCtx, ctx.Err()
	}

	return values, lastCtx, lastErr
}
