package ro

import (
	"context"
	"sync"
	"time"

	"github.com/opstream/ro/internal/clock"
)

// Audit emits the most recent source value at the end of every period of
// duration d; the period starts on the first event after the previous
// emission (spec.md §4.3's audit row).
func Audit[T any](d time.Duration) Operator[T, T] {
	return auditWithClock[T](realClock(), d)
}

func auditWithClock[T any](clk clock.Clock, d time.Duration) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var mu sync.Mutex
			var recent T
			var timer clock.Timer
			isDone := false

			sub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) {
					mu.Lock()
					recent = v
					if timer != nil {
						mu.Unlock()
						return
					}
					timer = clk.AfterFunc(d, func() {
						mu.Lock()
						v := recent
						timer = nil
						done := isDone
						mu.Unlock()

						destination.NextWithContext(c, v)
						if done {
							destination.CompleteWithContext(c)
						}
					})
					mu.Unlock()
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					if timer != nil {
						isDone = true
						mu.Unlock()
						return
					}
					mu.Unlock()
					destination.CompleteWithContext(c)
				},
			))

			return func() {
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				mu.Unlock()
				sub.Unsubscribe()
			}
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}
