package ro

import (
	"context"
	"sync"
	"time"

	"github.com/opstream/ro/internal/clock"
)

// Debounce emits the last value of a burst (a maximal run of values each
// within d of the previous) after d of silence. If leading is true, the
// first value of a new burst is also emitted immediately; the trailing emit
// for that burst is suppressed only when no further value arrived after the
// leading one (spec.md §4.3's debounce row).
func Debounce[T any](d time.Duration, leading, trailing bool) Operator[T, T] {
	return debounceWithClock[T, T](realClock(), d, leading, trailing, func(v T, _ *T) T { return v })
}

// DebounceBuffer emits the full ordered list of values in a burst, trailing
// only, after d of silence.
func DebounceBuffer[T any](d time.Duration) Operator[T, []T] {
	return debounceWithClock[T, []T](realClock(), d, false, true, func(v T, soFar *[]T) []T {
		if soFar == nil {
			return []T{v}
		}
		return append(*soFar, v)
	})
}

func debounceWithClock[T, Acc any](clk clock.Clock, d time.Duration, leading, trailing bool, collect func(v T, soFar *Acc) Acc) Operator[T, Acc] {
	return func(source Observable[T]) Observable[Acc] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[Acc]) Teardown {
			var mu sync.Mutex
			var soFar *Acc
			var timer clock.Timer
			emittedLatestAsLeading := false
			sourceDone := false

			var restartTimer func(c context.Context)
			restartTimer = func(c context.Context) {
				if timer != nil {
					timer.Stop()
				}
				timer = clk.AfterFunc(d, func() {
					mu.Lock()
					var flush *Acc
					if trailing && !emittedLatestAsLeading && soFar != nil {
						flush = soFar
					}
					soFar = nil
					emittedLatestAsLeading = false
					timer = nil
					done := sourceDone
					mu.Unlock()

					if flush != nil {
						destination.NextWithContext(c, *flush)
					}
					if done {
						destination.CompleteWithContext(c)
					}
				})
			}

			sub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) {
					mu.Lock()
					hadActiveTimer := timer != nil
					next := collect(v, soFar)
					soFar = &next

					if leading && !hadActiveTimer {
						emittedLatestAsLeading = true
						restartTimer(c)
						mu.Unlock()
						destination.NextWithContext(c, next)
						return
					}

					emittedLatestAsLeading = false
					restartTimer(c)
					mu.Unlock()
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					if timer != nil {
						sourceDone = true
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
