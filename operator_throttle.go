package ro

import (
	"context"
	"sync"
	"time"

	"github.com/opstream/ro/internal/clock"
)

type throttleState int

const (
	throttleIdle throttleState = iota
	throttleInPeriod
	throttleInPeriodPending
)

// Throttle emits the first value of each period of duration d immediately,
// then ignores (trailing=false) or remembers (trailing=true) further values
// until the period ends. With trailing=true the remembered value is emitted
// when the period ends and a new period starts immediately (spec.md §4.3's
// throttle state machine).
func Throttle[T any](d time.Duration, trailing bool) Operator[T, T] {
	return throttleWithClock[T](realClock(), d, trailing)
}

func throttleWithClock[T any](clk clock.Clock, d time.Duration, trailing bool) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var mu sync.Mutex
			state := throttleIdle
			var pending T
			isDone := false
			var timer clock.Timer

			var startTimer func(c context.Context)
			startTimer = func(c context.Context) {
				timer = clk.AfterFunc(d, func() {
					mu.Lock()
					switch state {
					case throttleInPeriod:
						state = throttleIdle
						timer = nil
						done := isDone
						mu.Unlock()
						if done {
							destination.CompleteWithContext(c)
						}
					case throttleInPeriodPending:
						v := pending
						state = throttleInPeriod
						done := isDone
						mu.Unlock()
						destination.NextWithContext(c, v)
						if done {
							destination.CompleteWithContext(c)
							return
						}
						mu.Lock()
						startTimer(c)
						mu.Unlock()
					default:
						mu.Unlock()
					}
				})
			}

			sub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) {
					mu.Lock()
					switch state {
					case throttleIdle:
						state = throttleInPeriod
						mu.Unlock()
						destination.NextWithContext(c, v)
						mu.Lock()
						startTimer(c)
						mu.Unlock()
					case throttleInPeriod:
						if trailing {
							pending = v
							state = throttleInPeriodPending
						}
						mu.Unlock()
					case throttleInPeriodPending:
						pending = v
						mu.Unlock()
					}
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					if state == throttleInPeriodPending {
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
