package ro

import (
	"context"
	"sync"
	"time"

	"github.com/opstream/ro/internal/clock"
)

// Sample emits the most recent source value whenever trigger emits,
// discarding values received between triggers. longPoll controls what
// happens when trigger fires with no pending value (spec.md §4.3's sample
// row): true lets the next value pass straight through once it arrives;
// false ignores that trigger entirely.
func Sample[V, Trig any](trigger Observable[Trig], longPoll bool) Operator[V, V] {
	return func(source Observable[V]) Observable[V] {
		return TriggerAggregate[V, Trig, V](source, trigger, func(v V, _ *V) V {
			return v
		}, longPoll)
	}
}

// SampleWithTime emits the most recent source value on a fixed interval tick.
func SampleWithTime[V any](duration time.Duration) Operator[V, V] {
	return sampleWithTimeAndClock[V](realClock(), duration)
}

func sampleWithTimeAndClock[V any](clk clock.Clock, duration time.Duration) Operator[V, V] {
	return func(source Observable[V]) Observable[V] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[V]) Teardown {
			var mu sync.Mutex
			var pending *V
			closed := false

			var timer clock.Timer
			tick := func(c context.Context) {
				timer = clk.AfterFunc(duration, func() {
					mu.Lock()
					if pending != nil {
						v := *pending
						pending = nil
						mu.Unlock()
						destination.NextWithContext(c, v)
						mu.Lock()
					}
					due := !closed
					mu.Unlock()
					if due {
						tick(c)
					}
				})
			}

			sub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v V) {
					mu.Lock()
					if pending == nil {
						tv := v
						pending = &tv
					} else {
						*pending = v
					}
					started := timer != nil
					mu.Unlock()
					if !started {
						tick(c)
					}
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					closed = true
					if timer != nil {
						timer.Stop()
					}
					mu.Unlock()
					destination.CompleteWithContext(c)
				},
			))

			return func() {
				mu.Lock()
				closed = true
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
