package ro

import (
	"context"
	"sync"
	"time"

	"github.com/opstream/ro/internal/clock"
)

// Buffer collects source values into a slice, flushing (emitting and
// resetting) whenever trigger emits. Long-poll: a trigger firing while no
// value is pending lets the very next value pass straight through as a
// single-element slice (spec.md §4.3's buffer row).
func Buffer[V, Trig any](trigger Observable[Trig]) Operator[V, []V] {
	return func(source Observable[V]) Observable[[]V] {
		return TriggerAggregate[V, Trig, []V](source, trigger, func(v V, current *[]V) []V {
			if current == nil {
				return []V{v}
			}
			return append(*current, v)
		}, true)
	}
}

// BufferWithCount flushes source values in fixed-size slices of length count.
// The final, possibly short, slice is flushed when source completes.
func BufferWithCount[V any](count int) Operator[V, []V] {
	return bufferWith[V](realClock(), 0, count)
}

// BufferWithTime flushes whatever has accumulated every duration, starting
// with the first value; a tick with no pending values emits nothing.
func BufferWithTime[V any](duration time.Duration) Operator[V, []V] {
	return bufferWith[V](realClock(), duration, 0)
}

// BufferWithTimeOrCount flushes when either duration elapses or count values
// have accumulated, whichever happens first. A count flush does not reset
// the timer, which keeps ticking every duration from the first value.
func BufferWithTimeOrCount[V any](count int, duration time.Duration) Operator[V, []V] {
	return bufferWith[V](realClock(), duration, count)
}

func bufferWith[V any](clk clock.Clock, duration time.Duration, count int) Operator[V, []V] {
	return func(source Observable[V]) Observable[[]V] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[[]V]) Teardown {
			var mu sync.Mutex
			var pending []V
			var timer clock.Timer
			closed := false

			flushLocked := func(c context.Context) {
				if len(pending) == 0 {
					return
				}
				batch := pending
				pending = nil
				destination.NextWithContext(c, batch)
			}

			startTimerLocked := func(c context.Context) {
				if duration <= 0 || timer != nil {
					return
				}
				timer = clk.AfterFunc(duration, func() {
					mu.Lock()
					flushLocked(c)
					timer = nil
					if !closed {
						startTimerLocked(c)
					}
					mu.Unlock()
				})
			}

			sub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v V) {
					mu.Lock()
					pending = append(pending, v)
					startTimerLocked(c)
					if count > 0 && len(pending) >= count {
						flushLocked(c)
					}
					mu.Unlock()
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					closed = true
					flushLocked(c)
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
