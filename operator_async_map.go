package ro

import (
	"context"
	"sync"
)

// ConcurrentAsyncMap invokes f for every source value and emits each result
// as it completes; results may arrive out of source order (spec.md §4.5).
// The output closes only once source is done AND every in-flight f call has
// completed, tracked with an internal in-flight counter.
func ConcurrentAsyncMap[T, R any](f func(ctx context.Context, v T) (R, error)) Operator[T, R] {
	return func(source Observable[T]) Observable[R] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			tracker := newInFlightTracker(func(c context.Context) { destination.CompleteWithContext(c) })

			sub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) {
					tracker.start()
					go func() {
						r, err := f(c, v)
						if err != nil {
							destination.ErrorWithContext(c, err)
						} else {
							destination.NextWithContext(c, r)
						}
						tracker.finish(c)
					}()
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) { tracker.sourceDone(c) },
			))

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// AsyncWhere is ConcurrentAsyncMap specialized to a (possibly slow) predicate:
// values for which predicate returns true are forwarded unchanged, in
// completion order. Completion is tracked exactly like ConcurrentAsyncMap.
func AsyncWhere[T any](predicate func(ctx context.Context, v T) (bool, error)) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			tracker := newInFlightTracker(func(c context.Context) { destination.CompleteWithContext(c) })

			sub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) {
					tracker.start()
					go func() {
						ok, err := predicate(c, v)
						switch {
						case err != nil:
							destination.ErrorWithContext(c, err)
						case ok:
							destination.NextWithContext(c, v)
						}
						tracker.finish(c)
					}()
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) { tracker.sourceDone(c) },
			))

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// inFlightTracker closes an output once the source has completed and every
// in-flight async call it started has finished, regardless of which happens
// last (spec.md §4.5: "closes when source is done AND counter reaches zero").
type inFlightTracker struct {
	mu         sync.Mutex
	count      int
	done       bool
	closed     bool
	onComplete func(ctx context.Context)
}

func newInFlightTracker(onComplete func(ctx context.Context)) *inFlightTracker {
	return &inFlightTracker{onComplete: onComplete}
}

func (t *inFlightTracker) start() {
	t.mu.Lock()
	t.count++
	t.mu.Unlock()
}

func (t *inFlightTracker) finish(ctx context.Context) {
	t.mu.Lock()
	t.count--
	t.maybeCompleteLocked(ctx)
	t.mu.Unlock()
}

func (t *inFlightTracker) sourceDone(ctx context.Context) {
	t.mu.Lock()
	t.done = true
	t.maybeCompleteLocked(ctx)
	t.mu.Unlock()
}

func (t *inFlightTracker) maybeCompleteLocked(ctx context.Context) {
	if t.closed || !t.done || t.count > 0 {
		return
	}
	t.closed = true
	t.onComplete(ctx)
}
