package ro

import (
	"context"
	"sync"
)

// CombineLatest pairs source with other: once both have emitted at least one
// value, every subsequent event on either side re-emits f(latestSource,
// latestOther). If a side completes before ever emitting, the output
// completes without ever emitting (spec.md §4.8's combineLatest family).
func CombineLatest[A, B, R any](other Observable[B], f func(A, B) R) Operator[A, R] {
	return func(source Observable[A]) Observable[R] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			var mu sync.Mutex
			var latestA A
			var latestB B
			hasA := false
			hasB := false
			aDone := false
			bDone := false
			closed := false

			maybeCloseLocked := func(c context.Context) {
				if closed {
					return
				}
				if (aDone && !hasA) || (bDone && !hasB) || (aDone && bDone) {
					closed = true
					destination.CompleteWithContext(c)
				}
			}

			emitIfReady := func(c context.Context) {
				mu.Lock()
				if closed || !hasA || !hasB {
					mu.Unlock()
					return
				}
				a, b := latestA, latestB
				mu.Unlock()
				destination.NextWithContext(c, f(a, b))
			}

			subA := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v A) {
					mu.Lock()
					latestA = v
					hasA = true
					mu.Unlock()
					emitIfReady(c)
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					aDone = true
					maybeCloseLocked(c)
					mu.Unlock()
				},
			))

			subB := other.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v B) {
					mu.Lock()
					latestB = v
					hasB = true
					mu.Unlock()
					emitIfReady(c)
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					bDone = true
					maybeCloseLocked(c)
					mu.Unlock()
				},
			))

			return func() {
				subA.Unsubscribe()
				subB.Unsubscribe()
			}
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// CombineLatestAll generalizes CombineLatest to N observables of the same
// type: once every one of them has emitted at least once, any subsequent
// event re-emits a fresh snapshot slice of every input's latest value.
func CombineLatestAll[T any](others ...Observable[T]) Operator[T, []T] {
	return func(source Observable[T]) Observable[[]T] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[[]T]) Teardown {
			inputs := append([]Observable[T]{source}, others...)
			n := len(inputs)

			var mu sync.Mutex
			latest := make([]T, n)
			has := make([]bool, n)
			done := make([]bool, n)
			closed := false
			remaining := n

			allReady := func() bool {
				for _, ok := range has {
					if !ok {
						return false
					}
				}
				return true
			}

			snapshot := func() []T {
				out := make([]T, n)
				copy(out, latest)
				return out
			}

			maybeCloseLocked := func(c context.Context) {
				if closed {
					return
				}
				if remaining == 0 {
					closed = true
					destination.CompleteWithContext(c)
					return
				}
				for i, d := range done {
					if d && !has[i] {
						closed = true
						destination.CompleteWithContext(c)
						return
					}
				}
			}

			subs := make([]Subscription, n)
			for idx, in := range inputs {
				i := idx
				subs[i] = in.SubscribeWithContext(ctx, NewObserverWithContext(
					func(c context.Context, v T) {
						mu.Lock()
						latest[i] = v
						has[i] = true
						ready := allReady() && !closed
						var snap []T
						if ready {
							snap = snapshot()
						}
						mu.Unlock()
						if ready {
							destination.NextWithContext(c, snap)
						}
					},
					func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
					func(c context.Context) {
						mu.Lock()
						if !done[i] {
							done[i] = true
							remaining--
						}
						maybeCloseLocked(c)
						mu.Unlock()
					},
				))
			}

			return func() {
				for _, sub := range subs {
					sub.Unsubscribe()
				}
			}
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}
