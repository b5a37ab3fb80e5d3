package ro

import (
	"context"
	"sync"
)

// SequentialAsyncExpand is ConcurrentAsyncExpand with outer order preserved:
// an inner stream produced by a later outer value is not subscribed until
// every earlier inner stream has completed. Per spec.md §9's resolution of
// the ambiguous broadcast-outer case, previous inner subscriptions are never
// canceled — later outer events simply wait in a queue.
func SequentialAsyncExpand[T, R any](project func(T) Observable[R]) Operator[T, R] {
	return func(source Observable[T]) Observable[R] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			var mu sync.Mutex
			queue := []T{}
			working := false
			outerDone := false
			closed := false
			var currentInner Subscription

			var runNext func(c context.Context)
			runNext = func(c context.Context) {
				if len(queue) == 0 {
					working = false
					if outerDone && !closed {
						closed = true
						mu.Unlock()
						destination.CompleteWithContext(c)
						return
					}
					mu.Unlock()
					return
				}

				v := queue[0]
				queue = queue[1:]
				working = true
				mu.Unlock()

				// inner may complete synchronously, inside
				// SubscribeWithContext below, before the assignment to
				// currentInner at the bottom runs; finishedInline guards
				// that assignment from clobbering the nil the completion
				// handler already set (same hazard as SwitchLatest's
				// subscribeInner).
				finishedInline := false

				inner := project(v)
				sub := inner.SubscribeWithContext(c, NewObserverWithContext(
					func(ic context.Context, r R) { destination.NextWithContext(ic, r) },
					func(ic context.Context, err error) { destination.ErrorWithContext(ic, err) },
					func(ic context.Context) {
						mu.Lock()
						finishedInline = true
						currentInner = nil
						runNext(ic)
					},
				))

				mu.Lock()
				if !finishedInline {
					currentInner = sub
				}
				mu.Unlock()
			}

			outerSub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) {
					mu.Lock()
					queue = append(queue, v)
					if !working {
						runNext(c)
						return
					}
					mu.Unlock()
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					outerDone = true
					if !working && len(queue) == 0 && !closed {
						closed = true
						mu.Unlock()
						destination.CompleteWithContext(c)
						return
					}
					mu.Unlock()
				},
			))

			return func() {
				outerSub.Unsubscribe()
				mu.Lock()
				cur := currentInner
				mu.Unlock()
				if cur != nil {
					cur.Unsubscribe()
				}
			}
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}
