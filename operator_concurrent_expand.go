package ro

import (
	"context"
	"sync"
)

// ConcurrentAsyncExpand projects each outer value to an inner Observable and
// interleaves every inner stream concurrently (spec.md §4.7): unlike
// SwitchLatest, no previous inner subscription is ever canceled. The output
// closes once the outer has completed and every inner stream it produced has
// completed.
func ConcurrentAsyncExpand[T, R any](project func(T) Observable[R]) Operator[T, R] {
	return func(source Observable[T]) Observable[R] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			var mu sync.Mutex
			active := map[uint64]Subscription{}
			var nextID uint64
			outerDone := false
			closed := false

			maybeCloseLocked := func(c context.Context) {
				if closed || !outerDone || len(active) > 0 {
					return
				}
				closed = true
				destination.CompleteWithContext(c)
			}

			outerSub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) {
					inner := project(v)

					mu.Lock()
					id := nextID
					nextID++
					mu.Unlock()

					finishedInline := false

					innerSub := inner.SubscribeWithContext(c, NewObserverWithContext(
						func(ic context.Context, r R) { destination.NextWithContext(ic, r) },
						func(ic context.Context, err error) { destination.ErrorWithContext(ic, err) },
						func(ic context.Context) {
							mu.Lock()
							if _, ok := active[id]; ok {
								delete(active, id)
							} else {
								finishedInline = true
							}
							maybeCloseLocked(ic)
							mu.Unlock()
						},
					))

					mu.Lock()
					switch {
					case closed:
						mu.Unlock()
						innerSub.Unsubscribe()
					case finishedInline:
						mu.Unlock()
					default:
						active[id] = innerSub
						mu.Unlock()
					}
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					outerDone = true
					maybeCloseLocked(c)
					mu.Unlock()
				},
			))

			return func() {
				outerSub.Unsubscribe()
				mu.Lock()
				subs := make([]Subscription, 0, len(active))
				for _, s := range active {
					subs = append(subs, s)
				}
				mu.Unlock()
				for _, s := range subs {
					s.Unsubscribe()
				}
			}
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}
