package ro

import (
	"context"
	"sync"
)

// SwitchLatest flattens an Observable of Observables by always listening to
// only the most recently emitted inner stream, canceling whichever inner
// subscription was previously active (spec.md §4.7's three-state
// no-inner/active-inner/cancelling-with-pending machine: a new outer value
// arriving while a cancel is still in flight replaces the pending stream
// rather than subscribing twice).
func SwitchLatest[T any]() Operator[Observable[T], T] {
	return func(source Observable[Observable[T]]) Observable[T] {
		built := NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var mu sync.Mutex
			var innerSub Subscription
			var pending Observable[T]
			hasPending := false
			outerDone := false
			canceling := false
			var currentGen, nextGen uint64

			// subscribeInner's own inner Observable may complete
			// synchronously, inside the SubscribeWithContext call below,
			// before the assignment to innerSub at the bottom runs. The
			// generation counter identifies whether a completion callback
			// still belongs to the most recent subscribeInner call (guarding
			// against a stale, already-superseded inner firing late); the
			// finishedInline flag additionally guards the final assignment
			// against clobbering a nil that the same, synchronously
			// completing call already set.
			var subscribeInner func(inner Observable[T])
			subscribeInner = func(inner Observable[T]) {
				mu.Lock()
				nextGen++
				myGen := nextGen
				currentGen = myGen
				mu.Unlock()

				finishedInline := false

				sub := inner.SubscribeWithContext(ctx, NewObserverWithContext(
					func(c context.Context, v T) { destination.NextWithContext(c, v) },
					func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
					func(c context.Context) {
						mu.Lock()
						if currentGen != myGen {
							mu.Unlock()
							return
						}
						finishedInline = true
						innerSub = nil
						if hasPending {
							next := pending
							hasPending = false
							mu.Unlock()
							subscribeInner(next)
							return
						}
						if outerDone {
							mu.Unlock()
							destination.CompleteWithContext(c)
							return
						}
						mu.Unlock()
					},
				))

				mu.Lock()
				if currentGen == myGen && !finishedInline {
					innerSub = sub
				}
				mu.Unlock()
			}

			outerSub := source.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, inner Observable[T]) {
					mu.Lock()
					switch {
					case canceling:
						pending = inner
						hasPending = true
						mu.Unlock()
					case innerSub != nil:
						old := innerSub
						canceling = true
						pending = inner
						hasPending = true
						mu.Unlock()
						old.UnsubscribeWithContext(c)
						mu.Lock()
						canceling = false
						if hasPending {
							next := pending
							hasPending = false
							mu.Unlock()
							subscribeInner(next)
						} else {
							mu.Unlock()
						}
					default:
						mu.Unlock()
						subscribeInner(inner)
					}
				},
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					outerDone = true
					if innerSub == nil && !hasPending {
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
				cur := innerSub
				mu.Unlock()
				if cur != nil {
					cur.Unsubscribe()
				}
			}
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// SwitchMap is SwitchLatest composed with a per-value projection to an inner
// Observable: the common "map then flatten, canceling the previous" shape.
func SwitchMap[T, R any](project func(T) Observable[R]) Operator[T, R] {
	return func(source Observable[T]) Observable[R] {
		return SwitchLatest[R]()(Map(project)(source))
	}
}
