package ro

import (
	"context"
	"sync"
)

// Merge subscribes to every source and forwards each event as it arrives,
// interleaved; it closes once every source has completed (spec.md §4.8). The
// output is broadcast only when every given source is: a single cold source
// among them would otherwise replay per listener while the rest don't.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	allBroadcast := len(sources) > 0
	for _, s := range sources {
		if !s.IsBroadcast() {
			allBroadcast = false
			break
		}
	}

	built := NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		var mu sync.Mutex
		remaining := len(sources)
		subs := make([]Subscription, 0, len(sources))

		if remaining == 0 {
			destination.CompleteWithContext(ctx)
			return nil
		}

		for _, s := range sources {
			sub := s.SubscribeWithContext(ctx, NewObserverWithContext(
				func(c context.Context, v T) { destination.NextWithContext(c, v) },
				func(c context.Context, err error) { destination.ErrorWithContext(c, err) },
				func(c context.Context) {
					mu.Lock()
					remaining--
					done := remaining == 0
					mu.Unlock()
					if done {
						destination.CompleteWithContext(c)
					}
				},
			))
			subs = append(subs, sub)
		}

		return func() {
			for _, sub := range subs {
				sub.Unsubscribe()
			}
		}
	})

	return shareIfBroadcast(allBroadcast, built)
}

// MergeAll is Merge specialized to a pipeline position: merge a fixed set of
// other sources into source.
func MergeAll[T any](others ...Observable[T]) Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		return Merge(append([]Observable[T]{source}, others...)...)
	}
}

// Concat subscribes to sources in order, moving to the next only after the
// previous one completes (spec.md §4.9's followedBy, generalized to N).
func Concat[T any](sources ...Observable[T]) Observable[T] {
	if len(sources) == 0 {
		return Empty[T]()
	}

	out := sources[0]
	for _, next := range sources[1:] {
		out = FollowedBy(next)(out)
	}
	return out
}
