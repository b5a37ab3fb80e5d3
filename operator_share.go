package ro

import (
	"context"
	"sync"
)

// Share multiplexes a single subscription to source across every listener
// of the returned Observable, which always reports IsBroadcast() == true.
// It reuses the same fan-out mechanism a Subject already implements
// (subject_publish.go's `sync.Map` of observers) instead of inventing a
// second multicast primitive: the shared upstream subscription feeds a
// fresh PublishSubject, and every downstream Subscribe just subscribes to
// that subject.
//
// The first Subscribe opens the shared upstream subscription. The last
// listener leaving before source itself completes tears the upstream
// subscription down, so a later Subscribe starts a fresh cycle rather than
// replaying a stale one. Once source has completed or errored, the closed
// subject is kept: later listeners receive only that terminal notification
// and source is not subscribed again.
func Share[T any](source Observable[T]) Observable[T] {
	return &sharedObservable[T]{source: source}
}

// shareIfBroadcast is the call-site helper every operator uses at its
// return statement: an operator's output is broadcast iff its primary
// input is broadcast (spec.md §3.2), and a cold source's per-Subscribe
// re-execution semantics must be left untouched.
func shareIfBroadcast[T any](broadcast bool, built Observable[T]) Observable[T] {
	if !broadcast {
		return built
	}
	return Share(built)
}

type sharedObservable[T any] struct {
	mu       sync.Mutex
	source   Observable[T]
	subject  Subject[T]
	upstream Subscription
	refCount int
}

func (s *sharedObservable[T]) IsBroadcast() bool {
	return true
}

func (s *sharedObservable[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *sharedObservable[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	s.mu.Lock()
	subject := s.subject
	first := subject == nil
	if first {
		subject = NewPublishSubject[T]()
		s.subject = subject
	}
	s.refCount++
	s.mu.Unlock()

	sub := subject.AsObservable().SubscribeWithContext(ctx, destination)
	sub.Add(func() { s.release(subject) })

	// The upstream is opened only after the first listener has joined the
	// subject, so a source that emits synchronously still reaches it.
	if first {
		upstream := s.source.SubscribeWithContext(ctx, subject.AsObserver())
		s.mu.Lock()
		if s.subject == subject {
			s.upstream = upstream
			s.mu.Unlock()
		} else {
			s.mu.Unlock()
			upstream.Unsubscribe()
		}
	}

	return sub
}

func (s *sharedObservable[T]) release(subject Subject[T]) {
	s.mu.Lock()
	if s.subject != subject {
		s.mu.Unlock()
		return
	}

	s.refCount--
	if s.refCount > 0 || subject.IsClosed() {
		s.mu.Unlock()
		return
	}

	upstream := s.upstream
	s.subject = nil
	s.upstream = nil
	s.mu.Unlock()

	if upstream != nil {
		upstream.Unsubscribe()
	}
}
