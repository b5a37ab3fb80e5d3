// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ro

import (
	"context"
)

// Observable is spec.md's Stream: an ordered, possibly infinite sequence of
// Data/Error events terminated by at most one Done event (§3.1), consumed
// through the Subscription Protocol of §3.2. IsBroadcast reports the
// "broadcast?" flag fixed at construction.
//
//   - A single-subscription (cold) Observable gives each subscription its
//     own execution: each Subscribe call (re-)runs the producer function
//     from scratch, exactly like the constructors below.
//   - A broadcast (hot) Observable — a Subject — fans a shared upstream
//     execution out to any number of concurrent subscribers; see subject.go.
type Observable[T any] interface {
	Subscribe(destination Observer[T]) Subscription
	SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription
	// IsBroadcast reports whether this Observable is a broadcast (hot)
	// stream. An operator's output is broadcast iff its primary input is
	// broadcast (spec.md §3.2).
	IsBroadcast() bool
}

// Producer is the function an Observable runs for each subscription: it
// receives the output Observer and returns a Teardown releasing whatever
// resources (timers, goroutines, upstream subscriptions) it acquired.
// Returning nil is valid when there is nothing to release.
type Producer[T any] func(ctx context.Context, destination Observer[T]) Teardown

var _ Observable[int] = (*observableImpl[int])(nil)

type observableImpl[T any] struct {
	produce   Producer[T]
	mode      ConcurrencyMode
	broadcast bool
}

// NewObservable creates a single-subscription Observable using
// ConcurrencyModeSafe (a real mutex serializes producer calls).
func NewObservable[T any](produce func(destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		return produce(destination)
	})
}

// NewObservableWithContext is the context-aware variant of NewObservable.
func NewObservableWithContext[T any](produce Producer[T]) Observable[T] {
	return newObservable(produce, ConcurrencyModeSafe, false)
}

// NewUnsafeObservable creates a single-subscription Observable with no
// synchronization (ConcurrencyModeUnsafe). The producer must not call the
// destination Observer concurrently from multiple goroutines.
func NewUnsafeObservable[T any](produce func(destination Observer[T]) Teardown) Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		return produce(destination)
	})
}

// NewUnsafeObservableWithContext is the context-aware variant of NewUnsafeObservable.
func NewUnsafeObservableWithContext[T any](produce Producer[T]) Observable[T] {
	return newObservable(produce, ConcurrencyModeUnsafe, false)
}

// NewSingleProducerObservable creates a single-subscription Observable using
// the lock-free fast path (ConcurrencyModeSingleProducer): the producer must
// guarantee a single goroutine calls the destination Observer.
func NewSingleProducerObservable[T any](produce func(destination Observer[T]) Teardown) Observable[T] {
	return NewSingleProducerObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		return produce(destination)
	})
}

// NewSingleProducerObservableWithContext is the context-aware variant of
// NewSingleProducerObservable.
func NewSingleProducerObservableWithContext[T any](produce Producer[T]) Observable[T] {
	return newObservable(produce, ConcurrencyModeSingleProducer, false)
}

// NewEventuallySafeObservable creates a single-subscription Observable that
// is safe for concurrent producers but drops Next notifications under lock
// contention (ConcurrencyModeEventuallySafe).
func NewEventuallySafeObservable[T any](produce func(destination Observer[T]) Teardown) Observable[T] {
	return NewEventuallySafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		return produce(destination)
	})
}

// NewEventuallySafeObservableWithContext is the context-aware variant of
// NewEventuallySafeObservable.
func NewEventuallySafeObservableWithContext[T any](produce Producer[T]) Observable[T] {
	return newObservable(produce, ConcurrencyModeEventuallySafe, false)
}

func newObservable[T any](produce Producer[T], mode ConcurrencyMode, broadcast bool) Observable[T] {
	return &observableImpl[T]{produce: produce, mode: mode, broadcast: broadcast}
}

func (o *observableImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return o.SubscribeWithContext(context.Background(), destination)
}

func (o *observableImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	subscriber := NewSubscriberWithConcurrencyMode(destination, o.mode)

	if o.produce == nil {
		subscriber.CompleteWithContext(ctx)
		return subscriber
	}

	teardown := o.produce(ctx, subscriber)
	subscriber.Add(teardown)

	return subscriber
}

func (o *observableImpl[T]) IsBroadcast() bool {
	return o.broadcast
}
