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
	"sync/atomic"

	"github.com/opstream/ro/internal/xsync"
)

// ConcurrencyMode selects how a Subscriber serializes concurrent producer
// calls. spec.md §5 requires every operator instance to behave as if it
// executed on a single logical task; on a real multi-threaded Go runtime
// that means either a lock around operator state (ConcurrencyModeSafe) or a
// guarantee from the caller that producers are already serialized
// (ConcurrencyModeSingleProducer, ConcurrencyModeUnsafe).
type ConcurrencyMode uint8

const (
	// ConcurrencyModeSafe fully serializes Next/Error/Complete with a real mutex.
	ConcurrencyModeSafe ConcurrencyMode = iota
	// ConcurrencyModeUnsafe performs no synchronization; the caller must
	// guarantee Next/Error/Complete are never called concurrently.
	ConcurrencyModeUnsafe
	// ConcurrencyModeEventuallySafe uses a real mutex but drops a Next
	// notification instead of blocking when the lock is already held.
	ConcurrencyModeEventuallySafe
	// ConcurrencyModeSingleProducer is a lock-free fast path for a single
	// producer goroutine: no Lock/Unlock call at all, only atomic status
	// checks.
	ConcurrencyModeSingleProducer
)

// Backpressure controls what NextWithContext does when the subscriber's lock
// cannot be acquired.
type Backpressure uint8

const (
	// BackpressureBlock waits for the lock.
	BackpressureBlock Backpressure = iota
	// BackpressureDrop drops the notification instead of waiting.
	BackpressureDrop
)

// Subscriber implements both Observer and Subscription. The public API for
// consuming an Observable's values is Observer, but every Observer is
// converted to a Subscriber internally so operators can Unsubscribe from
// upstream when the destination is done. Subscriber is rarely used directly
// as a public API.
type Subscriber[T any] interface {
	Subscription
	Observer[T]
}

var _ Subscriber[int] = (*subscriberImpl[int])(nil)

// NewSubscriber creates a Subscriber from an Observer (ConcurrencyModeSafe).
// If the Observer is already a Subscriber, it is returned unchanged.
func NewSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSafeSubscriber(destination)
}

// NewSafeSubscriber creates a Subscriber backed by a real mutex.
func NewSafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeSafe)
}

// NewUnsafeSubscriber creates a Subscriber with no synchronization.
func NewUnsafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeUnsafe)
}

// NewEventuallySafeSubscriber creates a Subscriber that is safe for
// concurrent producers but drops Next notifications under contention.
func NewEventuallySafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeEventuallySafe)
}

// NewSingleProducerSubscriber creates a Subscriber optimized for a single
// producer goroutine (lock-free fast path).
func NewSingleProducerSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeSingleProducer)
}

// NewSubscriberWithConcurrencyMode creates a Subscriber from an Observer
// using the given ConcurrencyMode. If the Observer is already a Subscriber,
// it is returned unchanged.
func NewSubscriberWithConcurrencyMode[T any](destination Observer[T], mode ConcurrencyMode) Subscriber[T] {
	switch mode {
	case ConcurrencyModeSafe:
		return newSubscriberImpl(mode, xsync.NewMutexWithLock(), BackpressureBlock, destination, false)
	case ConcurrencyModeUnsafe:
		return newSubscriberImpl(mode, xsync.NewMutexWithoutLock(), BackpressureBlock, destination, false)
	case ConcurrencyModeEventuallySafe:
		return newSubscriberImpl(mode, xsync.NewMutexWithLock(), BackpressureDrop, destination, false)
	case ConcurrencyModeSingleProducer:
		return newSubscriberImpl(mode, nil, BackpressureBlock, destination, true)
	default:
		panic("ro: invalid concurrency mode")
	}
}

func newSubscriberImpl[T any](mode ConcurrencyMode, mu xsync.Mutex, backpressure Backpressure, destination Observer[T], lockless bool) Subscriber[T] {
	// Protect against double-wrapping.
	if subscriber, ok := destination.(Subscriber[T]); ok {
		return subscriber
	}

	subscriber := &subscriberImpl[T]{
		status:       0,
		backpressure: backpressure,
		mu:           mu,
		destination:  destination,
		Subscription: NewSubscription(nil),
		mode:         mode,
		lockless:     lockless,
	}
	subscriber.setDirectors(destination)

	if subscription, ok := destination.(Subscription); ok {
		subscription.Add(subscriber.Unsubscribe)
	}

	return subscriber
}

type subscriberImpl[T any] struct {
	// status is 0 while the subscriber is open, 1 once Complete or
	// Unsubscribe has closed it. An error never touches status: spec.md
	// §3.1/§7 treat Error as a non-terminal event the operator keeps
	// running past, so only thrown (set without gating anything) records
	// that one was ever forwarded, for HasThrown's benefit.
	status       int32
	thrown       int32
	backpressure Backpressure

	mu          xsync.Mutex
	destination Observer[T]

	Subscription

	mode     ConcurrencyMode
	lockless bool

	nextDirect     func(context.Context, T)
	errorDirect    func(context.Context, error)
	completeDirect func(context.Context)
}

func (s *subscriberImpl[T]) Next(v T) {
	s.NextWithContext(context.Background(), v)
}

func (s *subscriberImpl[T]) NextWithContext(ctx context.Context, v T) {
	if s.destination == nil {
		return
	}

	if s.lockless {
		if atomic.LoadInt32(&s.status) != 0 {
			OnDroppedNotification(ctx, NewNotificationNext(v))
			return
		}

		s.nextDirect(ctx, v)

		return
	}

	if s.backpressure == BackpressureDrop {
		if !s.mu.TryLock() {
			OnDroppedNotification(ctx, NewNotificationNext(v))
			return
		}
	} else {
		s.mu.Lock()
	}

	if atomic.LoadInt32(&s.status) != 0 {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationNext(v))
		return
	}

	s.nextDirect(ctx, v)

	s.mu.Unlock()
}

func (s *subscriberImpl[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

func (s *subscriberImpl[T]) ErrorWithContext(ctx context.Context, err error) {
	if s.lockless {
		if atomic.LoadInt32(&s.status) != 0 {
			OnDroppedNotification(ctx, NewNotificationError[T](err))
			return
		}

		atomic.StoreInt32(&s.thrown, 1)

		if s.destination != nil {
			s.errorDirect(ctx, err)
		}

		return
	}

	s.mu.Lock()

	if atomic.LoadInt32(&s.status) != 0 {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationError[T](err))
		return
	}

	atomic.StoreInt32(&s.thrown, 1)

	if s.destination != nil {
		s.errorDirect(ctx, err)
	}

	s.mu.Unlock()
}

func (s *subscriberImpl[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

func (s *subscriberImpl[T]) CompleteWithContext(ctx context.Context) {
	if s.lockless {
		if !atomic.CompareAndSwapInt32(&s.status, 0, 1) {
			OnDroppedNotification(ctx, NewNotificationComplete[T]())
			s.unsubscribe()
			return
		}

		if s.destination != nil {
			s.completeDirect(ctx)
		}

		s.unsubscribe()
		return
	}

	s.mu.Lock()

	if !atomic.CompareAndSwapInt32(&s.status, 0, 1) {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationComplete[T]())
		s.unsubscribe()
		return
	}

	if s.destination != nil {
		s.completeDirect(ctx)
	}

	s.mu.Unlock()

	s.unsubscribe()
}

func (s *subscriberImpl[T]) IsClosed() bool {
	return atomic.LoadInt32(&s.status) != 0
}

func (s *subscriberImpl[T]) HasThrown() bool {
	return atomic.LoadInt32(&s.thrown) != 0
}

func (s *subscriberImpl[T]) IsCompleted() bool {
	return atomic.LoadInt32(&s.status) != 0
}

func (s *subscriberImpl[T]) Unsubscribe() {
	if atomic.CompareAndSwapInt32(&s.status, 0, 1) {
		s.unsubscribe()
	}
}

func (s *subscriberImpl[T]) unsubscribe() {
	s.Subscription.Unsubscribe()
}

// setDirectors configures per-subscription direct call helpers so the hot
// path avoids an extra interface dispatch when the destination is our own
// observerImpl, which can expose tryXxxWithCapture directly.
func (s *subscriberImpl[T]) setDirectors(destination Observer[T]) {
	s.nextDirect = func(ctx context.Context, v T) { destination.NextWithContext(ctx, v) }
	s.errorDirect = func(ctx context.Context, err error) { destination.ErrorWithContext(ctx, err) }
	s.completeDirect = func(ctx context.Context) { destination.CompleteWithContext(ctx) }

	if oi, ok := destination.(*observerImpl[T]); ok {
		s.nextDirect = func(ctx context.Context, v T) { oi.tryNextWithCapture(ctx, v, oi.capturePanics) }
		s.errorDirect = func(ctx context.Context, err error) { oi.tryErrorWithCapture(ctx, err, oi.capturePanics) }
		s.completeDirect = func(ctx context.Context) { oi.tryCompleteWithCapture(ctx, oi.capturePanics) }
	}
}
