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
	"sync"

	"github.com/samber/lo"

	"github.com/opstream/ro/internal/xerrors"
)

// Teardown is a function that releases resources (a timer, a goroutine, a
// file handle, ...) held by a Subscription. It runs exactly once, when the
// Subscription is unsubscribed.
type Teardown func()
type TeardownWithContext func(ctx context.Context)

// Unsubscribable represents anything that can be unsubscribed from.
type Unsubscribable interface {
	Unsubscribe()
	UnsubscribeWithContext(ctx context.Context)
}

// Subscription represents an ongoing Observable execution. Beyond
// cancellation, it supports Pause/Resume: per spec.md §3.2, pausing and
// resuming only have an effect when the underlying stream is
// single-subscription; on a broadcast stream they are a no-op on the
// source, but the call is still accepted so operators never need to
// type-switch on broadcast-ness before calling Pause/Resume.
type Subscription interface {
	Unsubscribable

	Add(teardown Teardown)
	AddWithContext(teardown TeardownWithContext)
	AddUnsubscribable(unsubscribable Unsubscribable)
	IsClosed() bool
	Wait() // Note: using .Wait() is not recommended.

	// Pause marks the subscription paused and calls the onPause hook given
	// to NewSubscriptionWithPause, if any. Subscriptions returned by
	// Subscribe carry no hook, so for them delivery continues while paused.
	Pause()
	// Resume clears the paused mark and calls the onResume hook, if any.
	// It is a no-op if the subscription was not paused.
	Resume()
	// IsPaused reports whether Pause has been called without a matching Resume.
	IsPaused() bool
}

type subscriptionImpl struct {
	mu            sync.Mutex
	done          bool
	paused        bool
	finalizers    []Teardown
	ctxFinalizers []TeardownWithContext
	onPause       func()
	onResume      func()
}

var _ Subscription = (*subscriptionImpl)(nil)

// NewSubscription creates a new Subscription. When teardown is nil, nothing
// is added. When the subscription is already disposed, teardown runs
// immediately.
func NewSubscription(teardown Teardown) Subscription {
	return NewSubscriptionWithPause(teardown, nil, nil)
}

func NewSubscriptionWithContext(teardown TeardownWithContext) Subscription {
	s := &subscriptionImpl{
		finalizers:    []Teardown{},
		ctxFinalizers: []TeardownWithContext{},
	}
	if teardown != nil {
		s.ctxFinalizers = append(s.ctxFinalizers, teardown)
	}

	return s
}

// NewSubscriptionWithPause creates a Subscription whose Pause/Resume methods
// delegate to onPause/onResume. Either may be nil, in which case Pause/Resume
// become no-ops for this subscription — the behavior every broadcast source
// exposes per spec.md §3.2.
func NewSubscriptionWithPause(teardown Teardown, onPause, onResume func()) Subscription {
	s := &subscriptionImpl{
		finalizers:    []Teardown{},
		ctxFinalizers: []TeardownWithContext{},
		onPause:       onPause,
		onResume:      onResume,
	}
	if teardown != nil {
		s.finalizers = append(s.finalizers, teardown)
	}

	return s
}

// Add registers a finalizer to run upon unsubscription.
func (s *subscriptionImpl) Add(teardown Teardown) {
	if teardown == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		_ = execFinalizer(teardown)
		return
	}

	s.finalizers = append(s.finalizers, teardown)
}

// AddWithContext registers a finalizer that receives a context at teardown time.
func (s *subscriptionImpl) AddWithContext(teardown TeardownWithContext) {
	if teardown == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		_ = execFinalizerWithContext(teardown, context.Background())
		return
	}

	s.ctxFinalizers = append(s.ctxFinalizers, teardown)
}

// AddUnsubscribable merges another Unsubscribable's lifecycle into this one.
func (s *subscriptionImpl) AddUnsubscribable(unsubscribable Unsubscribable) {
	if unsubscribable == nil {
		return
	}

	s.Add(func() {
		unsubscribable.Unsubscribe()
	})
}

// Unsubscribe disposes resources held by the subscription. Thread-safe;
// finalizers execute exactly once: those added with Add in registration
// order, then those added with AddWithContext in registration order.
func (s *subscriptionImpl) Unsubscribe() {
	s.UnsubscribeWithContext(context.Background())
}

// UnsubscribeWithContext cancels the subscription, running every registered
// teardown with ctx.
func (s *subscriptionImpl) UnsubscribeWithContext(ctx context.Context) {
	s.mu.Lock()

	if s.done {
		s.mu.Unlock()
		return
	}

	s.done = true
	finals := s.finalizers
	ctxFinals := s.ctxFinalizers
	s.finalizers = nil
	s.ctxFinalizers = nil
	s.mu.Unlock()

	var errs []error

	for _, f := range finals {
		if err := execFinalizer(f); err != nil {
			errs = append(errs, err)
		}
	}

	for _, f := range ctxFinals {
		if err := execFinalizerWithContext(f, ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		panic(xerrors.Join(errs...))
	}
}

// IsClosed returns true once the subscription has been disposed (or
// disposal is in progress).
func (s *subscriptionImpl) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.done
}

// Wait blocks until the Subscription is canceled.
//
// Please use it carefully. Calling this method is against the Reactive
// Programming Manifesto. This method might be deleted in the future.
func (s *subscriptionImpl) Wait() {
	ch := make(chan struct{}, 1)

	s.Add(func() {
		ch <- struct{}{}
	})

	<-ch
	close(ch)
}

// Pause marks the subscription paused and calls the onPause hook, if any.
func (s *subscriptionImpl) Pause() {
	s.mu.Lock()
	if s.done || s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = true
	onPause := s.onPause
	s.mu.Unlock()

	if onPause != nil {
		onPause()
	}
}

// Resume clears the paused mark and calls the onResume hook, if any.
func (s *subscriptionImpl) Resume() {
	s.mu.Lock()
	if s.done || !s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = false
	onResume := s.onResume
	s.mu.Unlock()

	if onResume != nil {
		onResume()
	}
}

// IsPaused reports whether Pause has been called without a matching Resume.
func (s *subscriptionImpl) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.paused
}

// execFinalizer runs the finalizer, converting any panic into an error.
func execFinalizer(finalizer func()) (err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			finalizer()
			return nil
		},
		func(e any) {
			err = newUnsubscriptionError(recoverValueToError(e))
		},
	)

	return err
}

func execFinalizerWithContext(finalizer any, ctx context.Context) (err error) {
	switch f := finalizer.(type) {
	case func():
		return execFinalizer(f)
	case func(context.Context):
		lo.TryCatchWithErrorValue(
			func() error {
				f(ctx)
				return nil
			},
			func(e any) {
				err = newUnsubscriptionError(recoverValueToError(e))
			},
		)
	case TeardownWithContext:
		lo.TryCatchWithErrorValue(
			func() error {
				f(ctx)
				return nil
			},
			func(e any) {
				err = newUnsubscriptionError(recoverValueToError(e))
			},
		)
	}

	return err
}
