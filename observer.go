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
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
)

// Context key used to opt out of observer panic capture for a specific
// subscription. The key type is unexported to avoid collisions with
// user-defined context keys.
type observerPanicCaptureDisabledKeyType struct{}

var observerPanicCaptureDisabledKey observerPanicCaptureDisabledKeyType

// WithObserverPanicCaptureDisabled returns a derived context that disables
// wrapping observer callbacks with panic capture for the subscription using
// this context. Intended for benchmarking or latency-sensitive pipelines;
// by default the library keeps panic capture enabled (spec.md §7.2).
func WithObserverPanicCaptureDisabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, observerPanicCaptureDisabledKey, true)
}

func isObserverPanicCaptureDisabled(ctx context.Context) bool {
	v := ctx.Value(observerPanicCaptureDisabledKey)
	b, ok := v.(bool)
	return ok && b
}

// Observer is the consumer of an Observable. It receives Next, Error, and
// Complete notifications. Observers are safe for concurrent calls to Next,
// Error, and Complete; it is the Observer's own responsibility to stop
// forwarding after it is closed (spec.md §3.3: "the output sink is never
// written to after Done").
type Observer[T any] interface {
	// Next receives the next value. Called zero or more times.
	Next(value T)
	NextWithContext(ctx context.Context, value T)
	// Error receives an error. Per spec.md §7, errors are non-terminal for
	// the library's own operators: a Subscriber keeps delivering after one,
	// but an Observer that is not itself a Subscriber closes upon receiving
	// one.
	Error(err error)
	ErrorWithContext(ctx context.Context, err error)
	// Complete receives at most one completion notification.
	Complete()
	CompleteWithContext(ctx context.Context)

	// IsClosed reports whether the Observer has stopped accepting
	// notifications: after a Complete, after an Error for an Observer that
	// is not a Subscriber, or after a Subscriber is unsubscribed.
	IsClosed() bool
	// HasThrown reports whether the Observer has received an Error notification.
	HasThrown() bool
	// IsCompleted reports whether the Observer has received a Complete
	// notification; a Subscriber also reports true once unsubscribed.
	IsCompleted() bool
}

/************************
 *     Base Observer    *
 ************************/

var _ Observer[int] = (*observerImpl[int])(nil)

// NewObserver creates an Observer from plain callbacks, with no context plumbing.
func NewObserver[T any](onNext func(value T), onError func(err error), onComplete func()) Observer[T] {
	return &observerImpl[T]{
		status:        0,
		capturePanics: true,
		onNext: func(ctx context.Context, value T) {
			onNext(value)
		},
		onError: func(ctx context.Context, err error) {
			onError(err)
		},
		onComplete: func(ctx context.Context) {
			onComplete()
		},
	}
}

// NewObserverWithContext creates an Observer whose callbacks receive a context.
func NewObserverWithContext[T any](onNext func(ctx context.Context, value T), onError func(ctx context.Context, err error), onComplete func(ctx context.Context)) Observer[T] {
	return &observerImpl[T]{
		status:        0,
		capturePanics: true,
		onNext:        onNext,
		onError:       onError,
		onComplete:    onComplete,
	}
}

// NewUnsafeObserver creates an Observer that does NOT capture panics; they
// propagate to the caller. Use only where callers guarantee no panics, or
// want them to crash the pipeline (benchmarks, ultra-low-latency paths).
func NewUnsafeObserver[T any](onNext func(value T), onError func(err error), onComplete func()) Observer[T] {
	return &observerImpl[T]{
		status:        0,
		capturePanics: false,
		onNext: func(ctx context.Context, value T) {
			onNext(value)
		},
		onError: func(ctx context.Context, err error) {
			onError(err)
		},
		onComplete: func(ctx context.Context) {
			onComplete()
		},
	}
}

// NewObserverWithContextUnsafe creates a context-aware Observer that does
// NOT capture panics.
func NewObserverWithContextUnsafe[T any](onNext func(ctx context.Context, value T), onError func(ctx context.Context, err error), onComplete func(ctx context.Context)) Observer[T] {
	return &observerImpl[T]{
		status:        0,
		capturePanics: false,
		onNext:        onNext,
		onError:       onError,
		onComplete:    onComplete,
	}
}

type observerImpl[T any] struct {
	// 0: active
	// 1: errored
	// 2: completed
	status        int32
	capturePanics bool
	onNext        func(context.Context, T)
	onError       func(context.Context, error)
	onComplete    func(context.Context)
}

func (o *observerImpl[T]) Next(value T) {
	o.NextWithContext(context.Background(), value)
}

func (o *observerImpl[T]) NextWithContext(ctx context.Context, value T) {
	if o.onNext == nil || atomic.LoadInt32(&o.status) != 0 {
		OnDroppedNotification(ctx, NewNotificationNext(value))
		return
	}

	o.tryNextWithCapture(ctx, value, o.capturePanics)
}

func (o *observerImpl[T]) Error(err error) {
	o.ErrorWithContext(context.Background(), err)
}

func (o *observerImpl[T]) ErrorWithContext(ctx context.Context, err error) {
	if o.onError == nil || !atomic.CompareAndSwapInt32(&o.status, 0, 1) {
		OnDroppedNotification(ctx, NewNotificationError[T](err))
		return
	}

	o.tryErrorWithCapture(ctx, err, o.capturePanics)
}

func (o *observerImpl[T]) Complete() {
	o.CompleteWithContext(context.Background())
}

func (o *observerImpl[T]) CompleteWithContext(ctx context.Context) {
	if o.onComplete == nil || !atomic.CompareAndSwapInt32(&o.status, 0, 2) {
		OnDroppedNotification(ctx, NewNotificationComplete[T]())
		return
	}

	o.tryCompleteWithCapture(ctx, o.capturePanics)
}

// tryNextWithCapture invokes onNext, optionally capturing a panic into an
// error forwarded to onError (or to OnUnhandledError if there is no onError).
// The capture flag is explicit (rather than always reading o.capturePanics)
// so per-subscription context overrides (WithObserverPanicCaptureDisabled)
// and direct unit tests can exercise both branches.
func (o *observerImpl[T]) tryNextWithCapture(ctx context.Context, value T, capture bool) {
	if !capture || isObserverPanicCaptureDisabled(ctx) {
		o.onNext(ctx, value)
		return
	}

	lo.TryCatchWithErrorValue(
		func() error {
			o.onNext(ctx, value)
			return nil
		},
		func(e any) {
			err := newObserverError(recoverValueToError(e))

			if o.onError == nil {
				OnUnhandledError(ctx, err)
			} else {
				o.tryErrorWithCapture(ctx, err, capture)
			}
		},
	)
}

func (o *observerImpl[T]) tryErrorWithCapture(ctx context.Context, err error, capture bool) {
	if !capture || isObserverPanicCaptureDisabled(ctx) {
		o.onError(ctx, err)
		return
	}

	lo.TryCatchWithErrorValue(
		func() error {
			o.onError(ctx, err)
			return nil
		},
		func(e any) {
			OnUnhandledError(ctx, newObserverError(recoverValueToError(e)))
		},
	)
}

func (o *observerImpl[T]) tryCompleteWithCapture(ctx context.Context, capture bool) {
	if !capture || isObserverPanicCaptureDisabled(ctx) {
		o.onComplete(ctx)
		return
	}

	lo.TryCatchWithErrorValue(
		func() error {
			o.onComplete(ctx)
			return nil
		},
		func(e any) {
			OnUnhandledError(ctx, newObserverError(recoverValueToError(e)))
		},
	)
}

func (o *observerImpl[T]) IsClosed() bool {
	return atomic.LoadInt32(&o.status) != 0
}

func (o *observerImpl[T]) HasThrown() bool {
	return atomic.LoadInt32(&o.status) == 1
}

func (o *observerImpl[T]) IsCompleted() bool {
	return atomic.LoadInt32(&o.status) == 2
}

/*********************
 * Partial Observers *
 *********************/

// OnNext is a partial Observer with only the Next method implemented.
// Warning: this observer silences errors.
func OnNext[T any](onNext func(value T)) Observer[T] {
	return NewObserver(onNext, func(err error) {}, func() {})
}

// OnNextWithContext is a partial Observer with only the Next method implemented.
// Warning: this observer silences errors.
func OnNextWithContext[T any](onNext func(ctx context.Context, value T)) Observer[T] {
	return NewObserverWithContext(onNext, func(ctx context.Context, err error) {}, func(ctx context.Context) {})
}

// OnError is a partial Observer with only the Error method implemented.
func OnError[T any](onError func(err error)) Observer[T] {
	return NewObserver(func(value T) {}, onError, func() {})
}

// OnErrorWithContext is a partial Observer with only the Error method implemented.
func OnErrorWithContext[T any](onError func(ctx context.Context, err error)) Observer[T] {
	return NewObserverWithContext(func(ctx context.Context, value T) {}, onError, func(ctx context.Context) {})
}

// OnComplete is a partial Observer with only the Complete method implemented.
// Warning: this observer silences errors.
func OnComplete[T any](onComplete func()) Observer[T] {
	return NewObserver(func(value T) {}, func(err error) {}, onComplete)
}

// OnCompleteWithContext is a partial Observer with only the Complete method implemented.
// Warning: this observer silences errors.
func OnCompleteWithContext[T any](onComplete func(ctx context.Context)) Observer[T] {
	return NewObserverWithContext(func(ctx context.Context, value T) {}, func(ctx context.Context, err error) {}, onComplete)
}

// NoopObserver is an Observer that does nothing.
// Warning: this observer silences errors.
func NoopObserver[T any]() Observer[T] {
	return NewObserverWithContext(
		func(ctx context.Context, value T) {},
		func(ctx context.Context, err error) {},
		func(ctx context.Context) {},
	)
}

// PrintObserver is a utility Observer that dumps notifications for debugging.
func PrintObserver[T any]() Observer[T] {
	return NewObserverWithContext(
		func(ctx context.Context, value T) {
			fmt.Printf("Next: %v\n", value)
		},
		func(ctx context.Context, err error) {
			fmt.Printf("Error: %s\n", err.Error())
		},
		func(ctx context.Context) {
			fmt.Printf("Completed\n")
		},
	)
}
