package ro

import (
	"context"
	"sync"
)

// triggerAggregateCore implements the two-input state machine of spec.md
// §4.2, independent of how values/triggers are actually sourced (a second
// Observable, an internal timer, ...). current == nil represents the spec's
// Option<Acc> = None.
type triggerAggregateCore[V, Acc any] struct {
	mu sync.Mutex

	aggregate func(value V, current *Acc) Acc
	longPoll  bool

	current           *Acc
	waitingForTrigger bool
	valuesDone        bool
	triggerDone       bool
	closed            bool

	emit  func(ctx context.Context, acc Acc)
	close func(ctx context.Context)
}

func newTriggerAggregateCore[V, Acc any](
	aggregate func(value V, current *Acc) Acc,
	longPoll bool,
	emit func(ctx context.Context, acc Acc),
	closeFn func(ctx context.Context),
) *triggerAggregateCore[V, Acc] {
	return &triggerAggregateCore[V, Acc]{
		aggregate:         aggregate,
		longPoll:          longPoll,
		waitingForTrigger: true,
		emit:              emit,
		close:             closeFn,
	}
}

func (c *triggerAggregateCore[V, Acc]) PushValue(ctx context.Context, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	next := c.aggregate(v, c.current)
	c.current = &next

	if !c.waitingForTrigger {
		acc := *c.current
		c.current = nil
		c.waitingForTrigger = true
		c.emit(ctx, acc)
		c.maybeCloseLocked(ctx)
	}
}

func (c *triggerAggregateCore[V, Acc]) PushTrigger(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if c.current != nil {
		acc := *c.current
		c.current = nil
		c.waitingForTrigger = true
		c.emit(ctx, acc)
	} else if c.longPoll {
		c.waitingForTrigger = false
	}

	c.maybeCloseLocked(ctx)
}

func (c *triggerAggregateCore[V, Acc]) ValuesDone(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.valuesDone = true
	c.maybeCloseLocked(ctx)
}

func (c *triggerAggregateCore[V, Acc]) TriggerDone(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.triggerDone = true
	c.maybeCloseLocked(ctx)
}

// maybeCloseLocked must be called with mu held.
func (c *triggerAggregateCore[V, Acc]) maybeCloseLocked(ctx context.Context) {
	if c.closed {
		return
	}

	switch {
	case c.valuesDone && c.current == nil:
		c.closed = true
	case c.triggerDone && c.waitingForTrigger:
		c.closed = true
	case c.valuesDone && c.triggerDone:
		if c.current != nil {
			acc := *c.current
			c.current = nil
			c.emit(ctx, acc)
		}
		c.closed = true
	default:
		return
	}

	c.close(ctx)
}

// TriggerAggregate wires a values Observable and a trigger Observable into
// the core state machine, producing an output stream of flushed
// accumulations. Used by buffer (aggregate=append, longPoll=true) and sample
// (aggregate=replace, longPoll configurable).
func TriggerAggregate[V, Trig, Acc any](
	values Observable[V],
	trigger Observable[Trig],
	aggregate func(value V, current *Acc) Acc,
	longPoll bool,
) Observable[Acc] {
	built := NewObservableWithContext(func(ctx context.Context, destination Observer[Acc]) Teardown {
		var valuesSub, triggerSub Subscription

		core := newTriggerAggregateCore[V, Acc](
			aggregate,
			longPoll,
			func(c context.Context, acc Acc) { destination.NextWithContext(c, acc) },
			func(c context.Context) {
				destination.CompleteWithContext(c)
				if valuesSub != nil {
					valuesSub.Unsubscribe()
				}
				if triggerSub != nil {
					triggerSub.Unsubscribe()
				}
			},
		)

		errOnce := newErrorForwarder(destination)

		valuesSub = values.SubscribeWithContext(ctx, NewObserverWithContext(
			func(c context.Context, v V) { core.PushValue(c, v) },
			errOnce.forward,
			func(c context.Context) { core.ValuesDone(c) },
		))

		triggerSub = trigger.SubscribeWithContext(ctx, NewObserverWithContext(
			func(c context.Context, _ Trig) { core.PushTrigger(c) },
			errOnce.forward,
			func(c context.Context) { core.TriggerDone(c) },
		))

		return func() {
			valuesSub.Unsubscribe()
			triggerSub.Unsubscribe()
		}
	})

	return shareIfBroadcast(values.IsBroadcast(), built)
}

// errorForwarder forwards errors from one or more upstream subscriptions to
// a single destination without special-casing which upstream they came from
// (spec.md §7: "errors from either input forward immediately").
type errorForwarder[R any] struct {
	destination Observer[R]
}

func newErrorForwarder[R any](destination Observer[R]) *errorForwarder[R] {
	return &errorForwarder[R]{destination: destination}
}

func (f *errorForwarder[R]) forward(ctx context.Context, err error) {
	f.destination.ErrorWithContext(ctx, err)
}
