package ro

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// Map's output mirrors a broadcast source (spec.md §3.2/§4.1): two listeners
// on the same Map(fn)(subject) see fn invoked once per upstream value, not
// once per listener, and the built Observable itself reports broadcast.
func TestMapOverBroadcastSourceRunsFnOncePerUpstreamValue(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	subject := NewPublishSubject[int]()

	var calls int32
	mapped := Map(func(v int) int {
		atomic.AddInt32(&calls, 1)
		return v * 2
	})(subject.AsObservable())

	is.True(mapped.IsBroadcast())

	var mu sync.Mutex
	var a, b []int

	mapped.SubscribeWithContext(context.Background(), NewObserver(
		func(v int) { mu.Lock(); a = append(a, v); mu.Unlock() },
		func(error) {},
		func() {},
	))
	mapped.SubscribeWithContext(context.Background(), NewObserver(
		func(v int) { mu.Lock(); b = append(b, v); mu.Unlock() },
		func(error) {},
		func() {},
	))

	subject.Next(1)
	subject.Next(2)
	subject.Complete()

	mu.Lock()
	defer mu.Unlock()
	is.Equal([]int{2, 4}, a)
	is.Equal([]int{2, 4}, b)
	is.EqualValues(2, atomic.LoadInt32(&calls))
}

// A cold, non-broadcast source keeps its per-Subscribe re-execution
// semantics through an operator: each listener gets its own run.
func TestMapOverColdSourceRunsFnOncePerListener(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	mapped := Map(func(v int) int { return v * 2 })(Just(1, 2))
	is.False(mapped.IsBroadcast())

	a, errA := Collect(mapped)
	b, errB := Collect(mapped)
	is.NoError(errA)
	is.NoError(errB)
	is.Equal([]int{2, 4}, a)
	is.Equal([]int{2, 4}, b)
}

func TestShareMultiplexesSingleUpstreamSubscription(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	var subscribeCount int32
	source := NewObservableWithContext(func(ctx context.Context, destination Observer[int]) Teardown {
		atomic.AddInt32(&subscribeCount, 1)
		destination.NextWithContext(ctx, 1)
		destination.NextWithContext(ctx, 2)
		destination.CompleteWithContext(ctx)
		return nil
	})

	shared := Share[int](source)
	is.True(shared.IsBroadcast())

	a, errA := Collect(shared)
	is.NoError(errA)
	is.Equal([]int{1, 2}, a)

	// The source completed during the first Collect, so the shared subject
	// stays completed: a later listener receives only the completion and
	// the upstream is not subscribed again.
	b, errB := Collect(shared)
	is.NoError(errB)
	is.Empty(b)

	is.EqualValues(1, atomic.LoadInt32(&subscribeCount))
}

func TestShareTornDownMidStreamRestartsUpstreamOnNextSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	var subscribeCount int32
	source := NewObservableWithContext(func(ctx context.Context, destination Observer[int]) Teardown {
		atomic.AddInt32(&subscribeCount, 1)
		return nil
	})

	shared := Share[int](source)

	sub1 := shared.Subscribe(NewObserver(func(int) {}, func(error) {}, func() {}))
	sub1.Unsubscribe()

	sub2 := shared.Subscribe(NewObserver(func(int) {}, func(error) {}, func() {}))
	sub2.Unsubscribe()

	is.EqualValues(2, atomic.LoadInt32(&subscribeCount))
}
