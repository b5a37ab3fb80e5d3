package ro

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/opstream/ro/internal/clock"
)

func TestBufferWithCount(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(BufferWithCount[int](2)(Just(1, 2, 3, 4, 5)))
	is.NoError(err)
	is.Equal([][]int{{1, 2}, {3, 4}, {5}}, out)
}

func TestBufferWithTrigger(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	values := NewPublishSubject[int]()
	trigger := NewPublishSubject[struct{}]()
	var out [][]int
	done := make(chan struct{})

	Buffer[int, struct{}](trigger.AsObservable())(values.AsObservable()).SubscribeWithContext(
		context.Background(),
		NewObserver(
			func(v []int) { out = append(out, v) },
			func(err error) { t.Fatalf("unexpected error: %v", err) },
			func() { close(done) },
		),
	)

	values.Next(1)
	values.Next(2)
	trigger.Next(struct{}{})
	values.Next(3)
	values.Complete()
	trigger.Complete()

	<-done
	// trigger completes while the buffer is waiting for a trigger, so the
	// output closes at once and the pending [3] is never flushed.
	is.Equal([][]int{{1, 2}}, out)
}

func TestSampleWithTime(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	clk := clock.NewFake(time.Unix(0, 0))
	subject := NewPublishSubject[int]()
	var out []int
	done := make(chan struct{})

	sampleWithTimeAndClock[int](clk, time.Second)(subject.AsObservable()).SubscribeWithContext(
		context.Background(),
		NewObserver(
			func(v int) { out = append(out, v) },
			func(err error) { t.Fatalf("unexpected error: %v", err) },
			func() { close(done) },
		),
	)

	subject.Next(1)
	subject.Next(2)
	clk.Advance(time.Second)
	clk.Advance(time.Second)
	subject.Next(3)
	clk.Advance(time.Second)
	subject.Complete()

	<-done
	is.Equal([]int{2, 3}, out)
}
