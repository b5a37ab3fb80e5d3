package ro

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestTriggerAggregateFlushesOnEachTrigger(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	values := NewPublishSubject[int]()
	trigger := NewPublishSubject[struct{}]()

	appendAgg := func(v int, current *[]int) []int {
		if current == nil {
			return []int{v}
		}
		return append(*current, v)
	}

	out, err := func() ([][]int, error) {
		resultCh := make(chan [][]int, 1)
		errCh := make(chan error, 1)

		go func() {
			o, e := Collect(TriggerAggregate[int, struct{}, []int](
				values.AsObservable(), trigger.AsObservable(), appendAgg, true,
			))
			resultCh <- o
			errCh <- e
		}()

		// PublishSubject has no replay: wait until both inputs are subscribed.
		for !values.HasObserver() || !trigger.HasObserver() {
			runtime.Gosched()
		}

		values.Next(1)
		values.Next(2)
		trigger.Next(struct{}{})
		values.Next(3)
		trigger.Next(struct{}{})
		values.Complete()
		trigger.Complete()

		return <-resultCh, <-errCh
	}()

	is.NoError(err)
	is.Equal([][]int{{1, 2}, {3}}, out)
}

func TestTriggerAggregateLongPollEmitsOnEmptyTrigger(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	values := NewPublishSubject[int]()
	trigger := NewPublishSubject[struct{}]()

	replaceAgg := func(v int, _ *int) int { return v }

	resultCh := make(chan []int, 1)
	errCh := make(chan error, 1)

	go func() {
		o, e := Collect(TriggerAggregate[int, struct{}, int](
			values.AsObservable(), trigger.AsObservable(), replaceAgg, true,
		))
		resultCh <- o
		errCh <- e
	}()

	// PublishSubject has no replay: wait until both inputs are subscribed.
	for !values.HasObserver() || !trigger.HasObserver() {
		runtime.Gosched()
	}

	// trigger fires before any value arrives: with longPoll=true, this
	// just disarms waitingForTrigger so the very next value is forwarded
	// immediately instead of waiting for a second trigger.
	trigger.Next(struct{}{})
	values.Next(10)
	values.Complete()
	trigger.Complete()

	is.Equal([]int{10}, <-resultCh)
	is.NoError(<-errCh)
}
