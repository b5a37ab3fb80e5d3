package ro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestSubscriberErrorIsNonTerminal(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	var values []int
	var errs []error
	completed := false

	observer := NewObserver(
		func(v int) { values = append(values, v) },
		func(err error) { errs = append(errs, err) },
		func() { completed = true },
	)

	sub := NewSubscriber[int](observer)

	boom := assert.AnError
	sub.Error(boom)

	is.False(sub.IsClosed())
	is.True(sub.HasThrown())
	is.False(sub.IsCompleted())

	// The subscriber must still deliver events after an error: it is not
	// a terminal event per spec.md §3.1/§7.
	sub.Next(1)
	sub.Next(2)
	is.Equal([]int{1, 2}, values)
	is.Equal([]error{boom}, errs)

	sub.Complete()
	is.True(completed)
	is.True(sub.IsClosed())

	// Closed now: further notifications are dropped.
	sub.Next(3)
	is.Equal([]int{1, 2}, values)
}

func TestSubscriberUnsubscribeClosesWithoutError(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	observer := NewObserver(func(int) {}, func(error) {}, func() {})
	sub := NewSubscriber[int](observer)

	sub.Unsubscribe()
	is.True(sub.IsClosed())
	is.False(sub.HasThrown())
	is.True(sub.IsCompleted())
}
