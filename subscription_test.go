package ro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestSubscriptionAddRunsTeardownOnUnsubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	ran := false
	sub := NewSubscription(nil)
	sub.Add(func() { ran = true })

	is.False(ran)
	sub.Unsubscribe()
	is.True(ran)
	is.True(sub.IsClosed())
}

func TestSubscriptionAddAfterDisposeRunsImmediately(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	sub := NewSubscription(nil)
	sub.Unsubscribe()

	ran := false
	sub.Add(func() { ran = true })
	is.True(ran)
}

func TestSubscriptionUnsubscribeIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	count := 0
	sub := NewSubscription(func() { count++ })

	sub.Unsubscribe()
	sub.Unsubscribe()
	is.Equal(1, count)
}

func TestSubscriptionPauseResumeAreNoOpWithoutHooks(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	sub := NewSubscription(nil)
	is.False(sub.IsPaused())

	sub.Pause()
	is.True(sub.IsPaused())

	sub.Resume()
	is.False(sub.IsPaused())
}

func TestSubscriptionPauseResumeInvokeHooks(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	paused, resumed := false, false
	sub := NewSubscriptionWithPause(nil, func() { paused = true }, func() { resumed = true })

	sub.Pause()
	is.True(paused)
	is.True(sub.IsPaused())

	sub.Resume()
	is.True(resumed)
	is.False(sub.IsPaused())
}

func TestSubscriptionWait(t *testing.T) {
	defer goleak.VerifyNone(t)

	sub := NewSubscription(nil)

	go sub.Unsubscribe()
	sub.Wait()
}
