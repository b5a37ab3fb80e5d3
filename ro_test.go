package ro

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestNotificationString(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	is.Equal("Next(1)", NewNotificationNext(1).String())
	is.Equal("Complete()", NewNotificationComplete[int]().String())

	boom := assert.AnError
	is.Equal("Error("+boom.Error()+")", NewNotificationError[int](boom).String())
}

func TestSetOnUnhandledErrorInstallsHandler(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	defer SetOnUnhandledError(nil)

	var captured error
	SetOnUnhandledError(func(ctx context.Context, err error) { captured = err })

	OnUnhandledError(context.Background(), assert.AnError)
	is.ErrorIs(captured, assert.AnError)
}

func TestOnDroppedNotificationFiresForPostCompleteNext(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	defer SetOnDroppedNotification(nil)

	var dropped []string
	SetOnDroppedNotification(func(ctx context.Context, n fmt.Stringer) {
		dropped = append(dropped, n.String())
	})

	subject := NewPublishSubject[int]()
	subject.Complete()
	subject.Next(1) // dropped: already completed

	is.Equal([]string{"Next(1)"}, dropped)
}

func TestObserverCapturesPanicFromOnNext(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	var gotErr error
	observer := NewObserver(
		func(int) { panic("boom") },
		func(err error) { gotErr = err },
		func() {},
	)

	observer.Next(1)
	is.Error(gotErr)
}

func TestUnsafeObserverPropagatesPanic(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	observer := NewUnsafeObserver(
		func(int) { panic("boom") },
		func(error) {},
		func() {},
	)

	is.Panics(func() { observer.Next(1) })
}
