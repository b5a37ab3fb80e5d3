package ro

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestJust(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Just(1, 2, 3))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, out)
}

func TestEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Empty[int]())
	is.NoError(err)
	is.Empty(out)
}

func TestThrow(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	boom := assert.AnError
	out, err := Collect(Throw[int](boom))
	is.ErrorIs(err, boom)
	is.Empty(out)
}

func TestNeverNeverCompletes(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	out, _, err := CollectWithContext(ctx, Never[int]())
	is.ErrorIs(err, context.DeadlineExceeded)
	is.Empty(out)
}

func TestFromSlice(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(FromSlice([]int{4, 5, 6}))
	is.NoError(err)
	is.Equal([]int{4, 5, 6}, out)
}

func TestFromChannel(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)

	out, err := Collect(FromChannel(ch))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, out)
}

func TestFromChannelTeardownStopsReading(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := make(chan int)
	sub := FromChannel(ch).SubscribeWithContext(context.Background(), NewObserver(
		func(int) {}, func(error) {}, func() {},
	))

	sub.Unsubscribe()
	close(ch)
}
