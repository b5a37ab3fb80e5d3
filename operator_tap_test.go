package ro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestTapObservesWithoutChangingValues(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	var seen []int
	completed := false

	out, err := Collect(Tap[int](
		func(v int) { seen = append(seen, v) },
		func(error) {},
		func() { completed = true },
	)(Just(1, 2, 3)))

	is.NoError(err)
	is.Equal([]int{1, 2, 3}, out)
	is.Equal([]int{1, 2, 3}, seen)
	is.True(completed)
}

func TestTapOnErrorSeesError(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	boom := assert.AnError
	var seen error

	_, err := Collect(Tap[int](
		func(int) {},
		func(e error) { seen = e },
		func() {},
	)(Throw[int](boom)))

	is.ErrorIs(err, boom)
	is.ErrorIs(seen, boom)
}

func TestTapSwallowsPanicsInCallbacks(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Tap[int](
		func(int) { panic("boom") },
		func(error) {},
		func() {},
	)(Just(1, 2)))

	is.NoError(err)
	is.Equal([]int{1, 2}, out)
}

func TestDoOnNextDoOnErrorDoOnComplete(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	var next []int
	out, err := Collect(DoOnNext(func(v int) { next = append(next, v) })(Just(1, 2)))
	is.NoError(err)
	is.Equal([]int{1, 2}, out)
	is.Equal([]int{1, 2}, next)

	var gotErr error
	boom := assert.AnError
	_, err = Collect(DoOnError[int](func(e error) { gotErr = e })(Throw[int](boom)))
	is.ErrorIs(err, boom)
	is.ErrorIs(gotErr, boom)

	completed := false
	_, err = Collect(DoOnComplete[int](func() { completed = true })(Just(1)))
	is.NoError(err)
	is.True(completed)
}
