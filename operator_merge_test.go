package ro

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMerge(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Merge(Just(1, 2, 3), Just(4, 5), Empty[int]()))
	is.NoError(err)

	sort.Ints(out)
	is.Equal([]int{1, 2, 3, 4, 5}, out)
}

func TestMergeNoSources(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Merge[int]())
	is.NoError(err)
	is.Empty(out)
}

func TestMergePropagatesError(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	boom := assert.AnError
	_, err := Collect(Merge(Just(1), Throw[int](boom)))
	is.ErrorIs(err, boom)
}

func TestConcat(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Concat(Just(1, 2), Just(3, 4), Just(5)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3, 4, 5}, out)
}

func TestConcatForwardsErrorAndContinues(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	boom := assert.AnError
	out, _, err := CollectWithContext(context.Background(), Concat(Just(1, 2), Throw[int](boom), Just(3)))
	is.ErrorIs(err, boom)
	is.Equal([]int{1, 2, 3}, out)
}
