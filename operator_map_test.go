package ro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMap(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Map(func(v int) int { return v * v })(Just(1, 2, 3)))
	is.NoError(err)
	is.Equal([]int{1, 4, 9}, out)
}

func TestFilter(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Filter(func(v int) bool { return v%2 == 0 })(Just(1, 2, 3, 4, 5)))
	is.NoError(err)
	is.Equal([]int{2, 4}, out)
}

func TestWhereType(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	asEven := func(v int) (int, bool) {
		if v%2 == 0 {
			return v, true
		}
		return 0, false
	}

	out, err := Collect(WhereType[int, int](asEven)(Just(1, 2, 3, 4)))
	is.NoError(err)
	is.Equal([]int{2, 4}, out)
}

func TestTake(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Take[int](3)(Just(1, 2, 3, 4, 5)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, out)
}

func TestTakeZeroCompletesImmediately(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Take[int](0)(Just(1, 2, 3)))
	is.NoError(err)
	is.Empty(out)
}

func TestTakeMoreThanAvailable(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Take[int](10)(Just(1, 2, 3)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, out)
}

func TestSkip(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Skip[int](2)(Just(1, 2, 3, 4, 5)))
	is.NoError(err)
	is.Equal([]int{3, 4, 5}, out)
}
