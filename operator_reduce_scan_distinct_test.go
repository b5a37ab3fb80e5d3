package ro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestReduceAndFoldAgree(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	sum := func(acc, v int) int { return acc + v }

	reduced, err := Collect(Reduce(sum, 0)(Just(1, 2, 3, 4)))
	is.NoError(err)

	folded, err := Collect(Fold(0, sum)(Just(1, 2, 3, 4)))
	is.NoError(err)

	is.Equal(reduced, folded)
	is.Equal([]int{10}, reduced)
}

func TestScanThenLastEqualsFold(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	sum := func(acc, v int) int { return acc + v }

	scanned, err := Collect(Scan(0, sum)(Just(1, 2, 3, 4)))
	is.NoError(err)
	is.Equal([]int{1, 3, 6, 10}, scanned)

	folded, err := Collect(Fold(0, sum)(Just(1, 2, 3, 4)))
	is.NoError(err)
	is.Equal(scanned[len(scanned)-1], folded[0])
}

func TestSumCountAverageMinMax(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	sum, err := Collect(Sum[int]()(Just(1, 2, 3, 4)))
	is.NoError(err)
	is.Equal([]int{10}, sum)

	count, err := Collect(Count[int]()(Just(1, 2, 3, 4)))
	is.NoError(err)
	is.Equal([]int64{4}, count)

	avg, err := Collect(Average[int]()(Just(1, 2, 3, 4)))
	is.NoError(err)
	is.Equal([]float64{2.5}, avg)

	min, err := Collect(Min[int]()(Just(3, 1, 4, 1, 5)))
	is.NoError(err)
	is.Equal([]int{1}, min)

	max, err := Collect(Max[int]()(Just(3, 1, 4, 1, 5)))
	is.NoError(err)
	is.Equal([]int{5}, max)
}

func TestMinMaxEmptySourceProducesNoValue(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	min, err := Collect(Min[int]()(Empty[int]()))
	is.NoError(err)
	is.Empty(min)

	max, err := Collect(Max[int]()(Empty[int]()))
	is.NoError(err)
	is.Empty(max)
}

func TestDistinct(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(Distinct[int]()(Just(1, 1, 2, 2, 1, 3)))
	is.NoError(err)
	is.Equal([]int{1, 2, 1, 3}, out)
}

func TestDistinctBy(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(DistinctBy(func(v int) int { return v % 3 })(Just(1, 4, 2, 5, 7)))
	is.NoError(err)
	is.Equal([]int{1, 2, 7}, out)
}
