package ro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestPipeChaining(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	double := Map(func(v int) int { return v * 2 })
	odd := Filter(func(v int) bool { return v%2 != 0 })
	toString := Map(func(v int) string {
		if v < 5 {
			return "small"
		}
		return "big"
	})

	out1, err := Collect(Pipe1(Just(1, 2, 3), double))
	is.NoError(err)
	is.Equal([]int{2, 4, 6}, out1)

	out2, err := Collect(Pipe2(Just(1, 2, 3, 4), double, odd))
	is.NoError(err)
	is.Empty(out2)

	out3, err := Collect(Pipe3(Just(1, 2, 3), double, Map(func(v int) int { return v + 1 }), toString))
	is.NoError(err)
	is.Equal([]string{"small", "small", "big"}, out3)
}
