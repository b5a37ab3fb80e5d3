package ro

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestCombineLatest(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	a := make(chan int)
	b := make(chan int)
	source := FromChannel(a)
	other := FromChannel(b)

	var mu sync.Mutex
	var out []int
	done := make(chan struct{})

	sub := CombineLatest[int, int, int](other, func(x, y int) int { return x + y })(source).SubscribeWithContext(
		context.Background(),
		NewObserver(
			func(v int) {
				mu.Lock()
				out = append(out, v)
				mu.Unlock()
			},
			func(err error) { t.Fatalf("unexpected error: %v", err) },
			func() { close(done) },
		),
	)
	defer sub.Unsubscribe()

	a <- 1
	time.Sleep(10 * time.Millisecond)
	b <- 10
	time.Sleep(10 * time.Millisecond)
	a <- 2
	time.Sleep(10 * time.Millisecond)
	close(a)
	close(b)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for completion")
	}

	mu.Lock()
	defer mu.Unlock()
	is.Equal([]int{11, 12}, out)
}

func TestCombineLatestAll(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(CombineLatestAll(Just(4), Just(5))(Just(1, 2, 3)))
	is.NoError(err)
	is.NotEmpty(out)
	last := out[len(out)-1]
	is.Equal([]int{3, 4, 5}, last)
}

func TestCombineLatestClosesWithoutEmittingWhenOneSideNeverEmits(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(CombineLatest[int, int, int](Empty[int](), func(a, b int) int { return a + b })(Just(1, 2, 3)))
	is.NoError(err)
	is.Empty(out)
}
