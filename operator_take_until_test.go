package ro

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestTakeUntil(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	source := NewPublishSubject[int]()
	notifier := NewPublishSubject[struct{}]()
	var out []int
	done := make(chan struct{})

	TakeUntil[int, struct{}](notifier.AsObservable())(source.AsObservable()).SubscribeWithContext(
		context.Background(),
		NewObserver(
			func(v int) { out = append(out, v) },
			func(err error) { t.Fatalf("unexpected error: %v", err) },
			func() { close(done) },
		),
	)

	source.Next(1)
	source.Next(2)
	notifier.Next(struct{}{})
	source.Next(3)

	<-done
	is.Equal([]int{1, 2}, out)
}

func TestTakeUntilCompletesWhenSourceCompletesFirst(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	out, err := Collect(TakeUntil[int, struct{}](Never[struct{}]())(Just(1, 2, 3)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, out)
}
