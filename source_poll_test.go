package ro

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// WatchFile is a real-clock source (no clock.Clock hook), so it is
// exercised here through Debounce rather than via the fake-clock operator
// tests: two rapid writes inside the debounce window must coalesce into
// the single, final value instead of both passing through.
func TestWatchFileThroughDebounceCoalescesRapidWrites(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "watched.txt")
	is.NoError(os.WriteFile(path, []byte("v1"), 0o644))

	var mu sync.Mutex
	var out []string
	seen := make(chan struct{}, 1)

	sub := Debounce[string](50*time.Millisecond, false, true)(WatchFile(path, 5*time.Millisecond)).SubscribeWithContext(
		context.Background(),
		NewObserver(
			func(v string) {
				mu.Lock()
				out = append(out, v)
				mu.Unlock()
				select {
				case seen <- struct{}{}:
				default:
				}
			},
			func(error) {},
			func() {},
		),
	)
	defer sub.Unsubscribe()

	is.NoError(os.WriteFile(path, []byte("v2"), 0o644))
	time.Sleep(10 * time.Millisecond)
	is.NoError(os.WriteFile(path, []byte("v3"), 0o644))

	select {
	case <-seen:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced value")
	}

	mu.Lock()
	defer mu.Unlock()
	is.Equal([]string{"v3"}, out)
}

func TestWatchFileSkipsMissingFileThenPicksUpContents(t *testing.T) {
	defer goleak.VerifyNone(t)
	is := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "appears-later.txt")

	valueCh := make(chan string, 1)
	sub := WatchFile(path, 5*time.Millisecond).SubscribeWithContext(
		context.Background(),
		NewObserver(
			func(v string) {
				select {
				case valueCh <- v:
				default:
				}
			},
			func(error) {},
			func() {},
		),
	)
	defer sub.Unsubscribe()

	time.Sleep(15 * time.Millisecond)
	is.NoError(os.WriteFile(path, []byte("hello"), 0o644))

	select {
	case v := <-valueCh:
		is.Equal("hello", v)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for WatchFile to pick up the new file")
	}
}
