package clock

import (
	"container/heap"
	"sync"
	"time"
)

// Fake is a manually-advanced Clock for deterministic operator tests. Timers
// fire synchronously, in schedule order, from within Advance, instead of on
// a background goroutine, so tests can assert the exact sequence of events a
// rate-limit operator produces without any sleeping or flakiness.
type Fake struct {
	mu  sync.Mutex
	now time.Time
	seq uint64
	pq  fakeTimerHeap
}

// NewFake creates a Fake clock starting at the given time.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

var _ Clock = (*Fake)(nil)

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	t := &fakeTimer{at: f.now.Add(d), seq: f.seq, fn: fn, clock: f}
	heap.Push(&f.pq, t)

	return t
}

// Advance moves the clock forward by d, firing (synchronously, in timer
// order) every timer whose deadline falls at or before the new time.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	var due []*fakeTimer
	for f.pq.Len() > 0 && f.pq[0].at.Compare(target) <= 0 {
		t := heap.Pop(&f.pq).(*fakeTimer)
		if t.stopped {
			continue
		}
		t.stopped = true
		due = append(due, t)
	}
	f.now = target
	f.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

type fakeTimer struct {
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
	clock   *Fake
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

type fakeTimerHeap []*fakeTimer

func (h fakeTimerHeap) Len() int { return len(h) }
func (h fakeTimerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h fakeTimerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *fakeTimerHeap) Push(x any)   { *h = append(*h, x.(*fakeTimer)) }
func (h *fakeTimerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
