// Package xsync provides the Mutex abstraction that lets a Subscriber switch
// between a real lock, a no-op lock, and a try-lock without changing its
// call sites. This is what backs the library's ConcurrencyMode knob, which
// is how this module satisfies the "serialize per operator instance"
// requirement on multi-threaded runtimes without forcing every subscriber to
// pay for a mutex it does not need.
package xsync

import "sync"

// Mutex is the minimal locking surface a Subscriber needs.
type Mutex interface {
	Lock()
	Unlock()
	// TryLock attempts to acquire the lock without blocking. It returns
	// false if the lock is already held.
	TryLock() bool
}

// NewMutexWithLock returns a Mutex backed by a real sync.Mutex.
func NewMutexWithLock() Mutex {
	return &realMutex{}
}

// NewMutexWithoutLock returns a Mutex whose Lock/Unlock/TryLock are no-ops.
// Call sites still go through the same method calls as the real mutex; this
// just removes the synchronization cost for single-threaded pipelines that
// accept the risk.
func NewMutexWithoutLock() Mutex {
	return noopMutex{}
}

type realMutex struct {
	mu sync.Mutex
}

func (m *realMutex) Lock()         { m.mu.Lock() }
func (m *realMutex) Unlock()       { m.mu.Unlock() }
func (m *realMutex) TryLock() bool { return m.mu.TryLock() }

type noopMutex struct{}

func (noopMutex) Lock()         {}
func (noopMutex) Unlock()       {}
func (noopMutex) TryLock() bool { return true }
