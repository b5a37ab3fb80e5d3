package ro

import "github.com/opstream/ro/internal/clock"

// realClock returns the default, wall-clock-backed Clock every rate-limit
// operator constructor uses unless a test substitutes internal/clock.Fake
// through the *WithClock variant.
func realClock() clock.Clock {
	return clock.Real{}
}
