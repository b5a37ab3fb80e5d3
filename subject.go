// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ro

// Subject is both an Observer and a broadcast Observable: values pushed in
// via the Observer half are fanned out to every currently-subscribed
// Observer. It is the concrete realization of a broadcast stream (spec.md
// §3.1's "broadcast?" flag set to true).
type Subject[T any] interface {
	Observer[T]
	Observable[T]

	// AsObserver narrows the Subject to its Observer half, hiding Subscribe.
	AsObserver() Observer[T]
	// AsObservable narrows the Subject to its Observable half, hiding Next/Error/Complete.
	AsObservable() Observable[T]
	// CountObservers reports how many Observers are currently subscribed.
	CountObservers() int
	// HasObserver reports whether at least one Observer is currently subscribed.
	HasObserver() bool
}
