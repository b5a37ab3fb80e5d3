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

import (
	"context"
	"math"

	"github.com/samber/lo"

	"github.com/opstream/ro/internal/constraints"
)

// Reduce applies an accumulator function over source and emits the result
// when source completes, starting from seed.
func Reduce[T, R any](accumulator func(agg R, item T) R, seed R) Operator[T, R] {
	return ReduceIWithContext(func(ctx context.Context, agg R, item T, _ int64) (context.Context, R) {
		return ctx, accumulator(agg, item)
	}, seed)
}

func ReduceWithContext[T, R any](accumulator func(ctx context.Context, agg R, item T) (context.Context, R), seed R) Operator[T, R] {
	return ReduceIWithContext(func(ctx context.Context, agg R, item T, _ int64) (context.Context, R) {
		return accumulator(ctx, agg, item)
	}, seed)
}

func ReduceI[T, R any](accumulator func(agg R, item T, index int64) R, seed R) Operator[T, R] {
	return ReduceIWithContext(func(ctx context.Context, agg R, item T, index int64) (context.Context, R) {
		return ctx, accumulator(agg, item, index)
	}, seed)
}

func ReduceIWithContext[T, R any](accumulator func(ctx context.Context, agg R, item T, index int64) (context.Context, R), seed R) Operator[T, R] {
	return func(source Observable[T]) Observable[R] {
		built := NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[R]) Teardown {
			output := seed

			var lastCtx context.Context

			i := int64(0)

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						lastCtx, output = accumulator(ctx, output, value, i)
						i++
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						if i == 0 {
							destination.NextWithContext(ctx, output)
						} else {
							destination.NextWithContext(lastCtx, output)
						}

						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// Fold is Reduce by another name: it exists so callers can spell out
// spec.md §8's testable property — scan(initial, combine) followed by last
// equals fold(initial, combine) — without reaching for Reduce's arg order.
func Fold[T, R any](seed R, combine func(agg R, item T) R) Operator[T, R] {
	return Reduce(combine, seed)
}

// Average emits the mean of every value on source, or NaN if source was empty.
func Average[T constraints.Numeric]() Operator[T, float64] {
	return func(source Observable[T]) Observable[float64] {
		built := NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[float64]) Teardown {
			sum := float64(0)
			count := int64(0)

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						sum += float64(value)
						count++
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						if count == 0 {
							destination.NextWithContext(ctx, math.NaN())
							destination.CompleteWithContext(ctx)
							return
						}

						destination.NextWithContext(ctx, sum/float64(count))
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// Count emits the number of values on source when it completes.
func Count[T any]() Operator[T, int64] {
	return func(source Observable[T]) Observable[int64] {
		built := NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[int64]) Teardown {
			count := int64(0)

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						count++
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						destination.NextWithContext(ctx, count)
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// Sum emits the sum of every value on source when it completes.
func Sum[T constraints.Numeric]() Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			var sum T

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						sum += value
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						destination.NextWithContext(ctx, sum)
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// Min emits the smallest value on source when it completes. An empty source
// produces no value, only completion.
func Min[T constraints.Numeric]() Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			var mIn lo.Tuple2[context.Context, T]

			first := true

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if first || value < mIn.B {
							mIn = lo.T2(ctx, value)
							first = false
						}
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						if !first {
							destination.NextWithContext(mIn.A, mIn.B)
						}

						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}

// Max emits the largest value on source when it completes. An empty source
// produces no value, only completion.
func Max[T constraints.Numeric]() Operator[T, T] {
	return func(source Observable[T]) Observable[T] {
		built := NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			var mAx lo.Tuple2[context.Context, T]

			first := true

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if first || value > mAx.B {
							mAx = lo.T2(ctx, value)
							first = false
						}
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						if !first {
							destination.NextWithContext(mAx.A, mAx.B)
						}

						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})

		return shareIfBroadcast(source.IsBroadcast(), built)
	}
}
