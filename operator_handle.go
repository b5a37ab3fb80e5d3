package ro

import "context"

// DataHandler, ErrorHandler and DoneHandler are the three pluggable handlers
// of the Handler Transformer primitive (spec.md §4.1): each receives the
// corresponding source event plus the output sink, and decides what (if
// anything) to write to it.
type DataHandler[T, R any] func(ctx context.Context, value T, sink Observer[R])
type ErrorHandler[R any] func(ctx context.Context, err error, sink Observer[R])
type DoneHandler[R any] func(ctx context.Context, sink Observer[R])

// ForwardError is the default ErrorHandler: forward the error verbatim.
func ForwardError[R any](ctx context.Context, err error, sink Observer[R]) {
	sink.ErrorWithContext(ctx, err)
}

// ForwardDone is the default DoneHandler: forward completion verbatim.
func ForwardDone[R any](ctx context.Context, sink Observer[R]) {
	sink.CompleteWithContext(ctx)
}

// Handle binds three handlers to source, producing an output whose
// broadcast-ness mirrors source (spec.md §4.1): when source is broadcast,
// shareIfBroadcast wraps the built Observable in Share so a single source
// event invokes onData/onError/onDone exactly once no matter how many
// listeners subscribe, instead of re-running the producer (and re-invoking
// the handlers) once per listener. A nil onError or onDone is replaced by
// ForwardError or ForwardDone. The operators in this package implement the
// same single-subscription shape directly rather than calling Handle.
func Handle[T, R any](source Observable[T], onData DataHandler[T, R], onError ErrorHandler[R], onDone DoneHandler[R]) Observable[R] {
	if onError == nil {
		onError = ForwardError[R]
	}
	if onDone == nil {
		onDone = ForwardDone[R]
	}

	built := NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
		sub := source.SubscribeWithContext(
			ctx,
			NewObserverWithContext(
				func(c context.Context, v T) { onData(c, v, destination) },
				func(c context.Context, err error) { onError(c, err, destination) },
				func(c context.Context) { onDone(c, destination) },
			),
		)

		return sub.Unsubscribe
	})

	return shareIfBroadcast(source.IsBroadcast(), built)
}
