package ro

import (
	"context"
	"os"
	"time"
)

// WatchFile polls a file path at interval and emits its contents as a string
// whenever they change, starting with the contents at subscribe time if the
// file exists. A missing file is skipped rather than treated as an error; any
// other read failure is forwarded as a terminal error.
func WatchFile(path string, interval time.Duration) Observable[string] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[string]) Teardown {
		var last []byte

		if b, err := os.ReadFile(path); err == nil {
			last = b
			destination.NextWithContext(ctx, string(b))
		}

		ticker := time.NewTicker(interval)
		done := make(chan struct{})

		go func() {
			defer destination.CompleteWithContext(ctx)
			for {
				select {
				case <-done:
					return
				case <-ctx.Done():
					return
				case <-ticker.C:
					b, err := os.ReadFile(path)
					if err != nil {
						if !os.IsNotExist(err) {
							destination.ErrorWithContext(ctx, err)
							return
						}
						continue
					}

					if len(b) != len(last) || string(b) != string(last) {
						last = b
						destination.NextWithContext(ctx, string(b))
					}
				}
			}
		}()

		return func() {
			ticker.Stop()
			close(done)
		}
	})
}
