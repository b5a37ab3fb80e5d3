// Package xerrors provides the small error-aggregation helper the rest of
// the module needs when multiple teardown/cancel callbacks fail at once.
package xerrors

import "errors"

// Join aggregates multiple errors into one, dropping nils. It returns nil if
// every argument is nil. This is a thin wrapper over the standard library's
// errors.Join for call sites such as subscription.go.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
