// Package errs holds the framework's typed RequestError and the small set
// of errors-package wrappers the rest of the module uses for chain
// inspection, kept here so callers never need a direct "errors" import
// alongside "errs".
package errs

import "errors"

// Is reports whether any error in err's chain matches target. Convenience
// wrapper around errors.Is so callers depend only on this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain assignable to target and, if
// found, sets target to it and returns true. Convenience wrapper around
// errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling err's Unwrap method, or nil if it
// has none. Convenience wrapper around errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
