// Package apperrors provides a small error-chaining system with status
// codes. Errors created from a base error remain matchable with errors.Is,
// which lets callers classify failures by taxonomy (validation, transport)
// while surfacing operation-specific messages.
package apperrors

// Error defines the interface for application errors. It extends the
// standard error interface with error wrapping and status code management.
// All methods return Error to support method chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error    // creates a new error using current as template
	Err(err ...error) Error  // attaches additional errors to current error
	SetStatusCode(int) Error // sets HTTP status code for the error
	StatusCode() int         // returns the current status code
}
