// Package exitcode defines exit codes shared by faunatodo and faunatodod.
package exitcode

import "errors"

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task number).
	UserError = 1

	// AuthError indicates an auth or configuration error.
	AuthError = 2

	// BackendError indicates a proxy, Fauna or network error.
	BackendError = 3
)

// Error attaches an exit code to an error.
type Error struct {
	Code int
	Err  error
}

// New wraps err with code.
func New(code int, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Code returns the exit code for err: Success for nil, the code carried by
// an *Error in the chain, BackendError otherwise.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return BackendError
}
