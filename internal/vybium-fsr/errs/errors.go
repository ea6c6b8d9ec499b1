package errs

import (
	"errors"
	"fmt"
)

// Code classifies a ProveError.
type Code int

const (
	// CodeRetryNeeded means a bounded search found no accepting candidate.
	// The caller may retry with fresh randomness; this is not a protocol failure.
	CodeRetryNeeded Code = iota

	// CodeMalformed means a structural precondition was violated: wrong phase,
	// wrong count, truncated bytes. Not retryable.
	CodeMalformed

	// CodeUnsoundParams means the chosen parameters do not meet the soundness
	// bound and must be fixed by the protocol designer.
	CodeUnsoundParams
)

func (c Code) String() string {
	switch c {
	case CodeRetryNeeded:
		return "retry needed"
	case CodeMalformed:
		return "malformed"
	case CodeUnsoundParams:
		return "unsound params"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// ProveError is the error shared by the FS and Fischlin runtimes.
type ProveError struct {
	Code   Code
	Reason string
	Cause  error
}

// Error returns the error message
func (e *ProveError) Error() string {
	msg := e.Code.String()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the cause of the error
func (e *ProveError) Unwrap() error {
	return e.Cause
}

// Is reports a match on Code, so errors.Is(err, ErrMalformed) holds for any
// malformed error regardless of reason.
func (e *ProveError) Is(target error) bool {
	t, ok := target.(*ProveError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	// ErrRetryNeeded is returned when a search space was exhausted.
	ErrRetryNeeded = &ProveError{Code: CodeRetryNeeded}
	// ErrMalformed matches every malformed-input error.
	ErrMalformed = &ProveError{Code: CodeMalformed}
	// ErrUnsoundParams matches every parameter-soundness error.
	ErrUnsoundParams = &ProveError{Code: CodeUnsoundParams}
)

// Malformed builds a CodeMalformed error.
func Malformed(reason string) error {
	return &ProveError{Code: CodeMalformed, Reason: reason}
}

// Malformedf builds a CodeMalformed error with a formatted reason.
func Malformedf(format string, args ...any) error {
	return &ProveError{Code: CodeMalformed, Reason: fmt.Sprintf(format, args...)}
}

// UnsoundParams builds a CodeUnsoundParams error.
func UnsoundParams(reason string) error {
	return &ProveError{Code: CodeUnsoundParams, Reason: reason}
}

// UnsoundParamsf builds a CodeUnsoundParams error with a formatted reason.
func UnsoundParamsf(format string, args ...any) error {
	return &ProveError{Code: CodeUnsoundParams, Reason: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a coded error.
func Wrap(code Code, reason string, cause error) error {
	return &ProveError{Code: code, Reason: reason, Cause: cause}
}

// IsRetry reports whether err asks for a fresh attempt.
func IsRetry(err error) bool {
	return errors.Is(err, ErrRetryNeeded)
}

// CodeOf extracts the Code of err. The second result is false when err does
// not carry a ProveError.
func CodeOf(err error) (Code, bool) {
	var pe *ProveError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}
