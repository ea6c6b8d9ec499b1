package vybiumfsr

import "github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"

// ErrorCode classifies a proving failure
type ErrorCode = errs.Code

const (
	// CodeRetryNeeded means a search space held no accepting challenge
	CodeRetryNeeded = errs.CodeRetryNeeded

	// CodeMalformed means an input or call sequence was invalid
	CodeMalformed = errs.CodeMalformed

	// CodeUnsoundParams means the parameters miss the soundness target
	CodeUnsoundParams = errs.CodeUnsoundParams
)

// ProveError is the error type returned by provers
type ProveError = errs.ProveError

// Sentinels for errors.Is
var (
	ErrRetryNeeded   = errs.ErrRetryNeeded
	ErrMalformed     = errs.ErrMalformed
	ErrUnsoundParams = errs.ErrUnsoundParams
)

// IsRetry reports whether err asks the caller to restart with fresh randomness
func IsRetry(err error) bool {
	return errs.IsRetry(err)
}
