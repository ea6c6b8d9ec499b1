package fischlin

import (
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
)

// RetryHook observes an attempt that ended in RetryNeeded.
type RetryHook func(attempt int, err error)

// SearchWithRetry runs tryOnce against o until it succeeds, for at most
// retries attempts (at least one). A RetryNeeded error starts a new attempt,
// which is expected to draw fresh randomness; any other error is returned
// at once. If every attempt needs a retry the last RetryNeeded error is
// returned.
func SearchWithRetry(o *Oracle, retries int, tryOnce func(o *Oracle) (*Proof, error), hook RetryHook) (*Proof, error) {
	if retries < 1 {
		retries = 1
	}
	var last error
	for attempt := 0; attempt < retries; attempt++ {
		p, err := tryOnce(o)
		switch {
		case err == nil:
			metrics.RetryAttempts.WithLabelValues("ok").Inc()
			return p, nil
		case errs.IsRetry(err):
			metrics.RetryAttempts.WithLabelValues("retry").Inc()
			if hook != nil {
				hook(attempt, err)
			}
			last = err
		default:
			metrics.RetryAttempts.WithLabelValues("error").Inc()
			return nil, err
		}
	}
	return nil, last
}
