// Package metrics holds the prometheus collectors for proving and
// verification.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the namespace every collector is registered under.
	Namespace = "vybium_fsr"

	TransformFS       = "fs"
	TransformFischlin = "fischlin"
	TransformSpec     = "proofspec"
)

var registry = prometheus.NewRegistry()

// Registry returns the registry holding every collector in this package.
func Registry() *prometheus.Registry {
	return registry
}

// NewCounter creates a CounterVec on the package registry.
func NewCounter(name, subsystem, help string, labels []string) *prometheus.CounterVec {
	return promauto.With(registry).NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

// NewHistogramWithBuckets creates a HistogramVec with custom buckets on the package registry.
func NewHistogramWithBuckets(name, subsystem, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets}, labels)
}

var (
	// PredicateTrials counts Fischlin predicate evaluations made while searching.
	PredicateTrials = NewCounter("predicate_trials_total", "fischlin", "Predicate evaluations during search", []string{"mode"})
	// SearchExhausted counts repetitions whose search space held no accepting challenge.
	SearchExhausted = NewCounter("search_exhausted_total", "fischlin", "Repetition searches that found no accepting challenge", nil)
	// RetryAttempts counts whole-proof attempts made by the retry harness.
	RetryAttempts = NewCounter("retry_attempts_total", "fischlin", "Whole-proof attempts", []string{"outcome"})
	// Verifications counts verifier outcomes per transform.
	Verifications = NewCounter("verifications_total", "", "Verification outcomes", []string{"transform", "result"})

	proveDuration = NewHistogramWithBuckets(
		"prove_duration_seconds",
		"",
		"Time spent producing a proof",
		[]string{"transform"},
		prometheus.ExponentialBuckets(0.0005, 2, 16),
	)
)

// ReportVerification records a verifier outcome and passes ok through.
func ReportVerification(transform string, ok bool) bool {
	result := "reject"
	if ok {
		result = "accept"
	}
	Verifications.WithLabelValues(transform, result).Inc()
	return ok
}

// ReportProveDuration observes the time a prover took.
func ReportProveDuration(transform string, d time.Duration) {
	proveDuration.WithLabelValues(transform).Observe(d.Seconds())
}
