package domain

import "time"

// ExecutionStatus is the single outcome of one assistant invocation.
type ExecutionStatus string

const (
	StatusSuccess      ExecutionStatus = "success"
	StatusTimeout      ExecutionStatus = "timeout"
	StatusAuthError    ExecutionStatus = "auth_error"
	StatusNetworkError ExecutionStatus = "network_error"
	StatusRateLimited  ExecutionStatus = "rate_limited"
	StatusGeneralError ExecutionStatus = "general_error"
	StatusCancelled    ExecutionStatus = "cancelled"
)

// ExecutionResult is produced once per prompt and never persisted.
type ExecutionResult struct {
	Status     ExecutionStatus
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
	// Message is the most relevant stderr line for non-success outcomes.
	Message string
}

// OK reports whether the response text may be classified and spoken.
func (r ExecutionResult) OK() bool {
	return r.Status == StatusSuccess
}

// Duration converts DurationMS for metrics.
func (r ExecutionResult) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}
