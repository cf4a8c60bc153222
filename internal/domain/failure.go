package domain

import (
	"errors"
	"fmt"
)

// FailureCode identifies a failure surfaced to the command-line caller.
type FailureCode string

const (
	FailureGeneral           FailureCode = "GENERAL_FAILURE"
	FailureConfig            FailureCode = "CONFIG_ERROR"
	FailureLaunch            FailureCode = "LAUNCH_FAILURE"
	FailureDependencyMissing FailureCode = "DEPENDENCY_MISSING"
	FailureTimeout           FailureCode = "TIMEOUT"
	FailureUnexpectedCapture FailureCode = "UNEXPECTED_CAPTURE_RESULT"
)

// Failure is a coded error carrying the exit code the CLI should use.
type Failure struct {
	Code    FailureCode
	Message string
	Err     error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Unwrap exposes the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Err
}

// ExitCode maps the failure onto the process exit code table.
func (f *Failure) ExitCode() int {
	switch f.Code {
	case FailureConfig:
		return ExitConfigError
	case FailureLaunch, FailureDependencyMissing:
		return ExitDependencyMissing
	case FailureTimeout:
		return ExitTimeout
	default:
		return ExitGeneralError
	}
}

// NewConfigError wraps a configuration problem.
func NewConfigError(msg string, err error) *Failure {
	return &Failure{Code: FailureConfig, Message: msg, Err: err}
}

// NewLaunchFailure reports that the assistant binary could not be started.
func NewLaunchFailure(command string, err error) *Failure {
	return &Failure{Code: FailureLaunch, Message: fmt.Sprintf("cannot start %q", command), Err: err}
}

// NewDependencyMissing reports a required external program that is absent.
func NewDependencyMissing(name string) *Failure {
	return &Failure{Code: FailureDependencyMissing, Message: fmt.Sprintf("%s not found", name)}
}

// NewTimeout reports that the assistant exceeded its time budget.
func NewTimeout(msg string) *Failure {
	return &Failure{Code: FailureTimeout, Message: msg}
}

// NewUnexpectedCapture reports a recognizer reply outside the known shapes.
func NewUnexpectedCapture(detail string, err error) *Failure {
	return &Failure{Code: FailureUnexpectedCapture, Message: detail, Err: err}
}

// NewGeneral wraps any other failure.
func NewGeneral(msg string, err error) *Failure {
	return &Failure{Code: FailureGeneral, Message: msg, Err: err}
}

// IsFailure checks whether err (or anything it wraps) is a Failure with code.
func IsFailure(err error, code FailureCode) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code == code
	}
	return false
}

// ExitCodeFor returns the exit code for any error; nil maps to success.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.ExitCode()
	}
	return ExitGeneralError
}
