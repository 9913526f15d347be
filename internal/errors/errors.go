// Package errors provides structured error types and exit codes for arcphpunit.
//
// Error taxonomy:
//   - KindNoEffect: nothing to run. Not a failure; the CLI reports it and exits 0.
//   - KindConfig: invalid .arcconfig or a missing PHPUnit configuration file.
//   - KindMalformedReport: the JUnit report exists but cannot be parsed.
//   - KindEnvironment: the PHPUnit binary could not be started.
//   - KindRuntime: everything else (unreadable coverage sources, I/O failures).
//
// Failing or broken tests are never errors; they are outcomes in the result list.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success, or nothing to run
	ExitRuntimeError     = 1 // Runtime error or failing tests
	ExitConfigError      = 2 // Configuration error
	ExitEnvironmentError = 3 // Environment error (runner binary not available, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation
	KindNoEffect
	KindMalformedReport
	KindEnvironment
)

// AdapterError is the base error type for arcphpunit.
type AdapterError struct {
	Kind    ErrorKind
	Message string
	Path    string // File the error relates to, if any
	Cause   error  // Underlying error
}

func (e *AdapterError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AdapterError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *AdapterError) ExitCode() int {
	switch e.Kind {
	case KindNoEffect:
		return ExitSuccess
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// Config creates a new configuration error.
func Config(message string) *AdapterError {
	return &AdapterError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *AdapterError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string, cause error) *AdapterError {
	return &AdapterError{
		Kind:    KindEnvironment,
		Message: message,
		Cause:   cause,
	}
}

// NoEffect signals that the change set maps to no tests.
func NoEffect(message string) *AdapterError {
	return &AdapterError{
		Kind:    KindNoEffect,
		Message: message,
	}
}

// MalformedReport creates an error for a report that failed structural parsing.
func MalformedReport(message string, cause error) *AdapterError {
	return &AdapterError{
		Kind:    KindMalformedReport,
		Message: message,
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *AdapterError {
	return &AdapterError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, message string) *AdapterError {
	return &AdapterError{
		Kind:    KindConfig,
		Message: message,
		Cause:   err,
	}
}

// FileError creates a runtime error tied to a file path.
func FileError(path, message string, cause error) *AdapterError {
	return &AdapterError{
		Kind:    KindRuntime,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// IsKind reports whether err is or wraps an AdapterError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// IsNoEffect reports whether err signals an empty run.
func IsNoEffect(err error) bool {
	return IsKind(err, KindNoEffect)
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae.ExitCode()
	}
	return ExitRuntimeError
}
