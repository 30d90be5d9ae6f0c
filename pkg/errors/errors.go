// Package errors defines the structured error taxonomy shared by every
// pipeline stage, along with the fixed process exit code for each category.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrTokenize        = "TOKENIZE"
	ErrUnrecognized    = "UNRECOGNIZED"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrConversion      = "CONVERSION"
	ErrAmbiguousOption = "AMBIGUOUS_OPTION"
	ErrMiddleware      = "MIDDLEWARE"
	ErrConfig          = "CONFIG"
)

// Fixed exit codes. Handlers own every other value.
const (
	ExitSuccess      = 0
	ExitUnrecognized = 1
	ExitMissing      = 2
	ExitConversion   = 3
	ExitAmbiguous    = 4
	ExitTokenize     = 5
	ExitMiddleware   = 70
	ExitConfig       = 78
)

var exitCodes = map[string]int{
	ErrTokenize:        ExitTokenize,
	ErrUnrecognized:    ExitUnrecognized,
	ErrMissingArgument: ExitMissing,
	ErrConversion:      ExitConversion,
	ErrAmbiguousOption: ExitAmbiguous,
	ErrMiddleware:      ExitMiddleware,
	ErrConfig:          ExitConfig,
}

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
//
// Subject names the offending token, argument or option, when there is one.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Subject    string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrMiddleware code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrMiddleware,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// NewTokenization reports malformed input, such as a bad directive or an
// unterminated quote in a response file.
func NewTokenization(subject, message string) *Error {
	return &Error{
		Code:    ErrTokenize,
		Message: message,
		Subject: subject,
	}
}

// NewUnrecognized reports a token that matched no command, operand or option.
func NewUnrecognized(token string) *Error {
	return &Error{
		Code:       ErrUnrecognized,
		Message:    fmt.Sprintf("Unrecognized command or argument '%s'", token),
		Suggestion: "Use --help to see the available commands and arguments",
		Subject:    token,
	}
}

// NewMissingArgument reports a required argument that received no value.
func NewMissingArgument(command, argument string) *Error {
	return &Error{
		Code:       ErrMissingArgument,
		Message:    fmt.Sprintf("Required argument '%s' is missing for command '%s'", argument, command),
		Suggestion: "Use --help to see the expected arguments",
		Subject:    argument,
	}
}

// NewConversion reports a raw value that could not be turned into the
// argument's declared type.
func NewConversion(argument, raw, typeName string, cause error) *Error {
	return &Error{
		Code:    ErrConversion,
		Message: fmt.Sprintf("'%s' is not a valid %s for '%s'", raw, typeName, argument),
		Subject: argument,
		Cause:   cause,
	}
}

// NewAmbiguousOption reports an option token that matches more than one option.
func NewAmbiguousOption(token string, candidates []string) *Error {
	return &Error{
		Code:       ErrAmbiguousOption,
		Message:    fmt.Sprintf("Option '%s' is ambiguous", token),
		Suggestion: "Did you mean one of: " + strings.Join(candidates, ", "),
		Subject:    token,
	}
}

// Error implements the error interface with the three-part layout.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}

// ExitError lets a handler or middleware end the execution with a specific
// exit code by returning it as an error.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError for the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// GetExitCode extracts the code from an ExitError anywhere in the chain.
func GetExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// ExitCode maps an error to its fixed process exit code. A nil error is
// success, an ExitError keeps its own code and anything unstructured counts
// as a middleware failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if code, ok := GetExitCode(err); ok {
		return code
	}
	var pErr *Error
	if errors.As(err, &pErr) {
		if code, ok := exitCodes[pErr.Code]; ok {
			return code
		}
	}
	return ExitMiddleware
}
