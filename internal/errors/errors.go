package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a seodraft error code.
// Transport status codes are assigned at the boundary (web, cli), not here.
type ErrorCode string

const (
	ErrInvalidInput    ErrorCode = "INVALID_INPUT"    // missing/empty input, never contacts upstream
	ErrUpstream        ErrorCode = "UPSTREAM_ERROR"   // generative API returned non-success
	ErrEmptyGeneration ErrorCode = "EMPTY_GENERATION" // upstream succeeded without usable text
	ErrTimeout         ErrorCode = "TIMEOUT"          // generation exceeded the deadline
	ErrStorage         ErrorCode = "STORAGE_ERROR"    // store read/write failed
	ErrUnknown         ErrorCode = "UNKNOWN_ERROR"    // anything else
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrNotConfigured   ErrorCode = "NOT_CONFIGURED"
)

// DraftError represents a structured error with code, message, and details.
type DraftError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *DraftError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *DraftError) Unwrap() error {
	return e.Err
}

// NewInvalidInput creates an error for invalid request parameters.
func NewInvalidInput(msg string) *DraftError {
	return &DraftError{
		Code:    ErrInvalidInput,
		Message: msg,
	}
}

// NewUpstream creates an error for a non-success response from the generative API.
// stage is "generation" or "scoring"; status is the upstream HTTP status (0 if unknown).
func NewUpstream(stage string, status int, err error) *DraftError {
	msg := fmt.Sprintf("%s call failed", stage)
	if status > 0 {
		msg = fmt.Sprintf("%s call failed with upstream status %d", stage, status)
	}
	details := map[string]any{"stage": stage}
	if status > 0 {
		details["upstream_status"] = status
	}
	return &DraftError{
		Code:    ErrUpstream,
		Message: msg,
		Details: details,
		Err:     err,
	}
}

// NewEmptyGeneration creates an error for a successful generation with no usable text.
func NewEmptyGeneration() *DraftError {
	return &DraftError{
		Code:    ErrEmptyGeneration,
		Message: "generation produced no usable text",
	}
}

// NewTimeout creates an error for a generation call that exceeded its deadline.
func NewTimeout(budget string, err error) *DraftError {
	return &DraftError{
		Code:    ErrTimeout,
		Message: fmt.Sprintf("upstream did not respond within %s", budget),
		Details: map[string]any{"budget": budget},
		Err:     err,
	}
}

// NewStorage creates an error for a failed store operation.
func NewStorage(err error) *DraftError {
	msg := "storage error"
	if err != nil {
		msg = err.Error()
	}
	return &DraftError{
		Code:    ErrStorage,
		Message: msg,
		Err:     err,
	}
}

// NewUnknown wraps an unexpected error with its string description.
func NewUnknown(err error) *DraftError {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &DraftError{
		Code:    ErrUnknown,
		Message: msg,
		Err:     err,
	}
}

// NewNotFound creates an error for a missing record.
func NewNotFound(kind, identifier string) *DraftError {
	return &DraftError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNotConfigured creates an error for a feature that is missing configuration.
func NewNotConfigured(msg string) *DraftError {
	return &DraftError{
		Code:    ErrNotConfigured,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a DraftError with the given code.
func Is(err error, code ErrorCode) bool {
	var dErr *DraftError
	if stderrors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// From returns err as a DraftError, wrapping foreign errors as UNKNOWN_ERROR.
func From(err error) *DraftError {
	if err == nil {
		return nil
	}
	var dErr *DraftError
	if stderrors.As(err, &dErr) {
		return dErr
	}
	return NewUnknown(err)
}

// CodeOf returns the error code carried by err, or ErrUnknown.
func CodeOf(err error) ErrorCode {
	return From(err).Code
}
