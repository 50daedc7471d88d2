package errors

import (
	"errors"
	"fmt"
)

const (
	CodeFetchFailed  = "FETCH_FAILED"
	CodeInvalidInput = "INVALID_INPUT"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrFetchFailed marks a feed source that could not produce items.
	// It is never fatal: the next refresh may succeed.
	ErrFetchFailed = errors.New("fetch failed")
	ErrRateLimited = errors.New("rate limited")
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets a coded error match the sentinel for its code.
func (e *Error) Is(target error) bool {
	switch e.Code {
	case CodeFetchFailed:
		return target == ErrFetchFailed
	case CodeInvalidInput:
		return target == ErrInvalidInput
	}
	return false
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FetchFailed wraps a source failure. Already wrapped errors pass through.
func FetchFailed(err error, message string) error {
	if err == nil {
		return nil
	}
	if IsFetchFailed(err) {
		return err
	}
	return WrapWithCode(err, CodeFetchFailed, message)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsFetchFailed returns true if the error came out of a feed source
func IsFetchFailed(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsRateLimited returns true if the caller was throttled
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
