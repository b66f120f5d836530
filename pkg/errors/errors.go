package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Manifest errors
	ErrManifestCorrupt   ErrorCode = "MANIFEST_CORRUPT"
	ErrManifestWrite     ErrorCode = "MANIFEST_WRITE"
	ErrTimestampNotFound ErrorCode = "TIMESTAMP_NOT_FOUND"

	// Profile errors
	ErrProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	ErrProfileInvalid  ErrorCode = "PROFILE_INVALID"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCopy      ErrorCode = "FILE_COPY"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"

	// External command errors
	ErrCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCommandFailed   ErrorCode = "COMMAND_FAILED"
)

// DotstashError represents a structured error with code and details
type DotstashError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotstashError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotstashError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotstashError) Is(target error) bool {
	var targetErr *DotstashError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotstashError with the given code and message
func New(code ErrorCode, message string) *DotstashError {
	return &DotstashError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotstashError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotstashError {
	return &DotstashError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotstashError
func Wrap(err error, code ErrorCode, message string) *DotstashError {
	if err == nil {
		return nil
	}
	return &DotstashError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotstashError {
	if err == nil {
		return nil
	}
	return &DotstashError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotstashError) WithDetail(key string, value interface{}) *DotstashError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dsErr *DotstashError
	if errors.As(err, &dsErr) {
		return dsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if
// not a DotstashError
func GetErrorCode(err error) ErrorCode {
	var dsErr *DotstashError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrUnknown
}
