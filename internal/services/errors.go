package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the closed set of failure kinds shared by every pipeline stage.
type ErrorCode string

const (
	CodeInvalidType     ErrorCode = "INVALID_TYPE"
	CodeSizeExceeded    ErrorCode = "SIZE_EXCEEDED"
	CodeCorrupted       ErrorCode = "CORRUPTED"
	CodeProcessingError ErrorCode = "PROCESSING_ERROR"
	CodeNetworkTimeout  ErrorCode = "NETWORK_TIMEOUT"
	CodePartialUpload   ErrorCode = "PARTIAL_UPLOAD"
	CodeParseFailure    ErrorCode = "PARSE_FAILURE"
	CodeStorageError    ErrorCode = "STORAGE_ERROR"
	CodeExtractionError ErrorCode = "EXTRACTION_ERROR"
	CodeServerError     ErrorCode = "SERVER_ERROR"
	CodeUnknownError    ErrorCode = "UNKNOWN_ERROR"
)

// HTTPStatus returns the response status class for the code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeInvalidType, CodePartialUpload:
		return http.StatusBadRequest
	case CodeSizeExceeded:
		return http.StatusRequestEntityTooLarge
	case CodeCorrupted, CodeProcessingError, CodeParseFailure, CodeExtractionError:
		return http.StatusUnprocessableEntity
	case CodeNetworkTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the same request may succeed later unchanged.
func (c ErrorCode) Retryable() bool {
	switch c {
	case CodeNetworkTimeout, CodeStorageError, CodeServerError, CodePartialUpload:
		return true
	default:
		return false
	}
}

// ClientCorrectable reports whether the caller can fix the input and retry.
// Only these codes expose their message and details at the boundary.
func (c ErrorCode) ClientCorrectable() bool {
	switch c {
	case CodeInvalidType, CodeSizeExceeded, CodeCorrupted, CodePartialUpload:
		return true
	default:
		return false
	}
}

// AppError is a classified failure carrying a code, a human message and
// optional details such as allowed types or size limits.
type AppError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a single detail entry and returns the same error.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewError builds an AppError. The retryable hint is filled in from the code.
func NewError(code ErrorCode, message string, cause error) *AppError {
	e := &AppError{Code: code, Message: message, Cause: cause}
	if code.Retryable() {
		e.WithDetail("retryable", true)
	}
	return e
}

func NewInvalidTypeError(message string) *AppError {
	return NewError(CodeInvalidType, message, nil)
}

func NewSizeExceededError(message string) *AppError {
	return NewError(CodeSizeExceeded, message, nil)
}

func NewCorruptedError(message string) *AppError {
	return NewError(CodeCorrupted, message, nil)
}

func NewProcessingError(message string, cause error) *AppError {
	return NewError(CodeProcessingError, message, cause)
}

func NewParseFailureError(message string, cause error) *AppError {
	return NewError(CodeParseFailure, message, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return NewError(CodeStorageError, message, cause)
}

func NewExtractionError(message string, cause error) *AppError {
	return NewError(CodeExtractionError, message, cause)
}

// Classify maps any error onto the taxonomy. An AppError anywhere in the
// chain wins; deadlines become NETWORK_TIMEOUT; everything else is SERVER_ERROR.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(CodeNetworkTimeout, "The request to an external service timed out", err)
	}

	return NewError(CodeServerError, "Internal server error", err)
}

// Unknown wraps a value that is not even an error, such as a recovered panic.
func Unknown(v any) *AppError {
	if err, ok := v.(error); ok {
		return NewError(CodeUnknownError, "Unclassified failure", err)
	}
	return NewError(CodeUnknownError, fmt.Sprintf("Unclassified failure: %v", v), nil)
}
