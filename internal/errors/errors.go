package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// NewStorageReadError creates an error for a backing document that is missing,
// unreadable or not parseable.
func NewStorageReadError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorageRead,
		Message: fmt.Sprintf("storage read failed: %s", operation),
		Code:    "STORAGE_READ_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewSchemaError creates an error for a document whose collection field is
// absent or has the wrong shape.
func NewSchemaError(field string, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeSchema,
		Message: fmt.Sprintf("invalid document field %s: %s", field, reason),
		Code:    "SCHEMA_ERROR",
		Context: map[string]interface{}{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewStorageWriteError creates an error for a failed document replace
func NewStorageWriteError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorageWrite,
		Message: fmt.Sprintf("storage write failed: %s", operation),
		Code:    "STORAGE_WRITE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewBadRequestError creates an error for malformed client input
func NewBadRequestError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "BAD_REQUEST",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message. Storage errors never
// expose their cause, which may carry file paths.
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeBadRequest, ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeStorageRead, ErrorTypeSchema:
			return "The task list could not be loaded. Please try again."
		case ErrorTypeStorageWrite:
			return "The task list could not be saved. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return "An unexpected error occurred. Please try again."
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// HTTPStatus maps an error onto the response status code
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeBadRequest:
			return http.StatusBadRequest
		case ErrorTypeNotFound:
			return http.StatusNotFound
		case ErrorTypeTimeout:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeBadRequest, ErrorTypeNotFound:
			return false // These are user errors, not system errors
		default:
			return true
		}
	}
	return true
}
