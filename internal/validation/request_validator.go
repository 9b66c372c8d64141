package validation

import (
	"strconv"
)

// RequestValidator validates path parameters of incoming requests
type RequestValidator struct {
	validator *Validator
}

// NewRequestValidator creates a new request validator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validator: NewValidator(),
	}
}

// ParseTaskID parses a task id path segment. Anything other than a base-10
// integer is rejected with a BadRequest error.
func (rv *RequestValidator) ParseTaskID(raw string) (int64, error) {
	if !rv.validator.IsNonEmptyString(raw) {
		validationError := NewValidationError()
		validationError.AddRequiredError("id")
		return 0, validationError.ToAppError()
	}

	if !rv.validator.IsInteger(raw) {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("id", raw, "integer")
		return 0, validationError.ToAppError()
	}
	id, _ := strconv.ParseInt(raw, 10, 64)
	return id, nil
}

// ValidateResourceName checks a passthrough collection name
func (rv *RequestValidator) ValidateResourceName(name string) error {
	if !rv.validator.IsValidResourceName(name) {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("resource", name, "letters, digits, '-' or '_'")
		return validationError.ToAppError()
	}
	return nil
}
