package validation

import (
	"strings"
	"testing"

	apperrors "todo-app/internal/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name        string
		errors      []FieldError
		expectError string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "id", Message: "is required"}}, "validation error for field 'id': is required"},
		{"Multiple errors", []FieldError{
			{Field: "id", Message: "is required"},
			{Field: "resource", Message: "has invalid format"},
		}, "multiple validation errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			result := ve.Error()

			if tt.name == "Multiple errors" {
				if !strings.Contains(result, tt.expectError) {
					t.Errorf("ValidationError.Error() = %v, expected to contain %v", result, tt.expectError)
				}
			} else {
				if result != tt.expectError {
					t.Errorf("ValidationError.Error() = %v, expected %v", result, tt.expectError)
				}
			}
		})
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	ve := NewValidationError()
	if ve.HasErrors() {
		t.Errorf("new ValidationError should have no errors")
	}

	ve.AddRequiredError("id")
	if !ve.HasErrors() {
		t.Errorf("ValidationError should have errors after AddRequiredError")
	}
}

func TestValidationError_AddInvalidFormatError(t *testing.T) {
	ve := NewValidationError()
	ve.AddInvalidFormatError("id", "abc", "integer")

	if len(ve.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(ve.Errors))
	}
	fe := ve.Errors[0]
	if fe.Type != ErrorTypeInvalidFormat {
		t.Errorf("error type = %v, want %v", fe.Type, ErrorTypeInvalidFormat)
	}
	if fe.Message != "id has invalid format, expected: integer" {
		t.Errorf("error message = %v", fe.Message)
	}
	if fe.Value != "abc" {
		t.Errorf("error value = %v, want abc", fe.Value)
	}
}

func TestValidationError_AddInvalidValueError(t *testing.T) {
	ve := NewValidationError()
	ve.AddInvalidValueError("id", int64(-1), "must be positive")

	if ve.Errors[0].Type != ErrorTypeInvalidValue {
		t.Errorf("error type = %v, want %v", ve.Errors[0].Type, ErrorTypeInvalidValue)
	}
	if ve.Errors[0].Message != "id must be positive" {
		t.Errorf("error message = %v", ve.Errors[0].Message)
	}
}

func TestValidationError_ToAppError(t *testing.T) {
	ve := NewValidationError()
	ve.AddInvalidFormatError("id", "abc", "integer")

	appErr := ve.ToAppError()

	if !appErr.IsType(apperrors.ErrorTypeBadRequest) {
		t.Errorf("ToAppError type = %v, want bad_request", appErr.Type)
	}
	if appErr.Message != "invalid input for id: id has invalid format, expected: integer" {
		t.Errorf("ToAppError message = %v", appErr.Message)
	}
	if !IsValidationError(appErr.Cause) {
		t.Errorf("ToAppError should keep the validation error as cause")
	}

	empty := NewValidationError().ToAppError()
	if !empty.IsType(apperrors.ErrorTypeBadRequest) {
		t.Errorf("empty ToAppError should still be a bad request")
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(NewValidationError()) {
		t.Errorf("IsValidationError should return true for ValidationError")
	}
	if IsValidationError(apperrors.NewBadRequestError("id", "x", "bad")) {
		t.Errorf("IsValidationError should return false for other errors")
	}
}
