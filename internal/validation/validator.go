// Package validation parses and checks request parameters before they reach
// the repository or the store.
package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// Validator provides common validation utilities
type Validator struct {
	resourceNameRegex *regexp.Regexp
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		resourceNameRegex: regexp.MustCompile(`^[A-Za-z0-9_-]+$`),
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsInteger checks if a string is a base-10 integer that fits in an int64
func (v *Validator) IsInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// IsValidResourceName checks if a passthrough collection name is usable as a
// top-level document field
func (v *Validator) IsValidResourceName(name string) bool {
	return v.resourceNameRegex.MatchString(name)
}
