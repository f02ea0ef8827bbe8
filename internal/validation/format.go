// Package validation formats errors for rejected enum values.
package validation

import (
	"fmt"
	"strings"
)

// ValidValues joins string-like values for error messages.
func ValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// InvalidValue wraps base with the rejected value and the accepted ones.
func InvalidValue[T ~string](base error, value T, valid []T) error {
	return fmt.Errorf("%w: %q (valid: %s)", base, string(value), ValidValues(valid))
}
