package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amonks/smarttodo/internal/validation"
)

var (
	// ErrEmptyTitle is returned when a task title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidPriority is returned when an unknown priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidCategory is returned when an unknown category is provided.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrTaskNotFound is returned when a task with the given ID doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousID is returned when an ID prefix matches multiple tasks.
	ErrAmbiguousID = errors.New("ambiguous task ID prefix")
)

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, n, MaxTitleLength)
	}
	return nil
}

// ValidatePriority checks if the priority is valid.
func ValidatePriority(p Priority) error {
	if !p.IsValid() {
		return validation.InvalidValue(ErrInvalidPriority, p, ValidPriorities())
	}
	return nil
}

// ValidateCategory checks if the category is valid.
func ValidateCategory(c Category) error {
	if !c.IsValid() {
		return validation.InvalidValue(ErrInvalidCategory, c, ValidCategories())
	}
	return nil
}

// ValidateTask checks all fields of a task.
func ValidateTask(t *Task) error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if err := ValidatePriority(t.Priority); err != nil {
		return err
	}
	return ValidateCategory(t.Category)
}

// IsValidationError reports whether err stems from rejected input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrInvalidPriority) ||
		errors.Is(err, ErrInvalidCategory)
}
