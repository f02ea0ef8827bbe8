// Package query filters, sorts and summarises task lists. Every function is
// pure: it reads its input and returns derived values without mutating it.
package query

import (
	"errors"
	"time"

	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/internal/validation"
	"github.com/amonks/smarttodo/task"
)

// Status selects tasks by completion state.
type Status string

const (
	StatusAll       Status = "all"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusOverdue   Status = "overdue"
)

// ErrInvalidStatus is returned for an unknown status filter.
var ErrInvalidStatus = errors.New("invalid status")

// All matches every category or priority.
const All = "all"

// ValidStatuses returns all valid status filters.
func ValidStatuses() []Status {
	return []Status{StatusAll, StatusCompleted, StatusPending, StatusOverdue}
}

// IsValid returns true if the status is a known value or empty.
func (s Status) IsValid() bool {
	switch s {
	case "", StatusAll, StatusCompleted, StatusPending, StatusOverdue:
		return true
	}
	return false
}

// Validate reports an unknown status, listing the accepted ones.
func (s Status) Validate() error {
	if s.IsValid() {
		return nil
	}
	return validation.InvalidValue(ErrInvalidStatus, s, ValidStatuses())
}

// Criteria selects tasks. Empty fields match everything.
type Criteria struct {
	SearchQuery string        `json:"searchQuery,omitempty"`
	Category    task.Category `json:"category,omitempty"`
	Priority    task.Priority `json:"priority,omitempty"`
	Status      Status        `json:"status,omitempty"`
}

// DefaultCriteria matches every task.
func DefaultCriteria() Criteria {
	return Criteria{Category: All, Priority: All, Status: StatusAll}
}

// Filter returns the tasks matching c, in input order.
func Filter(tasks []task.Task, c Criteria, now time.Time) []task.Task {
	matched := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, c, now) {
			matched = append(matched, t)
		}
	}
	return matched
}

// Matches reports whether a single task satisfies c.
func Matches(t task.Task, c Criteria, now time.Time) bool {
	if c.SearchQuery != "" &&
		!internalstrings.ContainsFold(t.Title, c.SearchQuery) &&
		!internalstrings.ContainsFold(t.Description, c.SearchQuery) {
		return false
	}
	if c.Category != "" && c.Category != All && t.Category != c.Category {
		return false
	}
	if c.Priority != "" && c.Priority != All && t.Priority != c.Priority {
		return false
	}

	switch c.Status {
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	case StatusOverdue:
		return IsOverdue(t, now)
	}
	return true
}

// IsOverdue reports whether t has a due date strictly before today and is
// not completed.
func IsOverdue(t task.Task, now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(task.Today(now))
}

// DueToday returns the incomplete tasks due today.
func DueToday(tasks []task.Task, now time.Time) []task.Task {
	today := task.Today(now)
	var due []task.Task
	for _, t := range tasks {
		if !t.Completed && t.IsDueOn(today) {
			due = append(due, t)
		}
	}
	return due
}
