package query

import (
	"sort"

	"github.com/amonks/smarttodo/task"
)

// Sort returns a new slice ordered for display:
//   - incomplete before completed
//   - dated before undated, earlier due date first
//   - higher priority first
//   - newest first
//
// The ordering is stable and Sort is idempotent.
func Sort(tasks []task.Task) []task.Task {
	sorted := append([]task.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compare(sorted[i], sorted[j]) < 0
	})
	return sorted
}

func compare(a, b task.Task) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}

	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	}

	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch {
	case a.CreatedAt.After(b.CreatedAt):
		return -1
	case a.CreatedAt.Before(b.CreatedAt):
		return 1
	}
	return 0
}
