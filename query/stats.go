package query

import (
	"time"

	"github.com/amonks/smarttodo/task"
)

// Stats summarises a task list. Priority and category counts cover pending
// tasks only.
type Stats struct {
	Total      int                   `json:"total"`
	Completed  int                   `json:"completed"`
	Pending    int                   `json:"pending"`
	Overdue    int                   `json:"overdue"`
	ByPriority map[task.Priority]int `json:"byPriority"`
	ByCategory map[task.Category]int `json:"byCategory"`
}

// ComputeStats derives Stats from tasks.
func ComputeStats(tasks []task.Task, now time.Time) Stats {
	stats := Stats{
		Total:      len(tasks),
		ByPriority: make(map[task.Priority]int, 3),
		ByCategory: make(map[task.Category]int, 5),
	}
	for _, p := range task.ValidPriorities() {
		stats.ByPriority[p] = 0
	}
	for _, c := range task.ValidCategories() {
		stats.ByCategory[c] = 0
	}

	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
			continue
		}
		if IsOverdue(t, now) {
			stats.Overdue++
		}
		if t.Priority.IsValid() {
			stats.ByPriority[t.Priority]++
		}
		if t.Category.IsValid() {
			stats.ByCategory[t.Category]++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats
}

// CompletionRate returns the completed share as a percentage.
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}
