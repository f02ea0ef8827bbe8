// Package task holds the task model and the store that owns the task
// collection.
package task

import "time"

// Task is a single to-do item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	DueDate     *Date     `json:"dueDate,omitempty"`
	Priority    Priority  `json:"priority"`
	Category    Category  `json:"category"`
}

// Suggestion is a task draft that has not been accepted yet.
type Suggestion struct {
	Title      string   `json:"title"`
	Category   Category `json:"category"`
	Priority   Priority `json:"priority"`
	DueDate    *Date    `json:"dueDate,omitempty"`
	Confidence float64  `json:"confidence"`
}

// CreateOptions converts the suggestion into options for Store.Create.
func (s Suggestion) CreateOptions() CreateOptions {
	return CreateOptions{
		Priority: s.Priority,
		Category: s.Category,
		DueDate:  s.DueDate,
	}
}

func cloneTask(t Task) Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// CreatedOn returns the local calendar day the task was created.
func (t Task) CreatedOn() Date {
	return DateOf(t.CreatedAt.Local())
}

// IsDueOn reports whether the task has a due date equal to d.
func (t Task) IsDueOn(d Date) bool {
	return t.DueDate != nil && *t.DueDate == d
}
