package supabase

import (
	"time"

	"github.com/amonks/smarttodo/task"
)

// row mirrors a record in the tasks table.
type row struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *task.Date `json:"due_date"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	UserID      string     `json:"user_id,omitempty"`
}

func rowFromTask(t task.Task, owner string) row {
	r := row{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC(),
		DueDate:   t.DueDate,
		Priority:  string(t.Priority),
		Category:  string(t.Category),
		UserID:    owner,
	}
	if t.Description != "" {
		description := t.Description
		r.Description = &description
	}
	return r
}

func (r row) task() task.Task {
	t := task.Task{
		ID:        r.ID,
		Title:     r.Title,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
		DueDate:   r.DueDate,
		Priority:  task.Priority(r.Priority),
		Category:  task.Category(r.Category),
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if !t.Priority.IsValid() {
		t.Priority = task.PriorityMedium
	}
	if !t.Category.IsValid() {
		t.Category = task.CategoryOther
	}
	return t
}

func tasksFromRows(rows []row) []task.Task {
	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.task())
	}
	return tasks
}
