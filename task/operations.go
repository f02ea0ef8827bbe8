package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/smarttodo/internal/ids"
)

// CreateOptions configures a new task.
type CreateOptions struct {
	// Description provides additional context.
	Description string

	// Priority defaults to PriorityMedium.
	Priority Priority

	// Category defaults to CategoryOther.
	Category Category

	// DueDate is optional.
	DueDate *Date
}

// Create validates and stores a new task. The task is only added to the
// collection once the backend has accepted it.
func (s *Store) Create(ctx context.Context, title string, opts CreateOptions) (Task, error) {
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return Task{}, err
	}

	if opts.Priority == "" {
		opts.Priority = PriorityMedium
	}
	if opts.Category == "" {
		opts.Category = CategoryOther
	}
	if err := ValidatePriority(opts.Priority); err != nil {
		return Task{}, err
	}
	if err := ValidateCategory(opts.Category); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := Task{
		ID:          s.newID(title, now),
		Title:       title,
		Description: strings.TrimSpace(opts.Description),
		CreatedAt:   now,
		Priority:    opts.Priority,
		Category:    opts.Category,
	}
	if opts.DueDate != nil {
		t.DueDate = DatePtr(*opts.DueDate)
	}

	stored, err := s.backend.Insert(ctx, t)
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}

	s.tasks = append([]Task{cloneTask(stored)}, s.tasks...)
	return cloneTask(stored), nil
}

// newID derives an ID from the title and creation time, salting it until it
// differs from every ID in the collection. Callers must hold s.mu.
func (s *Store) newID(title string, now time.Time) string {
	taken := make(map[string]bool, len(s.tasks))
	for _, t := range s.tasks {
		taken[strings.ToLower(t.ID)] = true
	}
	id := ids.ForTask(title, now)
	for attempt := 1; taken[id]; attempt++ {
		id = ids.ForTask(fmt.Sprintf("%s#%d", title, attempt), now)
	}
	return id
}

// UpdateOptions configures fields to update on a task.
// Nil pointers mean "don't update this field".
type UpdateOptions struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *Priority
	Category    *Category
	DueDate     *Date

	// ClearDueDate removes the due date. It wins over DueDate.
	ClearDueDate bool
}

// HasChanges reports whether any field would be updated.
func (opts UpdateOptions) HasChanges() bool {
	return opts.Title != nil || opts.Description != nil || opts.Completed != nil ||
		opts.Priority != nil || opts.Category != nil || opts.DueDate != nil || opts.ClearDueDate
}

// Update replaces the fields named in opts on the task with the given ID.
func (s *Store) Update(ctx context.Context, id string, opts UpdateOptions) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}

	updated := cloneTask(s.tasks[i])
	if opts.Title != nil {
		updated.Title = strings.TrimSpace(*opts.Title)
	}
	if opts.Description != nil {
		updated.Description = strings.TrimSpace(*opts.Description)
	}
	if opts.Completed != nil {
		updated.Completed = *opts.Completed
	}
	if opts.Priority != nil {
		updated.Priority = *opts.Priority
	}
	if opts.Category != nil {
		updated.Category = *opts.Category
	}
	if opts.DueDate != nil {
		updated.DueDate = DatePtr(*opts.DueDate)
	}
	if opts.ClearDueDate {
		updated.DueDate = nil
	}
	if err := ValidateTask(&updated); err != nil {
		return Task{}, err
	}

	return s.replaceLocked(ctx, i, updated, "update task")
}

// Toggle flips the completion flag of the task with the given ID.
func (s *Store) Toggle(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}

	updated := cloneTask(s.tasks[i])
	updated.Completed = !updated.Completed
	return s.replaceLocked(ctx, i, updated, "toggle task")
}

func (s *Store) replaceLocked(ctx context.Context, i int, updated Task, op string) (Task, error) {
	if err := s.backend.Update(ctx, updated); err != nil {
		return Task{}, fmt.Errorf("%s: %w", op, err)
	}

	next := cloneTasks(s.tasks)
	next[i] = updated
	s.tasks = next
	return cloneTask(updated), nil
}

// Delete removes the task with the given ID and returns it.
func (s *Store) Delete(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}
	removed := cloneTask(s.tasks[i])

	if err := s.backend.Delete(ctx, removed.ID); err != nil {
		return Task{}, fmt.Errorf("delete task: %w", err)
	}

	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	return removed, nil
}

// ClearCompleted removes every completed task and returns how many were
// removed. Remaining tasks keep their relative order.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := withoutCompleted(s.tasks)
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := s.backend.DeleteCompleted(ctx); err != nil {
		return 0, fmt.Errorf("clear completed tasks: %w", err)
	}

	s.tasks = kept
	return removed, nil
}

// Show returns the task with the given ID or unique prefix.
func (s *Store) Show(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}
	return cloneTask(s.tasks[i]), nil
}
