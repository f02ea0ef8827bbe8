package task

import "context"

// Backend persists the task collection. Each mutating call either succeeds
// completely or leaves the stored collection as it was.
type Backend interface {
	// Load returns all stored tasks, newest first. The bool reports whether
	// the backend held any stored data at all.
	Load(ctx context.Context) ([]Task, bool, error)
	// Insert stores a new task and returns it as stored. Backends that
	// assign their own identifiers may change the ID.
	Insert(ctx context.Context, t Task) (Task, error)
	// Update replaces the stored task with the same ID.
	Update(ctx context.Context, t Task) error
	// Delete removes the task with the given ID.
	Delete(ctx context.Context, id string) error
	// DeleteCompleted removes every completed task.
	DeleteCompleted(ctx context.Context) error
}

// Seeder is implemented by backends that can be initialised with a whole
// collection at once.
type Seeder interface {
	Seed(ctx context.Context, tasks []Task) error
}
