package task

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// OpenOptions configures how a Store is opened.
type OpenOptions struct {
	// SeedSamples loads SampleTasks when the backend has no stored data.
	SeedSamples bool

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Store owns the task collection and keeps it in step with its backend.
type Store struct {
	backend Backend
	now     func() time.Time

	mu    sync.Mutex
	tasks []Task
}

// Open loads the task collection from backend.
func Open(ctx context.Context, backend Backend, opts OpenOptions) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("task backend is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Store{backend: backend, now: now}
	tasks, stored, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	if !stored && opts.SeedSamples {
		if seeder, ok := backend.(Seeder); ok {
			samples := SampleTasks(now())
			if err := seeder.Seed(ctx, samples); err != nil {
				return nil, fmt.Errorf("seed sample tasks: %w", err)
			}
			tasks = samples
		}
	}

	s.tasks = cloneTasks(tasks)
	return s, nil
}

// Reload replaces the in-memory collection with what the backend holds.
func (s *Store) Reload(ctx context.Context) error {
	tasks, _, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = cloneTasks(tasks)
	return nil
}

// List returns a copy of every task in store order (newest first).
func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// IDIndex returns an index over the current task IDs.
func (s *Store) IDIndex() IDIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewIDIndex(s.tasks)
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// indexOf resolves an ID or unique prefix. Callers must hold s.mu.
func (s *Store) indexOf(id string) (int, error) {
	resolved, err := NewIDIndex(s.tasks).Resolve(id)
	if err != nil {
		return -1, err
	}
	for i := range s.tasks {
		if s.tasks[i].ID == resolved {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}
