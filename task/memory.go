package task

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend keeps tasks in process memory. It backs tests and sessions
// that should not touch disk.
type MemoryBackend struct {
	mu     sync.Mutex
	tasks  []Task
	stored bool
}

// NewMemoryBackend returns a backend holding a copy of tasks.
func NewMemoryBackend(tasks ...Task) *MemoryBackend {
	return &MemoryBackend{tasks: cloneTasks(tasks), stored: len(tasks) > 0}
}

// Load implements Backend.
func (m *MemoryBackend) Load(ctx context.Context) ([]Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTasks(m.tasks), m.stored, nil
}

// Insert implements Backend.
func (m *MemoryBackend) Insert(ctx context.Context, t Task) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append([]Task{cloneTask(t)}, m.tasks...)
	m.stored = true
	return cloneTask(t), nil
}

// Update implements Backend.
func (m *MemoryBackend) Update(ctx context.Context, t Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == t.ID {
			m.tasks[i] = cloneTask(t)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, t.ID)
}

// Delete implements Backend.
func (m *MemoryBackend) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// DeleteCompleted implements Backend.
func (m *MemoryBackend) DeleteCompleted(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = withoutCompleted(m.tasks)
	return nil
}

// Seed implements Seeder.
func (m *MemoryBackend) Seed(ctx context.Context, tasks []Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = cloneTasks(tasks)
	m.stored = true
	return nil
}

func withoutCompleted(tasks []Task) []Task {
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	return kept
}
