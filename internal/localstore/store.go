// Package localstore persists the task collection in a JSON document on
// local disk, under a fixed namespace key.
package localstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/amonks/smarttodo/task"
)

// Key is the namespace key the task collection is stored under.
const Key = "smart-todo-tasks"

// Store is a task.Backend writing to <dir>/store.json.
type Store struct {
	dir string
}

// New creates a store using the given directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, "store.json")
}

func (s *Store) lockPath() string {
	return filepath.Join(s.dir, "store.lock")
}

// Load implements task.Backend.
func (s *Store) Load(ctx context.Context) ([]task.Task, bool, error) {
	doc, stored, err := s.read()
	if err != nil {
		return nil, false, err
	}
	return doc[Key], stored, nil
}

// Insert implements task.Backend. New tasks are stored first.
func (s *Store) Insert(ctx context.Context, t task.Task) (task.Task, error) {
	err := s.update(func(tasks []task.Task) ([]task.Task, error) {
		return append([]task.Task{t}, tasks...), nil
	})
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Update implements task.Backend.
func (s *Store) Update(ctx context.Context, t task.Task) error {
	return s.update(func(tasks []task.Task) ([]task.Task, error) {
		for i := range tasks {
			if tasks[i].ID == t.ID {
				tasks[i] = t
				return tasks, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, t.ID)
	})
}

// Delete implements task.Backend.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.update(func(tasks []task.Task) ([]task.Task, error) {
		for i := range tasks {
			if tasks[i].ID == id {
				return append(tasks[:i], tasks[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	})
}

// DeleteCompleted implements task.Backend.
func (s *Store) DeleteCompleted(ctx context.Context) error {
	return s.update(func(tasks []task.Task) ([]task.Task, error) {
		kept := tasks[:0]
		for _, t := range tasks {
			if !t.Completed {
				kept = append(kept, t)
			}
		}
		return kept, nil
	})
}

// Seed implements task.Seeder.
func (s *Store) Seed(ctx context.Context, tasks []task.Task) error {
	return s.update(func([]task.Task) ([]task.Task, error) {
		return tasks, nil
	})
}

func (s *Store) read() (map[string][]task.Task, bool, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return map[string][]task.Task{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read store file: %w", err)
	}

	doc := map[string][]task.Task{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("unmarshal store: %w", err)
	}
	_, stored := doc[Key]
	return doc, stored, nil
}

// update reads, modifies, and writes the collection under an exclusive lock.
// Other keys in the document are preserved.
func (s *Store) update(fn func(tasks []task.Task) ([]task.Task, error)) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	doc, _, err := s.read()
	if err != nil {
		return err
	}

	next, err := fn(doc[Key])
	if err != nil {
		return err
	}
	if next == nil {
		next = []task.Task{}
	}
	doc[Key] = next

	return s.write(doc)
}

func (s *Store) write(doc map[string][]task.Task) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	if existing, err := os.ReadFile(s.path()); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read store file: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(s.path())+".tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp store file: %w", err)
	}

	if err := os.Rename(name, s.path()); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename store file: %w", err)
	}
	return nil
}
