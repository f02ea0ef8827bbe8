package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/smarttodo/task"
)

func TestLoadMissingFile(t *testing.T) {
	store := New(t.TempDir())

	tasks, stored, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored {
		t.Fatalf("expected no stored data")
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
}

func TestRoundTripUnderNamespaceKey(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()
	due := task.Date{Year: 2026, Month: time.April, Day: 2}

	first := task.Task{ID: "aaa", Title: "first", Priority: task.PriorityLow, Category: task.CategoryWork}
	second := task.Task{ID: "bbb", Title: "second", DueDate: &due, Priority: task.PriorityHigh, Category: task.CategoryHealth}
	if _, err := store.Insert(ctx, first); err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if _, err := store.Insert(ctx, second); err != nil {
		t.Fatalf("insert second: %v", err)
	}

	tasks, stored, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !stored {
		t.Fatalf("expected stored data")
	}
	if len(tasks) != 2 || tasks[0].ID != "bbb" || tasks[1].ID != "aaa" {
		t.Fatalf("expected newest first, got %+v", tasks)
	}
	if tasks[0].DueDate == nil || *tasks[0].DueDate != due {
		t.Fatalf("expected due date to round-trip, got %+v", tasks[0].DueDate)
	}

	data, err := os.ReadFile(filepath.Join(dir, "store.json"))
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("parse store file: %v", err)
	}
	if _, ok := raw[Key]; !ok {
		t.Fatalf("expected tasks under %q, got keys %v", Key, raw)
	}
}

func TestUpdateDeleteAndClear(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	seed := []task.Task{
		{ID: "t1", Title: "one", Priority: task.PriorityLow, Category: task.CategoryOther},
		{ID: "t2", Title: "two", Priority: task.PriorityLow, Category: task.CategoryOther},
		{ID: "t3", Title: "three", Priority: task.PriorityLow, Category: task.CategoryOther},
	}
	if err := store.Seed(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated := seed[1]
	updated.Completed = true
	if err := store.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.Delete(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteCompleted(ctx); err != nil {
		t.Fatalf("delete completed: %v", err)
	}

	tasks, _, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t3" {
		t.Fatalf("expected only t3 to remain, got %+v", tasks)
	}

	if err := store.Delete(ctx, "missing"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestClearingAllTasksStillCountsAsStored(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	if err := store.Seed(ctx, []task.Task{{ID: "t1", Title: "one", Completed: true}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.DeleteCompleted(ctx); err != nil {
		t.Fatalf("delete completed: %v", err)
	}

	tasks, stored, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !stored || len(tasks) != 0 {
		t.Fatalf("expected an empty stored collection, got stored=%v tasks=%d", stored, len(tasks))
	}
}

func TestStoreBacksTaskStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := task.Open(ctx, New(dir), task.OpenOptions{SeedSamples: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Create(ctx, "Pay rent", task.CreateOptions{Category: task.CategoryPersonal}); err != nil {
		t.Fatalf("create: %v", err)
	}

	reopened, err := task.Open(ctx, New(dir), task.OpenOptions{SeedSamples: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	tasks := reopened.List()
	if len(tasks) != 6 {
		t.Fatalf("expected 5 samples plus 1 created, got %d", len(tasks))
	}
	if tasks[0].Title != "Pay rent" {
		t.Fatalf("expected newest task first, got %q", tasks[0].Title)
	}
}
