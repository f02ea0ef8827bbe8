package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amonks/smarttodo/task"
)

const testOwner = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

type recordedRequest struct {
	Method string
	Query  map[string]string
	Prefer string
	APIKey string
	Auth   string
	Body   map[string]any
}

type fakeTable struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/rest/v1/tasks" {
		http.NotFound(w, r)
		return
	}
	rec := recordedRequest{
		Method: r.Method,
		Query:  map[string]string{},
		Prefer: r.Header.Get("Prefer"),
		APIKey: r.Header.Get("apikey"),
		Auth:   r.Header.Get("Authorization"),
	}
	for key := range r.URL.Query() {
		rec.Query[key] = r.URL.Query().Get(key)
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	f.respond(w, r)
}

func (f *fakeTable) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatalf("expected a request")
	}
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeTable) {
	t.Helper()

	table := &fakeTable{respond: respond}
	server := httptest.NewServer(table)
	t.Cleanup(server.Close)

	client, err := New(Options{URL: server.URL + "/", Key: "anon-key", AccessToken: "user-jwt", Owner: testOwner})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, table
}

func TestNewRequiresOwnerUUID(t *testing.T) {
	if _, err := New(Options{URL: "http://x", Key: "k", Owner: "not-a-uuid"}); err == nil {
		t.Fatalf("expected error for invalid owner")
	}
	if _, err := New(Options{Key: "k", Owner: testOwner}); err == nil {
		t.Fatalf("expected error for missing url")
	}
}

func TestLoadSelectsOwnerTasksNewestFirst(t *testing.T) {
	client, table := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"b","title":"Second","description":null,"completed":false,"created_at":"2026-03-02T10:00:00Z","due_date":"2026-03-05","priority":"high","category":"work","user_id":"`+testOwner+`"},
			{"id":"a","title":"First","description":"note","completed":true,"created_at":"2026-03-01T10:00:00Z","due_date":null,"priority":"bogus","category":"health","user_id":"`+testOwner+`"}
		]`)
	})

	tasks, stored, err := client.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !stored {
		t.Fatalf("expected remote table to count as stored")
	}

	req := table.last(t)
	if req.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", req.Method)
	}
	if req.Query["user_id"] != "eq."+testOwner || req.Query["order"] != "created_at.desc.nullslast" {
		t.Fatalf("unexpected query %v", req.Query)
	}
	if req.APIKey != "anon-key" || req.Auth != "Bearer user-jwt" {
		t.Fatalf("unexpected auth headers %q %q", req.APIKey, req.Auth)
	}

	if len(tasks) != 2 || tasks[0].ID != "b" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	if tasks[0].DueDate == nil || *tasks[0].DueDate != (task.Date{Year: 2026, Month: time.March, Day: 5}) {
		t.Fatalf("unexpected due date %+v", tasks[0].DueDate)
	}
	if tasks[1].Description != "note" || !tasks[1].Completed {
		t.Fatalf("unexpected second task %+v", tasks[1])
	}
	if tasks[1].Priority != task.PriorityMedium {
		t.Fatalf("expected unknown priority to fall back to medium, got %q", tasks[1].Priority)
	}
}

func TestInsertReturnsStoredRow(t *testing.T) {
	client, table := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"0b7d8a2e-4a8e-4f0c-9a55-2f1f8e6e8c01","title":"Buy milk","completed":false,"created_at":"2026-03-02T10:00:00Z","priority":"medium","category":"shopping"}]`)
	})

	created, err := client.Insert(context.Background(), task.Task{
		ID:        "local-id",
		Title:     "Buy milk",
		CreatedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Priority:  task.PriorityMedium,
		Category:  task.CategoryShopping,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID != "0b7d8a2e-4a8e-4f0c-9a55-2f1f8e6e8c01" {
		t.Fatalf("expected server-assigned ID, got %q", created.ID)
	}

	req := table.last(t)
	if req.Method != http.MethodPost || !strings.Contains(req.Prefer, "return=representation") {
		t.Fatalf("unexpected request %+v", req)
	}
	if _, ok := req.Body["id"]; ok {
		t.Fatalf("expected local ID to be omitted, got body %v", req.Body)
	}
	if req.Body["user_id"] != testOwner || req.Body["title"] != "Buy milk" {
		t.Fatalf("unexpected body %v", req.Body)
	}
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	client, table := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	err := client.Update(context.Background(), task.Task{ID: "gone", Title: "x", Priority: task.PriorityLow, Category: task.CategoryOther})
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	req := table.last(t)
	if req.Method != http.MethodPatch || req.Query["id"] != "eq.gone" || req.Query["user_id"] != "eq."+testOwner {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestDeleteCompletedFiltersOnCompletion(t *testing.T) {
	client, table := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteCompleted(context.Background()); err != nil {
		t.Fatalf("delete completed: %v", err)
	}
	req := table.last(t)
	if req.Method != http.MethodDelete || req.Query["completed"] != "eq.true" || req.Query["user_id"] != "eq."+testOwner {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestErrorResponsesIncludeCodeAndMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"PGRST301","message":"JWT expired","details":null,"hint":null}`)
	})

	err := client.Delete(context.Background(), "abc")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "PGRST301") || !strings.Contains(err.Error(), "JWT expired") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDeleteMatchesOwnerAndID(t *testing.T) {
	client, table := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.Delete(context.Background(), "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	req := table.last(t)
	if req.Method != http.MethodDelete || req.Query["id"] != "eq.abc" || req.Query["user_id"] != "eq."+testOwner {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Prefer != "return=minimal" {
		t.Fatalf("unexpected prefer %q", req.Prefer)
	}
}

func TestCanceledContextSkipsRequest(t *testing.T) {
	client, table := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.DeleteCompleted(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	table.mu.Lock()
	defer table.mu.Unlock()
	if len(table.requests) != 0 {
		t.Fatalf("expected no requests, got %d", len(table.requests))
	}
}

func TestStoreStaysUnchangedWhenRemoteFails(t *testing.T) {
	var fail atomic.Bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `[{"id":"a","title":"Keep me","completed":false,"created_at":"2026-03-01T10:00:00Z","priority":"low","category":"other"}]`)
	})

	ctx := context.Background()
	store, err := task.Open(ctx, client, task.OpenOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	fail.Store(true)

	if _, err := store.Toggle(ctx, "a"); err == nil {
		t.Fatalf("expected toggle to fail")
	}
	if tasks := store.List(); len(tasks) != 1 || tasks[0].Completed {
		t.Fatalf("expected unchanged tasks, got %+v", tasks)
	}
}
