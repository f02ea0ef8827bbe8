package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amonks/smarttodo/task"
)

func newEndpoint(t *testing.T, gen Generator) *Client {
	t.Helper()

	handler, err := NewHandler(HandlerOptions{Generator: gen})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{Endpoint: server.URL, Key: "anon"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientChatRoundTrip(t *testing.T) {
	gen := &recordingGenerator{reply: "Focus on the report."}
	client := newEndpoint(t, gen)

	reply, err := client.Chat(context.Background(), "what should I do?", ChatContext{
		PreviousMessages: []ContextMessage{{Type: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Focus on the report." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if !strings.Contains(gen.prompts[0], `"previousMessages":[{"type":"user","content":"hello"`) {
		t.Fatalf("expected conversation in prompt, got %q", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], `"tasks":[]`) {
		t.Fatalf("expected empty task list in prompt, got %q", gen.prompts[0])
	}
}

func TestClientEnhance(t *testing.T) {
	gen := &recordingGenerator{reply: "Break it into sections."}
	client := newEndpoint(t, gen)

	due := task.Date{Year: 2026, Month: time.March, Day: 13}
	draft := DraftFromSuggestion(task.Suggestion{Title: "Finish report", Category: task.CategoryWork, Priority: task.PriorityMedium, DueDate: &due})
	text, err := client.Enhance(context.Background(), draft)
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if text != "Break it into sections." {
		t.Fatalf("unexpected enhancement %q", text)
	}
	if !strings.Contains(gen.prompts[0], "Due Date: 2026-03-13") {
		t.Fatalf("expected due date in prompt, got %q", gen.prompts[0])
	}
}

func TestClientSurfacesEndpointErrors(t *testing.T) {
	client := newEndpoint(t, &recordingGenerator{err: errors.New("model overloaded")})

	if _, err := client.Chat(context.Background(), "hi", ChatContext{}); err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected endpoint error, got %v", err)
	}
	if _, err := client.Enhance(context.Background(), TaskDraft{Title: "x"}); err == nil {
		t.Fatalf("expected enhance error")
	}
}

func TestClientAnalyzeNormalizesSuggestions(t *testing.T) {
	gen := &recordingGenerator{reply: `{"summary":"Mostly work.","suggestions":[{"title":"","category":"chores","priority":"HIGH","dueDate":"2026-04-01"},{"title":"Take a walk","category":"health","priority":"low","confidence":0.9}]}`}
	client := newEndpoint(t, gen)

	result, err := client.Analyze(context.Background(), []task.Task{{ID: "a", Title: "Report", Priority: task.PriorityHigh, Category: task.CategoryWork}})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Summary != "Mostly work." {
		t.Fatalf("unexpected summary %q", result.Summary)
	}
	if len(result.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", result.Suggestions)
	}
	first := result.Suggestions[0]
	if first.Title != "Task suggestion" || first.Category != task.CategoryOther || first.Priority != task.PriorityHigh || first.Confidence != 0.5 {
		t.Fatalf("expected defaults applied, got %+v", first)
	}
	if first.DueDate == nil || first.DueDate.String() != "2026-04-01" {
		t.Fatalf("expected due date parsed, got %+v", first.DueDate)
	}
	if result.Suggestions[1].Confidence != 0.9 {
		t.Fatalf("expected confidence kept, got %v", result.Suggestions[1].Confidence)
	}
}

func TestClientAnalyzeWithoutTasksSkipsRemote(t *testing.T) {
	gen := &recordingGenerator{}
	client := newEndpoint(t, gen)

	result, err := client.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Summary != SummaryNeedMoreTasks || len(result.Suggestions) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("expected no remote call")
	}
}

func TestClientHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client, err := NewClient(ClientOptions{Endpoint: server.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	start := time.Now()
	_, err = client.Chat(context.Background(), "hi", ChatContext{})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("expected call to give up quickly, took %v", elapsed)
	}
}

func TestClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("expected bearer key, got %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		var req Request
		_ = json.Unmarshal(body, &req)
		if req.Type != TypeChat {
			t.Errorf("expected chat request, got %q", req.Type)
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid key"}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{Endpoint: server.URL, Key: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Chat(context.Background(), "hi", ChatContext{})
	if err == nil || !strings.Contains(err.Error(), "invalid key") {
		t.Fatalf("expected invalid key error, got %v", err)
	}
}
