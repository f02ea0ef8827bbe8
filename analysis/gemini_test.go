package analysis

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiGeneratorSendsPromptAndConfig(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello "},{"text":"there"}]}}]}`)
	}))
	t.Cleanup(server.Close)

	gen, err := NewGeminiGenerator(context.Background(), GeminiOptions{
		APIKey:     "test-key",
		BaseURL:    server.URL + "/",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	text, err := gen.Generate(context.Background(), "Say hello", EnhanceTemperature)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "Hello there" {
		t.Fatalf("unexpected text %q", text)
	}
	if !strings.HasSuffix(gotPath, "models/"+DefaultModel+":generateContent") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected api key header %q", gotKey)
	}

	contents, _ := gotBody["contents"].([]any)
	if len(contents) != 1 || !strings.Contains(mustJSON(t, contents[0]), "Say hello") {
		t.Fatalf("unexpected contents %v", gotBody["contents"])
	}

	config, _ := gotBody["generationConfig"].(map[string]any)
	if !approx(config["temperature"], EnhanceTemperature) || !approx(config["topP"], 0.8) || !approx(config["topK"], 40) {
		t.Fatalf("unexpected generation config %v", config)
	}
}

func TestGeminiGeneratorReportsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	t.Cleanup(server.Close)

	gen, err := NewGeminiGenerator(context.Background(), GeminiOptions{
		APIKey:     "test-key",
		BaseURL:    server.URL + "/",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if _, err := gen.Generate(context.Background(), "Say hello", ChatTemperature); err != ErrNoCandidates {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), GeminiOptions{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func approx(value any, want float64) bool {
	got, ok := value.(float64)
	return ok && math.Abs(got-want) < 1e-6
}

func mustJSON(t *testing.T, value any) string {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}
