package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amonks/smarttodo/internal/config"
	"github.com/amonks/smarttodo/internal/testsupport"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	home := testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Store.Backend != config.BackendLocal {
		t.Errorf("Backend = %q, expected local", cfg.Store.Backend)
	}
	if !cfg.Store.SeedSamples {
		t.Error("expected sample seeding by default")
	}
	if cfg.Store.Dir != filepath.Join(home, ".local", "state", "smarttodo") {
		t.Errorf("unexpected store dir %q", cfg.Store.Dir)
	}
	if cfg.Server.Port != config.DefaultPort {
		t.Errorf("Port = %d, expected %d", cfg.Server.Port, config.DefaultPort)
	}
	if cfg.Analysis.Timeout != config.DefaultAnalysisTimeout {
		t.Errorf("Timeout = %v", cfg.Analysis.Timeout)
	}
	if cfg.Calendar.Name != "primary" || cfg.Calendar.Token != filepath.Join(home, ".config", "smarttodo", "token.json") {
		t.Errorf("unexpected calendar config %+v", cfg.Calendar)
	}
}

func TestLoad_Full(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, config.ProjectFile), `
[store]
backend = "supabase"
seed-samples = false

[supabase]
url = "https://example.supabase.co"
key = "anon"
owner = "6f1c1c3e-1c1e-4c55-9d8f-3f1f9d1a2b3c"

[analysis]
endpoint = "https://example.supabase.co/functions/v1/task-analysis"
timeout = "5s"
gemini-model = "gemini-2.0-flash"

[server]
port = 9000

[calendar]
credentials = "~/secrets/google.json"
name = "Todo"

[log]
level = "debug"
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Store.Backend != config.BackendSupabase || cfg.Store.SeedSamples {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Supabase.Key != "anon" || cfg.Supabase.URL != "https://example.supabase.co" {
		t.Errorf("unexpected supabase config %+v", cfg.Supabase)
	}
	if cfg.Analysis.Timeout != 5*time.Second || cfg.Analysis.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("unexpected analysis config %+v", cfg.Analysis)
	}
	if cfg.Server.Port != 9000 || cfg.Log.Level != "debug" || cfg.Calendar.Name != "Todo" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if strings.HasPrefix(cfg.Calendar.Credentials, "~") || !strings.HasSuffix(cfg.Calendar.Credentials, filepath.Join("secrets", "google.json")) {
		t.Errorf("expected expanded credentials path, got %q", cfg.Calendar.Credentials)
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "smarttodo", "config.toml"), `
[store]
seed-samples = false

[server]
port = 9100

[analysis]
endpoint = "https://global.example/analysis"
key = "global-key"
`)
	writeFile(t, filepath.Join(tmpDir, config.ProjectFile), `
[server]
port = 9200

[analysis]
key = ""
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("Port = %d, expected project value", cfg.Server.Port)
	}
	if cfg.Analysis.Endpoint != "https://global.example/analysis" {
		t.Errorf("expected global endpoint, got %q", cfg.Analysis.Endpoint)
	}
	if cfg.Analysis.Key != "" {
		t.Errorf("expected project to clear key, got %q", cfg.Analysis.Key)
	}
	if cfg.Store.SeedSamples {
		t.Error("expected global seed-samples=false to apply")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()
	t.Setenv("TODO_ANALYSIS_KEY", "env-key")
	t.Setenv("TODO_STATE_DIR", filepath.Join(tmpDir, "state"))
	t.Setenv("TODO_LOG_LEVEL", "warn")
	t.Setenv("MY_GEMINI", "gemini-secret")

	writeFile(t, filepath.Join(tmpDir, config.ProjectFile), `
[analysis]
key = "file-key"
gemini-key-env = "MY_GEMINI"
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Analysis.Key != "env-key" {
		t.Errorf("expected env key, got %q", cfg.Analysis.Key)
	}
	if cfg.Store.Dir != filepath.Join(tmpDir, "state") {
		t.Errorf("expected env state dir, got %q", cfg.Store.Dir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected env log level, got %q", cfg.Log.Level)
	}
	if cfg.Analysis.GeminiKey() != "gemini-secret" {
		t.Errorf("expected gemini key from MY_GEMINI, got %q", cfg.Analysis.GeminiKey())
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad toml":          "[store\nbackend = ",
		"unknown key":       "[store]\nbakend = \"local\"\n",
		"unknown backend":   "[store]\nbackend = \"sqlite\"\n",
		"supabase no url":   "[store]\nbackend = \"supabase\"\n[supabase]\nowner = \"x\"\n",
		"port out of range": "[server]\nport = 70000\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			testsupport.SetupTestHome(t)
			tmpDir := t.TempDir()
			writeFile(t, filepath.Join(tmpDir, config.ProjectFile), content)

			if _, err := config.Load(tmpDir); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestResolveAddr(t *testing.T) {
	cfg := &config.Config{Server: config.Server{Port: 9300}}

	cases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "", want: "127.0.0.1:9300"},
		{input: "8000", want: "127.0.0.1:8000"},
		{input: "0.0.0.0:8000", want: "0.0.0.0:8000"},
		{input: "abc", wantErr: true},
		{input: "70000", wantErr: true},
	}
	for _, tc := range cases {
		got, err := cfg.ResolveAddr(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ResolveAddr(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ResolveAddr(%q) = %q, %v; want %q", tc.input, got, err, tc.want)
		}
	}
}
