package paths

import (
	"path/filepath"
	"testing"
)

func TestDefaultStateDirUsesHome(t *testing.T) {
	t.Setenv("HOME", filepath.Join("/tmp", "test-home"))

	dir, err := DefaultStateDir()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := filepath.Join("/tmp", "test-home", ".local", "state", "smarttodo")
	if dir != expected {
		t.Fatalf("expected %s, got %s", expected, dir)
	}
}

func TestDefaultConfigDirUsesHome(t *testing.T) {
	t.Setenv("HOME", filepath.Join("/tmp", "test-home"))

	dir, err := DefaultConfigDir()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := filepath.Join("/tmp", "test-home", ".config", "smarttodo")
	if dir != expected {
		t.Fatalf("expected %s, got %s", expected, dir)
	}
}

func TestStateDirPrecedence(t *testing.T) {
	t.Setenv("HOME", filepath.Join("/tmp", "test-home"))

	t.Run("override wins", func(t *testing.T) {
		t.Setenv(EnvStateDir, "/from/env")
		dir, err := StateDir("/custom/path")
		if err != nil || dir != "/custom/path" {
			t.Fatalf("expected override, got %q, %v", dir, err)
		}
	})

	t.Run("env beats default", func(t *testing.T) {
		t.Setenv(EnvStateDir, "/from/env")
		dir, err := StateDir("")
		if err != nil || dir != "/from/env" {
			t.Fatalf("expected env dir, got %q, %v", dir, err)
		}
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvStateDir, "")
		dir, err := StateDir("  ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if dir != filepath.Join("/tmp", "test-home", ".local", "state", "smarttodo") {
			t.Fatalf("unexpected default %s", dir)
		}
	})
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", filepath.Join("/tmp", "test-home"))

	for input, want := range map[string]string{
		"~/creds.json":   filepath.Join("/tmp", "test-home", "creds.json"),
		"~":              filepath.Join("/tmp", "test-home"),
		"/abs/path.json": "/abs/path.json",
		"rel/~/x":        "rel/~/x",
	} {
		got, err := ExpandHome(input)
		if err != nil || got != want {
			t.Fatalf("ExpandHome(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
}
