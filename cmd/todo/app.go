package main

import (
	"context"
	"fmt"
	"os"

	"github.com/amonks/smarttodo/analysis"
	"github.com/amonks/smarttodo/chat"
	"github.com/amonks/smarttodo/internal/config"
	"github.com/amonks/smarttodo/internal/localstore"
	"github.com/amonks/smarttodo/internal/logging"
	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/internal/supabase"
	"github.com/amonks/smarttodo/task"
	"github.com/charmbracelet/log"
)

// loadConfig reads the global config and the smarttodo.toml in the
// working directory.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return config.Load(cwd)
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	return logging.New(os.Stderr, logging.Options{
		Prefix:     "todo",
		Level:      cfg.Log.Level,
		Timestamps: true,
	})
}

func openBackend(cfg *config.Config) (task.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendSupabase:
		return supabase.New(supabase.Options{
			URL:   cfg.Supabase.URL,
			Key:   cfg.Supabase.Key,
			Owner: cfg.Supabase.Owner,
		})
	default:
		return localstore.New(cfg.Store.Dir), nil
	}
}

// openTaskStore loads the configured backend.
func openTaskStore(ctx context.Context, cfg *config.Config) (*task.Store, error) {
	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	return task.Open(ctx, backend, task.OpenOptions{SeedSamples: cfg.Store.SeedSamples})
}

// loadTaskStore is loadConfig followed by openTaskStore.
func loadTaskStore(ctx context.Context) (*task.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := openTaskStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

// newAnalysisClient returns nil when no endpoint is configured.
func newAnalysisClient(cfg *config.Config) (*analysis.Client, error) {
	if internalstrings.IsBlank(cfg.Analysis.Endpoint) {
		return nil, nil
	}
	return analysis.NewClient(analysis.ClientOptions{
		Endpoint: cfg.Analysis.Endpoint,
		Key:      cfg.Analysis.Key,
		Timeout:  cfg.Analysis.Timeout,
	})
}

// newAssistant wires the chat assistant to the store and, when configured,
// the analysis endpoint.
func newAssistant(cfg *config.Config, store *task.Store, logger *log.Logger) (*chat.Assistant, error) {
	client, err := newAnalysisClient(cfg)
	if err != nil {
		return nil, err
	}
	opts := chat.AssistantOptions{Logger: logger, Now: store.Now}
	if client != nil {
		opts.Remote = client
	}
	return chat.NewAssistant(store, opts), nil
}
