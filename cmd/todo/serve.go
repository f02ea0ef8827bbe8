package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amonks/smarttodo/analysis"
	"github.com/amonks/smarttodo/internal/config"
	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI and JSON API",
	Long: `Serve the web UI and JSON API.

When a Gemini API key is available (see [analysis] gemini-key-env), the
analysis endpoint is also served at /analysis.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (port or host:port, default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, cfg, err := loadTaskStore(ctx)
	if err != nil {
		return err
	}
	addr, err := cfg.ResolveAddr(serveAddr)
	if err != nil {
		return exitError{code: exitInvalid, err: err}
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	assistant, err := newAssistant(cfg, store, logger)
	if err != nil {
		return err
	}
	opts := server.ServerOptions{
		Store:     store,
		Assistant: assistant,
		Logger:    logger,
	}
	client, err := newAnalysisClient(cfg)
	if err != nil {
		return err
	}
	if client != nil {
		opts.Analyzer = client
	}
	endpoint, err := newAnalysisEndpoint(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if endpoint != nil {
		opts.Endpoint = endpoint
	}

	srv, err := server.NewServer(opts)
	if err != nil {
		return err
	}
	logger.Info("serving", "addr", "http://"+addr, "backend", cfg.Store.Backend, "analysis", endpoint != nil)
	fmt.Printf("Serving on http://%s/\n", addr)
	return srv.Serve(ctx, addr)
}

// newAnalysisEndpoint returns nil when no Gemini key is available.
func newAnalysisEndpoint(ctx context.Context, cfg *config.Config, logger *log.Logger) (http.Handler, error) {
	key := cfg.Analysis.GeminiKey()
	if internalstrings.IsBlank(key) {
		return nil, nil
	}
	generator, err := analysis.NewGeminiGenerator(ctx, analysis.GeminiOptions{
		APIKey: key,
		Model:  cfg.Analysis.GeminiModel,
	})
	if err != nil {
		return nil, err
	}
	handler, err := analysis.NewHandler(analysis.HandlerOptions{
		Generator: generator,
		Logger:    logger.WithPrefix("analysis"),
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}
