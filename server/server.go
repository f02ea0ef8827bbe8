// Package server exposes the task store, the chat assistant and task
// analytics as JSON RPC endpoints, and mounts the HTML client under /web/.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"time"

	"github.com/amonks/smarttodo/analysis"
	"github.com/amonks/smarttodo/chat"
	"github.com/amonks/smarttodo/internal/logging"
	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/tagger"
	"github.com/amonks/smarttodo/task"
	"github.com/amonks/smarttodo/web"
	"github.com/charmbracelet/log"
)

// Analyzer summarises a task list. *analysis.Client satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, tasks []task.Task) (analysis.Analysis, error)
}

// ServerOptions configures a Server.
type ServerOptions struct {
	Store *task.Store
	// Assistant defaults to one without a remote, so chat replies fail
	// softly and accepted suggestions are stored unenhanced.
	Assistant *chat.Assistant
	// Analyzer may be nil, in which case /analyze answers 503.
	Analyzer Analyzer
	// Endpoint, when set, is mounted at /analysis.
	Endpoint http.Handler
	Logger   *log.Logger
}

// Server handles task RPCs.
type Server struct {
	store     *task.Store
	assistant *chat.Assistant
	analyzer  Analyzer
	endpoint  http.Handler
	logger    *log.Logger
}

const shutdownTimeout = 5 * time.Second

var errAnalysisUnavailable = errors.New("task analysis is not configured")

// NewServer creates a server.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("task store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	assistant := opts.Assistant
	if assistant == nil {
		assistant = chat.NewAssistant(opts.Store, chat.AssistantOptions{Logger: logger, Now: opts.Store.Now})
	}
	return &Server{
		store:     opts.Store,
		assistant: assistant,
		analyzer:  opts.Analyzer,
		endpoint:  opts.Endpoint,
		logger:    logger,
	}, nil
}

// Handler returns the HTTP handler for task RPCs and the web client.
func (s *Server) Handler() http.Handler {
	return s.handler("")
}

func (s *Server) handler(baseURL string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/list", s.handleTasksList)
	mux.HandleFunc("/tasks/create", s.handleTasksCreate)
	mux.HandleFunc("/tasks/update", s.handleTasksUpdate)
	mux.HandleFunc("/tasks/toggle", s.handleTasksToggle)
	mux.HandleFunc("/tasks/delete", s.handleTasksDelete)
	mux.HandleFunc("/tasks/clear", s.handleTasksClear)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/suggest", s.handleSuggest)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/chat", s.handleChatSend)
	mux.HandleFunc("/chat/messages", s.handleChatMessages)
	mux.HandleFunc("/chat/accept", s.handleChatAccept)
	mux.HandleFunc("/chat/dismiss", s.handleChatDismiss)
	if s.endpoint != nil {
		mux.Handle("/analysis", s.endpoint)
	}
	webHandler := web.NewHandler(web.Options{BaseURL: baseURL, Now: s.store.Now})
	mux.Handle("/web/", webHandler)
	mux.Handle("/web", http.RedirectHandler("/web/tasks", http.StatusFound))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/web/tasks", http.StatusFound)
	})
	return s.recoverHandler(mux)
}

// Serve runs the server on addr until it fails or ctx is done or the
// process is interrupted.
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  s.handler(resolveWebBaseURL(addr)),
		ErrorLog: logging.Std(s.logger),
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "err", err)
			return err
		}
		return nil
	case <-interrupts:
		s.logger.Info("interrupt received, shutting down")
	case <-ctx.Done():
		s.logger.Info("context done, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	shutdownErr := server.Shutdown(shutdownCtx)
	cancel()
	listenErr := <-listenErrs
	if errors.Is(listenErr, http.ErrServerClosed) {
		listenErr = nil
	}
	return errors.Join(shutdownErr, listenErr)
}

func resolveWebBaseURL(addr string) string {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return internalstrings.TrimTrailingSlash(trimmed)
	}
	host := trimmed
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	if strings.HasPrefix(host, "0.0.0.0:") {
		host = "127.0.0.1:" + strings.TrimPrefix(host, "0.0.0.0:")
	}
	return "http://" + host
}

func (s *Server) handleTasksList(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload tasksListRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := payload.Criteria.Status.Validate(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	tasks := query.Sort(query.Filter(s.store.List(), payload.Criteria, s.store.Now()))
	writeJSON(w, http.StatusOK, tasksListResponse{Tasks: tasks})
}

func (s *Server) handleTasksCreate(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload tasksCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.store.Create(r.Context(), payload.Title, task.CreateOptions{
		Description: payload.Description,
		Priority:    payload.Priority,
		Category:    payload.Category,
		DueDate:     payload.DueDate,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: created})
}

func (s *Server) handleTasksUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload tasksUpdateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	id, err := requiredTrimmed(payload.ID, "task id")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	opts := payload.options()
	if !opts.HasChanges() {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("no changes requested"))
		return
	}
	updated, err := s.store.Update(r.Context(), id, opts)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: updated})
}

func (s *Server) handleTasksToggle(w http.ResponseWriter, r *http.Request) {
	s.handleTaskByID(w, r, s.store.Toggle)
}

func (s *Server) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	s.handleTaskByID(w, r, s.store.Delete)
}

func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request, apply func(context.Context, string) (task.Task, error)) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload taskIDRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	id, err := requiredTrimmed(payload.ID, "task id")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	result, err := apply(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: result})
}

func (s *Server) handleTasksClear(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := decodeJSON(r, &emptyRequest{}); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	removed, err := s.store.ClearCompleted(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksClearResponse{Removed: removed})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := decodeJSON(r, &emptyRequest{}); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	tasks := s.store.List()
	now := s.store.Now()
	stats := query.ComputeStats(tasks, now)
	writeJSON(w, http.StatusOK, statsResponse{
		Stats:          stats,
		CompletionRate: stats.CompletionRate(),
		Activity:       query.WeeklyActivity(tasks, now),
		Week:           query.WeekView(tasks, now),
		Streaks:        query.Streaks(tasks, now),
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload suggestRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	suggestions := tagger.Suggest(payload.Text)
	if suggestions == nil {
		suggestions = []tagger.Suggestion{}
	}
	category, priority := tagger.Best(payload.Text)
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions, Category: category, Priority: priority})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := decodeJSON(r, &emptyRequest{}); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if s.analyzer == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, errAnalysisUnavailable)
		return
	}
	result, err := s.analyzer.Analyze(r.Context(), s.store.List())
	if err != nil {
		s.logger.Warn("task analysis failed", "err", err)
		result = analysis.Analysis{Summary: analysis.SummaryFailed, Suggestions: []task.Suggestion{}}
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: result})
}

func (s *Server) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := decodeJSON(r, &emptyRequest{}); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	session := s.assistant.Session()
	messages := session.Messages()
	var pending []string
	for _, m := range messages {
		if m.Role == chat.RoleSuggestion && session.Pending(m.ID) {
			pending = append(pending, m.ID)
		}
	}
	writeJSON(w, http.StatusOK, chatMessagesResponse{Messages: messages, Pending: pending})
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload chatSendRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	message, err := requiredTrimmed(payload.Message, "message")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, chatMessagesResponse{Messages: s.assistant.Send(r.Context(), message)})
}

func (s *Server) handleChatAccept(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload taskIDRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	id, err := requiredTrimmed(payload.ID, "message id")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	result, err := s.assistant.Accept(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	messages := result.Messages
	if messages == nil {
		messages = []chat.Message{}
	}
	writeJSON(w, http.StatusOK, chatAcceptResponse{
		Task:     result.Task,
		Enhanced: result.Enhanced,
		Notice:   result.Notice,
		Messages: messages,
	})
}

func (s *Server) handleChatDismiss(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload taskIDRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	id, err := requiredTrimmed(payload.ID, "message id")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	message, err := s.assistant.Dismiss(id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatDismissResponse{Message: message})
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logger.Error("panic handling request", "method", r.Method, "path", r.URL.Path, "panic", recovered, "stack", string(debug.Stack()))
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

// decodeJSON decodes a single JSON value. An empty body decodes as the
// zero value.
func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeStoreError picks a status for errors coming out of the store or the
// assistant.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, task.ErrTaskNotFound), errors.Is(err, chat.ErrSuggestionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, task.ErrAmbiguousID), task.IsValidationError(err):
		status = http.StatusBadRequest
	}
	s.writeError(w, r, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(data)
}
