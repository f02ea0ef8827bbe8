// Package web serves the HTML client. Pages are rendered from the server's
// JSON RPC endpoints; the handler itself only keeps one-shot notices and
// form drafts between a POST and the redirect that follows it.
package web

import (
	"context"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/amonks/smarttodo/analysis"
	"github.com/amonks/smarttodo/calendar"
	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/tagger"
	"github.com/amonks/smarttodo/task"
)

// Options configures the web handler.
type Options struct {
	// BaseURL locates the JSON endpoints. Empty means the request's host.
	BaseURL string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler serves the web client.
type Handler struct {
	baseURL   string
	client    *http.Client
	now       func() time.Time
	mux       *http.ServeMux
	templates *template.Template

	mu        sync.Mutex
	flash     *flash
	taskDraft *taskDraft
	analysis  *analysis.Analysis
}

// flash is a message shown once on the next render of its tab.
type flash struct {
	tab    string
	notice string
	err    string
}

type taskDraft struct {
	values      taskFormValues
	suggestions []tagger.Suggestion
}

const (
	tabTasks     = "tasks"
	tabCalendar  = "calendar"
	tabAnalytics = "analytics"
	tabChat      = "chat"
)

// auto asks the tagger to pick a category or priority.
const auto = "auto"

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	h := &Handler{
		baseURL: internalstrings.TrimTrailingSlash(opts.BaseURL),
		client:  &http.Client{},
		now:     now,
	}
	h.templates = newTemplates(now)

	mux := http.NewServeMux()
	mux.HandleFunc("/web/tasks", h.handleTasks)
	mux.HandleFunc("/web/tasks/create", h.handleTasksCreate)
	mux.HandleFunc("/web/tasks/suggest", h.handleTasksSuggest)
	mux.HandleFunc("/web/tasks/toggle", h.handleTasksToggle)
	mux.HandleFunc("/web/tasks/delete", h.handleTasksDelete)
	mux.HandleFunc("/web/tasks/clear", h.handleTasksClear)
	mux.HandleFunc("/web/calendar", h.handleCalendar)
	mux.HandleFunc("/web/analytics", h.handleAnalytics)
	mux.HandleFunc("/web/analytics/analyze", h.handleAnalyticsAnalyze)
	mux.HandleFunc("/web/chat", h.handleChat)
	mux.HandleFunc("/web/chat/send", h.handleChatSend)
	mux.HandleFunc("/web/chat/accept", h.handleChatAccept)
	mux.HandleFunc("/web/chat/dismiss", h.handleChatDismiss)
	h.mux = mux
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) render(w http.ResponseWriter, data pageData) {
	if f := h.consumeFlash(data.ActiveTab); f != nil {
		data.Notice = f.notice
		if data.Error == "" {
			data.Error = f.err
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = h.templates.ExecuteTemplate(w, "page", data)
}

type selectOption struct {
	Value string
	Label string
}

type pageData struct {
	ActiveTab string
	Notice    string
	Error     string

	// Tasks tab.
	Tasks       []task.Task
	Stats       *statsResponse
	Criteria    criteriaValues
	ReturnPath  string
	Form        taskFormValues
	Suggestions []tagger.Suggestion

	CategoryFilters []selectOption
	PriorityFilters []selectOption
	StatusFilters   []selectOption
	CategoryOptions []selectOption
	PriorityOptions []selectOption

	// Calendar tab.
	Grid        calendar.Grid
	Today       task.Date
	SelectedDay task.Date
	DayTasks    []task.Task
	PrevMonth   string
	NextMonth   string

	// Analytics tab.
	Analysis *analysis.Analysis

	// Chat tab.
	Chat []chatEntry
}

func (h *Handler) requestBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *Handler) post(r *http.Request, path string, payload, dest any) error {
	return postJSON(r.Context(), h.client, h.requestBaseURL(r), path, payload, dest)
}

func (h *Handler) fetchTasks(ctx context.Context, baseURL string, criteria query.Criteria) ([]task.Task, error) {
	var response tasksListResponse
	if err := postJSON(ctx, h.client, baseURL, "/tasks/list", tasksListRequest{Criteria: criteria}, &response); err != nil {
		return nil, err
	}
	return response.Tasks, nil
}

func (h *Handler) fetchStats(ctx context.Context, baseURL string) (*statsResponse, error) {
	var response statsResponse
	if err := postJSON(ctx, h.client, baseURL, "/stats", emptyRequest{}, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (h *Handler) setFlash(f flash) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flash = &f
}

func (h *Handler) consumeFlash(tab string) *flash {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.flash == nil || h.flash.tab != tab {
		return nil
	}
	f := h.flash
	h.flash = nil
	return f
}

func (h *Handler) setTaskDraft(draft taskDraft) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taskDraft = &draft
}

func (h *Handler) consumeTaskDraft() *taskDraft {
	h.mu.Lock()
	defer h.mu.Unlock()
	draft := h.taskDraft
	h.taskDraft = nil
	return draft
}

func trimmedQueryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func trimmedFormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	writeMethodNotAllowed(w, method)
	return false
}
