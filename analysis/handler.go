package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/amonks/smarttodo/internal/logging"
	"github.com/charmbracelet/log"
)

// ErrInvalidRequestType is reported for unknown request types.
var ErrInvalidRequestType = errors.New("Invalid request type")

// errorReply is the response text sent alongside any error.
const errorReply = "Error processing request"

const maxRequestBytes = 1 << 20

// HandlerOptions configures the endpoint.
type HandlerOptions struct {
	Generator Generator
	Logger    *log.Logger
}

// Handler serves the analysis contract on top of a Generator. Failures are
// reported in the body with status 200, so clients always get JSON.
type Handler struct {
	generator Generator
	logger    *log.Logger
}

// NewHandler creates an endpoint handler.
func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{generator: opts.Generator, logger: logger}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeResponse(w, http.StatusMethodNotAllowed, Response{Error: "method not allowed", Suggestions: nullJSON})
		return
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			h.logger.Error("panic handling analysis request", "panic", recovered, "stack", string(debug.Stack()))
			h.writeFailure(w, "", fmt.Errorf("internal error"))
		}
	}()

	var req Request
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		h.writeFailure(w, "", fmt.Errorf("invalid request body: %w", err))
		return
	}

	ctx := r.Context()
	switch req.Type {
	case TypeChat:
		prompt, err := chatPrompt(req.Message, req.Context)
		if err != nil {
			h.writeFailure(w, req.Type, err)
			return
		}
		text, err := h.generator.Generate(ctx, prompt, ChatTemperature)
		if err != nil {
			h.writeFailure(w, req.Type, err)
			return
		}
		writeResponse(w, http.StatusOK, Response{Response: &text, Suggestions: nullJSON})

	case TypeEnhance:
		if req.Task == nil || strings.TrimSpace(req.Task.Title) == "" {
			h.writeFailure(w, req.Type, fmt.Errorf("task title is required"))
			return
		}
		text, err := h.generator.Generate(ctx, enhancePrompt(*req.Task), EnhanceTemperature)
		if err != nil {
			h.writeFailure(w, req.Type, err)
			return
		}
		suggestions, err := json.Marshal(text)
		if err != nil {
			h.writeFailure(w, req.Type, err)
			return
		}
		writeResponse(w, http.StatusOK, Response{Response: &text, Suggestions: suggestions})

	case TypeAnalyze:
		prompt, err := analyzePrompt(req.Tasks)
		if err != nil {
			h.writeFailure(w, req.Type, err)
			return
		}
		text, err := h.generator.Generate(ctx, prompt, AnalyzeTemperature)
		if err != nil {
			h.writeFailure(w, req.Type, err)
			return
		}
		parsed, err := parseGeneratedAnalysis(text)
		if err != nil {
			h.writeFailure(w, req.Type, err)
			return
		}
		writeResponse(w, http.StatusOK, Response{Response: &parsed.Summary, Summary: &parsed.Summary, Suggestions: parsed.Suggestions})

	default:
		h.writeFailure(w, req.Type, ErrInvalidRequestType)
	}
}

var nullJSON = json.RawMessage("null")

func (h *Handler) writeFailure(w http.ResponseWriter, requestType string, err error) {
	h.logger.Error("analysis request failed", "type", requestType, "err", err)
	reply := errorReply
	writeResponse(w, http.StatusOK, Response{Error: err.Error(), Response: &reply, Suggestions: nullJSON})
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}
