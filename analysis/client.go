package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/task"
)

// DefaultTimeout bounds every remote call.
const DefaultTimeout = 30 * time.Second

// ErrEmptyResponse is returned when the endpoint answers without content.
var ErrEmptyResponse = errors.New("no response from analysis endpoint")

// ClientOptions configures a Client.
type ClientOptions struct {
	// Endpoint is the full URL requests are posted to.
	Endpoint string
	// Key is sent as a bearer token and apikey header when set.
	Key string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
}

// Client calls the analysis endpoint.
type Client struct {
	endpoint string
	key      string
	timeout  time.Duration
	client   *http.Client
}

// NewClient creates a client for the endpoint.
func NewClient(opts ClientOptions) (*Client, error) {
	if internalstrings.IsBlank(opts.Endpoint) {
		return nil, fmt.Errorf("analysis endpoint is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		endpoint: strings.TrimSpace(opts.Endpoint),
		key:      opts.Key,
		timeout:  timeout,
		client:   httpClient,
	}, nil
}

// Chat sends a message with its context and returns the reply text.
func (c *Client) Chat(ctx context.Context, message string, chatContext ChatContext) (string, error) {
	if chatContext.Tasks == nil {
		chatContext.Tasks = []task.Task{}
	}
	if chatContext.PreviousMessages == nil {
		chatContext.PreviousMessages = []ContextMessage{}
	}

	var resp Response
	if err := c.post(ctx, Request{Type: TypeChat, Message: message, Context: &chatContext}, &resp); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	if resp.Response == nil || strings.TrimSpace(*resp.Response) == "" {
		return "", fmt.Errorf("chat: %w", ErrEmptyResponse)
	}
	return *resp.Response, nil
}

// Enhance returns a generated elaboration of a task draft.
func (c *Client) Enhance(ctx context.Context, draft TaskDraft) (string, error) {
	var resp Response
	if err := c.post(ctx, Request{Type: TypeEnhance, Task: &draft}, &resp); err != nil {
		return "", fmt.Errorf("enhance task: %w", err)
	}

	var text string
	if len(resp.Suggestions) > 0 {
		if err := json.Unmarshal(resp.Suggestions, &text); err != nil {
			return "", fmt.Errorf("enhance task: decode suggestions: %w", err)
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("enhance task: %w", ErrEmptyResponse)
	}
	return text, nil
}

// Analyze asks for a summary of tasks and suggested follow-up tasks. An
// empty list is answered locally without a remote call.
func (c *Client) Analyze(ctx context.Context, tasks []task.Task) (Analysis, error) {
	if len(tasks) < 1 {
		return Analysis{Summary: SummaryNeedMoreTasks, Suggestions: []task.Suggestion{}}, nil
	}

	var resp Response
	if err := c.post(ctx, Request{Type: TypeAnalyze, Tasks: tasks}, &resp); err != nil {
		return Analysis{}, fmt.Errorf("analyze tasks: %w", err)
	}
	if resp.Summary == nil && len(resp.Suggestions) == 0 {
		return Analysis{}, fmt.Errorf("analyze tasks: %w", ErrEmptyResponse)
	}

	result := Analysis{Summary: SummaryUnavailable, Suggestions: []task.Suggestion{}}
	if resp.Summary != nil && strings.TrimSpace(*resp.Summary) != "" {
		result.Summary = *resp.Summary
	}

	var raw []rawSuggestion
	if len(resp.Suggestions) > 0 && string(resp.Suggestions) != "null" {
		if err := json.Unmarshal(resp.Suggestions, &raw); err != nil {
			return Analysis{}, fmt.Errorf("analyze tasks: decode suggestions: %w", err)
		}
	}
	for _, r := range raw {
		result.Suggestions = append(result.Suggestions, r.normalize())
	}
	return result, nil
}

// rawSuggestion is a suggestion as generated, before defaults are applied.
type rawSuggestion struct {
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	Priority   string  `json:"priority"`
	DueDate    string  `json:"dueDate"`
	Confidence float64 `json:"confidence"`
}

func (r rawSuggestion) normalize() task.Suggestion {
	s := task.Suggestion{
		Title:      strings.TrimSpace(r.Title),
		Category:   task.Category(strings.ToLower(strings.TrimSpace(r.Category))),
		Priority:   task.Priority(strings.ToLower(strings.TrimSpace(r.Priority))),
		Confidence: r.Confidence,
	}
	if s.Title == "" {
		s.Title = "Task suggestion"
	}
	if !s.Category.IsValid() {
		s.Category = task.CategoryOther
	}
	if !s.Priority.IsValid() {
		s.Priority = task.PriorityMedium
	}
	if s.Confidence <= 0 || s.Confidence > 1 {
		s.Confidence = 0.5
	}
	if due, err := task.ParseDate(strings.TrimSpace(r.DueDate)); err == nil {
		s.DueDate = &due
	}
	return s
}

func (c *Client) post(ctx context.Context, payload Request, dest *Response) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("apikey", c.key)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if dest.Error != "" {
		return fmt.Errorf("analysis error: %s", dest.Error)
	}
	return nil
}

func readErrorResponse(resp *http.Response) error {
	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("analysis error: %s", payload.Error)
	}
	return fmt.Errorf("analysis error: %s", resp.Status)
}
