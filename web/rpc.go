package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amonks/smarttodo/analysis"
	"github.com/amonks/smarttodo/chat"
	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/tagger"
	"github.com/amonks/smarttodo/task"
)

func postJSON(ctx context.Context, client *http.Client, baseURL, path string, payload any, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readErrorResponse(resp)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func readErrorResponse(resp *http.Response) error {
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if message, ok := payload["error"]; ok {
			return fmt.Errorf("%s", message)
		}
	}
	return fmt.Errorf("server error: %s", resp.Status)
}

type tasksListRequest struct {
	Criteria query.Criteria `json:"criteria"`
}

type tasksListResponse struct {
	Tasks []task.Task `json:"tasks"`
}

type tasksCreateRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    task.Priority `json:"priority"`
	Category    task.Category `json:"category"`
	DueDate     *task.Date    `json:"dueDate"`
}

type taskResponse struct {
	Task task.Task `json:"task"`
}

type taskIDRequest struct {
	ID string `json:"id"`
}

type tasksClearResponse struct {
	Removed int `json:"removed"`
}

type statsResponse struct {
	Stats          query.Stats         `json:"stats"`
	CompletionRate float64             `json:"completionRate"`
	Activity       []query.DayActivity `json:"activity"`
	Week           []query.WeekDay     `json:"week"`
	Streaks        []query.Streak      `json:"streaks"`
}

type suggestRequest struct {
	Text string `json:"text"`
}

type suggestResponse struct {
	Suggestions []tagger.Suggestion `json:"suggestions"`
	Category    task.Category       `json:"category,omitempty"`
	Priority    task.Priority       `json:"priority,omitempty"`
}

type analyzeResponse struct {
	Analysis analysis.Analysis `json:"analysis"`
}

type chatSendRequest struct {
	Message string `json:"message"`
}

type chatMessagesResponse struct {
	Messages []chat.Message `json:"messages"`
	Pending  []string       `json:"pending,omitempty"`
}

type chatAcceptResponse struct {
	Task     task.Task      `json:"task"`
	Enhanced bool           `json:"enhanced"`
	Notice   string         `json:"notice,omitempty"`
	Messages []chat.Message `json:"messages"`
}

type chatDismissResponse struct {
	Message chat.Message `json:"message"`
}

type emptyRequest struct{}
