// Package analysis talks to the remote text-generation service that powers
// chat replies, task enhancement and task-list analysis. It provides both
// the client the app uses and an endpoint implementing the same contract.
package analysis

import (
	"encoding/json"
	"time"

	"github.com/amonks/smarttodo/task"
)

// Request types understood by the endpoint.
const (
	TypeChat    = "chat"
	TypeEnhance = "enhance-task"
	TypeAnalyze = "analyze-tasks"
)

// Request is the body posted to the endpoint.
type Request struct {
	Type    string       `json:"type"`
	Message string       `json:"message,omitempty"`
	Context *ChatContext `json:"context,omitempty"`
	Task    *TaskDraft   `json:"task,omitempty"`
	Tasks   []task.Task  `json:"tasks,omitempty"`
}

// Response is the body returned by the endpoint. Suggestions carries free
// text for enhance requests and a list for analyze requests.
type Response struct {
	Response    *string         `json:"response,omitempty"`
	Summary     *string         `json:"summary,omitempty"`
	Suggestions json.RawMessage `json:"suggestions"`
	Error       string          `json:"error,omitempty"`
}

// ChatContext is sent alongside a chat message.
type ChatContext struct {
	Tasks            []task.Task      `json:"tasks"`
	PreviousMessages []ContextMessage `json:"previousMessages"`
}

// ContextMessage is one earlier chat message.
type ContextMessage struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskDraft describes a task to enhance.
type TaskDraft struct {
	Title    string        `json:"title"`
	Category task.Category `json:"category"`
	Priority task.Priority `json:"priority"`
	// DueDate is a date or "Not specified".
	DueDate string `json:"dueDate"`
}

// NoDueDate is sent when a draft has no due date.
const NoDueDate = "Not specified"

// DraftFromSuggestion builds the enhance payload for a suggestion.
func DraftFromSuggestion(s task.Suggestion) TaskDraft {
	draft := TaskDraft{Title: s.Title, Category: s.Category, Priority: s.Priority, DueDate: NoDueDate}
	if s.DueDate != nil {
		draft.DueDate = s.DueDate.String()
	}
	return draft
}

// Analysis summarises a task list and proposes new tasks.
type Analysis struct {
	Summary     string            `json:"summary"`
	Suggestions []task.Suggestion `json:"suggestions"`
}

// Fallback text used when analysis cannot run.
const (
	SummaryNeedMoreTasks = "Add more tasks to get personalized insights!"
	SummaryUnavailable   = "No summary available"
	SummaryFailed        = "Error analyzing tasks. Please try again later."
)
