package server

import (
	"github.com/amonks/smarttodo/analysis"
	"github.com/amonks/smarttodo/chat"
	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/tagger"
	"github.com/amonks/smarttodo/task"
)

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

type tasksUpdateRequest struct {
	ID           string         `json:"id"`
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	Completed    *bool          `json:"completed"`
	Priority     *task.Priority `json:"priority"`
	Category     *task.Category `json:"category"`
	DueDate      *task.Date     `json:"dueDate"`
	ClearDueDate bool           `json:"clearDueDate"`
}

func (req tasksUpdateRequest) options() task.UpdateOptions {
	return task.UpdateOptions{
		Title:        req.Title,
		Description:  req.Description,
		Completed:    req.Completed,
		Priority:     req.Priority,
		Category:     req.Category,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	}
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
	// Pending lists suggestion IDs that can still be accepted or dismissed.
	Pending []string `json:"pending,omitempty"`
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
