package chat

import (
	"time"

	"github.com/amonks/smarttodo/task"
	"github.com/google/uuid"
)

// Role identifies who a message is from.
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleSystem     Role = "system"
	RoleSuggestion Role = "task-suggestion"
)

// Message is one entry in a chat session.
type Message struct {
	ID         string           `json:"id"`
	Role       Role             `json:"type"`
	Content    string           `json:"content"`
	Timestamp  time.Time        `json:"timestamp"`
	Suggestion *task.Suggestion `json:"taskSuggestion,omitempty"`
}

// NewMessage creates a message with a fresh ID.
func NewMessage(role Role, content string, now time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: now,
	}
}

func cloneMessage(m Message) Message {
	if m.Suggestion != nil {
		s := *m.Suggestion
		if s.DueDate != nil {
			s.DueDate = task.DatePtr(*s.DueDate)
		}
		m.Suggestion = &s
	}
	return m
}
