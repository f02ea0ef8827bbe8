package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/amonks/smarttodo/analysis"
)

// RecentLimit is how many earlier messages accompany a chat request.
const RecentLimit = 5

// Welcome text shown at the start of every session.
const (
	WelcomeGreeting = "👋 Hello! I'm your task assistant. You can ask me about your tasks or create new ones by chatting with me."
	WelcomeHint     = "Try asking things like:"
)

// WelcomeExamples are listed below WelcomeHint.
var WelcomeExamples = []string{
	"• What tasks do I have today?",
	"• I need to finish my project report by Friday",
	"• What health-related tasks do I have?",
}

// ErrSuggestionNotFound is returned when a suggestion ID is unknown or has
// already been accepted or dismissed.
var ErrSuggestionNotFound = errors.New("task suggestion not found")

// Session holds the messages of one conversation in memory.
type Session struct {
	mu       sync.Mutex
	messages []Message
	resolved map[string]bool
}

// NewSession starts a conversation with the welcome messages.
func NewSession(now time.Time) *Session {
	s := &Session{resolved: map[string]bool{}}
	s.messages = append(s.messages,
		NewMessage(RoleAssistant, WelcomeGreeting, now),
		NewMessage(RoleSystem, WelcomeHint, now),
	)
	for _, example := range WelcomeExamples {
		s.messages = append(s.messages, NewMessage(RoleSystem, example, now))
	}
	return s
}

// Append adds messages to the end of the conversation.
func (s *Session) Append(messages ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range messages {
		s.messages = append(s.messages, cloneMessage(m))
	}
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = cloneMessage(m)
	}
	return out
}

// Recent returns up to n of the latest messages, oldest first.
func (s *Session) Recent(n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		return []Message{}
	}
	start := len(s.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]Message, 0, len(s.messages)-start)
	for _, m := range s.messages[start:] {
		out = append(out, cloneMessage(m))
	}
	return out
}

// Pending reports whether the message is a suggestion still awaiting an
// answer.
func (s *Session) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pendingLocked(id)
	return ok
}

// claim marks a pending suggestion as answered and returns it.
func (s *Session) claim(id string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.pendingLocked(id)
	if !ok {
		return Message{}, ErrSuggestionNotFound
	}
	s.resolved[id] = true
	return cloneMessage(m), nil
}

// release makes a claimed suggestion answerable again.
func (s *Session) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resolved, id)
}

func (s *Session) pendingLocked(id string) (Message, bool) {
	if s.resolved[id] {
		return Message{}, false
	}
	for _, m := range s.messages {
		if m.ID == id && m.Role == RoleSuggestion && m.Suggestion != nil {
			return m, true
		}
	}
	return Message{}, false
}

func contextMessages(messages []Message) []analysis.ContextMessage {
	out := make([]analysis.ContextMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, analysis.ContextMessage{
			Type:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return out
}
