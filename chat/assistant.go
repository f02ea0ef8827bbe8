package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/smarttodo/analysis"
	"github.com/amonks/smarttodo/internal/logging"
	"github.com/amonks/smarttodo/task"
	"github.com/charmbracelet/log"
)

// Reply text used by the assistant.
const (
	SuggestionPrompt  = "Would you like me to add this to your tasks?"
	DismissedNotice   = "Task suggestion dismissed"
	ErrorReply        = "I encountered an error processing your request. Please try again."
	UnenhancedNotice  = "Added task without AI enhancement"
	unavailableReason = "no analysis endpoint configured"
)

// Remote is the part of the analysis client the assistant needs.
type Remote interface {
	Chat(ctx context.Context, message string, chatContext analysis.ChatContext) (string, error)
	Enhance(ctx context.Context, draft analysis.TaskDraft) (string, error)
}

// Tasks is the part of the task store the assistant needs.
type Tasks interface {
	List() []task.Task
	Create(ctx context.Context, title string, opts task.CreateOptions) (task.Task, error)
}

// AssistantOptions configures an Assistant.
type AssistantOptions struct {
	// Remote may be nil, in which case chat replies fail softly and accepted
	// suggestions are added without enhancement.
	Remote Remote
	Logger *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Assistant drives a chat session against the task store.
type Assistant struct {
	session *Session
	tasks   Tasks
	remote  Remote
	logger  *log.Logger
	now     func() time.Time
}

// NewAssistant creates an assistant with a fresh session.
func NewAssistant(tasks Tasks, opts AssistantOptions) *Assistant {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Assistant{
		session: NewSession(now()),
		tasks:   tasks,
		remote:  opts.Remote,
		logger:  logger,
		now:     now,
	}
}

// Session returns the conversation.
func (a *Assistant) Session() *Session {
	return a.session
}

// Send handles one user message and returns the messages it added,
// starting with the user's own. Remote failures become an apologetic
// assistant reply rather than an error.
func (a *Assistant) Send(ctx context.Context, input string) []Message {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	now := a.now()
	history := a.session.Recent(RecentLimit)
	added := []Message{NewMessage(RoleUser, input, now)}

	intent := ParseIntent(input, now)
	if intent.IsTaskCreation {
		suggestion := intent.Suggestion()
		m := NewMessage(RoleSuggestion, SuggestionPrompt, now)
		m.Suggestion = &suggestion
		added = append(added, m)
		a.session.Append(added...)
		return added
	}

	a.session.Append(added...)
	reply, err := a.chat(ctx, input, history)
	if err != nil {
		a.logger.Error("chat request failed", "err", err)
		reply = ErrorReply
	}
	m := NewMessage(RoleAssistant, reply, a.now())
	a.session.Append(m)
	return append(added, m)
}

func (a *Assistant) chat(ctx context.Context, input string, history []Message) (string, error) {
	if a.remote == nil {
		return "", fmt.Errorf("chat: %s", unavailableReason)
	}
	chatContext := analysis.ChatContext{
		Tasks:            SelectContext(input, a.tasks.List(), a.now()),
		PreviousMessages: contextMessages(history),
	}
	return a.remote.Chat(ctx, input, chatContext)
}

// AcceptResult describes the task created from an accepted suggestion.
type AcceptResult struct {
	Task     task.Task
	Enhanced bool
	// Notice is set when the task was added without enhancement.
	Notice   string
	Messages []Message
}

// Accept turns a pending suggestion into a task. The suggestion is first
// sent for enhancement and the generated text becomes the description; if
// that fails the task is still created, with an empty description and a
// notice. Only a failure to store the task is returned as an error, and
// the suggestion then stays pending.
func (a *Assistant) Accept(ctx context.Context, messageID string) (AcceptResult, error) {
	m, err := a.session.claim(messageID)
	if err != nil {
		return AcceptResult{}, err
	}
	suggestion := *m.Suggestion

	description, enhanceErr := a.enhance(ctx, suggestion)
	if enhanceErr != nil {
		a.logger.Warn("task enhancement failed", "title", suggestion.Title, "err", enhanceErr)
		description = ""
	}

	opts := suggestion.CreateOptions()
	opts.Description = description
	created, err := a.tasks.Create(ctx, suggestion.Title, opts)
	if err != nil {
		a.session.release(messageID)
		return AcceptResult{}, fmt.Errorf("accept suggestion: %w", err)
	}

	if enhanceErr != nil {
		return AcceptResult{Task: created, Notice: UnenhancedNotice}, nil
	}

	now := a.now()
	added := []Message{
		NewMessage(RoleSystem, fmt.Sprintf(`✅ Task added: "%s"`, suggestion.Title), now),
		NewMessage(RoleAssistant, "I've enhanced your task with some details:\n\n"+description, now),
	}
	a.session.Append(added...)
	return AcceptResult{Task: created, Enhanced: true, Messages: added}, nil
}

func (a *Assistant) enhance(ctx context.Context, suggestion task.Suggestion) (string, error) {
	if a.remote == nil {
		return "", fmt.Errorf("enhance task: %s", unavailableReason)
	}
	return a.remote.Enhance(ctx, analysis.DraftFromSuggestion(suggestion))
}

// Dismiss declines a pending suggestion.
func (a *Assistant) Dismiss(messageID string) (Message, error) {
	if _, err := a.session.claim(messageID); err != nil {
		return Message{}, err
	}
	m := NewMessage(RoleSystem, DismissedNotice, a.now())
	a.session.Append(m)
	return m, nil
}
