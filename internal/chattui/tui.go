// Package chattui is the terminal front end for the task assistant.
package chattui

import (
	"context"
	"fmt"
	"strings"

	"github.com/amonks/smarttodo/chat"
	"github.com/amonks/smarttodo/internal/markdown"
	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/internal/ui"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

const inputHeight = 2

type model struct {
	ctx         context.Context
	assistant   *chat.Assistant
	width       int
	height      int
	viewport    viewport.Model
	input       textarea.Model
	spinner     spinner.Model
	busy        bool
	draft       string
	status      string
	statusLevel statusLevel
}

type sentMsg struct {
	added []chat.Message
}

type acceptedMsg struct {
	result chat.AcceptResult
	err    error
}

type dismissedMsg struct {
	err error
}

// Run opens the chat in the alternate screen and blocks until the user
// quits or ctx is canceled.
func Run(ctx context.Context, assistant *chat.Assistant) error {
	if assistant == nil {
		return fmt.Errorf("chat assistant is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(ctx, assistant), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(ctx context.Context, assistant *chat.Assistant) model {
	input := textarea.New()
	input.Placeholder = "Ask about your tasks, or say what you need to do"
	input.Prompt = "> "
	input.ShowLineNumbers = false
	input.CharLimit = 2000
	input.SetHeight(inputHeight)
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.Focus()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	return model{
		ctx:       ctx,
		assistant: assistant,
		viewport:  viewport.New(0, 0),
		input:     input,
		spinner:   spin,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		updated, cmd, handled := m.handleKey(msg)
		if handled {
			return updated, cmd
		}
		m = updated
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case sentMsg:
		m.busy = false
		m.draft = ""
		m.setStatus("", statusNone)
		m.refresh()
		return m, nil
	case acceptedMsg:
		return m.handleAccepted(msg), nil
	case dismissedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(msg.err.Error(), statusError)
		} else {
			m.setStatus(chat.DismissedNotice, statusInfo)
		}
		m.refresh()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	// Typed keys belong to the input; the viewport only scrolls on
	// pgup/pgdown and the mouse.
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit, true
	case "enter":
		if m.busy {
			return m, nil, true
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil, true
		}
		m.input.Reset()
		m.busy = true
		m.draft = text
		m.setStatus("", statusNone)
		m.refresh()
		return m, tea.Batch(m.sendCmd(text), m.spinner.Tick), true
	case "ctrl+a":
		return m.resolveSuggestion(true)
	case "ctrl+x":
		return m.resolveSuggestion(false)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

func (m model) resolveSuggestion(accept bool) (model, tea.Cmd, bool) {
	if m.busy {
		return m, nil, true
	}
	pending, ok := m.latestPending()
	if !ok {
		m.setStatus("No task suggestion to act on", statusError)
		return m, nil, true
	}
	if !accept {
		return m, m.dismissCmd(pending.ID), true
	}
	m.busy = true
	m.setStatus("", statusNone)
	return m, tea.Batch(m.acceptCmd(pending.ID), m.spinner.Tick), true
}

func (m model) handleAccepted(msg acceptedMsg) model {
	m.busy = false
	switch {
	case msg.err != nil:
		m.setStatus(msg.err.Error(), statusError)
	case msg.result.Notice != "":
		m.setStatus(msg.result.Notice, statusInfo)
	default:
		m.setStatus(fmt.Sprintf("Added %q", msg.result.Task.Title), statusInfo)
	}
	m.refresh()
	return m
}

// latestPending returns the newest suggestion that is still waiting for a
// decision. Only that one is reachable from the keyboard.
func (m model) latestPending() (chat.Message, bool) {
	session := m.assistant.Session()
	messages := session.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Role == chat.RoleSuggestion && session.Pending(msg.ID) {
			return msg, true
		}
	}
	return chat.Message{}, false
}

func (m model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return sentMsg{added: m.assistant.Send(m.ctx, text)}
	}
}

func (m model) acceptCmd(id string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.assistant.Accept(m.ctx, id)
		return acceptedMsg{result: result, err: err}
	}
}

func (m model) dismissCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.assistant.Dismiss(id)
		return dismissedMsg{err: err}
	}
}

func (m *model) resize() {
	width := m.width
	if width < 1 {
		width = 1
	}
	// header, status and help take one line each
	height := m.height - inputHeight - 3
	if height < 1 {
		height = 1
	}
	m.viewport.Width = width
	m.viewport.Height = height
	m.input.SetWidth(width)
}

func (m *model) refresh() {
	m.viewport.SetContent(m.renderMessages(m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	sections := []string{
		headerStyle.Width(m.width).Render("Task assistant"),
		m.viewport.View(),
		m.renderStatusLine(),
		m.input.View(),
		helpStyle.Render(m.helpSummary()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) helpSummary() string {
	if _, ok := m.latestPending(); ok {
		return "Keys: enter send | ctrl+a add task | ctrl+x dismiss | pgup/pgdown scroll | esc quit"
	}
	return "Keys: enter send | pgup/pgdown scroll | esc quit"
}

func (m model) renderStatusLine() string {
	if m.busy {
		return m.spinner.View() + " " + valueMuted.Render("Thinking...")
	}
	if internalstrings.IsBlank(m.status) {
		return ""
	}
	style := valueMuted
	if m.statusLevel == statusError {
		style = statusErrorStyle
	} else if m.statusLevel == statusInfo {
		style = statusSuccessStyle
	}
	return style.Render(m.status)
}

func (m model) renderMessages(width int) string {
	if width < 1 {
		width = 1
	}
	session := m.assistant.Session()
	var blocks []string
	for _, msg := range session.Messages() {
		blocks = append(blocks, m.renderMessage(msg, session.Pending(msg.ID), width))
	}
	if m.draft != "" {
		blocks = append(blocks, userLabelStyle.Render("You")+"\n"+ui.ReflowParagraphs(m.draft, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m model) renderMessage(msg chat.Message, pending bool, width int) string {
	stamp := timestampStyle.Render(msg.Timestamp.Format("15:04"))
	switch msg.Role {
	case chat.RoleUser:
		return userLabelStyle.Render("You") + " " + stamp + "\n" + ui.ReflowParagraphs(msg.Content, width)
	case chat.RoleSuggestion:
		header := suggestionLabelStyle.Render("Suggestion") + " " + stamp
		if msg.Suggestion == nil {
			return header + "\n" + msg.Content
		}
		s := msg.Suggestion
		lines := []string{
			s.Title,
			"category: " + ui.Category(s.Category),
			"priority: " + ui.Priority(s.Priority),
			"due:      " + ui.FormatDue(s.DueDate, msg.Timestamp),
		}
		box := resolvedBoxStyle
		prompt := valueMuted.Render("(resolved)")
		if pending {
			box = suggestionBoxStyle
			prompt = msg.Content
		}
		return header + "\n" + box.Render(strings.Join(lines, "\n")) + "\n" + prompt
	default:
		body := markdown.Render(markdownStyle(), width, msg.Content)
		return assistantLabelStyle.Render("Assistant") + " " + stamp + "\n" + body
	}
}

func markdownStyle() markdown.Style {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return markdown.StylePlain
	}
	return markdown.StyleDark
}
