// Package markdown renders assistant replies and task descriptions for the
// terminal.
package markdown

import (
	"strings"
	"sync"

	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Style selects the glamour theme.
type Style int

const (
	// StylePlain renders without color, for pipes and tests.
	StylePlain Style = iota
	// StyleDark renders with the dark terminal theme.
	StyleDark
)

type renderer interface {
	Render(string) (string, error)
}

type rendererKey struct {
	style Style
	width int
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]renderer{}
)

// Render formats markdown for terminal output at the given width. If the
// renderer fails the normalized input is returned unchanged.
func Render(style Style, width int, input string) string {
	value := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(input))
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if width < 1 {
		width = 1
	}

	rendered := value
	if r := markdownRenderer(style, width); r != nil {
		if formatted, ok := safeRender(r, value); ok {
			rendered = formatted
		}
	}
	rendered = strings.Trim(internalstrings.TrimTrailingNewlines(rendered), "\n")
	if strings.TrimSpace(rendered) == "" {
		return value
	}
	return rendered
}

func safeRender(r renderer, value string) (out string, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = "", false
		}
	}()
	formatted, err := r.Render(value)
	if err != nil {
		return "", false
	}
	return formatted, true
}

func markdownRenderer(style Style, width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	key := rendererKey{style: style, width: width}
	if cached, ok := renderers[key]; ok {
		return cached
	}

	var config ansi.StyleConfig
	switch style {
	case StyleDark:
		config = styles.DarkStyleConfig
	default:
		config = styles.ASCIIStyleConfig
		config.Item.BlockPrefix = "- "
	}
	zero := uint(0)
	config.Document.Margin = &zero

	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(config),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = created
	return created
}
