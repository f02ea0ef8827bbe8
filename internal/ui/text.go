package ui

import (
	"strings"

	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// ReflowParagraphs wraps text to width, keeping blank-line paragraph
// breaks and collapsing other whitespace.
func ReflowParagraphs(value string, width int) string {
	value = strings.TrimSpace(internalstrings.NormalizeNewlines(value))
	if value == "" {
		return ""
	}
	if width < 1 {
		width = 1
	}

	var wrapped []string
	for _, paragraph := range strings.Split(value, "\n\n") {
		normalized := internalstrings.NormalizeWhitespace(paragraph)
		if normalized == "" {
			continue
		}
		wrapped = append(wrapped, wordwrap.String(normalized, width))
	}
	return strings.Join(wrapped, "\n\n")
}

// IndentBlock wraps value to width and indents every line.
func IndentBlock(value string, width, spaces int) string {
	wrapped := ReflowParagraphs(value, width-spaces)
	if wrapped == "" {
		return ""
	}
	return indent.String(wrapped, uint(spaces))
}
