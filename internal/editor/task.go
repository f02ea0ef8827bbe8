package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/smarttodo/task"
)

// TaskData is rendered into the document the user edits.
type TaskData struct {
	// IsUpdate adds the fields that only make sense for existing tasks.
	IsUpdate    bool
	ID          string
	Title       string
	Priority    task.Priority
	Category    task.Category
	Due         string
	Completed   bool
	Description string
}

// DefaultCreateData returns the document for a brand new task.
func DefaultCreateData() TaskData {
	return TaskData{
		Priority: task.PriorityMedium,
		Category: task.CategoryOther,
	}
}

// DataFromTask fills a document from an existing task.
func DataFromTask(t task.Task) TaskData {
	data := TaskData{
		IsUpdate:    true,
		ID:          t.ID,
		Title:       t.Title,
		Priority:    t.Priority,
		Category:    t.Category,
		Completed:   t.Completed,
		Description: t.Description,
	}
	if t.DueDate != nil {
		data.Due = t.DueDate.String()
	}
	return data
}

var taskTemplate = template.Must(template.New("task").Parse(`{{ if .IsUpdate }}# editing {{ .ID }}
{{ end }}title = {{ printf "%q" .Title }}
priority = {{ printf "%q" .Priority }} # high, medium, low
category = {{ printf "%q" .Category }} # work, personal, health, shopping, other
due = {{ printf "%q" .Due }} # YYYY-MM-DD, empty for none
{{- if .IsUpdate }}
completed = {{ .Completed }}
{{- end }}
---
{{ .Description }}
`))

// RenderTaskTOML renders data as a TOML frontmatter document.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask is the validated result of an edit session.
type ParsedTask struct {
	Title       string
	Priority    task.Priority
	Category    task.Category
	Due         *task.Date
	Completed   *bool
	Description string
}

type frontmatter struct {
	Title     string `toml:"title"`
	Priority  string `toml:"priority"`
	Category  string `toml:"category"`
	Due       string `toml:"due"`
	Completed *bool  `toml:"completed"`
}

// ParseTaskTOML parses an edited document.
func ParseTaskTOML(content string) (*ParsedTask, error) {
	head, body := splitFrontmatter(content)

	var fm frontmatter
	meta, err := toml.Decode(head, &fm)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown field %q", undecoded[0].String())
	}

	parsed := &ParsedTask{
		Title:       strings.TrimSpace(fm.Title),
		Completed:   fm.Completed,
		Description: strings.TrimSpace(body),
	}
	if err := task.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	if parsed.Priority, err = task.ParsePriority(fm.Priority); err != nil {
		return nil, err
	}
	if parsed.Category, err = task.ParseCategory(fm.Category); err != nil {
		return nil, err
	}
	if due := strings.TrimSpace(fm.Due); due != "" {
		d, err := task.ParseDate(due)
		if err != nil {
			return nil, err
		}
		parsed.Due = &d
	}
	return parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	lines := strings.Split(strings.TrimLeft(content, "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return strings.Join(lines, "\n"), ""
}

// EditTask opens the editor on existing, or on a blank document when
// existing is nil.
func EditTask(existing *task.Task) (*ParsedTask, error) {
	data := DefaultCreateData()
	if existing != nil {
		data = DataFromTask(*existing)
	}
	return EditTaskWithData(data)
}

// EditTaskWithData opens the editor on a pre-filled document.
func EditTaskWithData(data TaskData) (*ParsedTask, error) {
	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "smarttodo-task-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	return ParseTaskTOML(string(edited))
}

// CreateOptions converts the parsed document into task.CreateOptions.
func (p *ParsedTask) CreateOptions() task.CreateOptions {
	return task.CreateOptions{
		Description: p.Description,
		Priority:    p.Priority,
		Category:    p.Category,
		DueDate:     p.Due,
	}
}

// UpdateOptions converts the parsed document into task.UpdateOptions.
// An empty due field clears the due date.
func (p *ParsedTask) UpdateOptions() task.UpdateOptions {
	opts := task.UpdateOptions{
		Title:       &p.Title,
		Description: &p.Description,
		Priority:    &p.Priority,
		Category:    &p.Category,
		Completed:   p.Completed,
	}
	if p.Due != nil {
		opts.DueDate = p.Due
	} else {
		opts.ClearDueDate = true
	}
	return opts
}
