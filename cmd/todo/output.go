package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/amonks/smarttodo/internal/ui"
	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/task"
)

func encodeJSONToStdout(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}

	value := strings.TrimSuffix(string(input), "\n")
	value = strings.TrimSuffix(value, "\r")
	return value, nil
}

func printTaskTable(tasks []task.Task, prefixLengths map[string]int, now time.Time) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}
	fmt.Print(formatTaskTable(tasks, prefixLengths, ui.HighlightID, now))
}

func formatTaskTable(tasks []task.Task, prefixLengths map[string]int, highlight func(string, int) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "DONE", "PRI", "CATEGORY", "DUE", "TITLE"}, len(tasks))
	if prefixLengths == nil {
		prefixLengths = task.NewIDIndex(tasks).PrefixLengths()
	}

	for _, t := range tasks {
		due := ui.FormatDue(t.DueDate, now)
		if query.IsOverdue(t, now) {
			due = ui.Overdue(due)
		}
		builder.AddRow([]string{
			highlight(t.ID, prefixLengths[strings.ToLower(t.ID)]),
			ui.Checkbox(t),
			ui.Priority(t.Priority),
			ui.Category(t.Category),
			due,
			ui.TruncateTableCell(ui.Title(t)),
		})
	}
	return builder.String()
}

func formatTaskDetail(t task.Task, highlight func(string, int) string, prefixLen int, now time.Time, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:       %s\n", highlight(t.ID, prefixLen))
	fmt.Fprintf(&b, "Title:    %s\n", t.Title)
	status := "pending"
	if t.Completed {
		status = "completed"
	} else if query.IsOverdue(t, now) {
		status = ui.Overdue("overdue")
	}
	fmt.Fprintf(&b, "Status:   %s\n", status)
	fmt.Fprintf(&b, "Priority: %s\n", ui.Priority(t.Priority))
	fmt.Fprintf(&b, "Category: %s\n", ui.Category(t.Category))
	fmt.Fprintf(&b, "Due:      %s\n", ui.FormatDue(t.DueDate, now))
	fmt.Fprintf(&b, "Created:  %s (%s)\n", t.CreatedAt.Local().Format("2006-01-02 15:04"), ui.FormatTimeAgo(t.CreatedAt, now))
	if description := ui.IndentBlock(t.Description, width, 2); description != "" {
		b.WriteString("\nDescription:\n")
		b.WriteString(description)
		b.WriteString("\n")
	}
	return b.String()
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
