package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amonks/smarttodo/task"
)

func chatPrompt(message string, chatContext *ChatContext) (string, error) {
	contextJSON := []byte("{}")
	if chatContext != nil {
		encoded, err := json.Marshal(chatContext)
		if err != nil {
			return "", fmt.Errorf("encode chat context: %w", err)
		}
		contextJSON = encoded
	}
	return fmt.Sprintf("User Query: %s\n\nContext: %s\n\nProvide a helpful response about the tasks, including suggestions and insights if relevant.",
		message, contextJSON), nil
}

func enhancePrompt(draft TaskDraft) string {
	due := draft.DueDate
	if strings.TrimSpace(due) == "" {
		due = NoDueDate
	}

	var b strings.Builder
	b.WriteString("Enhance this task with more details and suggestions:\n")
	fmt.Fprintf(&b, "Title: %s\n", draft.Title)
	fmt.Fprintf(&b, "Category: %s\n", draft.Category)
	fmt.Fprintf(&b, "Priority: %s\n", draft.Priority)
	fmt.Fprintf(&b, "Due Date: %s\n\n", due)
	b.WriteString("Please provide:\n")
	b.WriteString("1. A more detailed task description\n")
	b.WriteString("2. Suggested subtasks if applicable\n")
	b.WriteString("3. Any relevant tips or recommendations")
	return b.String()
}

func analyzePrompt(tasks []task.Task) (string, error) {
	encoded, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyze this to-do list and suggest up to 5 new tasks that would help the user.\n\n")
	fmt.Fprintf(&b, "Tasks: %s\n\n", encoded)
	b.WriteString("Respond with only a JSON object of the form ")
	b.WriteString(`{"summary": string, "suggestions": [{"title": string, "category": "work"|"personal"|"health"|"shopping"|"other", "priority": "low"|"medium"|"high", "dueDate": "YYYY-MM-DD" (optional), "confidence": number between 0 and 1}]}`)
	b.WriteString(". The summary should be two or three sentences about workload, balance and what is overdue.")
	return b.String(), nil
}
