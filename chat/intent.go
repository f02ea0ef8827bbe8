// Package chat implements the task assistant conversation: recognising
// task-creation requests, choosing which tasks to send as context, and
// keeping the ephemeral message history.
package chat

import (
	"regexp"
	"strings"
	"time"

	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/task"
)

// PlaceholderDueDays is how far ahead a detected deadline is placed. The
// date reference in the message itself is not resolved.
const PlaceholderDueDays = 3

// Intent is what ParseIntent recognised in a message.
type Intent struct {
	IsTaskCreation bool
	Title          string
	Category       task.Category
	Priority       task.Priority
	DueDate        *task.Date
}

// Suggestion converts a task-creation intent into a suggestion.
func (i Intent) Suggestion() task.Suggestion {
	s := task.Suggestion{Title: i.Title, Category: i.Category, Priority: i.Priority}
	if i.DueDate != nil {
		s.DueDate = task.DatePtr(*i.DueDate)
	}
	return s
}

var (
	actionPattern   = regexp.MustCompile(`(?i)\b(need to|have to|must|should|want to|going to)\b`)
	deadlinePattern = regexp.MustCompile(`(?i)\b(by|on|due|before)\b`)
	priorityPattern = regexp.MustCompile(`(?i)\b(high|medium|low)\s+priority\b`)

	categoryPatterns = []struct {
		category task.Category
		pattern  *regexp.Regexp
	}{
		{task.CategoryWork, regexp.MustCompile(`(?i)\b(work|job|office|project|report|meeting|presentation)\b`)},
		{task.CategoryHealth, regexp.MustCompile(`(?i)\b(health|exercise|gym|workout|doctor|medical|fitness)\b`)},
		{task.CategoryPersonal, regexp.MustCompile(`(?i)\b(personal|family|home|house|hobby|friend)\b`)},
		{task.CategoryShopping, regexp.MustCompile(`(?i)\b(shop|buy|purchase|shopping|store|mall)\b`)},
	}

	notUrgentPattern    = regexp.MustCompile(`(?i)\bnot urgent\b`)
	highPriorityPattern = regexp.MustCompile(`(?i)\b(high priority|important|urgent)\b`)
	lowPriorityPattern  = regexp.MustCompile(`(?i)\blow priority\b`)

	leadingActionPattern = regexp.MustCompile(`(?i)^\s*(?:need to|have to|must|should|want to|going to)\b`)
	subjectActionPattern = regexp.MustCompile(`(?i)\bI(?:\s+(?:need to|have to|must|should|want to|am going to)|['’]m going to)\b`)
	deadlinePhrase       = regexp.MustCompile(`(?i)\b(?:due\s+)?(?:by|on|due|before)\s+(?:next\s+[a-z]+|this\s+[a-z]+|(?:the\s+)?end\s+of\s+(?:the\s+)?[a-z]+|(?:mon|tues|wednes|thurs|fri|satur|sun)day|today|tonight|tomorrow|[a-z]+\s+\d{1,2}(?:st|nd|rd|th)?|\d{1,2}(?:st|nd|rd|th)?\s+[a-z]+)\b`)
	leadingArticle       = regexp.MustCompile(`(?i)^(to|a|an)\s+`)
)

// ParseIntent decides whether a message asks for a new task and, if so,
// extracts a draft from it. A message is a task request when it contains an
// action phrase together with a deadline marker or an explicit priority.
func ParseIntent(message string, now time.Time) Intent {
	hasAction := actionPattern.MatchString(message)
	hasDeadline := deadlinePattern.MatchString(message)
	hasPriority := priorityPattern.MatchString(message)
	if !hasAction || !(hasDeadline || hasPriority) {
		return Intent{}
	}

	intent := Intent{
		IsTaskCreation: true,
		Category:       task.CategoryOther,
		Priority:       task.PriorityMedium,
	}
	for _, c := range categoryPatterns {
		if c.pattern.MatchString(message) {
			intent.Category = c.category
			break
		}
	}
	switch {
	case notUrgentPattern.MatchString(message):
		intent.Priority = task.PriorityLow
	case highPriorityPattern.MatchString(message):
		intent.Priority = task.PriorityHigh
	case lowPriorityPattern.MatchString(message):
		intent.Priority = task.PriorityLow
	}
	if hasDeadline {
		intent.DueDate = task.DatePtr(task.Today(now).AddDays(PlaceholderDueDays))
	}

	intent.Title = extractTitle(message)
	if intent.Title == "" {
		return Intent{}
	}
	return intent
}

func extractTitle(message string) string {
	title := message
	if subjectActionPattern.MatchString(title) {
		title = replaceFirst(subjectActionPattern, title)
	} else {
		title = replaceFirst(leadingActionPattern, title)
	}
	title = replaceFirst(deadlinePhrase, title)
	title = replaceFirst(priorityPattern, title)

	title = internalstrings.NormalizeWhitespace(title)
	title = leadingArticle.ReplaceAllString(title, "")
	title = strings.TrimSuffix(title, ".")
	title = strings.TrimSpace(title)
	return internalstrings.CapitalizeFirst(title)
}

func replaceFirst(pattern *regexp.Regexp, s string) string {
	loc := pattern.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + " " + s[loc[1]:]
}
