// Package tagger suggests a category and priority for free text by
// matching keyword lists. Suggestions are advisory; nothing here touches
// the task store.
package tagger

import (
	"regexp"
	"strings"

	"github.com/amonks/smarttodo/task"
)

// Confidence is attached to every keyword match.
const Confidence = 0.8

// Kind says which task field a suggestion is for.
type Kind string

const (
	KindCategory Kind = "category"
	KindPriority Kind = "priority"
)

// Suggestion is one fired rule.
type Suggestion struct {
	Kind       Kind    `json:"kind"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

type rule struct {
	kind    Kind
	value   string
	pattern *regexp.Regexp
}

func keywords(words string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + words + `)\b`)
}

var rules = []rule{
	{KindCategory, string(task.CategoryWork), keywords(`work|job|meeting|client|project|deadline|report|presentation|email|office|boss|colleague|task|assignment`)},
	{KindCategory, string(task.CategoryPersonal), keywords(`personal|home|family|friend|visit|social|hobby|leisure|vacation|trip|party|birthday|call|chat`)},
	{KindCategory, string(task.CategoryHealth), keywords(`health|doctor|gym|workout|exercise|run|jog|walk|medicine|drug|pill|appointment|therapy|mental|physical|yoga|meditation|fitness`)},
	{KindCategory, string(task.CategoryShopping), keywords(`shop|buy|purchase|store|mall|grocery|food|order|online|amazon|item|product|clothes|goods`)},
	{KindPriority, string(task.PriorityHigh), keywords(`urgent|asap|important|critical|high|crucial|emergency|immediately|deadline|due|today|tomorrow|soon`)},
	{KindPriority, string(task.PriorityMedium), keywords(`moderate|medium|normal|regular|standard|average|typical|this week|next week`)},
	{KindPriority, string(task.PriorityLow), keywords(`low|minor|trivial|eventually|sometime|when possible|no rush|can wait|optional|later|next month`)},
}

// Suggest returns a suggestion for every rule that fires on text, categories
// first, in rule order.
func Suggest(text string) []Suggestion {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var suggestions []Suggestion
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			suggestions = append(suggestions, Suggestion{Kind: r.kind, Value: r.value, Confidence: Confidence})
		}
	}
	return suggestions
}

// Best returns the first category and priority that fire on text. Either
// may be empty when nothing matched.
func Best(text string) (task.Category, task.Priority) {
	var category task.Category
	var priority task.Priority
	for _, s := range Suggest(text) {
		switch {
		case s.Kind == KindCategory && category == "":
			category = task.Category(s.Value)
		case s.Kind == KindPriority && priority == "":
			priority = task.Priority(s.Value)
		}
	}
	return category, priority
}
