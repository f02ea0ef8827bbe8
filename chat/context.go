package chat

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/smarttodo/task"
)

var (
	contextDatePattern = regexp.MustCompile(`(?i)\b(?:on|for|by)\s+([a-z]+\s+\d{1,2}(?:st|nd|rd|th)?|\d{1,2}(?:st|nd|rd|th)?\s+[a-z]+)\b`)
	dayNumberPattern   = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?$`)
)

var contextCategories = []task.Category{
	task.CategoryWork,
	task.CategoryPersonal,
	task.CategoryHealth,
	task.CategoryShopping,
}

// SelectContext picks the tasks worth sending along with a chat message.
// The first matching rule wins: an explicit date, "today", a category word,
// a completion word, and finally every task.
func SelectContext(query string, tasks []task.Task, now time.Time) []task.Task {
	lower := strings.ToLower(query)

	if m := contextDatePattern.FindStringSubmatch(query); m != nil {
		if day, ok := resolveMonthDay(m[1], now); ok {
			return selectTasks(tasks, func(t task.Task) bool { return t.IsDueOn(day) })
		}
	}
	if strings.Contains(lower, "today") {
		today := task.Today(now)
		return selectTasks(tasks, func(t task.Task) bool { return t.IsDueOn(today) })
	}
	for _, c := range contextCategories {
		if strings.Contains(lower, string(c)) {
			return selectTasks(tasks, func(t task.Task) bool { return t.Category == c })
		}
	}
	if strings.Contains(lower, "uncompleted") || strings.Contains(lower, "incomplete") || strings.Contains(lower, "not completed") {
		return selectTasks(tasks, func(t task.Task) bool { return !t.Completed })
	}
	if strings.Contains(lower, "completed") {
		return selectTasks(tasks, func(t task.Task) bool { return t.Completed })
	}
	return selectTasks(tasks, func(task.Task) bool { return true })
}

func selectTasks(tasks []task.Task, keep func(task.Task) bool) []task.Task {
	out := []task.Task{}
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// resolveMonthDay turns "March 3rd" or "3 march" into a date in now's year.
func resolveMonthDay(phrase string, now time.Time) (task.Date, bool) {
	fields := strings.Fields(phrase)
	if len(fields) != 2 {
		return task.Date{}, false
	}
	monthWord, dayWord := fields[0], fields[1]
	if dayNumberPattern.MatchString(monthWord) {
		monthWord, dayWord = dayWord, monthWord
	}

	month, ok := parseMonth(monthWord)
	if !ok {
		return task.Date{}, false
	}
	m := dayNumberPattern.FindStringSubmatch(dayWord)
	if m == nil {
		return task.Date{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 {
		return task.Date{}, false
	}

	year := now.Local().Year()
	t := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	if t.Month() != month {
		return task.Date{}, false
	}
	return task.DateOf(t), true
}

func parseMonth(word string) (time.Month, bool) {
	word = strings.ToLower(word)
	if len(word) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if word == name || word == name[:3] {
			return m, true
		}
	}
	return 0, false
}
