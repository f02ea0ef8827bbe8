package ui

import (
	"fmt"
	"time"

	"github.com/amonks/smarttodo/task"
	"github.com/dustin/go-humanize"
)

// FormatDue describes a due date relative to now, e.g. "today",
// "tomorrow" or "2026-03-20 (1 week from now)". A nil date is "-".
func FormatDue(due *task.Date, now time.Time) string {
	if due == nil {
		return "-"
	}
	today := task.Today(now)
	switch *due {
	case today:
		return "today"
	case today.AddDays(1):
		return "tomorrow"
	case today.AddDays(-1):
		return "yesterday"
	}
	// Whole days are compared in UTC so DST shifts do not change the count.
	return due.String() + " (" + humanize.RelTime(due.Time(time.UTC), today.Time(time.UTC), "ago", "from now") + ")"
}

// FormatTimeAgo returns a relative time like "3 hours ago".
func FormatTimeAgo(then, now time.Time) string {
	if then.IsZero() {
		return "-"
	}
	if then.After(now) {
		then = now
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

// FormatPercent renders a completion rate such as 66.7 as "67%".
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate)
}
