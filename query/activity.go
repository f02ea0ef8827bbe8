package query

import (
	"sort"
	"time"

	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/task"
)

// DayActivity counts what happened on one calendar day.
type DayActivity struct {
	Date      task.Date `json:"date"`
	Created   int       `json:"created"`
	Completed int       `json:"completed"`
}

// WeeklyActivity returns one row per day for the last 7 days, oldest first,
// ending today. No completion timestamp is stored, so Completed counts tasks
// that were created that day and are completed now.
func WeeklyActivity(tasks []task.Task, now time.Time) []DayActivity {
	today := task.Today(now)
	days := make([]DayActivity, 7)
	index := make(map[task.Date]int, 7)
	for i := range days {
		d := today.AddDays(i - 6)
		days[i].Date = d
		index[d] = i
	}

	for _, t := range tasks {
		i, ok := index[t.CreatedOn()]
		if !ok {
			continue
		}
		days[i].Created++
		if t.Completed {
			days[i].Completed++
		}
	}
	return days
}

// WeekDay marks whether anything due on a day got done.
type WeekDay struct {
	Date task.Date `json:"date"`
	Done bool      `json:"done"`
}

// WeekView returns the last 7 days, oldest first. A day is done when a
// completed task was due on it.
func WeekView(tasks []task.Task, now time.Time) []WeekDay {
	today := task.Today(now)
	days := make([]WeekDay, 7)
	for i := range days {
		days[i].Date = today.AddDays(i - 6)
		for _, t := range tasks {
			if t.Completed && t.IsDueOn(days[i].Date) {
				days[i].Done = true
				break
			}
		}
	}
	return days
}

// MaxStreaks caps how many streaks Streaks returns.
const MaxStreaks = 6

// Streak describes a recurring task title.
type Streak struct {
	Title       string        `json:"title"`
	Category    task.Category `json:"category"`
	Occurrences int           `json:"occurrences"`
	Streak      int           `json:"streak"`
	MissedDays  int           `json:"missedDays"`
	LastCreated time.Time     `json:"lastCreated"`
}

// Streaks finds titles that recur at least twice and counts how many of
// their occurrences fall on adjacent days, walking back from now. The
// result is ordered by streak, longest first.
func Streaks(tasks []task.Task, now time.Time) []Streak {
	var order []string
	groups := make(map[string][]task.Task)
	for _, t := range tasks {
		key := internalstrings.NormalizeLowerTrimSpace(t.Title)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	var streaks []Streak
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		category := group[0].Category

		sorted := append([]task.Task(nil), group...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})

		s := Streak{
			Title:       key,
			Category:    category,
			Occurrences: len(sorted),
			LastCreated: sorted[0].CreatedAt,
		}
		last := task.Today(now)
		for _, t := range sorted {
			day := t.CreatedOn()
			switch {
			case day == last || day == last.AddDays(-1):
				s.Streak++
			case last.After(day):
				s.MissedDays++
			}
			last = day
		}
		streaks = append(streaks, s)
	}

	sort.SliceStable(streaks, func(i, j int) bool {
		return streaks[i].Streak > streaks[j].Streak
	})
	if len(streaks) > MaxStreaks {
		streaks = streaks[:MaxStreaks]
	}
	return streaks
}
