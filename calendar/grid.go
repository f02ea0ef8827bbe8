// Package calendar lays tasks out by due date and mirrors dated tasks into
// Google Calendar.
package calendar

import (
	"time"

	"github.com/amonks/smarttodo/task"
)

// Day is one cell of a month grid.
type Day struct {
	Date task.Date
	// InMonth is false for the leading and trailing days of adjacent months.
	InMonth bool
	Tasks   []task.Task
}

// Grid is a month laid out in Sunday-first weeks.
type Grid struct {
	Year  int
	Month time.Month
	Weeks [][7]Day
}

// Month builds the grid for a month, attaching each task to the day it is
// due.
func Month(tasks []task.Task, year int, month time.Month) Grid {
	byDate := map[task.Date][]task.Task{}
	for _, t := range tasks {
		if t.DueDate != nil {
			byDate[*t.DueDate] = append(byDate[*t.DueDate], t)
		}
	}

	first := task.Date{Year: year, Month: month, Day: 1}
	offset := int(first.Time(time.UTC).Weekday())
	start := first.AddDays(-offset)
	last := first.AddDays(daysIn(year, month) - 1)

	g := Grid{Year: year, Month: month}
	for day := start; !day.After(last); {
		var week [7]Day
		for i := range week {
			week[i] = Day{
				Date:    day,
				InMonth: day.Year == year && day.Month == month,
				Tasks:   byDate[day],
			}
			day = day.AddDays(1)
		}
		g.Weeks = append(g.Weeks, week)
	}
	return g
}

// Contains reports whether d falls inside the grid's month.
func (g Grid) Contains(d task.Date) bool {
	return d.Year == g.Year && d.Month == g.Month
}

// Prev returns the year and month before the grid's.
func (g Grid) Prev() (int, time.Month) {
	t := time.Date(g.Year, g.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Next returns the year and month after the grid's.
func (g Grid) Next() (int, time.Month) {
	t := time.Date(g.Year, g.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// TasksOn returns the tasks due on d, in their original order.
func TasksOn(tasks []task.Task, d task.Date) []task.Task {
	out := []task.Task{}
	for _, t := range tasks {
		if t.IsDueOn(d) {
			out = append(out, t)
		}
	}
	return out
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
