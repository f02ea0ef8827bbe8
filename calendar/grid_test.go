package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/amonks/smarttodo/task"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func date(month time.Month, day int) task.Date {
	return task.Date{Year: 2026, Month: month, Day: day}
}

func TestMonthLayout(t *testing.T) {
	cases := []struct {
		month time.Month
		weeks int
		first task.Date
		last  task.Date
	}{
		{time.February, 4, date(time.February, 1), date(time.February, 28)},
		{time.March, 5, date(time.March, 1), date(time.April, 4)},
		{time.May, 6, date(time.April, 26), date(time.June, 6)},
	}

	for _, tc := range cases {
		t.Run(tc.month.String(), func(t *testing.T) {
			g := Month(nil, 2026, tc.month)
			if len(g.Weeks) != tc.weeks {
				t.Fatalf("expected %d weeks, got %d", tc.weeks, len(g.Weeks))
			}
			if got := g.Weeks[0][0].Date; got != tc.first {
				t.Fatalf("expected grid to start %s, got %s", tc.first, got)
			}
			if got := g.Weeks[len(g.Weeks)-1][6].Date; got != tc.last {
				t.Fatalf("expected grid to end %s, got %s", tc.last, got)
			}
			for _, week := range g.Weeks {
				if week[0].Date.Time(time.UTC).Weekday() != time.Sunday {
					t.Fatalf("expected weeks to start on Sunday, got %s", week[0].Date)
				}
				for _, day := range week {
					if day.InMonth != g.Contains(day.Date) {
						t.Fatalf("InMonth mismatch for %s", day.Date)
					}
				}
			}
		})
	}
}

func TestMonthAttachesTasks(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Title: "Dentist", DueDate: task.DatePtr(date(time.March, 3))},
		{ID: "b", Title: "Undated"},
		{ID: "c", Title: "Report", DueDate: task.DatePtr(date(time.March, 3))},
		{ID: "d", Title: "Elsewhere", DueDate: task.DatePtr(date(time.July, 1))},
	}

	g := Month(tasks, 2026, time.March)
	day := g.Weeks[0][2]
	if day.Date != date(time.March, 3) || len(day.Tasks) != 2 {
		t.Fatalf("expected two tasks on March 3rd, got %+v", day)
	}
	if day.Tasks[0].ID != "a" || day.Tasks[1].ID != "c" {
		t.Fatalf("expected original order, got %+v", day.Tasks)
	}

	if got := TasksOn(tasks, date(time.March, 3)); len(got) != 2 {
		t.Fatalf("expected two tasks, got %+v", got)
	}
	if got := TasksOn(tasks, date(time.March, 4)); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestGridNavigation(t *testing.T) {
	g := Month(nil, 2026, time.January)
	if y, m := g.Prev(); y != 2025 || m != time.December {
		t.Fatalf("unexpected previous month %d-%s", y, m)
	}
	g = Month(nil, 2026, time.December)
	if y, m := g.Next(); y != 2027 || m != time.January {
		t.Fatalf("unexpected next month %d-%s", y, m)
	}
}

func TestRender(t *testing.T) {
	original := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(original) })

	tasks := []task.Task{{ID: "a", Title: "Dentist", DueDate: task.DatePtr(date(time.March, 3))}}
	out := Render(Month(tasks, 2026, time.March), date(time.March, 9))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if strings.TrimSpace(lines[0]) != "March 2026" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if lines[1] != "Su Mo Tu We Th Fr Sa" {
		t.Fatalf("unexpected header %q", lines[1])
	}
	if lines[2] != " 1  2  3• 4  5  6  7" {
		t.Fatalf("unexpected first week %q", lines[2])
	}
	if lines[6] != "29 30 31  1  2  3  4" {
		t.Fatalf("unexpected last week %q", lines[6])
	}
}
