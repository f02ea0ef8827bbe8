package query

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/amonks/smarttodo/task"
)

var now = time.Date(2026, time.March, 10, 15, 0, 0, 0, time.Local)

func date(y int, m time.Month, d int) *task.Date {
	return &task.Date{Year: y, Month: m, Day: d}
}

func titles(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "1", Title: "Write report", Description: "quarterly numbers", Priority: task.PriorityHigh, Category: task.CategoryWork, DueDate: date(2026, time.March, 9), CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "2", Title: "Buy groceries", Description: "Milk and eggs", Completed: true, Priority: task.PriorityMedium, Category: task.CategoryShopping, DueDate: date(2026, time.March, 8), CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "3", Title: "Yoga", Priority: task.PriorityLow, Category: task.CategoryHealth, DueDate: date(2026, time.March, 10), CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "4", Title: "Call mom", Priority: task.PriorityMedium, Category: task.CategoryPersonal, CreatedAt: now.Add(-2 * time.Hour)},
	}
}

func TestFilterWithDefaultsIsIdentity(t *testing.T) {
	tasks := sampleTasks()
	for _, c := range []Criteria{DefaultCriteria(), {}} {
		got := Filter(tasks, c, now)
		if !reflect.DeepEqual(got, tasks) {
			t.Fatalf("expected identity for %+v, got %v", c, titles(got))
		}
	}
	if got := Filter(nil, DefaultCriteria(), now); len(got) != 0 {
		t.Fatalf("expected empty result for empty input")
	}
}

func TestFilterCriteria(t *testing.T) {
	cases := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "search title case-insensitive", criteria: Criteria{SearchQuery: "REPORT"}, want: []string{"Write report"}},
		{name: "search description", criteria: Criteria{SearchQuery: "eggs"}, want: []string{"Buy groceries"}},
		{name: "category", criteria: Criteria{Category: task.CategoryHealth}, want: []string{"Yoga"}},
		{name: "priority", criteria: Criteria{Priority: task.PriorityMedium}, want: []string{"Buy groceries", "Call mom"}},
		{name: "completed", criteria: Criteria{Status: StatusCompleted}, want: []string{"Buy groceries"}},
		{name: "pending", criteria: Criteria{Status: StatusPending}, want: []string{"Write report", "Yoga", "Call mom"}},
		{name: "overdue", criteria: Criteria{Status: StatusOverdue}, want: []string{"Write report"}},
		{name: "combined", criteria: Criteria{Category: task.CategoryWork, Status: StatusCompleted}, want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := titles(Filter(sampleTasks(), tc.criteria, now))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	yesterday := task.Today(now).AddDays(-1)
	item := task.Task{Title: "late", DueDate: &yesterday}
	if !IsOverdue(item, now) {
		t.Fatalf("expected yesterday's incomplete task to be overdue")
	}
	item.Completed = true
	if IsOverdue(item, now) {
		t.Fatalf("expected completed task not to be overdue")
	}

	today := task.Today(now)
	if IsOverdue(task.Task{DueDate: &today}, now) {
		t.Fatalf("expected task due today not to be overdue")
	}
	if IsOverdue(task.Task{}, now) {
		t.Fatalf("expected undated task not to be overdue")
	}
}

func TestSortExample(t *testing.T) {
	tasks := []task.Task{
		{Title: "B", Priority: task.PriorityLow},
		{Title: "A", Priority: task.PriorityHigh, DueDate: date(2024, time.January, 1)},
	}
	got := titles(Sort(tasks))
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("expected [A B], got %v", got)
	}
}

func TestSortOrdering(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{Title: "done-early", Completed: true, DueDate: date(2026, 1, 1), Priority: task.PriorityHigh, CreatedAt: base},
		{Title: "undated-low", Priority: task.PriorityLow, CreatedAt: base},
		{Title: "undated-high", Priority: task.PriorityHigh, CreatedAt: base},
		{Title: "due-later", DueDate: date(2026, 2, 1), Priority: task.PriorityHigh, CreatedAt: base},
		{Title: "due-sooner-low", DueDate: date(2026, 1, 15), Priority: task.PriorityLow, CreatedAt: base},
		{Title: "due-sooner-high-old", DueDate: date(2026, 1, 15), Priority: task.PriorityHigh, CreatedAt: base},
		{Title: "due-sooner-high-new", DueDate: date(2026, 1, 15), Priority: task.PriorityHigh, CreatedAt: base.Add(time.Hour)},
	}

	got := titles(Sort(tasks))
	want := []string{
		"due-sooner-high-new",
		"due-sooner-high-old",
		"due-sooner-low",
		"due-later",
		"undated-high",
		"undated-low",
		"done-early",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSortIsIdempotentAndPure(t *testing.T) {
	tasks := sampleTasks()
	original := append([]task.Task(nil), tasks...)

	once := Sort(tasks)
	twice := Sort(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected idempotent sort\nonce:  %v\ntwice: %v", titles(once), titles(twice))
	}
	if !reflect.DeepEqual(tasks, original) {
		t.Fatalf("expected input to be left untouched")
	}
}

func TestSortIsStableForTies(t *testing.T) {
	tasks := []task.Task{
		{ID: "first", Title: "same", Priority: task.PriorityLow},
		{ID: "second", Title: "same", Priority: task.PriorityLow},
	}
	got := Sort(tasks)
	if got[0].ID != "first" || got[1].ID != "second" {
		t.Fatalf("expected stable order, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(sampleTasks(), now)

	if stats.Total != 4 || stats.Completed != 1 || stats.Pending != 3 || stats.Overdue != 1 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.Pending != stats.Total-stats.Completed {
		t.Fatalf("pending must equal total minus completed")
	}
	wantPriority := map[task.Priority]int{task.PriorityHigh: 1, task.PriorityMedium: 1, task.PriorityLow: 1}
	if !reflect.DeepEqual(stats.ByPriority, wantPriority) {
		t.Fatalf("expected %v, got %v", wantPriority, stats.ByPriority)
	}
	wantCategory := map[task.Category]int{
		task.CategoryWork:     1,
		task.CategoryPersonal: 1,
		task.CategoryHealth:   1,
		task.CategoryShopping: 0,
		task.CategoryOther:    0,
	}
	if !reflect.DeepEqual(stats.ByCategory, wantCategory) {
		t.Fatalf("expected %v, got %v", wantCategory, stats.ByCategory)
	}
	if rate := stats.CompletionRate(); rate != 25 {
		t.Fatalf("expected 25%% completion, got %v", rate)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, now)
	if stats.Total != 0 || stats.Pending != 0 || stats.CompletionRate() != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if len(stats.ByPriority) != 3 || len(stats.ByCategory) != 5 {
		t.Fatalf("expected every key present")
	}
}

func TestDueToday(t *testing.T) {
	got := titles(DueToday(sampleTasks(), now))
	if !reflect.DeepEqual(got, []string{"Yoga"}) {
		t.Fatalf("expected [Yoga], got %v", got)
	}
}

func TestWeeklyActivity(t *testing.T) {
	tasks := []task.Task{
		{Title: "today", CreatedAt: now.Add(-time.Hour)},
		{Title: "today done", Completed: true, CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "six days ago", Completed: true, CreatedAt: now.AddDate(0, 0, -6)},
		{Title: "too old", Completed: true, CreatedAt: now.AddDate(0, 0, -7)},
	}

	days := WeeklyActivity(tasks, now)
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if days[6].Date != task.Today(now) || days[0].Date != task.Today(now).AddDays(-6) {
		t.Fatalf("expected oldest to newest ending today, got %v .. %v", days[0].Date, days[6].Date)
	}
	if days[6].Created != 2 || days[6].Completed != 1 {
		t.Fatalf("unexpected today counts %+v", days[6])
	}
	if days[0].Created != 1 || days[0].Completed != 1 {
		t.Fatalf("unexpected oldest counts %+v", days[0])
	}
	total := 0
	for _, d := range days {
		total += d.Created
	}
	if total != 3 {
		t.Fatalf("expected task older than a week to be ignored, total %d", total)
	}

	empty := WeeklyActivity(nil, now)
	if len(empty) != 7 || empty[3].Created != 0 {
		t.Fatalf("expected 7 zero rows, got %+v", empty)
	}
}

func TestWeekView(t *testing.T) {
	yesterday := task.Today(now).AddDays(-1)
	tasks := []task.Task{
		{Title: "done yesterday", Completed: true, DueDate: &yesterday},
		{Title: "pending today", DueDate: date(2026, time.March, 10)},
	}
	days := WeekView(tasks, now)
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if !days[5].Done {
		t.Fatalf("expected yesterday to be done")
	}
	if days[6].Done {
		t.Fatalf("expected today not done")
	}
}

func TestStreaks(t *testing.T) {
	at := func(daysAgo int) time.Time { return now.AddDate(0, 0, -daysAgo) }
	tasks := []task.Task{
		{Title: "Morning run", Category: task.CategoryHealth, CreatedAt: at(0)},
		{Title: "morning run ", Category: task.CategoryHealth, CreatedAt: at(1)},
		{Title: "Morning Run", Category: task.CategoryHealth, CreatedAt: at(2)},
		{Title: "Stretch", Category: task.CategoryHealth, CreatedAt: at(0)},
		{Title: "stretch", Category: task.CategoryHealth, CreatedAt: at(5)},
		{Title: "One-off", CreatedAt: at(0)},
	}

	streaks := Streaks(tasks, now)
	if len(streaks) != 2 {
		t.Fatalf("expected 2 recurring titles, got %+v", streaks)
	}
	if streaks[0].Title != "morning run" || streaks[0].Streak != 3 || streaks[0].MissedDays != 0 || streaks[0].Occurrences != 3 {
		t.Fatalf("unexpected first streak %+v", streaks[0])
	}
	if streaks[1].Title != "stretch" || streaks[1].Streak != 1 || streaks[1].MissedDays != 1 {
		t.Fatalf("unexpected second streak %+v", streaks[1])
	}
}

func TestStreaksCapped(t *testing.T) {
	var tasks []task.Task
	for i := 0; i < MaxStreaks+2; i++ {
		title := string(rune('a' + i))
		tasks = append(tasks, task.Task{Title: title, CreatedAt: now}, task.Task{Title: title, CreatedAt: now})
	}
	if got := len(Streaks(tasks, now)); got != MaxStreaks {
		t.Fatalf("expected %d streaks, got %d", MaxStreaks, got)
	}
}

func TestGroupByDate(t *testing.T) {
	groups := GroupByDate(sampleTasks())
	var keys []string
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	want := []string{"2026-03-08", "2026-03-09", "2026-03-10", NoDateKey}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	if titles(groups[3].Tasks)[0] != "Call mom" {
		t.Fatalf("expected undated task in %q group", NoDateKey)
	}
}

func TestStatusValidate(t *testing.T) {
	for _, s := range append(ValidStatuses(), "") {
		if err := s.Validate(); err != nil {
			t.Fatalf("expected %q to be valid, got %v", s, err)
		}
	}
	err := Status("someday").Validate()
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "valid: all, completed, pending, overdue") {
		t.Fatalf("expected valid statuses in message, got %q", err.Error())
	}
}
