package query

import (
	"sort"

	"github.com/amonks/smarttodo/task"
)

// NoDateKey labels the group of tasks without a due date.
const NoDateKey = "No Date"

// DateGroup holds the tasks due on one day.
type DateGroup struct {
	Key   string      `json:"key"`
	Date  *task.Date  `json:"date,omitempty"`
	Tasks []task.Task `json:"tasks"`
}

// GroupByDate groups tasks by due date, earliest first, with undated tasks
// last. Tasks keep their input order within a group.
func GroupByDate(tasks []task.Task) []DateGroup {
	byDate := make(map[task.Date][]task.Task)
	var undated []task.Task
	for _, t := range tasks {
		if t.DueDate == nil {
			undated = append(undated, t)
			continue
		}
		byDate[*t.DueDate] = append(byDate[*t.DueDate], t)
	}

	dates := make([]task.Date, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	groups := make([]DateGroup, 0, len(dates)+1)
	for _, d := range dates {
		groups = append(groups, DateGroup{Key: d.String(), Date: task.DatePtr(d), Tasks: byDate[d]})
	}
	if len(undated) > 0 {
		groups = append(groups, DateGroup{Key: NoDateKey, Tasks: undated})
	}
	return groups
}
