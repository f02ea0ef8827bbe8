package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/amonks/smarttodo/calendar"
	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/task"
)

const monthLayout = "2006-01"

func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	today := task.Today(h.now())
	year, month := today.Year, today.Month
	data := pageData{ActiveTab: tabCalendar, Today: today}

	if value := trimmedQueryValue(r, "month"); value != "" {
		parsed, err := time.Parse(monthLayout, value)
		if err != nil {
			data.Error = fmt.Sprintf("invalid month %q", value)
		} else {
			year, month = parsed.Year(), parsed.Month()
		}
	}

	selected := today
	if value := trimmedQueryValue(r, "day"); value != "" {
		parsed, err := task.ParseDate(value)
		if err != nil {
			data.Error = err.Error()
		} else {
			selected = parsed
			if trimmedQueryValue(r, "month") == "" {
				year, month = parsed.Year, parsed.Month
			}
		}
	}

	tasks, err := h.fetchTasks(r.Context(), h.requestBaseURL(r), query.DefaultCriteria())
	if err != nil {
		data.Error = err.Error()
	}
	grid := calendar.Month(tasks, year, month)
	if !grid.Contains(selected) {
		selected = task.Date{Year: year, Month: month, Day: 1}
	}

	data.Grid = grid
	data.SelectedDay = selected
	data.DayTasks = calendar.TasksOn(tasks, selected)
	data.PrevMonth = monthParam(grid.Prev())
	data.NextMonth = monthParam(grid.Next())
	h.render(w, data)
}

func monthParam(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
