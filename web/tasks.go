package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/task"
)

type criteriaValues struct {
	Search   string
	Category string
	Priority string
	Status   string
}

func criteriaFromRequest(r *http.Request) criteriaValues {
	values := criteriaValues{
		Search:   trimmedQueryValue(r, "q"),
		Category: trimmedQueryValue(r, "category"),
		Priority: trimmedQueryValue(r, "priority"),
		Status:   trimmedQueryValue(r, "status"),
	}
	if values.Category == "" {
		values.Category = query.All
	}
	if values.Priority == "" {
		values.Priority = query.All
	}
	if values.Status == "" {
		values.Status = string(query.StatusAll)
	}
	return values
}

func (values criteriaValues) criteria() query.Criteria {
	return query.Criteria{
		SearchQuery: values.Search,
		Category:    task.Category(values.Category),
		Priority:    task.Priority(values.Priority),
		Status:      query.Status(values.Status),
	}
}

type taskFormValues struct {
	Title       string
	Description string
	Priority    string
	Category    string
	Due         string
}

func defaultTaskFormValues() taskFormValues {
	return taskFormValues{Priority: auto, Category: auto}
}

func taskFormValuesFromRequest(r *http.Request) taskFormValues {
	values := taskFormValues{
		Title:       trimmedFormValue(r, "title"),
		Description: r.FormValue("description"),
		Priority:    trimmedFormValue(r, "priority"),
		Category:    trimmedFormValue(r, "category"),
		Due:         trimmedFormValue(r, "due"),
	}
	if values.Priority == "" {
		values.Priority = auto
	}
	if values.Category == "" {
		values.Category = auto
	}
	return values
}

// createRequest converts the form. Fields left on auto take the tagger's
// best guess, then the store's defaults.
func (values taskFormValues) createRequest(best suggestResponse) (tasksCreateRequest, error) {
	if values.Title == "" {
		return tasksCreateRequest{}, fmt.Errorf("title is required")
	}
	request := tasksCreateRequest{
		Title:       values.Title,
		Description: values.Description,
		Priority:    task.Priority(values.Priority),
		Category:    task.Category(values.Category),
	}
	if values.Priority == auto {
		request.Priority = best.Priority
	}
	if values.Category == auto {
		request.Category = best.Category
	}
	if values.Due != "" {
		due, err := task.ParseDate(values.Due)
		if err != nil {
			return tasksCreateRequest{}, err
		}
		request.DueDate = &due
	}
	return request, nil
}

func (h *Handler) handleTasks(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	baseURL := h.requestBaseURL(r)
	criteria := criteriaFromRequest(r)

	data := pageData{
		ActiveTab:       tabTasks,
		Criteria:        criteria,
		ReturnPath:      r.URL.RequestURI(),
		Form:            defaultTaskFormValues(),
		CategoryFilters: categoryOptions(query.All),
		PriorityFilters: priorityOptions(query.All),
		StatusFilters:   statusOptions(),
		CategoryOptions: categoryOptions(auto),
		PriorityOptions: priorityOptions(auto),
	}
	if draft := h.consumeTaskDraft(); draft != nil {
		data.Form = draft.values
		data.Suggestions = draft.suggestions
	}

	tasks, err := h.fetchTasks(r.Context(), baseURL, criteria.criteria())
	if err != nil {
		data.Error = err.Error()
	}
	data.Tasks = tasks
	if stats, err := h.fetchStats(r.Context(), baseURL); err == nil {
		data.Stats = stats
	}
	h.render(w, data)
}

func (h *Handler) handleTasksCreate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setFlash(flash{tab: tabTasks, err: "invalid form input"})
		http.Redirect(w, r, "/web/tasks", http.StatusSeeOther)
		return
	}
	values := taskFormValuesFromRequest(r)

	var best suggestResponse
	if values.Priority == auto || values.Category == auto {
		if err := h.post(r, "/suggest", suggestRequest{Text: values.Title + " " + values.Description}, &best); err != nil {
			best = suggestResponse{}
		}
	}
	request, err := values.createRequest(best)
	if err != nil {
		h.failTaskForm(w, r, values, err)
		return
	}
	var response taskResponse
	if err := h.post(r, "/tasks/create", request, &response); err != nil {
		h.failTaskForm(w, r, values, err)
		return
	}
	h.setFlash(flash{tab: tabTasks, notice: fmt.Sprintf("Added %q", response.Task.Title)})
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

func (h *Handler) failTaskForm(w http.ResponseWriter, r *http.Request, values taskFormValues, err error) {
	h.setTaskDraft(taskDraft{values: values})
	h.setFlash(flash{tab: tabTasks, err: err.Error()})
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// handleTasksSuggest runs the tagger over the draft and shows what it
// found, preselecting any field left on auto.
func (h *Handler) handleTasksSuggest(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setFlash(flash{tab: tabTasks, err: "invalid form input"})
		http.Redirect(w, r, "/web/tasks", http.StatusSeeOther)
		return
	}
	values := taskFormValuesFromRequest(r)
	var response suggestResponse
	if err := h.post(r, "/suggest", suggestRequest{Text: values.Title + " " + values.Description}, &response); err != nil {
		h.failTaskForm(w, r, values, err)
		return
	}
	if values.Category == auto && response.Category != "" {
		values.Category = string(response.Category)
	}
	if values.Priority == auto && response.Priority != "" {
		values.Priority = string(response.Priority)
	}
	h.setTaskDraft(taskDraft{values: values, suggestions: response.Suggestions})
	if len(response.Suggestions) == 0 {
		h.setFlash(flash{tab: tabTasks, notice: "No suggestions for this title"})
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

func (h *Handler) handleTasksToggle(w http.ResponseWriter, r *http.Request) {
	h.handleTaskAction(w, r, "/tasks/toggle", func(t task.Task) string {
		if t.Completed {
			return fmt.Sprintf("Completed %q", t.Title)
		}
		return fmt.Sprintf("Reopened %q", t.Title)
	})
}

func (h *Handler) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	h.handleTaskAction(w, r, "/tasks/delete", func(t task.Task) string {
		return fmt.Sprintf("Deleted %q", t.Title)
	})
}

func (h *Handler) handleTaskAction(w http.ResponseWriter, r *http.Request, path string, notice func(task.Task) string) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	redirect := returnPath(r)
	id := trimmedQueryValue(r, "id")
	if id == "" {
		h.setFlash(flash{tab: tabTasks, err: "task id is required"})
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	var response taskResponse
	if err := h.post(r, path, taskIDRequest{ID: id}, &response); err != nil {
		h.setFlash(flash{tab: tabTasks, err: err.Error()})
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	h.setFlash(flash{tab: tabTasks, notice: notice(response.Task)})
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *Handler) handleTasksClear(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var response tasksClearResponse
	if err := h.post(r, "/tasks/clear", emptyRequest{}, &response); err != nil {
		h.setFlash(flash{tab: tabTasks, err: err.Error()})
	} else {
		h.setFlash(flash{tab: tabTasks, notice: fmt.Sprintf("Cleared %d completed tasks", response.Removed)})
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath keeps the list filters across a POST. Only task list paths
// are honoured.
func returnPath(r *http.Request) string {
	value := strings.TrimSpace(r.FormValue("return"))
	parsed, err := url.Parse(value)
	if err != nil || parsed.Host != "" || parsed.Scheme != "" || parsed.Path != "/web/tasks" {
		return "/web/tasks"
	}
	return parsed.RequestURI()
}

func categoryOptions(first string) []selectOption {
	options := []selectOption{{Value: first, Label: first}}
	for _, c := range task.ValidCategories() {
		options = append(options, selectOption{Value: string(c), Label: string(c)})
	}
	return options
}

func priorityOptions(first string) []selectOption {
	options := []selectOption{{Value: first, Label: first}}
	for _, p := range task.ValidPriorities() {
		options = append(options, selectOption{Value: string(p), Label: string(p)})
	}
	return options
}

func statusOptions() []selectOption {
	options := make([]selectOption, 0, len(query.ValidStatuses()))
	for _, s := range query.ValidStatuses() {
		options = append(options, selectOption{Value: string(s), Label: string(s)})
	}
	return options
}
