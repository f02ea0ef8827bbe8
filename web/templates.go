package web

import (
	"fmt"
	"html/template"
	"time"

	"github.com/amonks/smarttodo/internal/ui"
	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/task"
)

func newTemplates(now func() time.Time) *template.Template {
	funcs := template.FuncMap{
		"due":        func(d *task.Date) string { return ui.FormatDue(d, now()) },
		"overdue":    func(t task.Task) bool { return query.IsOverdue(t, now()) },
		"ago":        func(t time.Time) string { return ui.FormatTimeAgo(t, now()) },
		"percent":    ui.FormatPercent,
		"confidence": func(c float64) string { return ui.FormatPercent(c * 100) },
		"dayLabel":   dayLabel,
		"dayNames":   func() []string { return dayNames },
		"monthTitle": func(year int, month time.Month) string { return fmt.Sprintf("%s %d", month, year) },
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func dayLabel(d task.Date) string {
	return d.Time(time.UTC).Format("Mon Jan 2")
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>smarttodo · {{.ActiveTab}}</title>
  <style>
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: #fbf8f2;
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: #fffdf9;
    }
    header h1 { margin: 0 0 8px 0; font-size: 20px; }
    .tabs { display: flex; gap: 12px; }
    .tab {
      padding: 6px 14px;
      border-radius: 999px;
      text-decoration: none;
      color: #5b5148;
      border: 1px solid transparent;
    }
    .tab.active { color: #1d1712; border-color: #d1c6b6; background: #f5efe4; font-weight: 600; }
    main { padding: 18px 24px 28px; display: flex; flex-direction: column; gap: 18px; }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 12px;
      padding: 16px 20px;
    }
    .row { display: flex; flex-wrap: wrap; gap: 10px; align-items: end; }
    .field { display: flex; flex-direction: column; gap: 4px; }
    input[type="text"], input[type="date"], select, textarea {
      padding: 6px 8px;
      border-radius: 6px;
      border: 1px solid #cbbfae;
      font-family: inherit;
      background: #fffdf9;
    }
    textarea { min-width: 320px; min-height: 60px; }
    button {
      padding: 6px 12px;
      border-radius: 6px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    button.danger { background: #f4d7d2; border-color: #d7a7a1; }
    ul.tasks { list-style: none; padding: 0; margin: 0; }
    ul.tasks li { display: flex; gap: 10px; align-items: center; padding: 8px 0; border-bottom: 1px solid #eee5d8; }
    ul.tasks form { display: inline; }
    .done .title { text-decoration: line-through; color: #8c8279; }
    .overdue { color: #a3271b; }
    .badge { font-size: 12px; padding: 2px 8px; border-radius: 999px; background: #f1eadf; color: #5b5148; }
    .badge.high { background: #f4d7d2; }
    .badge.low { background: #e1ecdf; }
    .meta, .muted { color: #72685f; font-size: 13px; }
    .notice { padding: 10px 12px; border-radius: 8px; background: #e3efdc; border: 1px solid #b8d0ab; }
    .error { padding: 10px 12px; border-radius: 8px; background: #f7d9d6; border: 1px solid #d9a7a2; color: #5b1d17; }
    .stats { display: flex; gap: 24px; }
    .stats div strong { display: block; font-size: 22px; }
    table.month { border-collapse: collapse; width: 100%; }
    table.month td { border: 1px solid #e0d6c6; vertical-align: top; height: 64px; width: 14%; padding: 4px; }
    table.month td.outside { color: #b5aba0; }
    table.month td.today { background: #f6f0e6; }
    table.month td.selected { outline: 2px solid #c7baa8; }
    table.month a { color: inherit; text-decoration: none; }
    .dot { font-size: 12px; display: block; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }
    .week { display: flex; gap: 8px; }
    .week span { padding: 6px 10px; border-radius: 6px; background: #f1eadf; }
    .week span.hit { background: #cfe3c4; }
    .bars td { padding: 2px 8px; }
    .message { padding: 8px 12px; border-radius: 8px; margin-bottom: 8px; white-space: pre-wrap; }
    .message.user { background: #e8eef7; margin-left: 20%; }
    .message.assistant { background: #f6f0e6; margin-right: 20%; }
    .message.system { color: #72685f; font-size: 13px; }
    .message.task-suggestion { border: 1px dashed #c7baa8; }
  </style>
</head>
<body>
  <header>
    <h1>smarttodo</h1>
    <nav class="tabs">
      <a class="tab {{if eq .ActiveTab "tasks"}}active{{end}}" href="/web/tasks">Tasks</a>
      <a class="tab {{if eq .ActiveTab "calendar"}}active{{end}}" href="/web/calendar">Calendar</a>
      <a class="tab {{if eq .ActiveTab "analytics"}}active{{end}}" href="/web/analytics">Analytics</a>
      <a class="tab {{if eq .ActiveTab "chat"}}active{{end}}" href="/web/chat">Chat</a>
    </nav>
  </header>
  <main>
    {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
    {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
    {{if eq .ActiveTab "tasks"}}{{template "tasks" .}}{{end}}
    {{if eq .ActiveTab "calendar"}}{{template "calendar" .}}{{end}}
    {{if eq .ActiveTab "analytics"}}{{template "analytics" .}}{{end}}
    {{if eq .ActiveTab "chat"}}{{template "chat" .}}{{end}}
  </main>
</body>
</html>

{{define "tasks"}}
  {{if .Stats}}
    <section class="pane stats">
      <div><strong>{{.Stats.Stats.Total}}</strong>total</div>
      <div><strong>{{.Stats.Stats.Completed}}</strong>completed</div>
      <div><strong>{{.Stats.Stats.Pending}}</strong>pending</div>
      <div><strong>{{.Stats.Stats.Overdue}}</strong>overdue</div>
      <div><strong>{{percent .Stats.CompletionRate}}</strong>done</div>
    </section>
  {{end}}
  <section class="pane">
    <form method="post" action="/web/tasks/create">
      <input type="hidden" name="return" value="{{.ReturnPath}}">
      <div class="row">
        <div class="field">
          <label for="task-title">Title</label>
          <input id="task-title" type="text" name="title" value="{{.Form.Title}}" required>
        </div>
        <div class="field">
          <label for="task-priority">Priority</label>
          <select id="task-priority" name="priority">
            {{range .PriorityOptions}}<option value="{{.Value}}" {{if eq .Value $.Form.Priority}}selected{{end}}>{{.Label}}</option>{{end}}
          </select>
        </div>
        <div class="field">
          <label for="task-category">Category</label>
          <select id="task-category" name="category">
            {{range .CategoryOptions}}<option value="{{.Value}}" {{if eq .Value $.Form.Category}}selected{{end}}>{{.Label}}</option>{{end}}
          </select>
        </div>
        <div class="field">
          <label for="task-due">Due</label>
          <input id="task-due" type="date" name="due" value="{{.Form.Due}}">
        </div>
      </div>
      <div class="field">
        <label for="task-description">Description</label>
        <textarea id="task-description" name="description">{{.Form.Description}}</textarea>
      </div>
      <div class="row">
        <button type="submit">Add task</button>
        <button type="submit" formaction="/web/tasks/suggest" formnovalidate>Suggest tags</button>
      </div>
    </form>
    {{if .Suggestions}}
      <p class="meta">Suggested:
        {{range .Suggestions}}<span class="badge">{{.Kind}}: {{.Value}} ({{confidence .Confidence}})</span> {{end}}
      </p>
    {{end}}
  </section>
  <section class="pane">
    <form method="get" action="/web/tasks" class="row">
      <div class="field">
        <label for="filter-q">Search</label>
        <input id="filter-q" type="text" name="q" value="{{.Criteria.Search}}">
      </div>
      <div class="field">
        <label for="filter-category">Category</label>
        <select id="filter-category" name="category">
          {{range .CategoryFilters}}<option value="{{.Value}}" {{if eq .Value $.Criteria.Category}}selected{{end}}>{{.Label}}</option>{{end}}
        </select>
      </div>
      <div class="field">
        <label for="filter-priority">Priority</label>
        <select id="filter-priority" name="priority">
          {{range .PriorityFilters}}<option value="{{.Value}}" {{if eq .Value $.Criteria.Priority}}selected{{end}}>{{.Label}}</option>{{end}}
        </select>
      </div>
      <div class="field">
        <label for="filter-status">Status</label>
        <select id="filter-status" name="status">
          {{range .StatusFilters}}<option value="{{.Value}}" {{if eq .Value $.Criteria.Status}}selected{{end}}>{{.Label}}</option>{{end}}
        </select>
      </div>
      <button type="submit">Filter</button>
    </form>
    <ul class="tasks">
      {{range .Tasks}}
        <li class="{{if .Completed}}done{{end}}">
          <form method="post" action="/web/tasks/toggle?id={{.ID}}">
            <input type="hidden" name="return" value="{{$.ReturnPath}}">
            <button type="submit" title="toggle">{{if .Completed}}☑{{else}}☐{{end}}</button>
          </form>
          <span class="title">{{.Title}}</span>
          <span class="badge {{.Priority}}">{{.Priority}}</span>
          <span class="badge">{{.Category}}</span>
          {{if .DueDate}}<span class="meta {{if overdue .}}overdue{{end}}">due {{due .DueDate}}</span>{{end}}
          {{if .Description}}<span class="meta">{{.Description}}</span>{{end}}
          <form method="post" action="/web/tasks/delete?id={{.ID}}">
            <input type="hidden" name="return" value="{{$.ReturnPath}}">
            <button class="danger" type="submit">Delete</button>
          </form>
        </li>
      {{else}}
        <li class="muted">No tasks found.</li>
      {{end}}
    </ul>
    <form method="post" action="/web/tasks/clear">
      <input type="hidden" name="return" value="{{.ReturnPath}}">
      <button class="danger" type="submit">Clear completed</button>
    </form>
  </section>
{{end}}

{{define "calendar"}}
  <section class="pane">
    <div class="row">
      <a href="/web/calendar?month={{.PrevMonth}}">‹ prev</a>
      <strong>{{monthTitle .Grid.Year .Grid.Month}}</strong>
      <a href="/web/calendar?month={{.NextMonth}}">next ›</a>
    </div>
    <table class="month">
      <tr>{{range $name := dayNames}}<th>{{$name}}</th>{{end}}</tr>
      {{range .Grid.Weeks}}
        <tr>
          {{range .}}
            <td class="{{if not .InMonth}}outside{{end}} {{if eq .Date $.Today}}today{{end}} {{if eq .Date $.SelectedDay}}selected{{end}}">
              <a href="/web/calendar?day={{.Date}}">{{.Date.Day}}</a>
              {{range .Tasks}}<span class="dot {{if .Completed}}done{{end}}">• {{.Title}}</span>{{end}}
            </td>
          {{end}}
        </tr>
      {{end}}
    </table>
  </section>
  <section class="pane">
    <h2>{{dayLabel .SelectedDay}}</h2>
    <ul class="tasks">
      {{range .DayTasks}}
        <li class="{{if .Completed}}done{{end}}">
          <span class="title">{{.Title}}</span>
          <span class="badge {{.Priority}}">{{.Priority}}</span>
          <span class="badge">{{.Category}}</span>
        </li>
      {{else}}
        <li class="muted">Nothing due.</li>
      {{end}}
    </ul>
  </section>
{{end}}

{{define "analytics"}}
  {{with .Stats}}
    <section class="pane stats">
      <div><strong>{{.Stats.Total}}</strong>total</div>
      <div><strong>{{.Stats.Completed}}</strong>completed</div>
      <div><strong>{{.Stats.Pending}}</strong>pending</div>
      <div><strong>{{.Stats.Overdue}}</strong>overdue</div>
      <div><strong>{{percent .CompletionRate}}</strong>completion rate</div>
    </section>
    <section class="pane">
      <h2>Pending by priority</h2>
      <table class="bars">
        {{range $priority, $count := .Stats.ByPriority}}<tr><td>{{$priority}}</td><td>{{$count}}</td></tr>{{end}}
      </table>
      <h2>Pending by category</h2>
      <table class="bars">
        {{range $category, $count := .Stats.ByCategory}}<tr><td>{{$category}}</td><td>{{$count}}</td></tr>{{end}}
      </table>
    </section>
    <section class="pane">
      <h2>Last 7 days</h2>
      <table class="bars">
        <tr><th>Day</th><th>Created</th><th>Completed</th></tr>
        {{range .Activity}}<tr><td>{{dayLabel .Date}}</td><td>{{.Created}}</td><td>{{.Completed}}</td></tr>{{end}}
      </table>
      <h2>This week</h2>
      <div class="week">
        {{range .Week}}<span class="{{if .Done}}hit{{end}}">{{dayLabel .Date}}</span>{{end}}
      </div>
    </section>
    <section class="pane">
      <h2>Streaks</h2>
      <ul class="tasks">
        {{range .Streaks}}
          <li>
            <span class="title">{{.Title}}</span>
            <span class="badge">{{.Category}}</span>
            <span class="meta">{{.Streak}} day streak · {{.Occurrences}} times · {{.MissedDays}} missed · last {{ago .LastCreated}}</span>
          </li>
        {{else}}
          <li class="muted">No recurring tasks yet.</li>
        {{end}}
      </ul>
    </section>
  {{end}}
  <section class="pane">
    <h2>AI analysis</h2>
    <form method="post" action="/web/analytics/analyze">
      <button type="submit">Analyze my tasks</button>
    </form>
    {{with .Analysis}}
      <p>{{.Summary}}</p>
      <ul class="tasks">
        {{range .Suggestions}}
          <li>
            <span class="title">{{.Title}}</span>
            <span class="badge {{.Priority}}">{{.Priority}}</span>
            <span class="badge">{{.Category}}</span>
            {{if .DueDate}}<span class="meta">due {{due .DueDate}}</span>{{end}}
            <span class="meta">{{confidence .Confidence}}</span>
          </li>
        {{end}}
      </ul>
    {{end}}
  </section>
{{end}}

{{define "chat"}}
  <section class="pane">
    {{range .Chat}}
      <div class="message {{.Role}}">
        {{- .Content -}}
        {{with .Suggestion}}
          <div class="meta">
            <strong>{{.Title}}</strong> · {{.Category}} · {{.Priority}}{{if .DueDate}} · due {{due .DueDate}}{{end}}
          </div>
        {{end}}
        {{if .Pending}}
          <div class="row">
            <form method="post" action="/web/chat/accept?id={{.ID}}"><button type="submit">Add task</button></form>
            <form method="post" action="/web/chat/dismiss?id={{.ID}}"><button type="submit">Dismiss</button></form>
          </div>
        {{end}}
      </div>
    {{end}}
    <form method="post" action="/web/chat/send" class="row">
      <input type="text" name="message" placeholder="Ask about your tasks or describe a new one" autofocus>
      <button type="submit">Send</button>
    </form>
  </section>
{{end}}
`
