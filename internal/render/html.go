package render

import (
	"html/template"
	"io"

	"todolist/backend"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; background: #1e1e2e; color: #eee; max-width: 40em; margin: 2em auto; }
body.light-mode { background: #f5f6fa; color: #222; }
.todo-item { list-style: none; padding: .4em 0; }
.todo-item.completed .todo-text { text-decoration: line-through; opacity: .6; }
.filter-btn.active { font-weight: bold; }
</style>
</head>
<body{{if .Light}} class="light-mode"{{end}}>
<h1>{{.Title}}</h1>
<p id="date-display">{{.DateText}}</p>
<ul id="todo-list">
{{- range .Tasks}}
<li class="todo-item{{if .Completed}} completed{{end}}" data-id="{{.ID}}"><span class="check-circle">{{if .Completed}}&#10003;{{else}}&#9675;{{end}}</span> <span class="todo-text">{{.Text}}</span></li>
{{- end}}
</ul>
<footer>
<span id="items-left">{{.ItemsLeft}}</span>
{{- range .Filters}}
<span class="filter-btn{{if .Active}} active{{end}}" data-filter="{{.Name}}">{{.Name}}</span>
{{- end}}
</footer>
</body>
</html>
`))

type filterButton struct {
	Name   string
	Active bool
}

type htmlPage struct {
	Page
	DateText string
	Light    bool
	Filters  []filterButton
}

// HTML writes p as a standalone page. Task text is HTML-escaped by html/template.
func HTML(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "Tasks"
	}
	data := htmlPage{
		Page:     p,
		DateText: FormatDate(p.Date, ""),
		Light:    p.Theme == backend.ThemeLight,
	}
	for _, f := range backend.Filters {
		data.Filters = append(data.Filters, filterButton{Name: f.String(), Active: f == p.Filter})
	}
	return pageTemplate.Execute(w, data)
}
