package main

import (
	"html/template"

	"github.com/gofiber/fiber/v2"
)

// htmlRenderer renders the panel screens with html/template. Unknown
// template identifiers fall back to JSON so custom screens degrade loudly
// but usably.
type htmlRenderer struct {
	tpl *template.Template
}

func newHTMLRenderer() (*htmlRenderer, error) {
	tpl := template.New("panel").Funcs(template.FuncMap{
		"raw": func(s string) template.HTML { return template.HTML(s) },
	})
	tpl, err := tpl.Parse(panelTemplates)
	if err != nil {
		return nil, err
	}
	return &htmlRenderer{tpl: tpl}, nil
}

func (r *htmlRenderer) Render(c *fiber.Ctx, name string, data fiber.Map) error {
	if r.tpl.Lookup(name) == nil {
		data["template"] = name
		return c.JSON(data)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return r.tpl.ExecuteTemplate(c.Response().BodyWriter(), name, data)
}

const panelTemplates = `
{{define "layout_head"}}<!DOCTYPE html>
<html><head><title>{{.title}}</title></head><body>
{{with .flash}}<p class="flash">{{.}}</p>{{end}}
<h1>{{.title}}</h1>
<nav>
{{range .buttons}}<a href="{{.URL}}">{{.Action}}</a> {{end}}
</nav>
{{end}}

{{define "layout_foot"}}</body></html>{{end}}

{{define "list"}}{{template "layout_head" .}}
<p><a href="?entity={{.entity}}&amp;action=new">Create new</a></p>
{{$filters := .filters}}
<form method="get">
<input type="hidden" name="entity" value="{{.entity}}">
<input type="hidden" name="action" value="list">
{{range .header}}{{if .Filterable}}
<label>{{.Label}} <input name="filter[{{.Name}}]" value="{{index $filters .Name}}"></label>
{{end}}{{end}}
<button type="submit">Filter</button>
</form>
<table>
<tr>{{range .header}}<th>{{.Label}}</th>{{end}}<th></th></tr>
{{range .rows}}<tr>
{{range .Cells}}<td>{{if .Link}}<a href="{{.Link}}">{{if .Label}}{{.Label}}{{else}}{{.Value}}{{end}}</a>{{else if .Label}}{{.Label}}{{else}}{{.Value}}{{end}}</td>{{end}}
<td>{{range .Actions}}<a href="{{.URL}}">{{.Action}}</a> {{end}}</td>
</tr>{{end}}
</table>
{{template "layout_foot" .}}{{end}}

{{define "show"}}{{template "layout_head" .}}
<table>
{{range .row.Cells}}<tr><th>{{.Field.DisplayLabel}}</th>
<td>{{if .Link}}<a href="{{.Link}}">{{if .Label}}{{.Label}}{{else}}{{.Value}}{{end}}</a>{{else if .Label}}{{.Label}}{{else}}{{.Value}}{{end}}</td></tr>{{end}}
</table>
{{template "layout_foot" .}}{{end}}

{{define "form"}}{{template "layout_head" .}}
<form method="post" action="{{.action_url}}">
{{$errors := .errors}}
{{range .controls}}
<div>
<label>{{.FieldName}}</label>
{{raw .Render}}
{{range index $errors .FieldName}}<p class="error">{{.}}</p>{{end}}
</div>
{{end}}
<button type="submit">Save</button>
</form>
{{template "layout_foot" .}}{{end}}

{{define "new"}}{{template "form" .}}{{end}}
{{define "edit"}}{{template "form" .}}{{end}}
`
