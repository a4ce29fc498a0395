// Package html renders a statement view as an HTML table with remark
// tooltips.
package html

import (
	"bytes"
	"fmt"
	"html/template"

	"pnlboard/internal/classify"
	"pnlboard/internal/render"
)

const tableTemplate = `<div class="freeze-header-table-container">
<table class="pnl-table">
<thead><tr>{{range .Columns}}<th class="{{.Class}}">{{.Label}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr data-tag="{{.Tag}}"{{with .Style}} style="{{.}}"{{end}}>{{range .Cells}}<td class="{{.Class}}"{{if .Remark}} title="{{.Remark}}"{{end}}>{{.Text}}{{if .Remark}}<span class="remark">{{.Remark}}</span>{{end}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</div>`

var tmpl = template.Must(template.New("table").Parse(tableTemplate))

type column struct {
	Label string
	Class string
}

type cell struct {
	Text   string
	Class  string
	Remark string
}

type row struct {
	Tag   string
	Style template.CSS
	Cells []cell
}

type tableData struct {
	Columns []column
	Rows    []row
}

// Render produces the statement table. Row styles come from the shared
// palette; cells with a remark carry the has-remark class, a title and a
// hover span.
func Render(v render.View) (template.HTML, error) {
	data := tableData{Columns: make([]column, len(v.Table.Columns))}
	for i, c := range v.Table.Columns {
		data.Columns[i] = column{Label: c, Class: columnClass(v.Formats.Column(i))}
	}

	for r := range v.Table.Rows {
		out := row{Tag: "none", Cells: make([]cell, len(v.Table.Columns))}
		if r < len(v.Results) {
			out.Tag = v.Results[r].Effective().String()
		}
		// Palette values are fixed hex colors and keywords.
		out.Style = template.CSS(v.RowStyle(r).CSS())

		for c := range v.Table.Columns {
			ce := cell{Text: v.CellText(r, c), Class: columnClass(v.Formats.At(r, c))}
			if remark, ok := v.Remark(r, c); ok {
				ce.Remark = remark
				ce.Class += " has-remark"
			}
			out.Cells[c] = ce
		}
		data.Rows = append(data.Rows, out)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func columnClass(f classify.NumberFormat) string {
	switch f {
	case classify.FormatText:
		return "text"
	case classify.FormatPercent:
		return "num pct"
	default:
		return "num"
	}
}
