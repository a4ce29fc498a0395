// Package xlsx writes a statement view as a styled spreadsheet.
package xlsx

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"pnlboard/internal/classify"
	"pnlboard/internal/render"
)

// DefaultSheet is the name of the single exported sheet.
const DefaultSheet = "P&L"

const (
	currencyFormat  = "#,##,##0"
	percentFormat   = "0.00%"
	percentWidthCap = 12
	commentAuthor   = "pnlboard"
	borderColor     = "000000"
	headerFontSize  = 14
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: borderColor, Style: 1},
	{Type: "top", Color: borderColor, Style: 1},
	{Type: "right", Color: borderColor, Style: 1},
	{Type: "bottom", Color: borderColor, Style: 1},
}

type styleKey struct {
	style  render.Style
	format classify.NumberFormat
	header bool
}

// writer caches excelize style ids; the same (palette style, number format)
// pair is registered once per file.
type writer struct {
	f      *excelize.File
	sheet  string
	styles map[styleKey]int
}

// Write renders the view into a new workbook and returns its bytes.
func Write(v render.View) (*bytes.Buffer, error) {
	return WriteSheet(v, DefaultSheet)
}

// WriteSheet is Write with an explicit sheet name.
func WriteSheet(v render.View, sheet string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	w := &writer{f: f, sheet: sheet, styles: map[styleKey]int{}}

	if err := w.header(v); err != nil {
		return nil, err
	}
	for r := range v.Table.Rows {
		if err := w.row(v, r); err != nil {
			return nil, err
		}
	}
	if err := w.widths(v); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func (w *writer) header(v render.View) error {
	id, err := w.style(styleKey{style: render.Header, header: true})
	if err != nil {
		return err
	}
	for c, label := range v.Table.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStr(w.sheet, cell, label); err != nil {
			return fmt.Errorf("header %s: %w", cell, err)
		}
		if err := w.f.SetCellStyle(w.sheet, cell, cell, id); err != nil {
			return fmt.Errorf("header style %s: %w", cell, err)
		}
	}
	return nil
}

func (w *writer) row(v render.View, r int) error {
	rowStyle := v.RowStyle(r)
	for c := range v.Table.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, r+2)
		if err != nil {
			return err
		}
		format := v.Formats.At(r, c)
		value := v.Table.Cell(r, c)

		switch {
		case value.Numeric && format == classify.FormatPercent && value.Value.IsZero():
			// Zero ratios stay blank, as on the page.
		case value.Numeric && format != classify.FormatText:
			n, _ := value.Value.Float64()
			err = w.f.SetCellFloat(w.sheet, cell, n, -1, 64)
		case value.Text != "":
			err = w.f.SetCellStr(w.sheet, cell, value.Text)
		}
		if err != nil {
			return fmt.Errorf("cell %s: %w", cell, err)
		}

		id, err := w.style(styleKey{style: rowStyle, format: format})
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(w.sheet, cell, cell, id); err != nil {
			return fmt.Errorf("style %s: %w", cell, err)
		}

		if remark, ok := v.Remark(r, c); ok {
			if err := w.f.AddComment(w.sheet, excelize.Comment{
				Cell:      cell,
				Author:    commentAuthor,
				Paragraph: []excelize.RichTextRun{{Text: remark}},
			}); err != nil {
				return fmt.Errorf("comment %s: %w", cell, err)
			}
		}
	}
	return nil
}

// widths sizes every column to its longest displayed text plus two,
// capping percentage columns.
func (w *writer) widths(v render.View) error {
	for c, label := range v.Table.Columns {
		longest := utf8.RuneCountInString(label)
		for r := range v.Table.Rows {
			if n := utf8.RuneCountInString(v.CellText(r, c)); n > longest {
				longest = n
			}
		}
		width := float64(longest + 2)
		if v.Formats.Column(c) == classify.FormatPercent && width > percentWidthCap {
			width = percentWidthCap
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(w.sheet, name, name, width); err != nil {
			return fmt.Errorf("column width %s: %w", name, err)
		}
	}
	return nil
}

func (w *writer) style(key styleKey) (int, error) {
	if id, ok := w.styles[key]; ok {
		return id, nil
	}
	id, err := w.f.NewStyle(excelStyle(key))
	if err != nil {
		return 0, fmt.Errorf("new style: %w", err)
	}
	w.styles[key] = id
	return id, nil
}

// excelStyle translates a palette entry into an excelize style.
func excelStyle(key styleKey) *excelize.Style {
	s := &excelize.Style{Border: thinBorder}
	if key.style.Fill != "" {
		s.Fill = excelize.Fill{Type: "pattern", Color: []string{key.style.Fill}, Pattern: 1}
	}
	font := &excelize.Font{Bold: key.style.Bold, Color: key.style.FontColor}
	if key.style.Underline {
		font.Underline = "single"
	}
	if key.header {
		font.Size = headerFontSize
		s.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	}
	s.Font = font

	switch key.format {
	case classify.FormatCurrency:
		f := currencyFormat
		s.CustomNumFmt = &f
	case classify.FormatPercent:
		f := percentFormat
		s.CustomNumFmt = &f
	}
	return s
}
