// Package render holds what the HTML and spreadsheet renderers share: the
// style palette and the view they both consume.
package render

import (
	"strings"

	"pnlboard/internal/classify"
	"pnlboard/internal/core"
	"pnlboard/internal/remarks"
)

// Style is the visual treatment of a row. Colors are "#rrggbb" or empty.
type Style struct {
	Fill      string
	FontColor string
	Bold      bool
	Underline bool
}

// IsZero reports whether the style leaves the row at its defaults.
func (s Style) IsZero() bool {
	return s == Style{}
}

// CSS renders the style as an inline declaration list.
func (s Style) CSS() string {
	var parts []string
	if s.Fill != "" {
		parts = append(parts, "background-color: "+s.Fill)
	}
	if s.FontColor != "" {
		parts = append(parts, "color: "+s.FontColor)
	}
	if s.Bold {
		parts = append(parts, "font-weight: bold")
	}
	if s.Underline {
		parts = append(parts, "text-decoration: underline")
	}
	return strings.Join(parts, "; ")
}

// Header is the style of the column header row.
var Header = Style{Fill: "#003366", FontColor: "#ffffff", Bold: true}

const white = "#ffffff"

// Palette maps every style tag to its row style. Both renderers derive their
// native styling from this table only.
var Palette = map[core.StyleTag]Style{
	core.TagSalesBlock:        {Fill: "#fff9c4"},
	core.TagSalesTotal:        {Fill: "#ffe066", Bold: true},
	core.TagFoodLedger:        {Fill: "#d6f0ff"},
	core.TagDrinkLedger:       {Fill: "#e6ffe6"},
	core.TagDrinkInventory:    {Fill: "#e6ffe6"},
	core.TagOperatingCost:     {Fill: "#ffe6e6"},
	core.TagNetSale:           {Fill: "#e75480", Bold: true},
	core.TagSectionHeading:    {Bold: true, Underline: true},
	core.TagFoodTotal:         {Fill: "#4f81bd", FontColor: white, Bold: true},
	core.TagFoodInventory:     {Fill: "#d6f0ff"},
	core.TagDrinkTotal:        {Fill: "#5cb85c", FontColor: white, Bold: true},
	core.TagGrossProfit:       {Fill: "#d9534f", FontColor: white, Bold: true},
	core.TagNonOperatingTotal: {Fill: "#ff9900", Bold: true},
	core.TagNetProfit:         {Fill: "#b30000", FontColor: white, Bold: true},
	core.TagDiscount:          {Fill: "#ffe6f0"},
	core.TagNetDiscount:       {Fill: "#ffe6f0", Bold: true},
}

// StyleFor returns the palette entry for tag; TagNone yields the zero Style.
func StyleFor(tag core.StyleTag) Style {
	return Palette[tag]
}

// View is everything a renderer needs for one statement.
type View struct {
	Table   core.Table
	Results []classify.Result
	Formats classify.FormatPlan
	Remarks remarks.Lookup
}

// NewView classifies the table and plans its number formats.
func NewView(table core.Table, lookup remarks.Lookup) View {
	labels := table.Labels()
	return View{
		Table:   table,
		Results: classify.Classify(labels),
		Formats: classify.PlanFormats(labels, table.Columns),
		Remarks: lookup,
	}
}

// RowStyle returns the style of row i.
func (v View) RowStyle(i int) Style {
	if i < 0 || i >= len(v.Results) {
		return Style{}
	}
	return StyleFor(v.Results[i].Effective())
}
