package html

import (
	"strings"
	"testing"

	"pnlboard/internal/core"
	"pnlboard/internal/remarks"
	"pnlboard/internal/render"
)

func sampleTable() core.Table {
	return core.Table{
		Columns: []string{"PARTICULARS", "Jul-25", "%"},
		Rows: []core.StatementRow{
			{Label: "SALES", Cells: []core.Cell{{Text: "SALES"}, {}, {}}},
			{Label: "FOOD SALES", Cells: []core.Cell{{Text: "FOOD SALES"}, core.NewCell("1234567"), core.NewCell("0.4567")}},
			{Label: "TOTAL SALES AND SERVICE CHARGES", Cells: []core.Cell{{Text: "TOTAL SALES AND SERVICE CHARGES"}, core.NewCell("2000000"), core.NewCell("1")}},
			{Label: "NET PROFIT", Cells: []core.Cell{{Text: "NET PROFIT"}, core.NewCell("-12345"), core.NewCell("-0.05")}},
			{Label: "INTEREST", Cells: []core.Cell{{Text: "INTEREST"}, core.NewCell("500"), core.NewCell("25000")}},
			{Label: "TAXES", Cells: []core.Cell{{Text: "TAXES"}, core.NewCell("100"), core.NewCell("0.01")}},
		},
	}
}

func TestRenderStylesAndFormats(t *testing.T) {
	v := render.NewView(sampleTable(), nil)
	out, err := Render(v)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		`<th class="text">PARTICULARS</th>`,
		`<th class="num">Jul-25</th>`,
		`data-tag="sales-block" style="background-color: #fff9c4"`,
		`data-tag="sales-total" style="background-color: #ffe066; font-weight: bold"`,
		`data-tag="net-profit" style="background-color: #b30000; color: #ffffff; font-weight: bold"`,
		`>12,34,567<`,
		`>45.67%<`,
		`>-12,345<`,
		`>-5.00%<`,
		// INTEREST sits between NET PROFIT and TAXES: currency in the % column.
		`<td class="num">25,000</td>`,
		`>1.00%<`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(got, "has-remark") {
		t.Errorf("no remarks expected")
	}
}

func TestRenderRemarkOverlay(t *testing.T) {
	lookup := remarks.Lookup{
		{Row: "FOOD SALES", Column: "Jul-25"}: `check <invoice> & "vat"`,
		{Row: "FOOD SALES", Column: "Jun-25"}: "not shown",
	}
	v := render.NewView(sampleTable(), lookup)
	out, err := Render(v)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	if n := strings.Count(got, "has-remark"); n != 1 {
		t.Fatalf("expected one annotated cell, got %d", n)
	}
	if !strings.Contains(got, `<span class="remark">check &lt;invoice&gt; &amp; &#34;vat&#34;</span>`) {
		t.Fatalf("remark payload not escaped as expected:\n%s", got)
	}
	if !strings.Contains(got, `title="check &lt;invoice&gt; &amp; &#34;vat&#34;"`) {
		t.Fatalf("title attribute missing:\n%s", got)
	}
}

func TestRenderEmptyTable(t *testing.T) {
	out, err := Render(render.NewView(core.Table{Columns: []string{"PARTICULARS"}}, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "<tbody>") {
		t.Fatalf("unexpected output %s", out)
	}
}
