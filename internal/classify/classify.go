// Package classify assigns style tags to the rows of a P&L statement.
//
// Classification is a single forward scan over the row labels. A handful of
// blocks open on one label and close on another, tinting every row in
// between; singleton labels carry their own tag which always overrides any
// block tint.
package classify

import "pnlboard/internal/core"

// Result is the classification of one row.
type Result struct {
	// Primary is the singleton tag of the row, or TagNone.
	Primary core.StyleTag
	// Blocks holds the tags of every block the row belongs to, ordered by
	// precedence: the last entry wins.
	Blocks []core.StyleTag
}

// Effective returns the tag a renderer should apply.
func (r Result) Effective() core.StyleTag {
	if r.Primary != core.TagNone {
		return r.Primary
	}
	if n := len(r.Blocks); n > 0 {
		return r.Blocks[n-1]
	}
	return core.TagNone
}

type block struct {
	open  string
	close string
	tag   core.StyleTag
	// closeTag replaces the tint on the closing row when set.
	closeTag core.StyleTag
}

// blocks is listed in evaluation order, which also breaks ties between
// blocks opened on the same row.
var blocks = []block{
	{open: "sales", close: "total sales and service charges", tag: core.TagSalesBlock, closeTag: core.TagSalesTotal},
	{open: "grocery [fcl]", close: "drinks [fcd]", tag: core.TagFoodLedger},
	{open: "drinks [fcd] - alco", close: "drinks [fcd] - non alco", tag: core.TagDrinkLedger},
	{open: "add: opening inventory (alco)", close: "add: closing inventory (non-alco)", tag: core.TagDrinkInventory},
	{open: "bank charges/credit card charges", close: "license fees", tag: core.TagOperatingCost},
}

var singletons = map[string]core.StyleTag{
	"net sale":                     core.TagNetSale,
	"cost of food sold":            core.TagSectionHeading,
	"cost of drinks sold":          core.TagSectionHeading,
	"expenses":                     core.TagSectionHeading,
	"disbursement":                 core.TagSectionHeading,
	"total food cost":              core.TagFoodTotal,
	"net food cost":                core.TagFoodTotal,
	"add: opening inventory":       core.TagFoodInventory,
	"less: closing inventory":      core.TagFoodInventory,
	"total drinks cost":            core.TagDrinkTotal,
	"net drink cost":               core.TagDrinkTotal,
	"gross profit":                 core.TagGrossProfit,
	"total non operating cost":     core.TagNonOperatingTotal,
	"net profit":                   core.TagNetProfit,
	"less: discount":               core.TagDiscount,
	"less: adjusted ( net of gst)": core.TagDiscount,
	"net discount":                 core.TagNetDiscount,
}

// blockState tracks which blocks are open and on which row they opened.
type blockState struct {
	openedAt []int // -1 when closed
}

func newBlockState() blockState {
	s := blockState{openedAt: make([]int, len(blocks))}
	for i := range s.openedAt {
		s.openedAt[i] = -1
	}
	return s
}

// active returns the indices of open blocks ordered by precedence: opening
// row ascending, then evaluation order.
func (s blockState) active() []int {
	var out []int
	for i, at := range s.openedAt {
		if at < 0 {
			continue
		}
		pos := len(out)
		for pos > 0 && s.openedAt[out[pos-1]] > at {
			pos--
		}
		out = append(out, 0)
		copy(out[pos+1:], out[pos:])
		out[pos] = i
	}
	return out
}

// Classify returns one Result per label, in order. Every call starts with
// all blocks closed. A block whose closing label never appears simply stays
// open to the end of the statement.
func Classify(labels []string) []Result {
	out := make([]Result, len(labels))
	state := newBlockState()

	for row, raw := range labels {
		label := core.NormalizeLabel(raw)

		for i, b := range blocks {
			if label == b.open && state.openedAt[i] < 0 {
				state.openedAt[i] = row
			}
		}

		res := Result{Primary: singletons[label]}
		for _, i := range state.active() {
			b := blocks[i]
			if label == b.close && b.closeTag != core.TagNone {
				res.Blocks = append(res.Blocks, b.closeTag)
				continue
			}
			res.Blocks = append(res.Blocks, b.tag)
		}

		for i, b := range blocks {
			if label == b.close {
				state.openedAt[i] = -1
			}
		}

		out[row] = res
	}
	return out
}

// Tags is a convenience returning the effective tag of every label.
func Tags(labels []string) []core.StyleTag {
	results := Classify(labels)
	out := make([]core.StyleTag, len(results))
	for i, r := range results {
		out[i] = r.Effective()
	}
	return out
}
