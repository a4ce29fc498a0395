package core

// StyleTag names a visual category assigned to a statement row.
type StyleTag string

// Style catalog. Block tags tint runs of rows; the rest are singleton
// overrides keyed by an exact row label.
const (
	TagNone StyleTag = ""

	// Blocks.
	TagSalesBlock     StyleTag = "sales-block"
	TagSalesTotal     StyleTag = "sales-total"
	TagFoodLedger     StyleTag = "food-ledger"
	TagDrinkLedger    StyleTag = "drink-ledger"
	TagDrinkInventory StyleTag = "drink-inventory"
	TagOperatingCost  StyleTag = "operating-cost"

	// Singletons.
	TagNetSale           StyleTag = "net-sale"
	TagSectionHeading    StyleTag = "section-heading"
	TagFoodTotal         StyleTag = "food-total"
	TagFoodInventory     StyleTag = "food-inventory"
	TagDrinkTotal        StyleTag = "drink-total"
	TagGrossProfit       StyleTag = "gross-profit"
	TagNonOperatingTotal StyleTag = "non-operating-total"
	TagNetProfit         StyleTag = "net-profit"
	TagDiscount          StyleTag = "discount"
	TagNetDiscount       StyleTag = "net-discount"
)

// StyleTags lists every non-empty tag in catalog order.
func StyleTags() []StyleTag {
	return []StyleTag{
		TagSalesBlock, TagSalesTotal, TagFoodLedger, TagDrinkLedger, TagDrinkInventory, TagOperatingCost,
		TagNetSale, TagSectionHeading, TagFoodTotal, TagFoodInventory, TagDrinkTotal, TagGrossProfit,
		TagNonOperatingTotal, TagNetProfit, TagDiscount, TagNetDiscount,
	}
}

func (t StyleTag) String() string {
	if t == TagNone {
		return "none"
	}
	return string(t)
}
