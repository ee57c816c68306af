package cart

import "github.com/shopspring/decimal"

// DefaultShippingFee is the flat delivery charge applied to every order.
var DefaultShippingFee = decimal.RequireFromString("2.99")

// Totals breaks a cart's price down into its displayed components.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
}

// Subtotal sums line totals across the provided items.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// ComputeTotals derives the full price breakdown for a cart. The shipping
// fee is charged only when the cart holds at least one item.
func ComputeTotals(c Cart, shippingFee decimal.Decimal) Totals {
	subtotal := Subtotal(c.Items)
	fee := decimal.Zero
	if !c.IsEmpty() {
		fee = shippingFee
	}
	return Totals{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal.Add(fee),
		ItemCount:   c.ItemCount(),
	}
}
