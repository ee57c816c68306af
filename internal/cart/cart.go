package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one product line in a customer's cart. Name, UnitPrice, and
// ImageURL are snapshotted from the catalog when the line is added.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  *string         `json:"image_url,omitempty"`
	AddedAt   time.Time       `json:"added_at"`
}

// LineTotal returns unit price times quantity for this line.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the ordered collection of items a customer intends to buy.
// Lines keep insertion order; a product appears at most once.
type Cart struct {
	Items []Item `json:"items"`
}

// Find returns the line for a product, or nil when absent.
func (c *Cart) Find(productID uuid.UUID) *Item {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}

// Add increments the quantity of an existing line or appends a new one.
func (c *Cart) Add(item Item, quantity int) {
	if quantity < 1 {
		return
	}
	if existing := c.Find(item.ProductID); existing != nil {
		existing.Quantity += quantity
		return
	}
	item.Quantity = quantity
	c.Items = append(c.Items, item)
}

// SetQuantity replaces a line's quantity. A quantity below one removes
// the line entirely.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	if quantity < 1 {
		c.Remove(productID)
		return
	}
	if existing := c.Find(productID); existing != nil {
		existing.Quantity = quantity
	}
}

// Remove drops the line for a product, preserving the order of the rest.
func (c *Cart) Remove(productID uuid.UUID) {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount sums the quantities across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
