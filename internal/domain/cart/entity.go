// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

const dayMillis = 24 * 60 * 60 * 1000

// CartItem is one line in a cart. Price, stock and available quantity are
// snapshots taken from the catalog when the item was (re-)added; they are
// used for display and pre-checkout validation, never for charging.
type CartItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"image_url"`
	InStock     bool            `json:"in_stock"`
	// AvailableQuantity is the upper bound learned from the catalog at add
	// time; nil when the catalog does not track quantity.
	AvailableQuantity *int  `json:"available_quantity,omitempty"`
	AddedAt           int64 `json:"added_at"`
}

// ItemID builds the composite line id. A product/variant pair appears at
// most once per cart.
func ItemID(productID, variantID string) string {
	return productID + "-" + variantID
}

// Cart is the aggregate persisted per session. Timestamps are epoch
// milliseconds. ExpiresAt is fixed at creation and never extended by later
// mutations.
type Cart struct {
	Items     []CartItem `json:"items"`
	CreatedAt int64      `json:"created_at"`
	UpdatedAt int64      `json:"updated_at"`
	ExpiresAt int64      `json:"expires_at"`
}

// ValidationResult reports the lines a checkout cannot proceed with. Both
// subsets are returned so the UI can offer remove or adjust-to-available
// actions.
type ValidationResult struct {
	Valid                 bool       `json:"valid"`
	OutOfStockItems       []CartItem `json:"out_of_stock_items"`
	QuantityExceededItems []CartItem `json:"quantity_exceeded_items"`
}

// New creates an empty cart expiring expiryDays after creation.
func New(now time.Time, expiryDays int) *Cart {
	ms := now.UnixMilli()
	return &Cart{
		Items:     []CartItem{},
		CreatedAt: ms,
		UpdatedAt: ms,
		ExpiresAt: ms + int64(expiryDays)*dayMillis,
	}
}

// AddItem merges an item into the cart. A line with the same id gains the
// incoming quantity and takes the incoming price/stock snapshot; the total
// is clamped to AvailableQuantity when the bound is known. New lines are
// appended, preserving insertion order.
func (c *Cart) AddItem(item CartItem, now time.Time) {
	for i := range c.Items {
		if c.Items[i].ID != item.ID {
			continue
		}

		quantity := c.Items[i].Quantity + item.Quantity
		if item.AvailableQuantity != nil && quantity > *item.AvailableQuantity {
			quantity = *item.AvailableQuantity
		}

		c.Items[i].Quantity = quantity
		c.Items[i].Price = item.Price
		c.Items[i].InStock = item.InStock
		c.Items[i].AvailableQuantity = item.AvailableQuantity
		c.UpdatedAt = now.UnixMilli()
		return
	}

	if item.AvailableQuantity != nil && item.Quantity > *item.AvailableQuantity {
		item.Quantity = *item.AvailableQuantity
	}
	item.AddedAt = now.UnixMilli()
	c.Items = append(c.Items, item)
	c.UpdatedAt = now.UnixMilli()
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// Unlike AddItem this does not clamp to AvailableQuantity: the excess shows
// up in Validate instead.
func (c *Cart) UpdateQuantity(id string, quantity int, now time.Time) {
	for i := range c.Items {
		if c.Items[i].ID != id {
			continue
		}

		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = quantity
		}
		c.UpdatedAt = now.UnixMilli()
		return
	}
}

// RemoveItem drops a line; absent ids are a no-op.
func (c *Cart) RemoveItem(id string, now time.Time) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = now.UnixMilli()
			return
		}
	}
}

// Total sums price * quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount sums the quantities of all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsExpired reports whether the cart has passed its expiry instant.
func (c *Cart) IsExpired(now time.Time) bool {
	return now.UnixMilli() >= c.ExpiresAt
}

// DaysUntilExpiration returns the whole days left before expiry, rounded
// up, never negative.
func (c *Cart) DaysUntilExpiration(now time.Time) int {
	remaining := c.ExpiresAt - now.UnixMilli()
	if remaining <= 0 {
		return 0
	}
	return int((remaining + dayMillis - 1) / dayMillis)
}

// Validate checks the snapshot invariants: every line in stock and no line
// above its known available quantity.
func (c *Cart) Validate() ValidationResult {
	result := ValidationResult{
		Valid:                 true,
		OutOfStockItems:       []CartItem{},
		QuantityExceededItems: []CartItem{},
	}

	for _, item := range c.Items {
		if !item.InStock {
			result.Valid = false
			result.OutOfStockItems = append(result.OutOfStockItems, item)
		}
		if item.AvailableQuantity != nil && item.Quantity > *item.AvailableQuantity {
			result.Valid = false
			result.QuantityExceededItems = append(result.QuantityExceededItems, item)
		}
	}

	return result
}
