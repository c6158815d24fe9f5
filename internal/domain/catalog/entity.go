// internal/domain/catalog/entity.go
package catalog

import (
	"github.com/shopspring/decimal"
)

// Product is a storefront product synced from Printful.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ThumbnailURL string    `json:"thumbnail_url"`
	VariantCount int       `json:"variant_count"`
	Variants     []Variant `json:"variants,omitempty"`
}

// Variant is one purchasable option of a product (size, color).
type Variant struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Currency    string          `json:"currency"`
	ImageURL    string          `json:"image_url"`
	InStock     bool            `json:"in_stock"`
	// AvailableQuantity is nil for print-on-demand variants, which are not
	// quantity-tracked.
	AvailableQuantity *int `json:"available_quantity,omitempty"`
}

// ShippingRecipient is the destination for a shipping rate estimate.
type ShippingRecipient struct {
	Address1    string `json:"address1"`
	City        string `json:"city"`
	StateCode   string `json:"state_code,omitempty"`
	CountryCode string `json:"country_code" binding:"required"`
	ZIP         string `json:"zip,omitempty"`
}

// ShippingItem is one cart line in a shipping rate request.
type ShippingItem struct {
	VariantID string `json:"variant_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// ShippingRate is one carrier option returned by the estimate.
type ShippingRate struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Rate            decimal.Decimal `json:"rate"`
	Currency        string          `json:"currency"`
	MinDeliveryDays int             `json:"min_delivery_days"`
	MaxDeliveryDays int             `json:"max_delivery_days"`
}
