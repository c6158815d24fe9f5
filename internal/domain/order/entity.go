// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a storefront order. Orders are guest-only; the buyer is
// identified by email, not an account.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:40" json:"order_number"`
	Email       string      `gorm:"not null;size:255" json:"email"`
	Status      OrderStatus `gorm:"not null;default:'pending'" json:"status"`
	Currency    string      `gorm:"size:3;default:'USD'" json:"currency"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"shipping_cost"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	// Payment references
	StripeSessionID string `gorm:"uniqueIndex;size:255" json:"-"`
	PaymentIntentID string `gorm:"size:255" json:"-"`

	// Fulfillment
	ShippingMethodID   string  `gorm:"size:50" json:"shipping_method_id"`
	ShippingMethodName string  `gorm:"size:100" json:"shipping_method_name"`
	ShippingAddress    Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	PaidAt    *time.Time     `json:"paid_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents one line of an order. Prices are the server-side
// catalog prices captured at checkout, never the client's numbers.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductID   string          `gorm:"not null;size:50" json:"product_id"`
	VariantID   string          `gorm:"not null;size:50" json:"variant_id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	VariantName string          `gorm:"size:255" json:"variant_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	ImageURL    string          `gorm:"size:500" json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Address represents a shipping address (embedded in Order)
type Address struct {
	Name         string `gorm:"size:200" json:"name"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	CountryCode  string `gorm:"size:2" json:"country_code"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// WebhookEvent records a processed payment webhook. The unique event id is
// what makes webhook handling idempotent under Stripe's at-least-once
// delivery.
type WebhookEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"uniqueIndex;not null;size:255" json:"event_id"`
	EventType string    `gorm:"not null;size:100" json:"event_type"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string        { return "orders" }
func (OrderItem) TableName() string    { return "order_items" }
func (WebhookEvent) TableName() string { return "webhook_events" }

// GenerateOrderNumber generates a unique order number
func GenerateOrderNumber() string {
	// Format: TOA-YYYYMMDD-XXXXXX
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("TOA-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// IsPaid checks whether payment has been captured
func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusFulfilled
}

// CanBeCancelled checks if the order can still be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending
}
