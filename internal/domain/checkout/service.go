// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/cart"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/catalog"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/order"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/email"
)

// Metadata keys stashed on the Stripe session so the webhook can find its
// way back to the order and the cart.
const (
	metaOrderNumber = "order_number"
	metaCartSession = "cart_session"
)

// pricing is the slice of the catalog service checkout needs.
type pricing interface {
	GetVariant(ctx context.Context, productID, variantID string) (*catalog.Variant, error)
	EstimateShipping(ctx context.Context, recipient catalog.ShippingRecipient, items []catalog.ShippingItem) ([]catalog.ShippingRate, error)
}

// payments is the slice of the Stripe client checkout needs.
type payments interface {
	CreateSession(ctx context.Context, params SessionParams) (*CheckoutSession, error)
}

// mailer sends the order confirmation after payment lands.
type mailer interface {
	SendOrderConfirmation(ctx context.Context, data email.OrderConfirmationData) error
}

// Request is the checkout submission from the storefront. Prices are NOT
// part of it; every amount is recomputed server-side from the catalog.
type Request struct {
	Email            string                    `json:"email" binding:"required,email"`
	ShippingMethodID string                    `json:"shipping_method_id" binding:"required"`
	Recipient        catalog.ShippingRecipient `json:"recipient" binding:"required"`
	Address          order.Address             `json:"address"`
}

// Redirect is the successful checkout response, pointing the browser at the
// hosted payment page.
type Redirect struct {
	OrderNumber string `json:"order_number"`
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// Service drives the checkout flow: re-price the cart from the catalog,
// create a pending order, open a payment session, and settle the order when
// the webhook arrives.
type Service struct {
	carts   *cart.Service
	catalog pricing
	orders  *order.Service
	stripe  payments
	mailer  mailer
	config  *config.Config
	logger  *logrus.Logger
	now     func() time.Time
}

// NewService creates a checkout service.
func NewService(carts *cart.Service, catalogService *catalog.Service, orders *order.Service, stripe *StripeClient, m mailer, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		carts:   carts,
		catalog: catalogService,
		orders:  orders,
		stripe:  stripe,
		mailer:  m,
		config:  cfg,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession turns the session's cart into a pending order and a hosted
// payment session.
func (s *Service) CreateSession(ctx context.Context, cartSessionID string, req *Request) (*Redirect, error) {
	c, err := s.carts.Get(ctx, cartSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(c.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	validation := c.Validate()
	if !validation.Valid {
		return nil, fmt.Errorf("cart has unavailable items: %d out of stock, %d over quantity",
			len(validation.OutOfStockItems), len(validation.QuantityExceededItems))
	}

	// Re-price every line from the live catalog. The cart's stored prices
	// are display snapshots and are never charged.
	currency := "USD"
	subtotal := decimal.Zero
	orderItems := make([]order.OrderItem, 0, len(c.Items))
	lineItems := make([]SessionLineItem, 0, len(c.Items))
	shippingItems := make([]catalog.ShippingItem, 0, len(c.Items))

	for _, item := range c.Items {
		variant, err := s.catalog.GetVariant(ctx, item.ProductID, item.VariantID)
		if err != nil {
			return nil, fmt.Errorf("failed to price %s: %w", item.ID, err)
		}
		if !variant.InStock {
			return nil, fmt.Errorf("%s is no longer available", variant.Name)
		}
		if variant.Currency != "" {
			currency = variant.Currency
		}

		lineTotal := variant.RetailPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		orderItems = append(orderItems, order.OrderItem{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Name:        item.ProductName,
			VariantName: variant.Name,
			Quantity:    item.Quantity,
			UnitPrice:   variant.RetailPrice,
			TotalPrice:  lineTotal,
			ImageURL:    item.ImageURL,
		})
		lineItems = append(lineItems, SessionLineItem{
			Name:       variant.Name,
			UnitAmount: toCents(variant.RetailPrice),
			Currency:   currency,
			Quantity:   item.Quantity,
		})
		shippingItems = append(shippingItems, catalog.ShippingItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	rate, err := s.resolveShippingRate(ctx, req, shippingItems)
	if err != nil {
		return nil, err
	}

	pending := &order.Order{
		Email:              req.Email,
		Currency:           currency,
		Subtotal:           subtotal,
		ShippingCost:       rate.Rate,
		Total:              subtotal.Add(rate.Rate),
		ShippingMethodID:   rate.ID,
		ShippingMethodName: rate.Name,
		ShippingAddress:    req.Address,
		Items:              orderItems,
	}
	if err := s.orders.CreatePending(ctx, pending); err != nil {
		return nil, err
	}

	session, err := s.stripe.CreateSession(ctx, SessionParams{
		LineItems:      lineItems,
		CustomerEmail:  req.Email,
		SuccessURL:     s.config.External.Stripe.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      s.config.External.Stripe.CancelURL,
		ShippingLabel:  rate.Name,
		ShippingAmount: toCents(rate.Rate),
		Currency:       currency,
		Metadata: map[string]string{
			metaOrderNumber: pending.OrderNumber,
			metaCartSession: cartSessionID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	if err := s.orders.AttachSession(ctx, pending.OrderNumber, session.ID); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": pending.OrderNumber,
		"session_id":   session.ID,
		"total":        pending.Total.String(),
	}).Info("Checkout session created")

	return &Redirect{
		OrderNumber: pending.OrderNumber,
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

// HandleWebhook verifies and applies one Stripe webhook delivery.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := ParseEvent(payload, signatureHeader, s.config.External.Stripe.WebhookSecret, s.now())
	if err != nil {
		return err
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleSessionCompleted(ctx, event)
	case "checkout.session.expired":
		return s.handleSessionExpired(ctx, event)
	default:
		s.logger.WithField("event_type", event.Type).Debug("Ignoring webhook event")
		return nil
	}
}

func (s *Service) handleSessionCompleted(ctx context.Context, event *Event) error {
	var session CheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return fmt.Errorf("failed to parse session object: %w", err)
	}

	paid, processed, err := s.orders.MarkPaid(ctx, event.ID, event.Type, session.ID, session.PaymentIntentID)
	if err != nil {
		return err
	}
	if !processed {
		return nil
	}

	// The buyer's cart is done with; clear it so the session doesn't offer
	// the same items again.
	if cartSessionID := session.Metadata[metaCartSession]; cartSessionID != "" {
		if err := s.carts.Clear(ctx, cartSessionID); err != nil {
			s.logger.WithError(err).Warn("Failed to clear cart after payment")
		}
	}

	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(ctx, confirmationData(paid)); err != nil {
			s.logger.WithError(err).WithField("order_number", paid.OrderNumber).Warn("Failed to send order confirmation")
		}
	}
	return nil
}

func confirmationData(o *order.Order) email.OrderConfirmationData {
	lines := make([]email.OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, email.OrderLine{
			Name:      item.VariantName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Total:     item.TotalPrice.StringFixed(2),
		})
	}

	orderDate := o.CreatedAt.Format("January 2, 2006")
	return email.OrderConfirmationData{
		OrderNumber:    o.OrderNumber,
		OrderDate:      orderDate,
		Email:          o.Email,
		Items:          lines,
		Subtotal:       o.Subtotal.StringFixed(2),
		ShippingCost:   o.ShippingCost.StringFixed(2),
		Total:          o.Total.StringFixed(2),
		Currency:       o.Currency,
		ShippingMethod: o.ShippingMethodName,
	}
}

func (s *Service) handleSessionExpired(ctx context.Context, event *Event) error {
	var session CheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return fmt.Errorf("failed to parse session object: %w", err)
	}
	return s.orders.CancelBySession(ctx, session.ID)
}

// GetOrderBySession lets the success page resolve its order after redirect.
func (s *Service) GetOrderBySession(ctx context.Context, sessionID string) (*order.Order, error) {
	return s.orders.GetBySession(ctx, sessionID)
}

func (s *Service) resolveShippingRate(ctx context.Context, req *Request, items []catalog.ShippingItem) (*catalog.ShippingRate, error) {
	rates, err := s.catalog.EstimateShipping(ctx, req.Recipient, items)
	if err != nil {
		return nil, fmt.Errorf("failed to quote shipping: %w", err)
	}
	for i := range rates {
		if rates[i].ID == req.ShippingMethodID {
			return &rates[i], nil
		}
	}
	return nil, fmt.Errorf("shipping method %s is not available for this address", req.ShippingMethodID)
}

// toCents converts a decimal amount to the currency's smallest unit.
func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
