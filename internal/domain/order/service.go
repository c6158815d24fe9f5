// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no order matches the lookup.
var ErrNotFound = errors.New("order not found")

// Service handles order persistence and payment state transitions
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new order service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreatePending stores a new order in pending state, before the buyer is
// redirected to payment. The order number is assigned here.
func (s *Service) CreatePending(ctx context.Context, o *Order) error {
	o.OrderNumber = GenerateOrderNumber()
	o.Status = OrderStatusPending

	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"total":        o.Total.String(),
		"items":        len(o.Items),
	}).Info("Order created")
	return nil
}

// AttachSession records the payment session created for a pending order.
func (s *Service) AttachSession(ctx context.Context, orderNumber, sessionID string) error {
	result := s.db.WithContext(ctx).Model(&Order{}).
		Where("order_number = ?", orderNumber).
		Update("stripe_session_id", sessionID)
	if result.Error != nil {
		return fmt.Errorf("failed to attach payment session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid transitions the order behind a payment session to paid. The event
// id is recorded first inside the same transaction; a duplicate delivery of
// the same event hits the unique index and is reported as already processed.
func (s *Service) MarkPaid(ctx context.Context, eventID, eventType, sessionID, paymentIntentID string) (*Order, bool, error) {
	var paid Order
	processed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := WebhookEvent{EventID: eventID, EventType: eventType}
		if err := tx.Create(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return fmt.Errorf("failed to record webhook event: %w", err)
		}
		processed = true

		if err := tx.Preload("Items").Where("stripe_session_id = ?", sessionID).First(&paid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		if paid.IsPaid() {
			return nil
		}

		now := s.now()
		paid.Status = OrderStatusPaid
		paid.PaymentIntentID = paymentIntentID
		paid.PaidAt = &now
		if err := tx.Save(&paid).Error; err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !processed {
		s.logger.WithField("event_id", eventID).Info("Duplicate webhook event skipped")
		return nil, false, nil
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": paid.OrderNumber,
		"event_id":     eventID,
	}).Info("Order marked paid")
	return &paid, true, nil
}

// CancelBySession cancels the pending order behind an expired payment
// session. Paid orders are never cancelled this way.
func (s *Service) CancelBySession(ctx context.Context, sessionID string) error {
	result := s.db.WithContext(ctx).Model(&Order{}).
		Where("stripe_session_id = ? AND status = ?", sessionID, OrderStatusPending).
		Update("status", OrderStatusCancelled)
	if result.Error != nil {
		return fmt.Errorf("failed to cancel order: %w", result.Error)
	}
	return nil
}

// GetByNumber returns one order with its items.
func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Preload("Items").Where("order_number = ?", orderNumber).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

// GetBySession returns the order behind a payment session. The success page
// polls this after redirect.
func (s *Service) GetBySession(ctx context.Context, sessionID string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Preload("Items").Where("stripe_session_id = ?", sessionID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

// List returns recent orders for the ops dashboard, newest first.
func (s *Service) List(ctx context.Context, status OrderStatus, limit, offset int) ([]Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.Preload("Items").Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// MarkFulfilled records that the paid order has been submitted for
// fulfillment.
func (s *Service) MarkFulfilled(ctx context.Context, orderNumber string) error {
	result := s.db.WithContext(ctx).Model(&Order{}).
		Where("order_number = ? AND status = ?", orderNumber, OrderStatusPaid).
		Update("status", OrderStatusFulfilled)
	if result.Error != nil {
		return fmt.Errorf("failed to mark order fulfilled: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
