// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
)

// Service handles cart business logic on top of a Store.
type Service struct {
	store  Store
	config *config.Config
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new cart service.
func NewService(store Store, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		config: cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Get loads the cart for a session. Absent, corrupt and expired carts all
// come back as a fresh empty cart; the bad persisted copy is cleared as a
// side effect so the next load is clean without re-checking.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	now := s.now()

	data, found, err := s.store.Load(ctx, sessionID)
	if err != nil {
		// Storage trouble must not break browsing; hand out an empty cart.
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Cart load failed, serving empty cart")
		return New(now, s.config.Cart.ExpiryDays), nil
	}
	if !found {
		return New(now, s.config.Cart.ExpiryDays), nil
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Corrupt cart blob, discarding")
		s.clear(ctx, sessionID)
		return New(now, s.config.Cart.ExpiryDays), nil
	}

	if c.IsExpired(now) {
		s.clear(ctx, sessionID)
		return New(now, s.config.Cart.ExpiryDays), nil
	}

	return &c, nil
}

// AddItem adds or merges an item into the session's cart and persists it.
func (s *Service) AddItem(ctx context.Context, sessionID string, item CartItem) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.AddItem(item, s.now())
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets a line's quantity (zero or less removes it) and
// persists the cart.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.UpdateQuantity(itemID, quantity, s.now())
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem drops a line and persists the cart. Unknown ids are a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(itemID, s.now())
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear erases the persisted cart entirely.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// Validate loads the cart and checks its stock invariants.
func (s *Service) Validate(ctx context.Context, sessionID string) (*Cart, ValidationResult, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, ValidationResult{}, err
	}
	return c, c.Validate(), nil
}

func (s *Service) save(ctx context.Context, sessionID string, c *Cart) error {
	c.UpdatedAt = s.now().UnixMilli()

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	// TTL runs to the cart's fixed expiry instant; saving again later does
	// not push it out.
	ttl := time.Until(time.UnixMilli(c.ExpiresAt))
	if ttl <= 0 {
		return s.store.Delete(ctx, sessionID)
	}

	return s.store.Save(ctx, sessionID, data, ttl)
}

func (s *Service) clear(ctx context.Context, sessionID string) {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to clear cart")
	}
}
