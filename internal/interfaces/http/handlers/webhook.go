// internal/interfaces/http/handlers/webhook.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/checkout"
)

// WebhookHandler handles inbound payment webhooks
type WebhookHandler struct {
	checkoutService *checkout.Service
	logger          *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(checkoutService *checkout.Service, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// HandleStripe handles POST /webhooks/stripe. Signature failures answer 400
// so Stripe marks the delivery failed; processing errors answer 500 so the
// delivery is retried.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read payload",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.checkoutService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, checkout.ErrInvalidSignature) || errors.Is(err, checkout.ErrStaleTimestamp) {
			h.logger.WithError(err).Warn("Rejected webhook delivery")
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid signature",
			})
			return
		}

		h.logger.WithError(err).Error("Webhook processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Webhook processing failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": true,
	})
}
