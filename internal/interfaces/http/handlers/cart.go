// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/cart"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/catalog"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService    *cart.Service
	catalogService *catalog.Service
	config         *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, catalogService *catalog.Service, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		catalogService: catalogService,
		config:         cfg,
	}
}

// AddToCartRequest is the payload for POST /cart/items. The catalog snapshot
// (price, stock) is taken server-side; the client only names the variant.
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest is the payload for PUT /cart/items/:id. A quantity
// of zero or less removes the line, so no lower bound is enforced here.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	cartData, err := h.cartService.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.cartResponse(cartData),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	// Snapshot the line from the live catalog so the cart never trusts
	// client-supplied prices.
	product, err := h.catalogService.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	var variant *catalog.Variant
	for i := range product.Variants {
		if product.Variants[i].ID == req.VariantID {
			variant = &product.Variants[i]
			break
		}
	}
	if variant == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Variant not found",
		})
		return
	}

	imageURL := variant.ImageURL
	if imageURL == "" {
		imageURL = product.ThumbnailURL
	}

	item := cart.CartItem{
		ID:                cart.ItemID(req.ProductID, req.VariantID),
		ProductID:         req.ProductID,
		VariantID:         req.VariantID,
		ProductName:       product.Name,
		VariantName:       variant.Name,
		Price:             variant.RetailPrice,
		Quantity:          req.Quantity,
		ImageURL:          imageURL,
		InStock:           variant.InStock,
		AvailableQuantity: variant.AvailableQuantity,
	}

	cartData, err := h.cartService.AddItem(c.Request.Context(), sessionID, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.cartResponse(cartData),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)
	itemID := c.Param("id")

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartData, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID, itemID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.cartResponse(cartData),
	})
}

// RemoveCartItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)
	itemID := c.Param("id")

	cartData, err := h.cartService.RemoveItem(c.Request.Context(), sessionID, itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.cartResponse(cartData),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	if err := h.cartService.Clear(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// ValidateCart handles POST /cart/validate
func (h *CartHandler) ValidateCart(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	cartData, result, err := h.cartService.Validate(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to validate cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart validated",
		"data": gin.H{
			"cart":       h.cartResponse(cartData),
			"validation": result,
		},
	})
}

// cartResponse decorates the stored cart with its derived totals.
func (h *CartHandler) cartResponse(c *cart.Cart) gin.H {
	return gin.H{
		"items":      c.Items,
		"item_count": c.ItemCount(),
		"total":      c.Total(),
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
		"expires_at": c.ExpiresAt,
	}
}

// getOrCreateSessionID reads the cart session cookie, minting a new id and
// setting the cookie when absent. The cookie is HttpOnly; the frontend never
// needs to read it.
func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(h.config.Cart.CookieName)
	if err == nil && sessionID != "" {
		return sessionID
	}

	sessionID = uuid.New().String()
	c.SetCookie(
		h.config.Cart.CookieName,
		sessionID,
		h.config.Cart.CookieMaxAge,
		"/",
		"",
		h.config.Cart.CookieSecure,
		true,
	)
	return sessionID
}
