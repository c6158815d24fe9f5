// internal/interfaces/http/handlers/store.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/catalog"
)

// StoreHandler handles storefront catalog endpoints
type StoreHandler struct {
	catalogService *catalog.Service
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(catalogService *catalog.Service) *StoreHandler {
	return &StoreHandler{
		catalogService: catalogService,
	}
}

// EstimateShippingRequest is the payload for POST /store/shipping-estimates
type EstimateShippingRequest struct {
	Recipient catalog.ShippingRecipient `json:"recipient" binding:"required"`
	Items     []catalog.ShippingItem    `json:"items" binding:"required,min=1,dive"`
}

// ListProducts handles GET /store/products
func (h *StoreHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.GetProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Store is temporarily unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products": products,
			"count":    len(products),
		},
	})
}

// GetProduct handles GET /store/products/:id
func (h *StoreHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := h.catalogService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// EstimateShipping handles POST /store/shipping-estimates
func (h *StoreHandler) EstimateShipping(c *gin.Context) {
	var req EstimateShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	rates, err := h.catalogService.EstimateShipping(c.Request.Context(), req.Recipient, req.Items)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to estimate shipping",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping rates retrieved successfully",
		"data": gin.H{
			"rates": rates,
		},
	})
}
