// internal/interfaces/http/handlers/orders.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/order"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/pdf"
)

// OrdersHandler handles the ops order endpoints
type OrdersHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(orderService *order.Service, pdfService *pdf.Service) *OrdersHandler {
	return &OrdersHandler{
		orderService: orderService,
		pdfService:   pdfService,
	}
}

// List handles GET /ops/orders
func (h *OrdersHandler) List(c *gin.Context) {
	status := order.OrderStatus(c.Query("status"))
	limit, offset := parsePagination(c)

	orders, total, err := h.orderService.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data": gin.H{
			"orders": orders,
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// Get handles GET /ops/orders/:number
func (h *OrdersHandler) Get(c *gin.Context) {
	o, err := h.orderService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// MarkFulfilled handles POST /ops/orders/:number/fulfill
func (h *OrdersHandler) MarkFulfilled(c *gin.Context) {
	orderNumber := c.Param("number")

	if err := h.orderService.MarkFulfilled(c.Request.Context(), orderNumber); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as fulfilled",
	})
}

// Receipt handles GET /ops/orders/:number/receipt
func (h *OrdersHandler) Receipt(c *gin.Context) {
	o, err := h.orderService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	pdfBuffer, err := h.pdfService.GenerateReceipt(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(len(pdfBuffer.Bytes())))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}
