// internal/interfaces/http/handlers/inquiry.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/inquiry"
)

// InquiryHandler handles sponsorship inquiry endpoints
type InquiryHandler struct {
	inquiryService *inquiry.Service
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(inquiryService *inquiry.Service) *InquiryHandler {
	return &InquiryHandler{
		inquiryService: inquiryService,
	}
}

// UpdateInquiryStatusRequest is the payload for PUT /ops/inquiries/:id/status
type UpdateInquiryStatusRequest struct {
	Status inquiry.InquiryStatus `json:"status" binding:"required"`
}

// Submit handles POST /inquiries
func (h *InquiryHandler) Submit(c *gin.Context) {
	var req inquiry.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.inquiryService.Submit(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit inquiry",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Inquiry submitted successfully",
		"data": gin.H{
			"id": record.ID,
		},
	})
}

// List handles GET /ops/inquiries
func (h *InquiryHandler) List(c *gin.Context) {
	status := inquiry.InquiryStatus(c.Query("status"))
	limit, offset := parsePagination(c)

	inquiries, total, err := h.inquiryService.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list inquiries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inquiries retrieved successfully",
		"data": gin.H{
			"inquiries": inquiries,
			"total":     total,
			"limit":     limit,
			"offset":    offset,
		},
	})
}

// UpdateStatus handles PUT /ops/inquiries/:id/status
func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid inquiry ID",
		})
		return
	}

	var req UpdateInquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.inquiryService.UpdateStatus(c.Request.Context(), uint(id), req.Status); err != nil {
		if errors.Is(err, inquiry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Inquiry not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inquiry status updated successfully",
	})
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	limit := 20
	if value, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && value > 0 && value <= 100 {
		limit = value
	}
	offset := 0
	if value, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && value >= 0 {
		offset = value
	}
	return limit, offset
}
