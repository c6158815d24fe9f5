// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/auth"
)

// AuthHandler handles the operations login. There are no customer accounts;
// the single credential comes from configuration.
type AuthHandler struct {
	jwtManager *auth.JWTManager
	config     *config.Config
	logger     *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		jwtManager: auth.NewJWTManager(cfg),
		config:     cfg,
		logger:     logger,
	}
}

// LoginRequest is the payload for POST /ops/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /ops/login. Both failure modes answer the same 401 so
// the response does not reveal whether the email is the configured one.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if !strings.EqualFold(req.Email, h.config.Ops.Email) ||
		auth.VerifyPassword(req.Password, h.config.Ops.PasswordHash) != nil {
		h.logger.WithField("email", req.Email).Warn("Failed ops login attempt")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid credentials",
		})
		return
	}

	token, err := h.jwtManager.GenerateToken(h.config.Ops.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	h.logger.WithField("email", h.config.Ops.Email).Info("Ops login")
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data": gin.H{
			"token":      token,
			"expires_in": int(h.config.Ops.TokenExpiry.Seconds()),
		},
	})
}
