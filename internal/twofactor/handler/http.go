// Package handler exposes TOTP enrollment and verification over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"clinic-portal/backend/internal/server/middleware"
	"clinic-portal/backend/internal/twofactor/service"
)

type verifyRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	UserCode   string    `json:"user_code" binding:"required"`
	MarkActive bool      `json:"mark_active"`
}

// Handler handles the 2FA setup and verification endpoints.
type Handler struct {
	twoFactor *service.Service
	logger    *zap.Logger
}

func New(twoFactor *service.Service, logger *zap.Logger) *Handler {
	return &Handler{twoFactor: twoFactor, logger: logger}
}

// Enroll handles POST /2fa/totp for the authenticated user. Returns the
// provisioning URL the authenticator app scans.
func (h *Handler) Enroll(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
		return
	}

	enrollment, err := h.twoFactor.Enroll(c.Request.Context(), user.ID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "user not found"})
	case err != nil:
		h.logger.Error("enroll 2fa", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not set up two-factor authentication"})
	default:
		c.JSON(http.StatusCreated, gin.H{"provisioning_url": enrollment.URL})
	}
}

// Verify handles POST /2fa/verify. A wrong code is 401, a user without an
// enrollment is 404.
func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	valid, err := h.twoFactor.Verify(c.Request.Context(), req.UserID, req.UserCode, req.MarkActive)
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrTwoFactorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case err != nil:
		h.logger.Error("verify 2fa", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "verification failed"})
	case !valid:
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid 2FA code provided."})
	default:
		c.Status(http.StatusOK)
	}
}
