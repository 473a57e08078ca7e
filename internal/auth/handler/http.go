// Package handler exposes the auth flows over HTTP.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-portal/backend/internal/auth/service"
	"clinic-portal/backend/internal/security"
	"clinic-portal/backend/internal/server/middleware"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// Handler handles registration, login, logout, and password reset requests.
type Handler struct {
	auth         *service.Service
	logger       *zap.Logger
	secureCookie bool
}

func New(auth *service.Service, logger *zap.Logger, secureCookie bool) *Handler {
	return &Handler{auth: auth, logger: logger, secureCookie: secureCookie}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, security.ErrWeakPassword):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"detail": "email already registered"})
	case err != nil:
		h.logger.Error("register", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "registration failed"})
	default:
		c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
	}
}

// Login handles POST /auth/login. On success it sets the access token cookie
// and returns 204.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
	case err != nil:
		h.logger.Error("login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "login failed"})
	default:
		maxAge := int(time.Until(session.ExpiresAt).Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.AccessTokenCookie, session.Token, maxAge, "/", "", h.secureCookie, true)
		c.Status(http.StatusNoContent)
	}
}

// Logout handles POST /auth/logout by clearing the cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

// ForgotPassword handles POST /auth/forgot-password. Always 204, regardless
// of whether the address has an account.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.logger.Error("forgot password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "password reset request failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetPassword handles POST /auth/reset-password. The reset token travels in
// the Token header; a bad token is 403.
func (h *Handler) ResetPassword(c *gin.Context) {
	token := c.GetHeader("Token")
	if token == "" {
		c.JSON(http.StatusForbidden, gin.H{"detail": "missing reset token"})
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	err := h.auth.ResetPassword(c.Request.Context(), token, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidResetToken):
		c.JSON(http.StatusForbidden, gin.H{"detail": "invalid or expired reset token"})
	case errors.Is(err, security.ErrWeakPassword):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case err != nil:
		h.logger.Error("reset password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "password reset failed"})
	default:
		c.Status(http.StatusNoContent)
	}
}
