// Package middleware holds the gin middleware shared by the HTTP handlers.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"clinic-portal/backend/internal/security"
	userdomain "clinic-portal/backend/internal/user/domain"
)

const currentUserKey = "currentUser"

// AccessTokenCookie is the http-only cookie carrying the access JWT.
const AccessTokenCookie = "access_token"

// UserLoader resolves the authenticated user id to a user. Nil without error
// means the account no longer exists.
type UserLoader interface {
	Find(ctx context.Context, id uuid.UUID) (*userdomain.User, error)
}

// AuthRequired validates the access token cookie, loads the user, and stores
// it on the context for CurrentUser. Requests without a valid cookie get 401.
func AuthRequired(tokens *security.TokenProvider, users UserLoader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
			return
		}

		userID, err := tokens.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
			return
		}

		user, err := users.Find(c.Request.Context(), userID)
		if err != nil {
			logger.Error("load current user", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "authentication failed"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil outside an
// authenticated request.
func CurrentUser(c *gin.Context) *userdomain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*userdomain.User)
	if !ok {
		return nil
	}
	return user
}
