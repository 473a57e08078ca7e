// Package server builds the HTTP router and wires handlers to routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authhandler "clinic-portal/backend/internal/auth/handler"
	patienthandler "clinic-portal/backend/internal/patient/handler"
	"clinic-portal/backend/internal/security"
	"clinic-portal/backend/internal/server/middleware"
	twofactorhandler "clinic-portal/backend/internal/twofactor/handler"
	userhandler "clinic-portal/backend/internal/user/handler"
)

// Deps holds the dependencies the HTTP routes need.
type Deps struct {
	Auth      *authhandler.Handler
	Users     *userhandler.Handler
	Patients  *patienthandler.Handler
	TwoFactor *twofactorhandler.Handler
	// Tokens validates the access token cookie in the auth middleware.
	Tokens *security.TokenProvider
	// UserLoader resolves authenticated user ids to users.
	UserLoader middleware.UserLoader
	Logger     *zap.Logger
}

// NewRouter builds the gin engine with all routes registered.
//
// Route → handler mapping:
//   - /api/v1/auth/*     → internal/auth/handler
//   - /api/v1/users/*    → internal/user/handler
//   - /api/v1/patients/* → internal/patient/handler
//   - /api/v1/2fa/*      → internal/twofactor/handler
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	authRequired := middleware.AuthRequired(deps.Tokens, deps.UserLoader, deps.Logger)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", deps.Auth.Register)
			auth.POST("/login", deps.Auth.Login)
			auth.POST("/logout", deps.Auth.Logout)
			auth.POST("/forgot-password", deps.Auth.ForgotPassword)
			auth.POST("/reset-password", deps.Auth.ResetPassword)
		}

		users := v1.Group("/users", authRequired)
		{
			users.GET("/me", deps.Users.Me)
			users.GET("", deps.Users.List)
		}

		patients := v1.Group("/patients", authRequired)
		{
			patients.POST("", deps.Patients.Create)
			patients.GET("", deps.Patients.List)
			patients.GET("/:id", deps.Patients.Get)
		}

		twofa := v1.Group("/2fa")
		{
			twofa.POST("/totp", authRequired, deps.TwoFactor.Enroll)
			twofa.POST("/verify", deps.TwoFactor.Verify)
		}
	}

	return r
}
