// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"quill/internal/delivery/http/middleware"
	"quill/internal/delivery/http/router/handler"
	"quill/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler   *handler.AccountHandler
	DirectoryHandler *handler.DirectoryHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler   *handler.AccountHandler
	directoryHandler *handler.DirectoryHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:   params.AccountHandler,
		directoryHandler: params.DirectoryHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Identity binding is advisory on every route; route groups below decide
	// whether an identity is actually required.
	e.Use(r.authMiddleware.BindIdentity)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/send-code", r.accountHandler.SendCode)
		authGroup.POST("/verify-code", r.accountHandler.VerifyCode)
		authGroup.POST("/signup", r.accountHandler.Signup)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/logout", r.accountHandler.Logout)
		authGroup.GET("/check-username", r.accountHandler.CheckUsername)
		authGroup.GET("/check-nickname", r.accountHandler.CheckNickname)

		authGroup.GET("/me", r.accountHandler.Me, r.authMiddleware.RequireAuthenticated)
	}

	// Admin routes require the admin role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/credentials/:id", r.accountHandler.LookupAccount)
	}

	// Internal routes are reachable only inside the service mesh; the edge
	// gateway never forwards /internal paths.
	internalGroup := e.Group("/internal")
	{
		internalGroup.POST("/profiles/nicknames", r.directoryHandler.ResolveNicknames)
	}
}
