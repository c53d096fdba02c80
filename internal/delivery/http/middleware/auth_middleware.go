// Package middleware contains HTTP middleware for the identity service.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"quill/config"
	deliverycontext "quill/internal/delivery/context"
	"quill/internal/delivery/http/response"
	"quill/internal/domain/entity"
	"quill/internal/domain/service"
)

// AuthMiddleware binds session identity to requests and gates protected routes.
type AuthMiddleware struct {
	codec      service.TokenCodec
	cookieName string
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(codec service.TokenCodec, cfg *config.Config) *AuthMiddleware {
	cookieName := "authToken"
	if cfg.Session != nil && cfg.Session.CookieName != "" {
		cookieName = cfg.Session.CookieName
	}

	return &AuthMiddleware{codec: codec, cookieName: cookieName}
}

// BindIdentity attaches the authenticated identity to the request context
// when a valid session token is present. It never rejects: requests without
// a token, or with an invalid one, proceed anonymously and are stopped later
// only by RequireAuthenticated or RequireRole. This keeps public endpoints
// usable while still letting handlers personalize responses.
func (m *AuthMiddleware) BindIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := m.tokenFromRequest(c)
		if token == "" {
			return next(c)
		}

		claims, err := m.codec.Validate(token)
		if err != nil {
			// Invalid tokens bind nothing; the request stays anonymous.
			return next(c)
		}

		deliverycontext.SetIdentity(c, claims)

		return next(c)
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
// It must be used AFTER BindIdentity.
func (m *AuthMiddleware) RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := deliverycontext.GetIdentity(c); !ok {
			return response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
		}

		return next(c)
	}
}

// RequireRole is a middleware factory that checks the authenticated identity's
// role. It must be used AFTER BindIdentity.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := deliverycontext.GetIdentity(c)
			if !ok {
				return response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
			}

			if claims.Role != requiredRole {
				return response.Forbidden(c, "FORBIDDEN", "require '"+requiredRole.String()+"' role")
			}

			return next(c)
		}
	}
}

// tokenFromRequest extracts the session token. A Bearer header takes
// precedence over the session cookie so API clients can override a stale
// browser session.
func (m *AuthMiddleware) tokenFromRequest(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
			return token
		}
	}

	cookie, err := c.Cookie(m.cookieName)
	if err == nil && cookie != nil {
		return cookie.Value
	}

	return ""
}
