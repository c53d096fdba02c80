package context

import (
	"context"

	"github.com/labstack/echo/v4"

	"quill/internal/domain/service"
)

// KeyIdentity is the key for storing the authenticated identity in context.
const KeyIdentity ContextKey = "identity"

// SetIdentity binds validated session claims to the echo.Context and to the
// request's context.Context so both handlers and services can read them.
func SetIdentity(c echo.Context, claims *service.SessionClaims) {
	c.Set(string(KeyIdentity), claims)

	ctx := WithIdentity(c.Request().Context(), claims)
	c.SetRequest(c.Request().WithContext(ctx))
}

// GetIdentity extracts the authenticated identity from echo.Context.
// The second return value is false for anonymous requests.
func GetIdentity(c echo.Context) (*service.SessionClaims, bool) {
	claims, ok := c.Get(string(KeyIdentity)).(*service.SessionClaims)
	if !ok || claims == nil {
		return nil, false
	}

	return claims, true
}

// WithIdentity returns a new context carrying the identity claims.
func WithIdentity(ctx context.Context, claims *service.SessionClaims) context.Context {
	return context.WithValue(ctx, KeyIdentity, claims)
}

// IdentityFromContext extracts the identity claims from a standard
// context.Context. The second return value is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (*service.SessionClaims, bool) {
	claims, ok := ctx.Value(KeyIdentity).(*service.SessionClaims)
	if !ok || claims == nil {
		return nil, false
	}

	return claims, true
}
