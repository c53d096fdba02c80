// Package gateway implements the edge reverse proxy that fronts the platform.
package gateway

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"quill/config"
	"quill/internal/authz"
	"quill/internal/delivery/http/response"
	"quill/internal/domain/service"
)

// EdgeFilter is the first authentication tier. It rejects requests that carry
// a provably invalid session token before they consume backend capacity.
// Everything else passes through: the absence of a token is not an error
// here, because each service decides for itself whether identity is required.
type EdgeFilter struct {
	codec      service.TokenCodec
	public     authz.Table
	cookieName string
	logger     *slog.Logger
}

// NewEdgeFilter is the constructor for EdgeFilter.
func NewEdgeFilter(codec service.TokenCodec, cfg *config.Config, logger *slog.Logger) *EdgeFilter {
	cookieName := "authToken"
	if cfg.Session != nil && cfg.Session.CookieName != "" {
		cookieName = cfg.Session.CookieName
	}

	return &EdgeFilter{
		codec:      codec,
		public:     authz.PublicPaths(),
		cookieName: cookieName,
		logger:     logger,
	}
}

// Filter screens a request before it is proxied. Public paths skip token
// inspection entirely so a stale cookie can never lock a visitor out of
// public content.
func (f *EdgeFilter) Filter(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		if f.public.IsPublic(req.Method, req.URL.Path) {
			return next(c)
		}

		token := f.tokenFromRequest(c)
		if token == "" {
			// No token is not a rejection: the destination service renders
			// anonymous responses or rejects on its own terms.
			return next(c)
		}

		if _, err := f.codec.Validate(token); err != nil {
			f.logger.Debug("Edge filter rejected invalid token",
				slog.String("path", req.URL.Path),
				slog.String("method", req.Method),
			)

			return response.Unauthorized(c, "INVALID_TOKEN", "session token is invalid or expired")
		}

		return next(c)
	}
}

// tokenFromRequest extracts the session token, header before cookie.
func (f *EdgeFilter) tokenFromRequest(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
			return token
		}
	}

	cookie, err := c.Cookie(f.cookieName)
	if err == nil && cookie != nil {
		return cookie.Value
	}

	return ""
}

// blockInternal refuses to forward mesh-internal paths through the edge.
func blockInternal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if strings.HasPrefix(c.Request().URL.Path, "/internal") {
			return echo.NewHTTPError(http.StatusNotFound)
		}

		return next(c)
	}
}
