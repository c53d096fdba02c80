package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/config"
	deliverycontext "quill/internal/delivery/context"
	"quill/internal/domain/entity"
	"quill/internal/domain/service"
)

// fakeCodec maps known token strings to fixed claims.
type fakeCodec struct {
	tokens map[string]*service.SessionClaims
}

func (c *fakeCodec) Issue(uuid.UUID, entity.Role) (string, error) { panic("unused") }

func (c *fakeCodec) Validate(token string) (*service.SessionClaims, error) {
	if claims, ok := c.tokens[token]; ok {
		return claims, nil
	}

	return nil, service.ErrInvalidToken
}

func newTestAuth(tokens map[string]*service.SessionClaims) *AuthMiddleware {
	cfg := &config.Config{}
	cfg.Session = &config.SessionConfig{CookieName: "authToken"}

	return NewAuthMiddleware(&fakeCodec{tokens: tokens}, cfg)
}

func bindRequest(t *testing.T, m *AuthMiddleware, req *http.Request) (echo.Context, *service.SessionClaims, bool) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var claims *service.SessionClaims
	var bound bool
	err := m.BindIdentity(func(c echo.Context) error {
		claims, bound = deliverycontext.GetIdentity(c)

		return nil
	})(c)
	require.NoError(t, err)

	return c, claims, bound
}

func TestBindIdentity_NoToken(t *testing.T) {
	m := newTestAuth(nil)
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	_, _, bound := bindRequest(t, m, req)

	// Anonymous requests pass through unbound.
	assert.False(t, bound)
}

func TestBindIdentity_InvalidTokenStaysAnonymous(t *testing.T) {
	m := newTestAuth(nil)
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "garbage"})

	_, _, bound := bindRequest(t, m, req)

	assert.False(t, bound)
}

func TestBindIdentity_CookieToken(t *testing.T) {
	identityID := uuid.New()
	m := newTestAuth(map[string]*service.SessionClaims{
		"cookie-token": {IdentityID: identityID, Role: entity.RoleUser},
	})
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "cookie-token"})

	_, claims, bound := bindRequest(t, m, req)

	require.True(t, bound)
	assert.Equal(t, identityID, claims.IdentityID)
}

func TestBindIdentity_HeaderWinsOverCookie(t *testing.T) {
	headerID := uuid.New()
	cookieID := uuid.New()
	m := newTestAuth(map[string]*service.SessionClaims{
		"header-token": {IdentityID: headerID, Role: entity.RoleUser},
		"cookie-token": {IdentityID: cookieID, Role: entity.RoleUser},
	})
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "cookie-token"})

	_, claims, bound := bindRequest(t, m, req)

	require.True(t, bound)
	assert.Equal(t, headerID, claims.IdentityID)
}

func TestRequireAuthenticated(t *testing.T) {
	m := newTestAuth(map[string]*service.SessionClaims{
		"good": {IdentityID: uuid.New(), Role: entity.RoleUser},
	})

	run := func(req *http.Request) *httptest.ResponseRecorder {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := m.BindIdentity(m.RequireAuthenticated(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))
		require.NoError(t, handler(c))

		return rec
	}

	anonymous := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, run(anonymous).Code)

	authed := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	authed.AddCookie(&http.Cookie{Name: "authToken", Value: "good"})
	assert.Equal(t, http.StatusOK, run(authed).Code)
}

func TestRequireRole(t *testing.T) {
	m := newTestAuth(map[string]*service.SessionClaims{
		"user-token":  {IdentityID: uuid.New(), Role: entity.RoleUser},
		"admin-token": {IdentityID: uuid.New(), Role: entity.RoleAdmin},
	})

	run := func(req *http.Request) *httptest.ResponseRecorder {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := m.BindIdentity(m.RequireRole(entity.RoleAdmin)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))
		require.NoError(t, handler(c))

		return rec
	}

	anonymous := httptest.NewRequest(http.MethodGet, "/admin/credentials/x", nil)
	assert.Equal(t, http.StatusUnauthorized, run(anonymous).Code)

	user := httptest.NewRequest(http.MethodGet, "/admin/credentials/x", nil)
	user.AddCookie(&http.Cookie{Name: "authToken", Value: "user-token"})
	assert.Equal(t, http.StatusForbidden, run(user).Code)

	admin := httptest.NewRequest(http.MethodGet, "/admin/credentials/x", nil)
	admin.AddCookie(&http.Cookie{Name: "authToken", Value: "admin-token"})
	assert.Equal(t, http.StatusOK, run(admin).Code)
}
