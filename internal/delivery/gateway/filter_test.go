package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/config"
	"quill/internal/domain/entity"
	"quill/internal/domain/service"
)

// fakeCodec accepts a single known-good token and rejects everything else.
type fakeCodec struct {
	valid string
}

func (c *fakeCodec) Issue(uuid.UUID, entity.Role) (string, error) {
	return c.valid, nil
}

func (c *fakeCodec) Validate(token string) (*service.SessionClaims, error) {
	if token == c.valid {
		return &service.SessionClaims{IdentityID: uuid.New(), Role: entity.RoleUser}, nil
	}

	return nil, service.ErrInvalidToken
}

func newTestFilter() *EdgeFilter {
	cfg := &config.Config{}
	cfg.Session = &config.SessionConfig{CookieName: "authToken"}

	return NewEdgeFilter(&fakeCodec{valid: "good-token"}, cfg, slog.Default())
}

func runFilter(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	proxied := false
	next := func(echo.Context) error {
		proxied = true

		return c.NoContent(http.StatusOK)
	}

	err := newTestFilter().Filter(next)(c)
	require.NoError(t, err)

	return rec, proxied
}

func TestEdgeFilter_PublicPathWithoutToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)

	rec, proxied := runFilter(t, req)

	assert.True(t, proxied)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEdgeFilter_PublicPathSkipsStaleCookie(t *testing.T) {
	// A stale session cookie must never block public content.
	req := httptest.NewRequest(http.MethodGet, "/api/posts/42", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "expired-token"})

	_, proxied := runFilter(t, req)

	assert.True(t, proxied)
}

func TestEdgeFilter_ProtectedPathWithoutTokenPasses(t *testing.T) {
	// Absent tokens pass through; the destination service decides whether
	// the operation actually requires identity.
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)

	_, proxied := runFilter(t, req)

	assert.True(t, proxied)
}

func TestEdgeFilter_ProtectedPathWithInvalidCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "expired-token"})

	rec, proxied := runFilter(t, req)

	assert.False(t, proxied)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestEdgeFilter_ProtectedPathWithValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "good-token"})

	_, proxied := runFilter(t, req)

	assert.True(t, proxied)
}

func TestEdgeFilter_HeaderWinsOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "expired-token"})

	_, proxied := runFilter(t, req)

	assert.True(t, proxied)
}

func TestBlockInternal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/internal/profiles/nicknames", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := blockInternal(func(echo.Context) error {
		t.Fatal("internal path must not be forwarded")

		return nil
	})(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
