package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectoryUsecase struct {
	nicknames map[uuid.UUID]string
}

func (f *fakeDirectoryUsecase) ResolveNicknames(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	result := make(map[uuid.UUID]string)
	for _, id := range ids {
		if nick, ok := f.nicknames[id]; ok {
			result[id] = nick
		}
	}

	return result, nil
}

func resolveRequest(t *testing.T, h *DirectoryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/internal/profiles/nicknames", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.ResolveNicknames(e.NewContext(req, rec)))

	return rec
}

func TestDirectoryHandler_ResolveNicknames(t *testing.T) {
	known := uuid.New()
	ghost := uuid.New()
	h := NewDirectoryHandler(&fakeDirectoryUsecase{
		nicknames: map[uuid.UUID]string{known: "maple"},
	})

	rec := resolveRequest(t, h, `{"ids":["`+known.String()+`","`+ghost.String()+`"]}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp resolveNicknamesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "maple", resp.Nicknames[known])
	_, found := resp.Nicknames[ghost]
	assert.False(t, found)
}

func TestDirectoryHandler_ResolveNicknames_EmptyInput(t *testing.T) {
	h := NewDirectoryHandler(&fakeDirectoryUsecase{})

	// No ids is a valid request; it resolves to an empty map, not a 400.
	rec := resolveRequest(t, h, `{"ids":[]}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp resolveNicknamesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Nicknames)
}
