package directory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/config"
)

func TestClient_Resolve(t *testing.T) {
	alice := uuid.New()
	ghost := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/profiles/nicknames", r.URL.Path)

		var req resolveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.ElementsMatch(t, []uuid.UUID{alice, ghost}, req.IDs)

		// Only alice has a profile; ghost is silently absent.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resolveResponse{
			Nicknames: map[uuid.UUID]string{alice: "scribbler"},
		})
	}))
	defer server.Close()

	client := NewClient(&config.DirectoryConfig{BaseURL: server.URL}, slog.Default())

	nicknames := client.Resolve(context.Background(), []uuid.UUID{alice, ghost})
	assert.Equal(t, map[uuid.UUID]string{alice: "scribbler"}, nicknames)

	assert.Equal(t, "scribbler", NicknameFor(nicknames, alice))
	assert.Equal(t, FallbackNickname, NicknameFor(nicknames, ghost))
}

func TestClient_Resolve_EmptyInput(t *testing.T) {
	client := NewClient(&config.DirectoryConfig{BaseURL: "http://localhost:0"}, slog.Default())

	nicknames := client.Resolve(context.Background(), nil)
	assert.Empty(t, nicknames)
}

func TestClient_Resolve_Unreachable(t *testing.T) {
	// A closed server stands in for a profile service outage.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	client := NewClient(&config.DirectoryConfig{
		BaseURL: server.URL,
		Timeout: 500 * time.Millisecond,
	}, slog.Default())

	start := time.Now()
	nicknames := client.Resolve(context.Background(), []uuid.UUID{uuid.New()})
	elapsed := time.Since(start)

	assert.Empty(t, nicknames)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestClient_Resolve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(&config.DirectoryConfig{BaseURL: server.URL}, slog.Default())

	nicknames := client.Resolve(context.Background(), []uuid.UUID{uuid.New()})
	assert.Empty(t, nicknames)
}
