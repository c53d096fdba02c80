// Package directory resolves identity IDs to display nicknames across
// service boundaries. Downstream services embed this client instead of
// joining against the profile table directly.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"quill/config"
)

// FallbackNickname is shown when an identity cannot be resolved. Resolution
// is best-effort; content rendering never fails because the profile service
// is down.
const FallbackNickname = "unknown author"

const defaultResolveTimeout = 2 * time.Second

// Client batch-resolves nicknames over the profile service's internal HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient is the constructor for Client.
func NewClient(cfg *config.DirectoryConfig, logger *slog.Logger) *Client {
	timeout := defaultResolveTimeout
	baseURL := ""
	if cfg != nil {
		baseURL = cfg.BaseURL
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type resolveRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type resolveResponse struct {
	Nicknames map[uuid.UUID]string `json:"nicknames"`
}

// Resolve returns a nickname per identity ID. IDs with no profile are absent
// from the map. Any transport or decoding failure degrades to an empty map;
// callers fill gaps with NicknameFor.
func (c *Client) Resolve(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	if len(ids) == 0 || c.baseURL == "" {
		return map[uuid.UUID]string{}
	}

	body, err := json.Marshal(resolveRequest{IDs: ids})
	if err != nil {
		c.logger.Warn("Nickname resolution request encoding failed", slog.String("error", err.Error()))

		return map[uuid.UUID]string{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/internal/profiles/nicknames", bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("Nickname resolution request build failed", slog.String("error", err.Error()))

		return map[uuid.UUID]string{}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Nickname resolution call failed", slog.String("error", err.Error()))

		return map[uuid.UUID]string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Nickname resolution returned non-OK status", slog.Int("status", resp.StatusCode))

		return map[uuid.UUID]string{}
	}

	var decoded resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Warn("Nickname resolution response decoding failed", slog.String("error", err.Error()))

		return map[uuid.UUID]string{}
	}
	if decoded.Nicknames == nil {
		return map[uuid.UUID]string{}
	}

	return decoded.Nicknames
}

// NicknameFor reads a resolved nickname from the map, falling back to
// FallbackNickname for unresolved IDs.
func NicknameFor(nicknames map[uuid.UUID]string, id uuid.UUID) string {
	if nickname, ok := nicknames[id]; ok && nickname != "" {
		return nickname
	}

	return FallbackNickname
}
