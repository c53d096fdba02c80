package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/config"
	"quill/internal/domain/entity"
	"quill/internal/domain/service"
)

func newTestCodec(t *testing.T, ttl time.Duration) service.TokenCodec {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Session = "test-session-secret"
	cfg.Session = &config.SessionConfig{TokenTTL: ttl}

	codec, err := NewJWTCodec(cfg)
	require.NoError(t, err)

	return codec
}

func TestNewJWTCodec_EmptySecret(t *testing.T) {
	cfg := &config.Config{}

	_, err := NewJWTCodec(cfg)
	assert.Error(t, err)
}

func TestJWTCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	identityID := uuid.New()

	token, err := codec.Issue(identityID, entity.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, identityID, claims.IdentityID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestJWTCodec_ExpiredToken(t *testing.T) {
	// A configured negative lifetime is honored as-is, so the token is
	// already past its exp claim when validated.
	codec := newTestCodec(t, -time.Minute)

	token, err := codec.Issue(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	_, err = codec.Validate(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTCodec_ZeroTTLFallsBackToDefault(t *testing.T) {
	// Only an unset lifetime falls back to the seven-day default; the token
	// must therefore still be valid immediately after issue.
	codec := newTestCodec(t, 0)

	token, err := codec.Issue(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	_, err = codec.Validate(token)
	assert.NoError(t, err)
}

func TestJWTCodec_TamperedToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Issue(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	// Flip a character in the signature segment.
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = codec.Validate(string(tampered))
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTCodec_WrongSecret(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	otherCfg := &config.Config{}
	otherCfg.SecretKey.Session = "different-secret"
	other, err := NewJWTCodec(otherCfg)
	require.NoError(t, err)

	token, err := codec.Issue(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTCodec_Garbage(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Validate(tok)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	}
}
