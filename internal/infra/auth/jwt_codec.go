// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"quill/config"
	"quill/internal/domain/entity"
	"quill/internal/domain/service"
)

// jwtCodec is a concrete implementation of the TokenCodec interface using the JWT standard.
type jwtCodec struct {
	secret []byte        // Shared HMAC secret; every validating service holds the same one.
	ttl    time.Duration // Fixed, server-chosen session lifetime.
}

// NewJWTCodec is the constructor for jwtCodec.
func NewJWTCodec(cfg *config.Config) (service.TokenCodec, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session secret must be provided")
	}

	// config.New defaults TokenTTL; the fallback here only covers configs
	// built without a session section. A configured value is taken as-is.
	ttl := 7 * 24 * time.Hour
	if cfg.Session != nil && cfg.Session.TokenTTL != 0 {
		ttl = cfg.Session.TokenTTL
	}

	return &jwtCodec{
		secret: []byte(cfg.SecretKey.Session),
		ttl:    ttl,
	}, nil
}

// Issue creates a signed session token for the given identity and role.
func (s *jwtCodec) Issue(identityID uuid.UUID, role entity.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  identityID.String(),     // Subject (who the token is for)
		"role": role.String(),           // Authorization role
		"iat":  now.Unix(),              // Issued At
		"exp":  now.Add(s.ttl).Unix(),   // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

// Validate verifies the signature and expiry and returns the embedded claims.
// Every failure mode — malformed structure, wrong signature, expiry —
// collapses to service.ErrInvalidToken so callers cannot tell them apart.
func (s *jwtCodec) Validate(tokenString string) (*service.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, service.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, service.ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, service.ErrInvalidToken
	}
	identityID, err := uuid.Parse(sub)
	if err != nil {
		return nil, service.ErrInvalidToken
	}

	roleClaim, _ := claims["role"].(string)

	return &service.SessionClaims{
		IdentityID: identityID,
		Role:       entity.RoleFromString(roleClaim),
	}, nil
}
