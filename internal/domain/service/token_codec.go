// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import (
	"errors"

	"quill/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrInvalidToken is the single outcome for every token validation failure.
// Structural, signature and expiry problems all collapse to it so callers
// cannot distinguish reasons and leak validation internals to clients.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is the authenticated assertion carried by a session token.
type SessionClaims struct {
	IdentityID uuid.UUID
	Role       entity.Role
}

// TokenCodec signs and parses session tokens. It is fully stateless: the
// issuing service and every validating service share only the signing
// secret, so validation never touches a datastore and scales horizontally.
// The trade-off is that there is no server-side revocation — logout is
// client-side cookie deletion and a stolen token stays valid until expiry.
type TokenCodec interface {
	// Issue produces a signed token with the configured session lifetime.
	Issue(identityID uuid.UUID, role entity.Role) (string, error)

	// Validate verifies the signature and expiry and returns the embedded
	// claims. Any failure returns ErrInvalidToken.
	Validate(token string) (*SessionClaims, error)
}
