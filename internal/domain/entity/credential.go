// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential is the record owned by the identity service. It is the source of
// truth for "who can log in": the identity id minted here is shared with the
// profile store and embedded in every session token.
type Credential struct {
	ID           uuid.UUID // Globally unique identity id, minted once at creation and never reused.
	Username     string    // Login name; unique, compared case-insensitively on lookup.
	PasswordHash string    // bcrypt hash of the password; the plaintext is never stored or returned.
	Email        string    // Unique contact email, verified before signup completes.
	Role         Role      // Authorization role carried into issued session tokens.
	CreatedAt    time.Time // Timestamp of when this credential was created.
	UpdatedAt    time.Time // Timestamp of the last modification.
}
