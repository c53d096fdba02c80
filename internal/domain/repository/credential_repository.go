// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"quill/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCredentialNotFound is a domain-specific error returned when a credential is not found.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository defines the standard operations for credential persistence.
// The application layer depends on this interface, not the concrete implementation.
type CredentialRepository interface {
	// FindByID retrieves a single credential by its identity id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Credential, error)

	// FindByUsername retrieves a credential by username. The comparison is
	// case-insensitive; "Alice" and "alice" address the same credential.
	FindByUsername(ctx context.Context, username string) (*entity.Credential, error)

	// ExistsByUsername reports whether a credential with the username exists
	// (case-insensitive).
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether a credential with the email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create persists a new credential. The identity id must already be set
	// by the caller; it is minted exactly once at credential creation.
	Create(ctx context.Context, credential *entity.Credential) error
}
