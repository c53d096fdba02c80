package repository

import (
	"context"
	"errors"

	"quill/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for profile persistence.
var (
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists is returned when a profile already exists for an
	// identity id or nickname. The provisioning consumer treats this as a
	// successful no-op, not a failure.
	ErrProfileExists = errors.New("profile already exists")
)

// ProfileRepository defines the standard operations for profile persistence.
type ProfileRepository interface {
	// FindByID retrieves a profile by its identity id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)

	// ExistsByID reports whether a profile exists for the identity id.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsByNickname reports whether any profile uses the nickname.
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)

	// Create persists a new profile. Returns ErrProfileExists when a row for
	// the same identity id (or nickname) is already present.
	Create(ctx context.Context, profile *entity.Profile) error

	// NicknamesByIDs returns a best-effort id-to-nickname mapping. Ids with
	// no profile are simply omitted from the result.
	NicknamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
