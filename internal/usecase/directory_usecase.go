package usecase

import (
	"context"

	"github.com/google/uuid"
)

// DirectoryUsecase serves batch identity-to-nickname resolution for other
// services in the platform.
type DirectoryUsecase interface {
	// ResolveNicknames maps each known identity id to its nickname. Unknown
	// ids are omitted from the result rather than reported as errors.
	ResolveNicknames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
