package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"quill/internal/domain/repository"
	"quill/internal/usecase"
)

// Resolution requests above this size are truncated rather than rejected;
// page-sized batches stay far below it.
const maxResolveBatch = 500

// directoryService implements the DirectoryUsecase interface.
type directoryService struct {
	profileRepo repository.ProfileRepository
	logger      *slog.Logger
}

// DirectoryServiceParams holds dependencies for directoryService, injected by Fx.
type DirectoryServiceParams struct {
	fx.In

	ProfileRepo repository.ProfileRepository
	Logger      *slog.Logger
}

// NewDirectoryService is the constructor for directoryService.
func NewDirectoryService(params DirectoryServiceParams) usecase.DirectoryUsecase {
	return &directoryService{
		profileRepo: params.ProfileRepo,
		logger:      params.Logger,
	}
}

// ResolveNicknames maps identity ids to nicknames. Ids without a profile are
// omitted; duplicates in the input collapse naturally through the map.
func (srv *directoryService) ResolveNicknames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	if len(ids) > maxResolveBatch {
		srv.logger.Warn("Nickname resolution batch truncated",
			slog.Int("requested", len(ids)),
			slog.Int("limit", maxResolveBatch),
		)
		ids = ids[:maxResolveBatch]
	}

	nicknames, err := srv.profileRepo.NicknamesByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve nicknames")
	}

	return nicknames, nil
}
