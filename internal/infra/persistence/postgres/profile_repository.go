package postgres

import (
	"context"

	"quill/internal/domain/entity"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/domain/repository"
	"quill/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// profileRepository implements the repository.ProfileRepository interface using GORM.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// FindByID retrieves a single profile by identity ID.
func (repo *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profM model.ProfileModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile by id")
	}

	return toProfileDomain(&profM), nil
}

// ExistsByID reports whether a profile with the given identity ID exists.
func (repo *profileRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to count profiles by id")
	}

	return count > 0, nil
}

// ExistsByNickname reports whether a profile with the given nickname exists.
func (repo *profileRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("nickname = ?", nickname).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to count profiles by nickname")
	}

	return count > 0, nil
}

// Create persists a new profile row keyed by the identity ID carried on the entity.
// A unique violation maps to repository.ErrProfileExists so that redelivered
// provisioning events can be recognized and acknowledged.
func (repo *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	profM := fromProfileDomain(profile)

	if err := repo.db.WithContext(ctx).Create(profM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrProfileExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required profile information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create profile")
	}

	profile.CreatedAt = profM.CreatedAt
	profile.UpdatedAt = profM.UpdatedAt

	return nil
}

// NicknamesByIDs resolves the nicknames for a batch of identity IDs.
// IDs with no matching profile are simply absent from the result map.
func (repo *profileRepository) NicknamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	var rows []model.ProfileModel
	if err := repo.db.WithContext(ctx).
		Select("id", "nickname").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to resolve nicknames by ids")
	}

	nicknames := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		nicknames[row.ID] = row.Nickname
	}

	return nicknames, nil
}

// --- Mapper Functions ---

func toProfileDomain(data *model.ProfileModel) *entity.Profile {
	if data == nil {
		return nil
	}

	return &entity.Profile{
		ID:        data.ID,
		Username:  data.Username,
		Nickname:  data.Nickname,
		Email:     data.Email,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromProfileDomain(data *entity.Profile) *model.ProfileModel {
	if data == nil {
		return nil
	}

	return &model.ProfileModel{
		ID:       data.ID,
		Username: data.Username,
		Nickname: data.Nickname,
		Email:    data.Email,
	}
}
