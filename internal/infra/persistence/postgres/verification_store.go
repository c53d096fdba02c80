package postgres

import (
	"context"
	"time"

	"quill/internal/domain/entity"
	"quill/internal/domain/repository"
	"quill/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// verificationStore implements repository.VerificationStore on a PostgreSQL
// table. TTLs are expressed as explicit expires_at comparisons, so expired
// rows act as absent without a background sweeper.
type verificationStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewVerificationStore is the constructor for verificationStore.
func NewVerificationStore(db *gorm.DB) repository.VerificationStore {
	return &verificationStore{db: db, now: time.Now}
}

// PutCode upserts the pending code for an email, restarting the pending TTL.
// A prior record for the email, pending or verified, is overwritten.
func (s *verificationStore) PutCode(ctx context.Context, email, code string) error {
	row := &model.VerificationModel{
		Email:     email,
		Code:      code,
		State:     string(entity.VerificationPending),
		ExpiresAt: s.now().Add(entity.PendingCodeTTL),
	}

	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "state", "expires_at", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return errors.Wrap(err, "failed to store verification code")
	}

	return nil
}

// Promote flips a live pending record to verified when the code matches.
// The single conditional UPDATE makes the check-and-flip atomic under
// concurrent verify attempts.
func (s *verificationStore) Promote(ctx context.Context, email, code string) (bool, error) {
	now := s.now()

	res := s.db.WithContext(ctx).
		Model(&model.VerificationModel{}).
		Where("email = ? AND code = ? AND state = ? AND expires_at > ?",
			email, code, string(entity.VerificationPending), now).
		Updates(map[string]any{
			"state":      string(entity.VerificationVerified),
			"expires_at": now.Add(entity.VerifiedFlagTTL),
		})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "failed to promote verification record")
	}

	return res.RowsAffected > 0, nil
}

// HasVerified reports whether a live verified record exists for the email.
func (s *verificationStore) HasVerified(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.VerificationModel{}).
		Where("email = ? AND state = ? AND expires_at > ?",
			email, string(entity.VerificationVerified), s.now()).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check verified record")
	}

	return count > 0, nil
}

// ConsumeVerified deletes the live verified record for the email. The
// conditional DELETE guarantees at most one caller observes true.
func (s *verificationStore) ConsumeVerified(ctx context.Context, email string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("email = ? AND state = ? AND expires_at > ?",
			email, string(entity.VerificationVerified), s.now()).
		Delete(&model.VerificationModel{})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "failed to consume verified record")
	}

	return res.RowsAffected > 0, nil
}
