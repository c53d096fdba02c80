// Package verification provides an in-memory VerificationStore for local
// development and tests, where no shared database is available.
package verification

import (
	"context"
	"sync"
	"time"

	"quill/internal/domain/entity"
	"quill/internal/domain/repository"
)

// memoryStore keeps verification records in a process-local map guarded by a
// mutex. Expired records are dropped lazily on access.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]*entity.VerificationRecord
	now     func() time.Time
}

// NewMemoryStore is the constructor for memoryStore.
func NewMemoryStore() repository.VerificationStore {
	return newMemoryStore(time.Now)
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{
		records: make(map[string]*entity.VerificationRecord),
		now:     now,
	}
}

// PutCode stores a pending code, overwriting any prior record for the email.
func (s *memoryStore) PutCode(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[email] = &entity.VerificationRecord{
		Email:     email,
		Code:      code,
		State:     entity.VerificationPending,
		ExpiresAt: s.now().Add(entity.PendingCodeTTL),
	}

	return nil
}

// Promote flips a live pending record to verified when the code matches.
func (s *memoryStore) Promote(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.live(email)
	if rec == nil || rec.State != entity.VerificationPending || rec.Code != code {
		return false, nil
	}

	rec.Code = ""
	rec.State = entity.VerificationVerified
	rec.ExpiresAt = s.now().Add(entity.VerifiedFlagTTL)

	return true, nil
}

// HasVerified reports whether a live verified record exists for the email.
func (s *memoryStore) HasVerified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.live(email)

	return rec != nil && rec.State == entity.VerificationVerified, nil
}

// ConsumeVerified deletes the live verified record, reporting whether one existed.
func (s *memoryStore) ConsumeVerified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.live(email)
	if rec == nil || rec.State != entity.VerificationVerified {
		return false, nil
	}

	delete(s.records, email)

	return true, nil
}

// live returns the record for the email, dropping it first if expired.
// Callers must hold s.mu.
func (s *memoryStore) live(email string) *entity.VerificationRecord {
	rec, ok := s.records[email]
	if !ok {
		return nil
	}
	if rec.Expired(s.now()) {
		delete(s.records, email)

		return nil
	}

	return rec
}
