package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/config"
	"quill/internal/domain/entity"
	"quill/internal/domain/event"
	"quill/internal/domain/repository"
)

// fakeProfileRepo is an in-memory ProfileRepository for handler tests.
type fakeProfileRepo struct {
	profiles  map[uuid.UUID]*entity.Profile
	existsErr error
	createErr error
	creates   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*entity.Profile)}
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}

	return p, nil
}

func (r *fakeProfileRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.profiles[id]

	return ok, nil
}

func (r *fakeProfileRepo) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	for _, p := range r.profiles {
		if p.Nickname == nickname {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *entity.Profile) error {
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.profiles[profile.ID]; ok {
		return repository.ErrProfileExists
	}
	r.profiles[profile.ID] = profile

	return nil
}

func (r *fakeProfileRepo) NicknamesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string)
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out[id] = p.Nickname
		}
	}

	return out, nil
}

func newProfileHandler(repo repository.ProfileRepository) *ProfileHandler {
	return NewProfileHandler(ProfileHandlerParams{
		Config:      &config.Config{},
		Logger:      slog.Default(),
		ProfileRepo: repo,
	})
}

func pushRequest(t *testing.T, payload any) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var pushMsg PubSubMessage
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(data)
	pushMsg.Message.MessageID = uuid.NewString()
	pushMsg.Subscription = "projects/local/subscriptions/test-sub"

	body, err := json.Marshal(pushMsg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/push/profile", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func servePush(t *testing.T, h *ProfileHandler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HandlePush(c))

	return rec
}

func TestProfileHandler_CreatesProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	identityID := uuid.New()

	rec := servePush(t, newProfileHandler(repo), pushRequest(t, event.ProfileCreationRequested{
		ID:       identityID.String(),
		Username: "writer",
		Nickname: "scribbler",
		Email:    "writer@example.com",
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	created := repo.profiles[identityID]
	require.NotNil(t, created)
	assert.Equal(t, "writer", created.Username)
	assert.Equal(t, "scribbler", created.Nickname)
}

func TestProfileHandler_RedeliveryIsAcknowledged(t *testing.T) {
	repo := newFakeProfileRepo()
	identityID := uuid.New()
	repo.profiles[identityID] = &entity.Profile{ID: identityID, Nickname: "scribbler"}

	rec := servePush(t, newProfileHandler(repo), pushRequest(t, event.ProfileCreationRequested{
		ID:       identityID.String(),
		Username: "writer",
		Nickname: "scribbler",
		Email:    "writer@example.com",
	}))

	// Redelivery of an already-applied event acks without a second insert.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, repo.creates)
}

func TestProfileHandler_ConcurrentInsertIsAcknowledged(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.createErr = repository.ErrProfileExists

	rec := servePush(t, newProfileHandler(repo), pushRequest(t, event.ProfileCreationRequested{
		ID:       uuid.NewString(),
		Username: "writer",
		Nickname: "scribbler",
		Email:    "writer@example.com",
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileHandler_DatabaseErrorTriggersRetry(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.existsErr = errors.New("connection refused")

	rec := servePush(t, newProfileHandler(repo), pushRequest(t, event.ProfileCreationRequested{
		ID:       uuid.NewString(),
		Username: "writer",
		Nickname: "scribbler",
		Email:    "writer@example.com",
	}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProfileHandler_InvalidIdentityIDIsAcknowledged(t *testing.T) {
	repo := newFakeProfileRepo()

	rec := servePush(t, newProfileHandler(repo), pushRequest(t, event.ProfileCreationRequested{
		ID:       "not-a-uuid",
		Username: "writer",
		Nickname: "scribbler",
		Email:    "writer@example.com",
	}))

	// A structurally broken event can never succeed; ack it so it does not
	// redeliver forever.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, repo.creates)
}

func TestProfileHandler_MalformedEnvelope(t *testing.T) {
	repo := newFakeProfileRepo()

	body := []byte(`{"message":{"data":"%%%not-base64%%%"}}`)
	req := httptest.NewRequest(http.MethodPost, "/push/profile", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := servePush(t, newProfileHandler(repo), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
