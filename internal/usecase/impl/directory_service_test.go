package impl

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/usecase"
)

func newDirectoryFixture(byID map[uuid.UUID]string) usecase.DirectoryUsecase {
	return NewDirectoryService(DirectoryServiceParams{
		ProfileRepo: &fakeProfileRepo{byID: byID},
		Logger:      slog.Default(),
	})
}

func TestResolveNicknames(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	ghost := uuid.New()

	svc := newDirectoryFixture(map[uuid.UUID]string{
		alice: "scribbler",
		bob:   "quillpen",
	})

	nicknames, err := svc.ResolveNicknames(context.Background(), []uuid.UUID{alice, bob, ghost})
	require.NoError(t, err)

	// Known ids resolve; the unknown id is omitted, not errored.
	assert.Equal(t, map[uuid.UUID]string{
		alice: "scribbler",
		bob:   "quillpen",
	}, nicknames)
}

func TestResolveNicknames_EmptyInput(t *testing.T) {
	svc := newDirectoryFixture(nil)

	nicknames, err := svc.ResolveNicknames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, nicknames)
}

func TestResolveNicknames_BatchTruncation(t *testing.T) {
	byID := make(map[uuid.UUID]string)
	ids := make([]uuid.UUID, 0, maxResolveBatch+10)
	for i := 0; i < maxResolveBatch+10; i++ {
		id := uuid.New()
		byID[id] = "writer"
		ids = append(ids, id)
	}

	svc := newDirectoryFixture(byID)

	nicknames, err := svc.ResolveNicknames(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, nicknames, maxResolveBatch)
}
