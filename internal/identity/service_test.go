package identity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
)

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestGetOrCreateCreatesOnce(t *testing.T) {
	conn := setupIdentityTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "alice", first.Username)

	second, err := svc.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetOrCreateTrimsWhitespace(t *testing.T) {
	conn := setupIdentityTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.GetOrCreate(ctx, "  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	same, err := svc.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, same.ID)
}

func TestGetOrCreateIsCaseSensitive(t *testing.T) {
	conn := setupIdentityTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	require.NoError(t, err)
	ctx := context.Background()

	lower, err := svc.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	upper, err := svc.GetOrCreate(ctx, "Alice")
	require.NoError(t, err)
	assert.NotEqual(t, lower.ID, upper.ID)
}

func TestGetOrCreateRejectsInvalidUsernames(t *testing.T) {
	conn := setupIdentityTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.GetOrCreate(ctx, "   ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.GetOrCreate(ctx, strings.Repeat("a", MaxUsernameLength+1))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestGetByID(t *testing.T) {
	conn := setupIdentityTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.GetOrCreate(ctx, "alice")
	require.NoError(t, err)

	loaded, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)

	_, err = svc.GetByID(ctx, created.ID+999)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = svc.GetByID(ctx, 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
