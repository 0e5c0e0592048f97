package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pixelcrate/gameshelf-backend/internal/catalog"
	"github.com/pixelcrate/gameshelf-backend/internal/identity"
	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		WishlistRepo: NewRepository(conn),
		CatalogRepo:  catalog.NewRepository(conn),
		IdentityRepo: identity.NewRepository(conn),
		Tx:           gormTxRunner{db: conn},
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestToggleAddsThenRemoves(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn, "alice")
	game := mustCreateTestGame(t, conn, "Neon Skies", "9.99")

	added, err := svc.Toggle(ctx, user.ID, game.ID)
	require.NoError(t, err)
	assert.True(t, added.InWishlist)
	assert.Equal(t, game.ID, added.GameID)

	removed, err := svc.Toggle(ctx, user.ID, game.ID)
	require.NoError(t, err)
	assert.False(t, removed.InWishlist)

	saved, err := svc.Contains(ctx, user.ID, game.ID)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn, "alice")
	game := mustCreateTestGame(t, conn, "Deep Rift", "24.99")

	before, err := svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, user.ID, game.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, user.ID, game.ID)
	require.NoError(t, err)

	after, err := svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestToggleMissingGame(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn, "alice")

	_, err := svc.Toggle(ctx, user.ID, 424242)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	list, err := svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestToggleMissingUser(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	game := mustCreateTestGame(t, conn, "Neon Skies", "9.99")

	// A session binding can reference a user row that no longer exists.
	_, err := svc.Toggle(ctx, 424242, game.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	count, err := NewRepository(conn).CountItems(ctx, 424242)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestToggleValidation(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 0, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.Toggle(ctx, 1, 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestGetWishlistReturnsGameSummaries(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn, "alice")
	first := mustCreateTestGame(t, conn, "Neon Skies", "9.99")
	second := mustCreateTestGame(t, conn, "Deep Rift", "24.99")

	_, err := svc.Toggle(ctx, user.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, user.ID, second.ID)
	require.NoError(t, err)

	list, err := svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Items, 2)

	titles := []string{list.Items[0].Title, list.Items[1].Title}
	assert.ElementsMatch(t, []string{"Neon Skies", "Deep Rift"}, titles)
}

func TestSavedGameIDs(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn, "alice")
	first := mustCreateTestGame(t, conn, "Neon Skies", "9.99")
	second := mustCreateTestGame(t, conn, "Deep Rift", "24.99")

	ids, err := svc.SavedGameIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = svc.Toggle(ctx, user.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, user.ID, second.ID)
	require.NoError(t, err)

	ids, err = svc.SavedGameIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{first.ID, second.ID}, ids)

	ids, err = svc.SavedGameIDs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetWishlistEmpty(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn, "alice")

	list, err := svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
	assert.Empty(t, list.Items)
}
