package wishlist

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pixelcrate/gameshelf-backend/internal/catalog"
	"github.com/pixelcrate/gameshelf-backend/internal/identity"
	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
)

// TxRunner executes fn inside a database transaction. pkg/db.Client
// satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	CatalogRepo  *catalog.Repository
	IdentityRepo *identity.Repository
	Tx           TxRunner
}

// Service exposes business rules for wishlist management.
type Service interface {
	Toggle(ctx context.Context, userID, gameID int64) (ToggleResultDTO, error)
	GetWishlist(ctx context.Context, userID int64) (WishlistDTO, error)
	Contains(ctx context.Context, userID, gameID int64) (bool, error)
	SavedGameIDs(ctx context.Context, userID int64) ([]int64, error)
}

type service struct {
	wishlistRepo *Repository
	catalogRepo  *catalog.Repository
	identityRepo *identity.Repository
	tx           TxRunner
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.IdentityRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		catalogRepo:  params.CatalogRepo,
		identityRepo: params.IdentityRepo,
		tx:           params.Tx,
	}, nil
}

// Toggle flips wishlist membership for the user-game pair inside a single
// transaction. Racing toggles can collapse on the conflict-ignoring insert
// and both report the game as saved, so the guarantee is that the pair is
// stored at most once, not that concurrent calls serialize.
func (s *service) Toggle(ctx context.Context, userID, gameID int64) (ToggleResultDTO, error) {
	if userID <= 0 {
		return ToggleResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if gameID <= 0 {
		return ToggleResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "game id is required")
	}

	if err := s.ensureUserExists(ctx, userID); err != nil {
		return ToggleResultDTO{}, err
	}
	if err := s.ensureGameExists(ctx, gameID); err != nil {
		return ToggleResultDTO{}, err
	}

	result := ToggleResultDTO{GameID: gameID}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.wishlistRepo.WithTx(tx)
		removed, err := repo.RemoveItem(ctx, userID, gameID)
		if err != nil {
			return err
		}
		if removed {
			result.InWishlist = false
			return nil
		}
		if err := repo.AddItem(ctx, userID, gameID); err != nil {
			return err
		}
		result.InWishlist = true
		return nil
	})
	if err != nil {
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle wishlist entry")
	}
	return result, nil
}

// GetWishlist returns the user's saved games in most-recently-saved order.
func (s *service) GetWishlist(ctx context.Context, userID int64) (WishlistDTO, error) {
	if userID <= 0 {
		return WishlistDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	ids, err := s.wishlistRepo.ListGameIDs(ctx, userID)
	if err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist ids")
	}

	games, err := s.catalogRepo.FindByIDs(ctx, ids)
	if err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist games")
	}

	byID := make(map[int64]catalog.GameSummaryDTO, len(games))
	for _, game := range games {
		byID[game.ID] = catalog.GameSummaryFromModel(game)
	}

	// Preserve saved-at ordering; skip ids whose game vanished mid-read.
	items := make([]catalog.GameSummaryDTO, 0, len(ids))
	for _, id := range ids {
		if summary, ok := byID[id]; ok {
			items = append(items, summary)
		}
	}

	return WishlistDTO{
		Items: items,
		Total: len(items),
	}, nil
}

// Contains reports whether the user has the game saved.
func (s *service) Contains(ctx context.Context, userID, gameID int64) (bool, error) {
	if userID <= 0 || gameID <= 0 {
		return false, nil
	}
	saved, err := s.wishlistRepo.Contains(ctx, userID, gameID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist membership")
	}
	return saved, nil
}

// SavedGameIDs returns the ids of the user's saved games. Callers that only
// need membership flags (catalog list annotation) use this instead of the
// full wishlist read.
func (s *service) SavedGameIDs(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, nil
	}
	ids, err := s.wishlistRepo.ListGameIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist ids")
	}
	return ids, nil
}

// ensureUserExists guards against session bindings that outlived their user
// row. Writing a wishlist item for a removed user would orphan the row.
func (s *service) ensureUserExists(ctx context.Context, userID int64) error {
	if _, err := s.identityRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return nil
}

func (s *service) ensureGameExists(ctx context.Context, gameID int64) error {
	if _, err := s.catalogRepo.FindByID(ctx, gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "game not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load game")
	}
	return nil
}
