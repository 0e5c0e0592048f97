package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
)

// WishlistChecker reports which games a user has saved. The wishlist package
// provides the implementation; the narrow interface keeps catalog free of a
// dependency on it.
type WishlistChecker interface {
	Contains(ctx context.Context, userID, gameID int64) (bool, error)
	SavedGameIDs(ctx context.Context, userID int64) ([]int64, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo     *Repository
	Wishlist WishlistChecker
}

// Service exposes read operations over the game catalog.
type Service interface {
	ListGames(ctx context.Context, viewerID *int64) ([]GameSummaryDTO, error)
	GetGame(ctx context.Context, gameID int64, viewerID *int64) (GameDetailDTO, error)
}

type service struct {
	repo     *Repository
	wishlist WishlistChecker
}

// NewService builds a catalog service with the required dependencies. The
// wishlist checker is optional; without it detail views omit the saved flag.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		repo:     params.Repo,
		wishlist: params.Wishlist,
	}, nil
}

// ListGames returns every catalog entry in listing order. When viewerID is
// provided each row carries whether that user has the game saved.
func (s *service) ListGames(ctx context.Context, viewerID *int64) ([]GameSummaryDTO, error) {
	games, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list games")
	}

	var saved map[int64]bool
	if viewerID != nil && s.wishlist != nil {
		ids, err := s.wishlist.SavedGameIDs(ctx, *viewerID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist membership")
		}
		saved = make(map[int64]bool, len(ids))
		for _, id := range ids {
			saved[id] = true
		}
	}

	summaries := make([]GameSummaryDTO, 0, len(games))
	for _, game := range games {
		summary := toSummaryDTO(game)
		if saved != nil {
			inWishlist := saved[game.ID]
			summary.InWishlist = &inWishlist
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetGame returns the detail view for a game. When viewerID is provided the
// response carries whether that user has the game saved.
func (s *service) GetGame(ctx context.Context, gameID int64, viewerID *int64) (GameDetailDTO, error) {
	if gameID <= 0 {
		return GameDetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "game id is required")
	}

	game, err := s.repo.FindByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GameDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "game not found")
		}
		return GameDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load game")
	}

	detail := toDetailDTO(*game)
	if viewerID != nil && s.wishlist != nil {
		saved, err := s.wishlist.Contains(ctx, *viewerID, gameID)
		if err != nil {
			return GameDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist membership")
		}
		detail.InWishlist = &saved
	}
	return detail, nil
}
