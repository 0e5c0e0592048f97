package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pixelcrate/gameshelf-backend/api/middleware"
	"github.com/pixelcrate/gameshelf-backend/api/responses"
	"github.com/pixelcrate/gameshelf-backend/internal/catalog"
	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
	"github.com/pixelcrate/gameshelf-backend/pkg/logger"
)

// GamesList returns the full catalog listing. Signed-in viewers get their
// wishlist membership on each row.
func GamesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var viewerID *int64
		if userID, ok := middleware.UserIDFromContext(ctx); ok {
			viewerID = &userID
		}

		games, err := svc.ListGames(ctx, viewerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"games": games,
			"total": len(games),
		})
	}
}

// GameDetail returns a single game. Signed-in viewers also get their
// wishlist membership for it.
func GameDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		gameID, err := parseGameID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var viewerID *int64
		if userID, ok := middleware.UserIDFromContext(ctx); ok {
			viewerID = &userID
		}

		detail, err := svc.GetGame(ctx, gameID, viewerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

func parseGameID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "gameID"))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "game id is required")
	}
	gameID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || gameID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "game id must be a positive integer")
	}
	return gameID, nil
}
