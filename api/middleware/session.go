package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/pixelcrate/gameshelf-backend/api/responses"
	"github.com/pixelcrate/gameshelf-backend/internal/identity"
	"github.com/pixelcrate/gameshelf-backend/internal/sessions"
	"github.com/pixelcrate/gameshelf-backend/pkg/config"
	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
	"github.com/pixelcrate/gameshelf-backend/pkg/logger"
)

// userDirectory is the slice of the identity service the session middleware
// needs to confirm a binding still points at a live user.
type userDirectory interface {
	GetByID(ctx context.Context, userID int64) (identity.UserDTO, error)
}

// Session resolves the cookie token to a user id and seeds the request
// context. The resolved id is only trusted once the user row is confirmed
// to still exist; bindings that outlived their user are treated like stale
// cookies. Anonymous requests continue, this middleware never rejects.
func Session(cfg config.SessionConfig, resolver sessions.CurrentUserResolver, users userDirectory, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSessionToken(r.Context(), cookie.Value)

			userID, resolveErr := resolver.CurrentUser(ctx, cookie.Value)
			if resolveErr != nil {
				if errors.Is(resolveErr, sessions.ErrNoSession) {
					// Stale cookie: carry on anonymous.
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, resolveErr, "resolve session"))
				return
			}

			if _, userErr := users.GetByID(ctx, userID); userErr != nil {
				if pkgerrors.CodeOf(userErr) == pkgerrors.CodeNotFound {
					// Binding outlived the user row: carry on anonymous.
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, userErr, "resolve session user"))
				return
			}

			ctx = WithUserID(ctx, userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests with 401. The response carries the
// request path under details.next so a client can round-trip it through login.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); !ok {
				err := pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required").
					WithDetails(map[string]any{"next": r.URL.RequestURI()})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
