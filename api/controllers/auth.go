package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pixelcrate/gameshelf-backend/api/middleware"
	"github.com/pixelcrate/gameshelf-backend/api/responses"
	"github.com/pixelcrate/gameshelf-backend/api/validators"
	"github.com/pixelcrate/gameshelf-backend/internal/identity"
	"github.com/pixelcrate/gameshelf-backend/pkg/config"
	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
	"github.com/pixelcrate/gameshelf-backend/pkg/logger"
)

type sessionBinder interface {
	Bind(ctx context.Context, userID int64) (string, error)
	Unbind(ctx context.Context, token string) error
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Next     string `json:"next,omitempty" validate:"omitempty,startswith=/"`
}

type loginResponse struct {
	User identity.UserDTO `json:"user"`
	Next string           `json:"next,omitempty"`
}

// AuthLogin resolves the username to a user, binds a fresh session, and sets
// the cookie. An optional relative next path is echoed back for the client
// to resume where it left off.
func AuthLogin(svc identity.Service, binder sessionBinder, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || binder == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.GetOrCreate(ctx, body.Username)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		token, err := binder.Bind(ctx, user.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		http.SetCookie(w, sessionCookie(cfg, token, int(cfg.TTL.Seconds())))

		if logg != nil {
			logCtx := logg.WithUserID(ctx, user.ID)
			logg.Info(logCtx, "auth.login")
		}

		responses.WriteSuccess(w, loginResponse{
			User: user,
			Next: strings.TrimSpace(body.Next),
		})
	}
}

// AuthLogout unbinds the presented session and clears the cookie. Requests
// without a session still succeed; logout is idempotent.
func AuthLogout(binder sessionBinder, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if binder == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if token := middleware.SessionTokenFromContext(ctx); token != "" {
			if err := binder.Unbind(ctx, token); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		http.SetCookie(w, sessionCookie(cfg, "", -1))
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

type meResponse struct {
	User *identity.UserDTO `json:"user"`
}

// Me reports who the session resolves to. Anonymous requests get a null user
// rather than an error so clients can check sign-in state cheaply.
func Me(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			responses.WriteSuccess(w, meResponse{})
			return
		}

		user, err := svc.GetByID(ctx, userID)
		if err != nil {
			if pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound {
				// Session bound to a since-removed user: treat as anonymous.
				responses.WriteSuccess(w, meResponse{})
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, meResponse{User: &user})
	}
}

func sessionCookie(cfg config.SessionConfig, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
