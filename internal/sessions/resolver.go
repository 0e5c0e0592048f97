package sessions

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/pixelcrate/gameshelf-backend/pkg/config"
	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
	redisclient "github.com/pixelcrate/gameshelf-backend/pkg/redis"
)

// ErrNoSession signals that the presented token has no active binding.
var ErrNoSession = errors.New("no active session")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(token string) string
}

// Resolver maps opaque cookie tokens to user ids through Redis. Tokens are
// passed explicitly by the caller; nothing is read from ambient state.
type Resolver struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// CurrentUserResolver exposes the read-only surface needed by middleware.
type CurrentUserResolver interface {
	CurrentUser(ctx context.Context, token string) (int64, error)
}

// NewResolver constructs a session resolver backed by Redis.
func NewResolver(client *redisclient.Client, cfg config.SessionConfig) (*Resolver, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ttl must be positive")
	}
	return &Resolver{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
	}, nil
}

// Bind mints a fresh token and binds it to the user. Logging in over an
// existing session mints a new token rather than reusing the old one.
func (r *Resolver) Bind(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	token := NewToken()
	if err := r.store.Set(ctx, r.keyer.SessionKey(token), strconv.FormatInt(userID, 10), r.ttl); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session binding")
	}
	return token, nil
}

// CurrentUser resolves the token to a user id. A missing or expired binding
// returns ErrNoSession; the caller decides whether that means anonymous.
func (r *Resolver) CurrentUser(ctx context.Context, token string) (int64, error) {
	if strings.TrimSpace(token) == "" {
		return 0, ErrNoSession
	}
	value, err := r.store.Get(ctx, r.keyer.SessionKey(token))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, ErrNoSession
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session binding")
	}
	userID, parseErr := strconv.ParseInt(value, 10, 64)
	if parseErr != nil || userID <= 0 {
		// Corrupt binding: drop it and treat the caller as anonymous.
		_ = r.store.Del(ctx, r.keyer.SessionKey(token))
		return 0, ErrNoSession
	}
	return userID, nil
}

// Unbind deletes the token's binding. Unknown tokens are a no-op.
func (r *Resolver) Unbind(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := r.store.Del(ctx, r.keyer.SessionKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session binding")
	}
	return nil
}

// NewToken produces an opaque session token for the cookie value.
func NewToken() string {
	return uuid.NewString()
}
