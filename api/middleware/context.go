package middleware

import "context"

type contextKey string

const (
	ctxUserID       contextKey = "user_id"
	ctxSessionToken contextKey = "session_token"
)

// UserIDFromContext returns the signed-in user id, or false when the request
// is anonymous.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	if v, ok := ctx.Value(ctxUserID).(int64); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// SessionTokenFromContext returns the cookie token attached to the request.
func SessionTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionToken).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithSessionToken injects the session cookie token into the context.
func WithSessionToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionToken, token)
}
