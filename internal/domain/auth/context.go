package auth

import "context"

type sessionContextKey struct{}

// WithSession returns a child context carrying the session for the current
// request. A nil session leaves ctx unchanged.
func WithSession(ctx context.Context, s *Session) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session installed by WithSession.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

// AccessTokenFromContext returns the upstream access token of the session in
// ctx, or "" when there is none.
func AccessTokenFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.AccessToken
	}
	return ""
}
