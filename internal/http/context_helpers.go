package httpx

import (
	"context"

	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	return domainauth.WithSession(ctx, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	return domainauth.SessionFromContext(ctx)
}

// GetSessionFromContext retrieves the session from the request context, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// IsGuestUser reports whether the current request context is unauthenticated or a guest session.
func IsGuestUser(ctx context.Context) bool {
	s, ok := GetUserSessionFromContext(ctx)
	if !ok {
		return true
	}
	return s.IsGuest()
}

// sessionID returns the ID of the session in ctx, or "" for anonymous requests.
func sessionID(ctx context.Context) string {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s.ID
	}
	return ""
}

// CanManage reports whether the request's session may create, edit and
// delete records.
func CanManage(ctx context.Context) bool {
	s, ok := GetUserSessionFromContext(ctx)
	return ok && s.CanManage()
}
