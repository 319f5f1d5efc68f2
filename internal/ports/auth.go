// Package ports holds the interfaces the services depend on: sign-in, session
// storage and the finance backend. Adapters and the backend client satisfy
// them; internal/service consumes them.
package ports

import (
	"context"

	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
)

// AuthProvider is the identity provider behind /auth/login and
// /auth/callback.
type AuthProvider interface {
	// Begin returns the URL to send the browser to, plus the state and nonce
	// the callback must echo back.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange redeems the callback code. The returned identity carries the
	// user's groups and the token used against the finance backend.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// BeginInput is the callback URL registered with the provider.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput is what the callback received, alongside the nonce kept in
// the login cookie.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// RoleMapper turns provider groups into guest, user or admin.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// SessionStore keeps signed-in sessions by ID. Get fails for IDs it does not
// hold; callers check expiry themselves.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// ViewStateCleaner forgets the list snapshots and sequence counters kept for
// a session.
type ViewStateCleaner interface {
	DeleteSession(ctx context.Context, sessionID string) error
}
