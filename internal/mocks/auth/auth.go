// Package auth contains hand-written test doubles for auth ports.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
	"github.com/target/backoffice-ui/internal/ports"
)

var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.RoleMapper   = (*StaticRoleMapper)(nil)
)

// ErrNotFound is returned by MemorySessionStore for unknown sessions.
var ErrNotFound = errors.New("session not found")

// DefaultIssuer is the authorize endpoint MockAuthProvider redirects to.
const DefaultIssuer = "https://idp.example.com/authorize"

// ClerkIdentity is the identity a MockAuthProvider returns unless told
// otherwise: an accounts-payable clerk with a backend token.
func ClerkIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:      "ap-clerk",
		FirstName:   "Avery",
		LastName:    "Clerk",
		Email:       "avery.clerk@example.com",
		Groups:      []string{"finance-users"},
		AccessToken: "backend-token-ap-clerk",
	}
}

// MockAuthProvider stands in for the OIDC provider. Begin hands out
// numbered state and nonce values; Exchange records what it was given and
// returns Identity with a fresh expiry.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Issuer defaults to DefaultIssuer.
	Issuer   string
	Identity domainauth.Identity
	// TokenTTL defaults to one hour.
	TokenTTL time.Duration

	mu        sync.Mutex
	begun     int
	exchanges []ports.ExchangeInput
}

// NewMockAuthProvider returns a provider that signs in ClerkIdentity.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{Identity: ClerkIdentity()}
}

// Begin returns the authorize URL carrying the redirect and the next
// state-N / nonce-N pair.
func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.mu.Lock()
	m.begun++
	n := m.begun
	m.mu.Unlock()

	state := fmt.Sprintf("state-%d", n)
	nonce := fmt.Sprintf("nonce-%d", n)
	issuer := m.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	q := url.Values{"redirect_uri": {in.RedirectURL}, "state": {state}}
	return issuer + "?" + q.Encode(), state, nonce, nil
}

// Exchange returns Identity, or ClerkIdentity when Identity is unset.
func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	m.mu.Lock()
	m.exchanges = append(m.exchanges, in)
	m.mu.Unlock()
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	id := m.Identity
	if id.UserID == "" {
		id = ClerkIdentity()
	}
	ttl := m.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	id.ExpiresAt = time.Now().Add(ttl)
	return id, nil
}

// Exchanges lists every code exchange seen so far.
func (m *MockAuthProvider) Exchanges() []ports.ExchangeInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.ExchangeInput(nil), m.exchanges...)
}

// MemorySessionStore keeps sessions in a map.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are held.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StaticRoleMapper grants admin before user; everyone else is a guest.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	role := domainauth.RoleGuest
	for _, g := range groups {
		switch {
		case m.AdminGroup != "" && g == m.AdminGroup:
			return domainauth.RoleAdmin
		case m.UserGroup != "" && g == m.UserGroup:
			role = domainauth.RoleUser
		}
	}
	return role
}
