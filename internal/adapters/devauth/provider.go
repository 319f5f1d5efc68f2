// Package devauth provides a config-driven AuthProvider for local development.
// It skips the IdP round trip and signs in a fixed identity.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
	"github.com/target/backoffice-ui/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	// AccessToken is forwarded to the backend as the bearer token. Local
	// backends usually accept any value.
	AccessToken     string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development. Begin
// redirects straight back to our own callback; Exchange ignores the code.
type Provider struct {
	mu       sync.Mutex
	identity domainauth.Identity
	duration time.Duration
	now      func() time.Time
}

var _ ports.AuthProvider = (*Provider)(nil)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	token := cfg.AccessToken
	if token == "" {
		token = "dev-" + cfg.UserID
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:      cfg.UserID,
			FirstName:   cfg.FirstName,
			LastName:    cfg.LastName,
			Email:       cfg.Email,
			Groups:      append([]string(nil), cfg.Groups...),
			AccessToken: token,
		},
		duration: dur,
		now:      time.Now,
	}, nil
}

// Begin returns a local callback URL with fresh state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	q := url.Values{"code": {"dev"}, "state": {state}}
	return "/auth/callback?" + q.Encode(), state, nonce, nil
}

// Exchange returns the configured identity with a fresh expiry.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	id.ExpiresAt = p.now().Add(p.duration)
	return id, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
