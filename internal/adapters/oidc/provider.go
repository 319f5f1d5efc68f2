// Package oidc signs users in against the company IdP and captures the
// access token the finance backend accepts.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
	"github.com/target/backoffice-ui/internal/ports"
	"golang.org/x/oauth2"
)

const (
	defaultGroupsClaim = "groups"
	defaultTokenTTL    = time.Hour
)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Scope is a space separated list; "openid" is always requested.
	Scope     string
	IssuerURL string
	// Audience is sent as the "audience" auth parameter so the access token
	// is minted for the finance API. Optional.
	Audience    string
	GroupsClaim string
	HTTPClient  *http.Client // Optional, defaults to a client with a 30s timeout
}

// Provider implements ports.AuthProvider using OIDC authorization code flow.
type Provider struct {
	config      *oauth2.Config
	audience    string
	groupsClaim string
	httpClient  *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

var _ ports.AuthProvider = (*Provider)(nil)

// NewProvider discovers the issuer's endpoints and returns a Provider.
func NewProvider(config ProviderConfig) (*Provider, error) {
	switch {
	case config.ClientID == "":
		return nil, errors.New("client ID is required")
	case config.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case config.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case config.IssuerURL == "":
		return nil, errors.New("issuer URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := oidcContext(context.Background(), httpClient)
	issuer := strings.TrimSuffix(strings.TrimSuffix(config.IssuerURL, "/"), "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	groupsClaim := config.GroupsClaim
	if groupsClaim == "" {
		groupsClaim = defaultGroupsClaim
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       scopes(config.Scope),
			Endpoint:     op.Endpoint(),
		},
		audience:     config.Audience,
		groupsClaim:  groupsClaim,
		httpClient:   httpClient,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
	}, nil
}

// scopes parses a space separated scope list and makes sure openid is first.
func scopes(raw string) []string {
	out := []string{gooidc.ScopeOpenID}
	for _, s := range strings.Fields(raw) {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func oidcContext(ctx context.Context, c *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c)
}

// Begin returns the IdP authorization URL with a fresh state and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	opts := []oauth2.AuthCodeOption{gooidc.Nonce(nonce)}
	if p.audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", p.audience))
	}
	return p.config.AuthCodeURL(state, opts...), state, nonce, nil
}

// Exchange trades the code for tokens, verifies the ID token against the
// nonce and returns the identity together with the access token.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = oidcContext(ctx, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}
	if token.AccessToken == "" {
		return domainauth.Identity{}, errors.New("token response has no access token")
	}

	fields, err := p.verifyIDToken(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if fields.userID == "" || fields.email == "" {
		if err := p.fillFromUserInfo(ctx, token, &fields); err != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", err)
		}
	}
	if fields.userID == "" {
		return domainauth.Identity{}, errors.New("identity has no subject")
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(defaultTokenTTL)
	}

	return domainauth.Identity{
		UserID:      fields.userID,
		FirstName:   fields.givenName,
		LastName:    fields.familyName,
		Email:       fields.email,
		Groups:      fields.groups,
		AccessToken: token.AccessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

func (p *Provider) verifyIDToken(ctx context.Context, tok *oauth2.Token, nonce string) (identityFields, error) {
	raw, err := idTokenFrom(tok)
	if err != nil {
		return identityFields{}, err
	}
	idTok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return identityFields{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != nonce {
		return identityFields{}, errors.New("invalid nonce")
	}
	var claims map[string]any
	if err := idTok.Claims(&claims); err != nil {
		return identityFields{}, fmt.Errorf("parse id_token claims: %w", err)
	}
	return mapClaims(claims, p.groupsClaim), nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, tok *oauth2.Token, f *identityFields) error {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return err
	}
	var claims map[string]any
	if err := ui.Claims(&claims); err != nil {
		return fmt.Errorf("decode user info: %w", err)
	}
	f.merge(mapClaims(claims, p.groupsClaim))
	return nil
}

type identityFields struct {
	userID     string
	email      string
	givenName  string
	familyName string
	groups     []string
}

// merge fills empty fields from o.
func (f *identityFields) merge(o identityFields) {
	if f.userID == "" {
		f.userID = o.userID
	}
	if f.email == "" {
		f.email = o.email
	}
	if f.givenName == "" {
		f.givenName = o.givenName
	}
	if f.familyName == "" {
		f.familyName = o.familyName
	}
	if len(f.groups) == 0 {
		f.groups = o.groups
	}
}

// mapClaims reads standard OIDC claims. preferred_username wins over sub as
// the user id since it is what people recognise in audit trails.
func mapClaims(claims map[string]any, groupsClaim string) identityFields {
	str := func(k string) string {
		s, _ := claims[k].(string)
		return s
	}
	userID := str("preferred_username")
	if userID == "" {
		userID = str("sub")
	}
	return identityFields{
		userID:     userID,
		email:      str("email"),
		givenName:  str("given_name"),
		familyName: str("family_name"),
		groups:     groupsFrom(claims[groupsClaim]),
	}
}

// groupsFrom accepts a JSON array of strings or a single space or comma
// separated string.
func groupsFrom(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, g := range t {
			if s, ok := g.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	case string:
		return strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ' ' })
	default:
		return nil
	}
}

func idTokenFrom(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}

// randomToken returns a URL-safe random string of exactly n characters.
func randomToken(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
