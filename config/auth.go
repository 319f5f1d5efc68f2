package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration. The access token issued at
// sign-in is what the finance backend receives as the bearer token, so Scope
// must cover the backend, either by scope or by Audience.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"backoffice-ui"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	IssuerURL    string `env:"ISSUER_URL"`
	Audience     string `env:"AUDIENCE"`
	GroupsClaim  string `env:"GROUPS_CLAIM"  envDefault:"groups"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"admins"          envSeparator:";"`
	// AccessToken is forwarded to the backend; local backends usually accept anything.
	AccessToken string `env:"ACCESS_TOKEN" envDefault:"dev-token"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup grants create, edit and delete on every resource.
	AdminGroup string `env:"ADMIN_GROUP,required"`

	// UserGroup grants read access.
	UserGroup string `env:"USER_GROUP,required"`

	// SessionDuration caps dev sessions; OIDC sessions follow the token expiry.
	SessionDuration time.Duration `env:"AUTH_SESSION_DURATION" envDefault:"8h"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	a.UserGroup = strings.TrimSpace(a.UserGroup)
	a.OAuth.IssuerURL = strings.TrimSpace(a.OAuth.IssuerURL)
	if strings.TrimSpace(a.OAuth.GroupsClaim) == "" {
		a.OAuth.GroupsClaim = "groups"
	}
	if a.SessionDuration < 5*time.Minute {
		a.SessionDuration = 5 * time.Minute
	}
}
