package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/backoffice-ui/config"
	"github.com/target/backoffice-ui/internal/adapters/authroles"
	"github.com/target/backoffice-ui/internal/adapters/devauth"
	"github.com/target/backoffice-ui/internal/adapters/oidc"
	"github.com/target/backoffice-ui/internal/ports"
	"github.com/target/backoffice-ui/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth     config.AuthConfig
	Sessions ports.SessionStore
	// ViewState is cleared on logout and invalidation.
	ViewState ports.ViewStateCleaner
	Logger    *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("auth: session store is required")
	}

	roleMapper := authroles.StaticRoleMapper{
		AdminGroup: cfg.Auth.AdminGroup,
		UserGroup:  cfg.Auth.UserGroup,
	}

	var (
		prov ports.AuthProvider
		err  error
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err = buildDevAuthProvider(cfg)
	case config.AuthModeOAuth:
		prov, err = buildOAuthProvider(cfg)
	default:
		err = fmt.Errorf("auth: unsupported mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:  prov,
		Sessions:  cfg.Sessions,
		Roles:     roleMapper,
		ViewState: cfg.ViewState,
	}), nil
}

//nolint:ireturn // the provider is chosen by mode.
func buildDevAuthProvider(cfg AuthConfig) (ports.AuthProvider, error) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("dev auth enabled; every visitor signs in as the configured identity",
			"user_id", cfg.Auth.DevAuth.UserID)
	}
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          cfg.Auth.DevAuth.UserID,
		Email:           cfg.Auth.DevAuth.Email,
		Groups:          cfg.Auth.DevAuth.Groups,
		AccessToken:     cfg.Auth.DevAuth.AccessToken,
		SessionDuration: cfg.Auth.SessionDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	return prov, nil
}

//nolint:ireturn // the provider is chosen by mode.
func buildOAuthProvider(cfg AuthConfig) (ports.AuthProvider, error) {
	oauth := cfg.Auth.OAuth
	if oauth.IssuerURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		return nil, fmt.Errorf("auth: oauth mode requires issuer URL, client ID and client secret "+
			"(issuer_url_empty=%t client_id_empty=%t client_secret_empty=%t)",
			oauth.IssuerURL == "", oauth.ClientID == "", oauth.ClientSecret == "")
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		IssuerURL:    oauth.IssuerURL,
		Audience:     oauth.Audience,
		GroupsClaim:  oauth.GroupsClaim,
	})
	if err != nil {
		return nil, fmt.Errorf("create OIDC provider: %w", err)
	}
	return prov, nil
}
