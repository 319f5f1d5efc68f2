package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_GROUP", "finance-admins")
	t.Setenv("USER_GROUP", "finance-users")
	t.Setenv("BACKEND_BASE_URL", "https://finance.example.com/api/")
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("ADMIN_GROUP", "cn=admins,ou=groups,dc=example,dc=org")
	t.Setenv("USER_GROUP", "cn=users,ou=groups,dc=example,dc=org")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://app.example.com/auth/callback")
	t.Setenv("OAUTH_ISSUER_URL", "https://login.example.com")
	t.Setenv("OAUTH_AUDIENCE", "finance-api")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("DEV_AUTH_USER_ID", "dev-user")
	t.Setenv("DEV_AUTH_EMAIL", "dev@example.com")
	t.Setenv("DEV_AUTH_GROUPS", "admins;devs")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://app.example.com/auth/callback",
			Scope:        "openid profile email",
			IssuerURL:    "https://login.example.com",
			Audience:     "finance-api",
			GroupsClaim:  "groups",
		},
		DevAuth: DevAuthConfig{
			UserID:      "dev-user",
			Email:       "dev@example.com",
			Groups:      []string{"admins", "devs"},
			AccessToken: "dev-token",
		},
		AdminGroup:      "cn=admins,ou=groups,dc=example,dc=org",
		UserGroup:       "cn=users,ou=groups,dc=example,dc=org",
		SessionDuration: 8 * time.Hour,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Backend.BaseURL != "https://finance.example.com/api" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Errorf("expected 15s backend timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Lists.DefaultLimit != 10 {
		t.Errorf("expected default limit 10, got %d", cfg.Lists.DefaultLimit)
	}
	if cfg.Redis.Enabled {
		t.Error("expected redis to be disabled by default")
	}
	if cfg.Redis.KeyPrefix != "backoffice:" {
		t.Errorf("unexpected key prefix %q", cfg.Redis.KeyPrefix)
	}
	if cfg.Auth.Mode != AuthModeOAuth {
		t.Errorf("expected oauth mode by default, got %q", cfg.Auth.Mode)
	}
	if !cfg.Observability.Metrics.IsEnabled() {
		t.Error("expected metrics endpoint enabled by default")
	}
	if cfg.Observability.Logging.Level != slog.LevelInfo || cfg.Observability.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Observability.Logging)
	}
}

func TestAppConfig_MissingBackendURL(t *testing.T) {
	t.Setenv("ADMIN_GROUP", "admins")
	t.Setenv("USER_GROUP", "users")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected an error without BACKEND_BASE_URL")
	}
}

func TestAppConfig_InvalidAuthMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_MODE", "saml")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected an error for an unknown auth mode")
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	tests := []struct {
		name    string
		dev     bool
		nodeEnv string
		want    bool
	}{
		{name: "explicit dev", dev: true, want: true},
		{name: "node env development", nodeEnv: "development", want: true},
		{name: "node env dev uppercase", nodeEnv: "DEV", want: true},
		{name: "node env production", nodeEnv: "production", want: false},
		{name: "nothing set", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NODE_ENV", tt.nodeEnv)
			cfg := AppConfig{IsDev: tt.dev}
			cfg.Sanitize()
			if cfg.IsDev != tt.want {
				t.Fatalf("IsDev = %v, want %v", cfg.IsDev, tt.want)
			}
		})
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 12, WriteTimeout: time.Second}
	cfg.Sanitize()

	if cfg.CompressionLevel != 9 {
		t.Errorf("expected compression level clamped to 9, got %d", cfg.CompressionLevel)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.WriteTimeout != 5*time.Second {
		t.Errorf("expected write timeout raised to 5s, got %v", cfg.WriteTimeout)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected default shutdown timeout, got %v", cfg.ShutdownTimeout)
	}

	cfg = HTTPConfig{CompressionLevel: 0}
	cfg.Sanitize()
	if cfg.CompressionLevel != 1 {
		t.Errorf("expected compression level clamped to 1, got %d", cfg.CompressionLevel)
	}
}

func TestBackendConfig_Sanitize(t *testing.T) {
	cfg := BackendConfig{BaseURL: " http://localhost:3000/// ", Timeout: time.Hour, UserAgent: " "}
	cfg.Sanitize()

	if cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("unexpected base URL %q", cfg.BaseURL)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("expected timeout capped at 2m, got %v", cfg.Timeout)
	}
	if cfg.UserAgent != "backoffice-ui" {
		t.Errorf("expected default user agent, got %q", cfg.UserAgent)
	}

	cfg = BackendConfig{Timeout: -time.Second}
	cfg.Sanitize()
	if cfg.Timeout != 15*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
}

func TestListConfig_Sanitize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 10},
		{in: -5, want: 10},
		{in: 25, want: 25},
		{in: 1000, want: 100},
	}
	for _, tt := range tests {
		cfg := ListConfig{DefaultLimit: tt.in}
		cfg.Sanitize()
		if cfg.DefaultLimit != tt.want {
			t.Errorf("DefaultLimit(%d) = %d, want %d", tt.in, cfg.DefaultLimit, tt.want)
		}
	}
}

func TestRedisConfig_Sanitize(t *testing.T) {
	cfg := RedisConfig{KeyPrefix: "  ", ListStateTTL: time.Second, UseCluster: true, UseSentinel: true}
	cfg.Sanitize()

	if cfg.KeyPrefix != "backoffice:" {
		t.Errorf("expected default prefix, got %q", cfg.KeyPrefix)
	}
	if cfg.ListStateTTL != time.Minute {
		t.Errorf("expected TTL raised to 1m, got %v", cfg.ListStateTTL)
	}
	if cfg.UseSentinel {
		t.Error("expected sentinel disabled when cluster is selected")
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{AdminGroup: " admins ", SessionDuration: time.Second}
	cfg.Sanitize()

	if cfg.AdminGroup != "admins" {
		t.Errorf("expected trimmed admin group, got %q", cfg.AdminGroup)
	}
	if cfg.OAuth.GroupsClaim != "groups" {
		t.Errorf("expected default groups claim, got %q", cfg.OAuth.GroupsClaim)
	}
	if cfg.SessionDuration != 5*time.Minute {
		t.Errorf("expected session duration raised to 5m, got %v", cfg.SessionDuration)
	}
}

func TestLoggingConfig_Sanitize(t *testing.T) {
	cfg := LoggingConfig{Format: " TEXT "}
	cfg.Sanitize()
	if cfg.Format != "text" {
		t.Errorf("expected text format, got %q", cfg.Format)
	}

	cfg = LoggingConfig{Format: "xml"}
	cfg.Sanitize()
	if cfg.Format != "json" {
		t.Errorf("expected json fallback, got %q", cfg.Format)
	}
}

func TestAppConfig_ParseLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_LEVEL", "debug")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Observability.Logging.Level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.Observability.Logging.Level)
	}
}
