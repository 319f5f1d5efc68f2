package config

import (
	"strings"
	"time"

	"github.com/target/backoffice-ui/internal/pagination"
)

// BackendConfig points the service at the finance REST backend.
type BackendConfig struct {
	// BaseURL is the backend root, e.g. "https://finance.example.com/api".
	BaseURL string `env:"BASE_URL,required"`

	// Timeout bounds each backend request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`

	// UserAgent is sent with every backend request.
	UserAgent string `env:"USER_AGENT" envDefault:"backoffice-ui"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
	if b.Timeout > 2*time.Minute {
		b.Timeout = 2 * time.Minute
	}
	if strings.TrimSpace(b.UserAgent) == "" {
		b.UserAgent = "backoffice-ui"
	}
}

// ListConfig holds list page defaults.
type ListConfig struct {
	// DefaultLimit is the page size a list starts with.
	DefaultLimit int `env:"DEFAULT_LIMIT" envDefault:"10"`
}

// Sanitize clamps the default page size to the accepted range.
func (l *ListConfig) Sanitize() {
	l.DefaultLimit = pagination.NormalizeLimit(l.DefaultLimit, pagination.DefaultLimit)
}

// DashboardConfig configures the dashboard tiles.
type DashboardConfig struct {
	// Widgets is a semicolon-separated list of "Label=resource:expression"
	// entries. Empty uses the built-in tiles.
	Widgets string `env:"WIDGETS"`
}

// Sanitize trims the widget spec.
func (d *DashboardConfig) Sanitize() {
	d.Widgets = strings.TrimSpace(d.Widgets)
}
