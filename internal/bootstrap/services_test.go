package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/publicsuffix"

	"github.com/target/backoffice-ui/config"
	"github.com/target/backoffice-ui/internal/adapters/memory"
	redisadapter "github.com/target/backoffice-ui/internal/adapters/redis"
	"github.com/target/backoffice-ui/internal/listing"
	"github.com/target/backoffice-ui/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBackend serves suppliers to callers presenting the dev token and an
// empty collection for everything else.
type fakeBackend struct {
	supplierFetches atomic.Int32
	unauthorized    atomic.Int32
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer dev-token" {
		b.unauthorized.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/suppliers" {
		b.supplierFetches.Add(1)
		_ = json.NewEncoder(w).Encode(testutil.Suppliers(12))
		return
	}
	_, _ = w.Write([]byte(`[]`))
}

func testAppConfig(backendURL string) *config.AppConfig {
	cfg := &config.AppConfig{
		Auth: config.AuthConfig{
			Mode:       config.AuthModeMock,
			AdminGroup: "admins",
			UserGroup:  "users",
			DevAuth: config.DevAuthConfig{
				UserID:      "dev",
				Email:       "dev@example.com",
				Groups:      []string{"admins"},
				AccessToken: "dev-token",
			},
		},
		HTTP:    config.HTTPConfig{Addr: "127.0.0.1:0"},
		Backend: config.BackendConfig{BaseURL: backendURL, Timeout: 5 * time.Second},
		Lists:   config.ListConfig{DefaultLimit: 10},
		Observability: config.ObservabilityConfig{
			Metrics: config.ObservabilityMetricsConfig{Enabled: true},
		},
	}
	cfg.Sanitize()
	return cfg
}

func TestErrorChannelBufferSize(t *testing.T) {
	tests := []struct {
		backgrounds int
		want        int
	}{
		{backgrounds: -1, want: 1},
		{backgrounds: 0, want: 1},
		{backgrounds: 1, want: 2},
		{backgrounds: 3, want: 4},
	}
	for _, tt := range tests {
		if got := errorChannelBufferSize(tt.backgrounds); got != tt.want {
			t.Fatalf("errorChannelBufferSize(%d) = %d, want %d", tt.backgrounds, got, tt.want)
		}
	}
}

func TestNewServices_MemoryStores(t *testing.T) {
	backend := httptest.NewServer(&fakeBackend{})
	defer backend.Close()

	svcs, err := NewServices(&ServiceDeps{Config: testAppConfig(backend.URL), Logger: discardLogger()})
	require.NoError(t, err)

	assert.NotNil(t, svcs.Auth)
	assert.NotNil(t, svcs.Dashboard)
	assert.NotNil(t, svcs.Metrics)
	require.Len(t, svcs.Resources, 7)
	names := make([]string, 0, len(svcs.Resources))
	for _, r := range svcs.Resources {
		names = append(names, r.Resource().Name)
	}
	assert.Equal(t, []string{
		"suppliers", "customers", "bank-accounts", "cost-centers",
		"tax-rates", "payment-terms", "accounts-receivable",
	}, names)

	assert.IsType(t, &memory.SessionStore{}, svcs.Stores.Sessions)
	assert.IsType(t, &listing.MemoryStore{}, svcs.Stores.ListState)
	assert.NotNil(t, svcs.Stores.sweeper(discardLogger()))
}

func TestNewServices_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.AppConfig)
	}{
		{
			name:   "missing backend URL",
			mutate: func(c *config.AppConfig) { c.Backend.BaseURL = "" },
		},
		{
			name:   "non-http backend URL",
			mutate: func(c *config.AppConfig) { c.Backend.BaseURL = "ftp://finance.example.com" },
		},
		{
			name:   "malformed dashboard widget",
			mutate: func(c *config.AppConfig) { c.Dashboard.Widgets = "Suppliers" },
		},
		{
			name:   "invalid widget expression",
			mutate: func(c *config.AppConfig) { c.Dashboard.Widgets = "Broken=suppliers:length(" },
		},
		{
			name:   "oauth without issuer",
			mutate: func(c *config.AppConfig) { c.Auth.Mode = config.AuthModeOAuth },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testAppConfig("http://finance.example.com")
			tt.mutate(cfg)
			_, err := NewServices(&ServiceDeps{Config: cfg, Logger: discardLogger()})
			assert.Error(t, err)
		})
	}

	_, err := NewServices(nil)
	assert.Error(t, err)
}

func TestBuildStores_Redis(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	stores := BuildStores(client, config.RedisConfig{KeyPrefix: "bootstrap-test:", ListStateTTL: time.Hour}, discardLogger())
	assert.IsType(t, &redisadapter.SessionStore{}, stores.Sessions)
	assert.IsType(t, &redisadapter.ListStateStore{}, stores.ListState)
	assert.IsType(t, &redisadapter.Sequencer{}, stores.Sequencer)
	assert.Nil(t, stores.sweeper(discardLogger()), "redis expires sessions itself")
}

func TestRouterServices_MetricsToggle(t *testing.T) {
	backend := httptest.NewServer(&fakeBackend{})
	defer backend.Close()
	cfg := testAppConfig(backend.URL)
	svcs, err := NewServices(&ServiceDeps{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)

	assert.NotNil(t, routerServices(cfg, svcs, discardLogger()).Metrics)

	cfg.Observability.Metrics.Enabled = false
	assert.Nil(t, routerServices(cfg, svcs, discardLogger()).Metrics)

	empty := routerServices(cfg, ServiceContainer{}, discardLogger())
	assert.Nil(t, empty.Auth)
	assert.Nil(t, empty.Dashboard)
}

// TestHTTPHandler_SignInAndBrowse walks the dev sign-in flow against the
// assembled handler and loads a list page from the fake backend.
func TestHTTPHandler_SignInAndBrowse(t *testing.T) {
	fb := &fakeBackend{}
	backend := httptest.NewServer(fb)
	defer backend.Close()

	cfg := testAppConfig(backend.URL)
	svcs, err := NewServices(&ServiceDeps{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)

	app := httptest.NewServer(buildHTTPHandler(httpHandlerConfig{
		Logger:   discardLogger(),
		Services: routerServices(cfg, svcs, discardLogger()),
		HTTP:     cfg.HTTP,
	}))
	defer app.Close()

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	resp, err := client.Get(app.URL + "/suppliers?page=2")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/suppliers", resp.Request.URL.Path, "sign-in returns to the requested page")
	assert.Contains(t, string(body), "Supplier 11")
	assert.NotContains(t, string(body), "Supplier 01")
	assert.Equal(t, int32(1), fb.supplierFetches.Load())
	assert.Zero(t, fb.unauthorized.Load())

	resp, err = client.Get(app.URL + "/suppliers?page=1")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(body), "Supplier 01")
	assert.Equal(t, int32(1), fb.supplierFetches.Load(), "paging uses the held collection")

	resp, err = client.Get(app.URL + "/metrics")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(body), `backoffice_list_fetches_total{outcome="ok",resource="suppliers"} 1`)
}

func TestHTTPHandler_Compression(t *testing.T) {
	h := buildHTTPHandler(httpHandlerConfig{
		Logger: discardLogger(),
		HTTP:   config.HTTPConfig{CompressionEnabled: true, CompressionLevel: 6},
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunServicesWithShutdown_Signal(t *testing.T) {
	backend := httptest.NewServer(&fakeBackend{})
	defer backend.Close()

	cfg := testAppConfig(backend.URL)
	svcs, err := NewServices(&ServiceDeps{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)

	signals := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() {
		done <- RunServicesWithShutdown(&ServiceOrchestrationConfig{
			Config:   cfg,
			Services: svcs,
			Logger:   discardLogger(),
			Signals:  signals,
		})
	}()

	time.Sleep(50 * time.Millisecond)
	signals <- syscall.SIGTERM

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(20 * time.Second):
		t.Fatal("services did not shut down")
	}
}

func TestRunServicesWithShutdown_RequiresConfig(t *testing.T) {
	assert.Error(t, RunServicesWithShutdown(nil))
	assert.Error(t, RunServicesWithShutdown(&ServiceOrchestrationConfig{}))
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, config.LoggingConfig{Format: "json", Level: slog.LevelInfo}).Info("hello", "k", "v")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())

	buf.Reset()
	newLogger(&buf, config.LoggingConfig{Format: "text", Level: slog.LevelInfo}).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	newLogger(&buf, config.LoggingConfig{Format: "json", Level: slog.LevelWarn}).Info("dropped")
	assert.Empty(t, buf.String())
}

func TestLogout_DropsListStateAndCounters(t *testing.T) {
	backend := httptest.NewServer(&fakeBackend{})
	defer backend.Close()

	svcs, err := NewServices(&ServiceDeps{Config: testAppConfig(backend.URL), Logger: discardLogger()})
	require.NoError(t, err)

	ctx := context.Background()
	key := listing.Key{SessionID: "sess-1", Resource: "suppliers"}
	seq, err := svcs.Stores.Sequencer.Next(ctx, key)
	require.NoError(t, err)
	_, err = svcs.Stores.ListState.SaveIfNewer(ctx, key, seq, []byte(`{}`))
	require.NoError(t, err)

	require.NoError(t, svcs.Auth.Logout(ctx, "sess-1"))

	counters, ok := svcs.Stores.Sequencer.(*listing.MemorySequencer)
	require.True(t, ok)
	assert.Zero(t, counters.Len("sess-1"))
	snapshots, ok := svcs.Stores.ListState.(*listing.MemoryStore)
	require.True(t, ok)
	assert.Zero(t, snapshots.Len("sess-1"))
}

type failingCleaner struct{ err error }

func (f failingCleaner) DeleteSession(context.Context, string) error { return f.err }

func TestViewStateCleaners_RunsEveryCleaner(t *testing.T) {
	ctx := context.Background()
	seq := listing.NewMemorySequencer()
	_, _ = seq.Next(ctx, listing.Key{SessionID: "s1", Resource: "customers"})
	boom := errors.New("store down")

	err := viewStateCleaners{failingCleaner{err: boom}, seq}.DeleteSession(ctx, "s1")

	require.ErrorIs(t, err, boom)
	assert.Zero(t, seq.Len("s1"), "later cleaners still run after a failure")
}

func TestHealthChecks(t *testing.T) {
	assert.Empty(t, healthChecks(nil))

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	checks := healthChecks(client)
	require.Len(t, checks, 1)
	assert.Equal(t, "redis", checks[0].Name)
	assert.NoError(t, checks[0].Check(context.Background()))
}
