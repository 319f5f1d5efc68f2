package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/backoffice-ui/config"
	"github.com/target/backoffice-ui/internal/backend"
	httpx "github.com/target/backoffice-ui/internal/http"
	"github.com/target/backoffice-ui/internal/observability/metrics"
	"github.com/target/backoffice-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Dashboard *service.DashboardService
	Resources []httpx.ResourceRoutes
	Metrics   *metrics.Metrics
	Stores    Stores
	// Health backs /healthz.
	Health    []httpx.HealthCheck
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	// RedisClient is nil when Redis is disabled.
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the backend client, stores, auth, dashboard and every
// resource's list controller.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := metrics.New(cfg.Observability.Metrics.RuntimeCollectors)

	client, err := backend.New(backend.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		Metrics:   m,
		Logger:    logger,
		UserAgent: cfg.Backend.UserAgent,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create backend client: %w", err)
	}

	stores := BuildStores(deps.RedisClient, cfg.Redis, logger)

	auth, err := BuildAuthService(AuthConfig{
		Auth:      cfg.Auth,
		Sessions:  stores.Sessions,
		ViewState: stores.ViewState,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	resources, err := BuildResources(ResourceDeps{
		Client:       client,
		Store:        stores.ListState,
		Sequencer:    stores.Sequencer,
		Sessions:     auth,
		Metrics:      m,
		DefaultLimit: cfg.Lists.DefaultLimit,
		Logger:       logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build resources: %w", err)
	}

	widgets, err := service.ParseWidgets(cfg.Dashboard.Widgets)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("parse dashboard widgets: %w", err)
	}
	dashboard, err := service.NewDashboardService(service.DashboardServiceOptions{
		Documents: client,
		Widgets:   widgets,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build dashboard: %w", err)
	}

	return ServiceContainer{
		Auth:      auth,
		Dashboard: dashboard,
		Resources: resources,
		Metrics:   m,
		Stores:    stores,
		Health:    healthChecks(deps.RedisClient),
	}, nil
}

// healthChecks pings Redis when it holds sessions; memory stores cannot
// become unreachable.
func healthChecks(client redis.UniversalClient) []httpx.HealthCheck {
	if client == nil {
		return nil
	}
	return []httpx.HealthCheck{{
		Name:  "redis",
		Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}}
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// Signals overrides the shutdown signals (tests).
	Signals <-chan os.Signal
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// backgroundService describes a startable background component.
type backgroundService struct {
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	name string
	done <-chan struct{}
}

func launchBackground(ctx context.Context, logger *slog.Logger, errCh chan<- error, descriptor backgroundService) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case errCh <- errMsg:
			case <-ctx.Done():
			default:
				logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	logger.InfoContext(ctx, "background service started", "service", descriptor.name)
	return done
}

func startBackgroundServices(
	ctx context.Context,
	logger *slog.Logger,
	errCh chan<- error,
	services []backgroundService,
) []backgroundServiceHandle {
	handles := make([]backgroundServiceHandle, 0, len(services))
	for _, svc := range services {
		handles = append(handles, backgroundServiceHandle{
			name: svc.name,
			done: launchBackground(ctx, logger, errCh, svc),
		})
	}
	return handles
}

func buildBackgroundServices(cfg *ServiceOrchestrationConfig, logger *slog.Logger) []backgroundService {
	var services []backgroundService
	if sweeper := cfg.Services.Stores.sweeper(logger); sweeper != nil {
		services = append(services, *sweeper)
	}
	return services
}

// errorChannelBufferSize leaves room for the HTTP server and every
// background service to report once.
func errorChannelBufferSize(backgrounds int) int {
	if backgrounds < 0 {
		backgrounds = 0
	}
	return backgrounds + 1
}

// RunServicesWithShutdown starts the HTTP server and background services and
// blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backgrounds := buildBackgroundServices(cfg, logger)
	errCh := make(chan error, errorChannelBufferSize(len(backgrounds)))

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		Errors:   errCh,
	})
	handles := startBackgroundServices(serviceCtx, logger, errCh, backgrounds)

	signals := cfg.Signals
	if signals == nil {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		signals = quit
	}

	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		signals:     signals,
		errCh:       errCh,
		httpServer:  server,
		timeout:     cfg.Config.HTTP.ShutdownTimeout,
		logger:      logger,
		backgrounds: handles,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	signals     <-chan os.Signal
	errCh       <-chan error
	httpServer  *http.Server
	timeout     time.Duration
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.signals:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  cfg.httpServer,
			Timeout: cfg.timeout,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
