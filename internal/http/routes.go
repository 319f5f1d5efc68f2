package httpx

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	backoffice "github.com/target/backoffice-ui"
	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
	httpassets "github.com/target/backoffice-ui/internal/http/assets"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface
	Dashboard DashboardEvaluator
	// Resources registers one list (and, when writable, form) surface each.
	Resources []ResourceRoutes
	// Metrics serves /metrics when set.
	Metrics      http.Handler
	// Health lists the dependency checks behind /healthz.
	Health       []HealthCheck
	CookieDomain string
	IsDev        bool         // Development mode flag for hot reloading, etc.
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

func (s RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NewRouter creates and configures a new HTTP router with browser middleware.
// Outer concerns (recovery, logging, compression) are applied by the caller.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	health := newHealthHandler(services.Health, services.logger())
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics)
	}

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticWithFallback(services.IsDev, services.logger()))

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			Logger:       services.Logger,
		})
	}

	uiHandlers := setupUIHandlers(services)
	if uiHandlers != nil {
		registerUIRoutes(mux, uiHandlers, services.Resources)
	}

	handler := &notFoundHandler{
		mux:        mux,
		uiHandlers: uiHandlers,
	}

	var h http.Handler = handler
	h = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, Logger: services.logger()})(h)
	if services.Auth != nil {
		h = LoadSession(services.Auth, services.CookieDomain, services.Logger)(h)
	}
	return BrowserDetection()(h)
}

// staticFS returns the static asset filesystem: the working tree in dev
// mode, the embedded copy otherwise.
func staticFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(StaticPathFromRoot)
	}
	sub, err := fs.Sub(backoffice.StaticFS, StaticPathFromRoot)
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets; falling back to disk", "error", err)
		return os.DirFS(StaticPathFromRoot)
	}
	return sub
}

// templateFS mirrors staticFS for templates.
func templateFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(backoffice.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		logger.Error("failed to create sub-filesystem for templates; falling back to disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// setupUIHandlers creates UI handlers with template renderer and asset resolver.
// In dev mode (services.IsDev=true), templates and the manifest are read from
// disk on every render; otherwise the embedded copies are parsed once.
func setupUIHandlers(services RouterServices) *UIHandlers {
	logger := services.logger()

	resolver, err := httpassets.NewAssetResolver(httpassets.Options{
		FS:              staticFS(services.IsDev, logger),
		ReloadOnResolve: services.IsDev,
		Logger:          logger,
	})
	if err != nil {
		logger.Warn("failed to load asset manifest; falling back to logical asset names", "error", err)
		resolver = nil
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services.IsDev, logger),
		Resolver:   resolver,
		DevMode:    services.IsDev,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create template renderer", slog.Any("error", err))
		return nil
	}

	return &UIHandlers{
		T:            tr,
		Auth:         services.Auth,
		Widgets:      services.Dashboard,
		CookieDomain: services.CookieDomain,
		IsDev:        services.IsDev,
		Logger:       services.Logger,
	}
}

// staticWithFallback serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticWithFallback(isDev bool, logger *slog.Logger) http.Handler {
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS(isDev, logger)))))
}

// hashedFilePattern matches content-hashed filenames including an optional
// source map (e.g. app.abc123de.js, app.abc123de.css.map).
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			// Hashed assets can be cached for a long time (1 year)
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}

		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Registered routes write straight through; only the mux's own 404
	// fallback needs capturing.
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)

	if cw.status == http.StatusNotFound && h.uiHandlers != nil {
		h.uiHandlers.NotFound(w, r)
		return
	}
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	_, _ = w.Write(c.buf.Bytes())
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// registerUIRoutes wires the dashboard, every resource and the public
// signed-out page.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, resources []ResourceRoutes) {
	mw := routeMiddleware{
		browse: RequireAuthBrowser(),
		manage: RequireRoleBrowser(domainauth.RoleAdmin),
	}
	mux.Handle("GET /{$}", mw.browse(http.HandlerFunc(h.Dashboard)))
	mux.Handle("GET /dashboard", mw.browse(http.HandlerFunc(h.Dashboard)))
	for _, res := range resources {
		if res == nil {
			continue
		}
		res.register(mux, h, mw)
	}
	// Public auth-related UI routes (no auth wrapper)
	mux.Handle("GET /auth/signed-out", http.HandlerFunc(h.SignedOut))
}
