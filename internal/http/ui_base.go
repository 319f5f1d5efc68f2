package httpx

import (
	"bytes"
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/target/backoffice-ui/internal/domain/model"
	"github.com/target/backoffice-ui/internal/http/ui/viewmodel"
	"github.com/target/backoffice-ui/internal/listing"
	"github.com/target/backoffice-ui/internal/service"
)

// SessionInvalidator ends a session after the backend rejected its token.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, sessionID string) error
}

// DashboardEvaluator computes dashboard tiles for the caller's session.
type DashboardEvaluator interface {
	Evaluate(ctx context.Context) ([]service.WidgetResult, error)
}

var _ DashboardEvaluator = (*service.DashboardService)(nil)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	Auth         SessionInvalidator
	Widgets      DashboardEvaluator
	CookieDomain string
	IsDev        bool // Development mode flag for enhanced error reporting
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title     string
	PageTitle string
	// CurrentPage is the nav key to highlight, usually a resource name.
	CurrentPage string
	// Kind selects the content template (PageList, PageForm, ...).
	Kind string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}

	if session := GetSessionFromContext(r.Context()); session != nil {
		layout.User = &viewmodel.User{
			Name:  session.DisplayName(),
			Email: session.Email,
			Role:  string(session.Role),
		}
		layout.IsAuthenticated = true
		layout.CanManage = session.CanManage()
		layout.Nav = navItems()
	}

	return layout
}

func navItems() []viewmodel.NavItem {
	resources := model.Resources()
	items := make([]viewmodel.NavItem, 0, len(resources)+1)
	items = append(items, viewmodel.NavItem{Label: "Dashboard", Path: "/", Key: PageDashboard})
	for _, res := range resources {
		items = append(items, viewmodel.NavItem{Label: res.Title, Path: res.Path(), Key: res.Name})
	}
	return items
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"Kind":            meta.Kind,
		"IsAuthenticated": layout.IsAuthenticated,
		"CanManage":       layout.CanManage,
		"Nav":             layout.Nav,
	}

	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	if layout.User != nil {
		data["User"] = layout.User
	}

	return data
}

// renderPage renders a full page, or for htmx requests only the content
// section plus an updated document title and header.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	h.renderPageStatus(w, r, http.StatusOK, data)
}

func (h *UIHandlers) renderPageStatus(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if !WantsPartial(r) {
		var buf bytes.Buffer
		rec := &bufferedResponse{header: w.Header(), buf: &buf}
		if err := h.T.RenderFull(rec, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
			return
		}
		w.WriteHeader(status)
		h.writeBody(w, buf.Bytes())
		return
	}

	kind, _ := data["Kind"].(string)
	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)

	var buf bytes.Buffer
	// Include a <title> element so htmx updates document.title on partial swaps
	buf.WriteString(`<title>` + html.EscapeString(title) + `</title>`)
	buf.WriteString(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(pageTitle) + `</h1>`)
	if err := h.T.RenderContent(&buf, kind, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Hint client JS to update nav active state based on current path
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})
	w.WriteHeader(status)
	h.writeBody(w, buf.Bytes())
}

func (h *UIHandlers) writeBody(w http.ResponseWriter, b []byte) {
	if _, err := w.Write(b); err != nil {
		h.logger().Error("failed to write response", "error", err)
	}
}

// bufferedResponse lets a full render set headers without committing the
// status, so template failures can still produce a 500.
type bufferedResponse struct {
	header http.Header
	buf    *bytes.Buffer
}

func (b *bufferedResponse) Header() http.Header         { return b.header }
func (b *bufferedResponse) Write(p []byte) (int, error) { return b.buf.Write(p) }
func (b *bufferedResponse) WriteHeader(int)             {}

// toastPayload is the showToast event body the client script expects.
type toastPayload struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// triggerToast sends a standardized HX-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	HTMX(w).Trigger("showToast", toastPayload{Message: message, Type: strings.TrimSpace(toastType)})
}

// signIn sends the user back through login after the backend rejected
// their credentials. The session has already been invalidated by then.
func (h *UIHandlers) signIn(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, h.CookieDomain, sessionCookieName)
	redirectToLogin(w, r)
}

// endSession invalidates the caller's session and takes the sign-in path.
// Used where the 401 surfaces outside a list controller.
func (h *UIHandlers) endSession(w http.ResponseWriter, r *http.Request) {
	if id := sessionID(r.Context()); id != "" && h.Auth != nil {
		if err := h.Auth.Invalidate(r.Context(), id); err != nil {
			h.logger().ErrorContext(r.Context(), "invalidate session", "error", err)
		}
	}
	h.signIn(w, r)
}

// listNotice interprets a listing error. It reports false when the response
// has already been written (sign-in path or internal failure); otherwise it
// returns the notice to show next to the view, which may be empty.
func (h *UIHandlers) listNotice(w http.ResponseWriter, r *http.Request, err error) (string, bool) {
	if err == nil {
		return "", true
	}
	if errors.Is(err, listing.ErrSignInRequired) {
		h.signIn(w, r)
		return "", false
	}
	if errors.Is(err, listing.ErrStaleResponse) {
		h.logger().DebugContext(r.Context(), "stale list response discarded", "path", r.URL.Path)
		return "", true
	}
	var fe *listing.FetchError
	if errors.As(err, &fe) {
		triggerToast(w, fe.Notice, "error")
		return fe.Notice, true
	}
	h.logger().ErrorContext(r.Context(), "list state failed", "error", err, "path", r.URL.Path)
	h.renderError(w, r, http.StatusInternalServerError, "Something went wrong loading this page.")
	return "", false
}

// renderError renders the error page for browser requests.
func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := basePageData(r, PageMeta{Title: "Error", PageTitle: "Error", Kind: PageError})
	data["Status"] = status
	data["ErrorMessage"] = message
	if WantsPartial(r) {
		triggerToast(w, message, "error")
		h.renderPageStatus(w, r, status, data)
		return
	}
	var buf bytes.Buffer
	rec := &bufferedResponse{header: w.Header(), buf: &buf}
	if err := h.T.RenderError(rec, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "error page render")
		return
	}
	w.WriteHeader(status)
	h.writeBody(w, buf.Bytes())
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		contextHTML := html.EscapeString(context)
		h.writeBody(w, []byte(`<div class="dev-error">
	<h2>Template Rendering Error</h2>
	<p><strong>Context:</strong> `+contextHTML+`</p>
	<p><strong>Path:</strong> `+pathHTML+`</p>
	<pre>`+errHTML+`</pre>
</div>`))
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
