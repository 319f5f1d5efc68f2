package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
	apperrors "github.com/target/backoffice-ui/internal/errors"
	"github.com/target/backoffice-ui/internal/service"
)

type stubDashboard struct {
	results []service.WidgetResult
	err     error
}

func (s stubDashboard) Evaluate(context.Context) ([]service.WidgetResult, error) {
	return s.results, s.err
}

func signedInRequest(method, target string, role domainauth.Role) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Accept", "text/html")
	ctx := context.WithValue(req.Context(), browserRequestKey{}, true)
	ctx = SetSessionInContext(ctx, &domainauth.Session{
		ID:        "sess-1",
		UserID:    "u1",
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Role:      role,
	})
	return req.WithContext(ctx)
}

func TestUIHandlers_Dashboard_RendersTiles(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)
	h.Widgets = stubDashboard{results: []service.WidgetResult{
		{Widget: service.Widget{Label: "Suppliers", Resource: "suppliers"}, Value: 1250, Available: true},
		{
			Widget:    service.Widget{Label: "Overdue receivables", Resource: "accounts-receivable"},
			Available: false,
			Notice:    "Unable to load accounts receivable.",
		},
	}}

	w := httptest.NewRecorder()
	h.Dashboard(w, signedInRequest(http.MethodGet, "/", domainauth.RoleUser))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Grace Hopper")
	assert.Contains(t, body, "1,250")
	assert.Contains(t, body, `href="/suppliers"`)
	assert.Contains(t, body, "tile-unavailable")
	assert.Contains(t, body, "Unable to load accounts receivable.")
	assert.Contains(t, body, `href="/accounts-receivable"`, "nav lists every resource")
}

func TestUIHandlers_Dashboard_NoWidgets(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)

	w := httptest.NewRecorder()
	h.Dashboard(w, signedInRequest(http.MethodGet, "/", domainauth.RoleUser))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No dashboard widgets are configured.")
}

func TestUIHandlers_Dashboard_EvaluationError(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)
	h.Widgets = stubDashboard{err: errors.New("redis: connection refused")}

	w := httptest.NewRecorder()
	h.Dashboard(w, signedInRequest(http.MethodGet, "/", domainauth.RoleUser))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to load the dashboard. Please try again.")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestUIHandlers_Dashboard_UnauthorizedEndsSession(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)
	auth := &mockAuthService{}
	h.Auth = auth
	h.Widgets = stubDashboard{err: apperrors.Unauthorized("token expired")}

	w := httptest.NewRecorder()
	h.Dashboard(w, signedInRequest(http.MethodGet, "/dashboard", domainauth.RoleUser))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?redirect_uri=%2Fdashboard", w.Header().Get("Location"))
	assert.Equal(t, []string{"sess-1"}, auth.invalidatedIDs())
}

func TestUIHandlers_Dashboard_HTMXPartial(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)

	req := signedInRequest(http.MethodGet, "/dashboard", domainauth.RoleUser)
	req.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()
	h.Dashboard(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Dashboard - "+appName+"</title>")
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, w.Header().Get("Hx-Trigger"), `"path":"/dashboard"`)
}

func TestUIHandlers_NotFound_BrowserRequest_Unauthenticated(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	req.Header.Set("Accept", "text/html")
	req = req.WithContext(context.WithValue(req.Context(), browserRequestKey{}, true))

	w := httptest.NewRecorder()
	h.NotFound(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "404")
	assert.Contains(t, body, "Page not found")
	assert.Contains(t, body, "/auth/login")
}

func TestUIHandlers_NotFound_BrowserRequest_Authenticated(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)

	w := httptest.NewRecorder()
	h.NotFound(w, signedInRequest(http.MethodGet, "/nonexistent", domainauth.RoleUser))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Back to dashboard")
	assert.NotContains(t, body, "Sign in</a>")
}

func TestUIHandlers_NotFound_APIRequest(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.NotFound(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestUIHandlers_NotFound_NoTemplates(t *testing.T) {
	h := &UIHandlers{}
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()

	h.NotFound(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestUIHandlers_SignedOut(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)

	req := httptest.NewRequest(http.MethodGet, "/auth/signed-out?redirect_uri=%2Fcustomers", nil)
	w := httptest.NewRecorder()
	h.SignedOut(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/auth/login?redirect_uri=%2Fcustomers")
}

func TestUIHandlers_SignedOut_RejectsOffSiteRedirect(t *testing.T) {
	h := &UIHandlers{}
	req := httptest.NewRequest(http.MethodGet, "/auth/signed-out?redirect_uri=https%3A%2F%2Fevil.example.com", nil)
	w := httptest.NewRecorder()
	h.SignedOut(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?redirect_uri=%2F", w.Header().Get("Location"))
}

func TestUIHandlers_RenderError_HTMXToast(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	require.NotNil(t, h)

	req := signedInRequest(http.MethodGet, "/suppliers/sup-1/edit", domainauth.RoleAdmin)
	req.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()
	h.renderError(w, req, http.StatusBadGateway, "Unable to load supplier.")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to load supplier.")
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "showToast")
}
