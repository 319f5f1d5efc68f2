package httpx

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
)

const appName = "Back office"

// SignedOut renders a simple signed-out page with a Sign In button.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	loginURL := "/auth/login?redirect_uri=" + url.QueryEscape(redirect)
	if h.T == nil {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}
	data := map[string]any{
		"Title":       "Signed out - " + appName,
		"RedirectURI": redirect,
		"LoginURL":    loginURL,
	}
	var buf bytes.Buffer
	rec := &bufferedResponse{header: w.Header(), buf: &buf}
	if err := h.T.RenderTemplate(rec, "signed-out-page", data); err != nil {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusOK)
	h.writeBody(w, buf.Bytes())
}

// NotFound handles 404 errors with auth-aware behavior.
// For browser requests, it renders an HTML error page.
// For API requests, it returns a JSON error response.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	data := basePageData(r, PageMeta{Title: "Page not found - " + appName, PageTitle: "Page not found", Kind: PageNotFound})
	data["Code"] = "404"
	data["Message"] = "The page you're looking for doesn't exist."
	data["ShowLogin"] = GetSessionFromContext(r.Context()) == nil
	data["RedirectURI"] = safeRedirectPath(r.URL.RequestURI())

	if WantsPartial(r) {
		h.renderPageStatus(w, r, http.StatusNotFound, data)
		return
	}
	var buf bytes.Buffer
	rec := &bufferedResponse{header: w.Header(), buf: &buf}
	if err := h.T.RenderError(rec, r, data); err != nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	h.writeBody(w, buf.Bytes())
}
