package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
)

const (
	// DefaultCSRFCookieName names the double-submit cookie and the hidden form field.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the header app.js adds to every htmx request.
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the number of random bytes in a token.
	DefaultCSRFTokenLength = 32

	csrfCookieMaxAge = 12 * 60 * 60

	csrfExpiredMessage = "Your form expired. Reload the page and try again."
)

// CSRFConfig configures CSRFProtection. Zero values fall back to the defaults above.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	CookieDomain  string
	TokenLength   int
	Logger        *slog.Logger
}

// csrfGuard implements double-submit cookie checks for the record forms,
// delete buttons and logout. Reads never need a token.
type csrfGuard struct {
	cookie string
	header string
	field  string
	domain string
	length int
	logger *slog.Logger
}

func newCSRFGuard(cfg CSRFConfig) *csrfGuard {
	g := &csrfGuard{
		cookie: cfg.CookieName,
		header: cfg.HeaderName,
		field:  cfg.FormFieldName,
		domain: cfg.CookieDomain,
		length: cfg.TokenLength,
		logger: cfg.Logger,
	}
	if g.cookie == "" {
		g.cookie = DefaultCSRFCookieName
	}
	if g.header == "" {
		g.header = DefaultCSRFHeaderName
	}
	if g.field == "" {
		g.field = DefaultCSRFCookieName
	}
	if g.length <= 0 {
		g.length = DefaultCSRFTokenLength
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// CSRFProtection issues a token cookie on first contact, exposes the token to
// templates through GetCSRFToken, and rejects unsafe requests whose header or
// form token does not match the cookie.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	return newCSRFGuard(cfg).wrap
}

func (g *csrfGuard) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := g.ensureToken(w, r)
		if err != nil {
			g.logger.Error("csrf token generation failed", "error", err)
			http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

		if !isSafeMethod(r.Method) && !g.matches(r, token) {
			g.reject(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ensureToken returns the cookie token, minting and setting a new one when
// the browser has none yet.
func (g *csrfGuard) ensureToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(g.cookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	b := make([]byte, g.length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookie,
		Value:    token,
		Path:     "/",
		Domain:   g.domain,
		HttpOnly: false, // app.js copies it into the request header
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   csrfCookieMaxAge,
	})
	return token, nil
}

// matches compares the submitted token with the cookie in constant time.
// The header wins over the form field; JSON bodies are never parsed.
func (g *csrfGuard) matches(r *http.Request, cookieToken string) bool {
	if cookieToken == "" {
		return false
	}
	submitted := r.Header.Get(g.header)
	if submitted == "" && hasFormBody(r) {
		submitted = r.PostFormValue(g.field)
	}
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

// reject answers 403. htmx never swaps a 403 body in, so those requests
// also get a toast.
func (g *csrfGuard) reject(w http.ResponseWriter, r *http.Request) {
	g.logger.Warn("csrf check failed", "method", r.Method, "path", r.URL.Path, "htmx", IsHTMX(r))
	if IsHTMX(r) {
		triggerToast(w, csrfExpiredMessage, "error")
	}
	http.Error(w, "CSRF token validation failed", http.StatusForbidden)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func hasFormBody(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// isForwardedHTTPS reports whether a proxy terminated TLS. X-Forwarded-Proto
// may carry a comma-separated chain.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

type csrfTokenKey struct{}

// GetCSRFToken returns the token for the current request so templates can
// embed it in forms and the csrf-token meta tag.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
