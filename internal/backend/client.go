// Package backend is the HTTP client for the finance REST backend. Requests
// carry the signed-in user's access token taken from the request context.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
	apperrors "github.com/target/backoffice-ui/internal/errors"
	"github.com/target/backoffice-ui/internal/observability/metrics"
)

const (
	maxResponseBytes = 16 << 20
	maxErrorBytes    = 64 << 10
	requestIDHeader  = "X-Request-ID"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, e.g. https://finance.example.com/api.
	BaseURL string
	// Timeout bounds each request; 0 leaves the HTTP client default.
	Timeout time.Duration
	// Transport overrides the base round tripper (tests).
	Transport http.RoundTripper
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	UserAgent string
}

// Client talks to the finance backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	metrics   *metrics.Metrics
	logger    *slog.Logger
	userAgent string
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("backend: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend: base URL must be http or https, got %q", base.Scheme)
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "backoffice-ui"
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Transport: &sessionTransport{base: transport},
			Timeout:   cfg.Timeout,
		},
		metrics:   cfg.Metrics,
		logger:    logger.With("component", "backend"),
		userAgent: ua,
	}, nil
}

// sessionTransport attaches the access token of the session in the request
// context as a bearer token.
type sessionTransport struct {
	base http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := domainauth.AccessTokenFromContext(req.Context())
	if token == "" {
		return t.base.RoundTrip(req)
	}
	rt := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   t.base,
	}
	return rt.RoundTrip(req)
}

type call struct {
	method   string
	resource string
	segments []string
	query    url.Values
	body     any
}

func (c *Client) endpoint(cl call) string {
	u := c.baseURL.JoinPath(cl.segments...)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}
	return u.String()
}

// do performs the call and decodes a JSON response body into out when both
// are present.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Unable to encode the request.")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.endpoint(cl), body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Unable to build the request.")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		mapped := apperrors.MapTransportError(err)
		c.observe(cl, 0, start, mapped)
		c.logger.WarnContext(ctx, "backend request failed",
			"method", cl.method, "resource", cl.resource, "request_id", requestID, "error", err)
		return mapped
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := readAPIError(resp, cl)
		mapped := apperrors.MapStatus(resp.StatusCode, apiErr.Message, apiErr)
		c.observe(cl, resp.StatusCode, start, mapped)
		c.logger.InfoContext(ctx, "backend returned error status",
			"method", cl.method, "resource", cl.resource, "status", resp.StatusCode, "request_id", requestID)
		return mapped
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		mapped := apperrors.MapTransportError(err)
		c.observe(cl, resp.StatusCode, start, mapped)
		return mapped
	}
	c.observe(cl, resp.StatusCode, start, nil)

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "Unexpected response from the server for %s.", cl.resource)
	}
	return nil
}

func (c *Client) observe(cl call, status int, start time.Time, err error) {
	c.metrics.ObserveUpstream(metrics.UpstreamCall{
		Resource: cl.resource,
		Method:   cl.method,
		Status:   status,
		Duration: time.Since(start),
		Err:      err,
	})
}
