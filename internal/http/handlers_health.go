package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const defaultHealthTimeout = 2 * time.Second

// HealthCheck checks one dependency the UI cannot serve lists without.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler answers /healthz. With no checks it always reports ok;
// otherwise every check runs concurrently under one timeout and any failure
// turns the response into a 503.
type healthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
	logger  *slog.Logger
}

func newHealthHandler(checks []HealthCheck, logger *slog.Logger) *healthHandler {
	return &healthHandler{checks: checks, timeout: defaultHealthTimeout, logger: logger}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := h.run(r.Context())
	code := http.StatusOK
	if report.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, report)
}

func (h *healthHandler) run(ctx context.Context) healthReport {
	if len(h.checks) == 0 {
		return healthReport{Status: "ok"}
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report = healthReport{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	)
	for _, c := range h.checks {
		wg.Add(1)
		go func(c HealthCheck) {
			defer wg.Done()
			err := c.Check(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Status = "degraded"
				report.Checks[c.Name] = "unavailable"
				h.logger.WarnContext(ctx, "health check failed", "check", c.Name, "error", err)
				return
			}
			report.Checks[c.Name] = "ok"
		}(c)
	}
	wg.Wait()
	return report
}
