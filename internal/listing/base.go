package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	apperrors "github.com/target/backoffice-ui/internal/errors"
)

// Fetch outcomes reported to an Observer.
const (
	OutcomeOK           = "ok"
	OutcomeStale        = "stale"
	OutcomeError        = "error"
	OutcomeUnauthorized = "unauthorized"
)

// Observer receives one call per completed fetch.
type Observer interface {
	ObserveFetch(resource, outcome string, d time.Duration)
}

// State is the lifecycle state of a list in one session.
type State int

const (
	StateIdle State = iota
	StateLoading
)

func (s State) String() string {
	if s == StateLoading {
		return "loading"
	}
	return "idle"
}

// deps is the machinery shared by Controller and ServerPager.
type deps struct {
	resource string
	title    string
	store    StateStore
	seq      Sequencer
	sessions SessionInvalidator
	observer Observer
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	inflight map[string]int
}

func newDeps(resource, title string, store StateStore, seq Sequencer, sessions SessionInvalidator,
	observer Observer, logger *slog.Logger, now func() time.Time,
) (*deps, error) {
	if resource == "" {
		return nil, errors.New("listing: resource is required")
	}
	if store == nil {
		return nil, errors.New("listing: state store is required")
	}
	if seq == nil {
		return nil, errors.New("listing: sequencer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	if title == "" {
		title = resource
	}
	return &deps{
		resource: resource,
		title:    title,
		store:    store,
		seq:      seq,
		sessions: sessions,
		observer: observer,
		logger:   logger.With("component", "listing", "resource", resource),
		now:      now,
		inflight: make(map[string]int),
	}, nil
}

func (d *deps) key(sessionID string) Key {
	return Key{SessionID: sessionID, Resource: d.resource}
}

// begin marks the list as loading and returns the func that marks it idle.
func (d *deps) begin(sessionID string) func() {
	d.mu.Lock()
	d.inflight[sessionID]++
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.inflight[sessionID] <= 1 {
			delete(d.inflight, sessionID)
			return
		}
		d.inflight[sessionID]--
	}
}

func (d *deps) state(sessionID string) State {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inflight[sessionID] > 0 {
		return StateLoading
	}
	return StateIdle
}

func (d *deps) observe(outcome string, started time.Time) {
	if d.observer != nil {
		d.observer.ObserveFetch(d.resource, outcome, d.now().Sub(started))
	}
}

// isStale reports whether a newer fetch than seq has been issued for key.
func (d *deps) isStale(ctx context.Context, key Key, seq uint64) bool {
	latest, err := d.seq.Latest(ctx, key)
	if err != nil {
		d.logger.WarnContext(ctx, "read latest sequence", "error", err)
		return false
	}
	return seq < latest
}

// invalidate ends the session after the backend rejected its credentials.
// Failures are logged; the caller still redirects to sign-in.
func (d *deps) invalidate(ctx context.Context, sessionID string) {
	if d.sessions != nil {
		if err := d.sessions.Invalidate(ctx, sessionID); err != nil {
			d.logger.ErrorContext(ctx, "invalidate session", "error", err)
		}
		return
	}
	if err := d.store.DeleteSession(ctx, sessionID); err != nil {
		d.logger.ErrorContext(ctx, "drop list state", "error", err)
	}
}

// classify converts a fetch failure into the error returned to callers.
func (d *deps) classify(ctx context.Context, sessionID string, err error) error {
	if apperrors.IsUnauthorized(err) {
		d.logger.InfoContext(ctx, "backend rejected credentials, ending session")
		d.invalidate(ctx, sessionID)
		return fmt.Errorf("%w: %w", ErrSignInRequired, err)
	}
	d.logger.WarnContext(ctx, "fetch failed", "error", err)
	return &FetchError{
		Resource: d.resource,
		Notice:   apperrors.UserMessage(err, "Unable to load "+strings.ToLower(d.title)+"."),
		Err:      err,
	}
}

func loadJSON[S any](ctx context.Context, store StateStore, key Key) (S, bool, error) {
	var out S
	raw, err := store.Load(ctx, key)
	if errors.Is(err, ErrNoSnapshot) {
		return out, false, nil
	}
	if err != nil {
		return out, false, fmt.Errorf("load %s state: %w", key.Resource, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, fmt.Errorf("decode %s state: %w", key.Resource, err)
	}
	return out, true, nil
}

func saveJSON(ctx context.Context, store StateStore, key Key, seq uint64, v any) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("encode %s state: %w", key.Resource, err)
	}
	saved, err := store.SaveIfNewer(ctx, key, seq, raw)
	if err != nil {
		return false, fmt.Errorf("save %s state: %w", key.Resource, err)
	}
	return saved, nil
}
