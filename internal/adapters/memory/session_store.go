// Package memory provides in-process stores used when Redis is not configured.
// State does not survive a restart and is not shared between replicas.
package memory

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
	"github.com/target/backoffice-ui/internal/ports"
)

// ErrNotFound is returned when a session is unknown or expired.
var ErrNotFound = errors.New("session not found")

// SessionStore keeps sessions in a map and drops them once expired.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
	now      func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domainauth.Session), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if !sess.ExpiresAt.After(s.now()) {
		return errors.New("session already expired")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || !sess.ExpiresAt.After(s.now()) {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of sessions held, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns their IDs.
func (s *SessionStore) Sweep() []string {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []string
	for id, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	return expired
}

// SweeperOptions configures RunSweeper.
type SweeperOptions struct {
	Sessions *SessionStore
	// ViewState has the expired sessions' list snapshots dropped too.
	ViewState ports.ViewStateCleaner
	Interval  time.Duration
	Logger    *slog.Logger
}

// RunSweeper sweeps expired sessions every interval until ctx is done.
// Redis expires keys on its own; this loop only runs for memory stores.
func RunSweeper(ctx context.Context, opts SweeperOptions) error {
	if opts.Sessions == nil {
		return errors.New("sweeper: session store is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sweepOnce(ctx, opts, logger)
		}
	}
}

func sweepOnce(ctx context.Context, opts SweeperOptions, logger *slog.Logger) int {
	expired := opts.Sessions.Sweep()
	if opts.ViewState != nil {
		for _, id := range expired {
			if err := opts.ViewState.DeleteSession(ctx, id); err != nil {
				logger.WarnContext(ctx, "drop list state for expired session", "error", err)
			}
		}
	}
	if len(expired) > 0 {
		logger.DebugContext(ctx, "expired sessions swept", "count", len(expired))
	}
	return len(expired)
}
