package listing

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by StateStore.Load when nothing is held for a key.
var ErrNoSnapshot = errors.New("listing: no snapshot held")

// Key identifies one list in one session.
type Key struct {
	SessionID string
	Resource  string
}

// StateStore persists encoded list snapshots per session.
type StateStore interface {
	// Load returns the encoded snapshot for key or ErrNoSnapshot.
	Load(ctx context.Context, key Key) ([]byte, error)
	// SaveIfNewer stores data unless the held snapshot was written with a
	// higher sequence number. It reports whether data was stored.
	SaveIfNewer(ctx context.Context, key Key, seq uint64, data []byte) (bool, error)
	// DeleteSession drops every snapshot held for the session.
	DeleteSession(ctx context.Context, sessionID string) error
}

// Sequencer issues monotonically increasing fetch sequence numbers per key.
type Sequencer interface {
	Next(ctx context.Context, key Key) (uint64, error)
	// Latest returns the highest number issued for key, 0 if none.
	Latest(ctx context.Context, key Key) (uint64, error)
}

// SessionInvalidator ends a session whose upstream credentials were rejected.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, sessionID string) error
}
