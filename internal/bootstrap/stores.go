package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/backoffice-ui/config"
	"github.com/target/backoffice-ui/internal/adapters/memory"
	redisadapter "github.com/target/backoffice-ui/internal/adapters/redis"
	"github.com/target/backoffice-ui/internal/listing"
	"github.com/target/backoffice-ui/internal/ports"
)

const sweepInterval = time.Minute

// Stores holds where sessions and per-session list state live.
type Stores struct {
	Sessions  ports.SessionStore
	ListState listing.StateStore
	Sequencer listing.Sequencer
	// ViewState drops everything held for a session when it ends.
	ViewState ports.ViewStateCleaner

	// memSessions is set when sessions live in process memory and expired
	// ones have to be swept.
	memSessions *memory.SessionStore
}

// BuildStores uses Redis when a client is given and process memory otherwise.
func BuildStores(client redis.UniversalClient, cfg config.RedisConfig, logger *slog.Logger) Stores {
	if client != nil {
		opts := redisadapter.ListStateOptions{Prefix: cfg.KeyPrefix, TTL: cfg.ListStateTTL}
		// The per-session index covers snapshots and counters alike.
		listState := redisadapter.NewListStateStore(client, opts)
		return Stores{
			Sessions:  redisadapter.NewSessionStore(client, cfg.KeyPrefix+"session:"),
			ListState: listState,
			Sequencer: redisadapter.NewSequencer(client, opts),
			ViewState: listState,
		}
	}
	if logger != nil {
		logger.Warn("redis disabled; sessions and list state are kept in process memory")
	}
	sessions := memory.NewSessionStore()
	listState := listing.NewMemoryStore()
	seq := listing.NewMemorySequencer()
	return Stores{
		Sessions:    sessions,
		ListState:   listState,
		Sequencer:   seq,
		ViewState:   viewStateCleaners{listState, seq},
		memSessions: sessions,
	}
}

// sweeper returns the background loop that expires in-memory sessions, or
// nil when Redis handles expiry.
func (s Stores) sweeper(logger *slog.Logger) *backgroundService {
	if s.memSessions == nil {
		return nil
	}
	return &backgroundService{
		name: "session sweeper",
		start: func(ctx context.Context) error {
			return memory.RunSweeper(ctx, memory.SweeperOptions{
				Sessions:  s.memSessions,
				ViewState: s.ViewState,
				Interval:  sweepInterval,
				Logger:    logger,
			})
		},
	}
}

// viewStateCleaners clears a session from every store in turn.
type viewStateCleaners []ports.ViewStateCleaner

func (c viewStateCleaners) DeleteSession(ctx context.Context, sessionID string) error {
	var errs []error
	for _, cleaner := range c {
		if err := cleaner.DeleteSession(ctx, sessionID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
