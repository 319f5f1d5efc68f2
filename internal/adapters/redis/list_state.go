package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/backoffice-ui/internal/listing"
)

const (
	defaultListPrefix = "backoffice:"
	defaultListTTL    = 12 * time.Hour
)

// saveIfNewerScript writes the snapshot unless the stored one carries a
// higher sequence number. KEYS: snapshot hash, session index set.
// ARGV: seq, data, ttl in ms.
var saveIfNewerScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'seq')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'seq', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
redis.call('SADD', KEYS[2], KEYS[1])
redis.call('PEXPIRE', KEYS[2], ARGV[3])
return 1
`)

// ListStateOptions configures ListStateStore and Sequencer key layout.
type ListStateOptions struct {
	// Prefix namespaces every key; defaults to "backoffice:".
	Prefix string
	// TTL bounds how long idle list state is kept; defaults to 12h.
	TTL time.Duration
}

func (o ListStateOptions) withDefaults() ListStateOptions {
	if o.Prefix == "" {
		o.Prefix = defaultListPrefix
	}
	if o.TTL <= 0 {
		o.TTL = defaultListTTL
	}
	return o
}

// keys are hash-tagged on the session ID so a session's keys share a
// cluster slot and the scripts stay single-slot.
type keyspace struct{ prefix string }

func (k keyspace) snapshot(key listing.Key) string {
	return fmt.Sprintf("%sliststate:{%s}:%s", k.prefix, key.SessionID, key.Resource)
}

func (k keyspace) sequence(key listing.Key) string {
	return fmt.Sprintf("%slistseq:{%s}:%s", k.prefix, key.SessionID, key.Resource)
}

func (k keyspace) index(sessionID string) string {
	return fmt.Sprintf("%slistkeys:{%s}", k.prefix, sessionID)
}

// ListStateStore implements listing.StateStore on Redis hashes.
type ListStateStore struct {
	client redis.UniversalClient
	keys   keyspace
	ttl    time.Duration
}

// NewListStateStore creates a ListStateStore.
func NewListStateStore(client redis.UniversalClient, opts ListStateOptions) *ListStateStore {
	opts = opts.withDefaults()
	return &ListStateStore{client: client, keys: keyspace{prefix: opts.Prefix}, ttl: opts.TTL}
}

func (s *ListStateStore) Load(ctx context.Context, key listing.Key) ([]byte, error) {
	data, err := s.client.HGet(ctx, s.keys.snapshot(key), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, listing.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis load list state: %w", err)
	}
	return data, nil
}

func (s *ListStateStore) SaveIfNewer(ctx context.Context, key listing.Key, seq uint64, data []byte) (bool, error) {
	keys := []string{s.keys.snapshot(key), s.keys.index(key.SessionID)}
	n, err := saveIfNewerScript.Run(ctx, s.client, keys, seq, data, s.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis save list state: %w", err)
	}
	return n == 1, nil
}

// DeleteSession removes every snapshot and sequence counter of the session.
func (s *ListStateStore) DeleteSession(ctx context.Context, sessionID string) error {
	index := s.keys.index(sessionID)
	members, err := s.client.SMembers(ctx, index).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis list session keys: %w", err)
	}
	keys := append(members, index)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete session keys: %w", err)
	}
	return nil
}

// Sequencer implements listing.Sequencer with INCR counters.
type Sequencer struct {
	client redis.UniversalClient
	keys   keyspace
	ttl    time.Duration
}

// NewSequencer creates a Sequencer sharing ListStateStore's key layout, so
// ListStateStore.DeleteSession also clears the counters.
func NewSequencer(client redis.UniversalClient, opts ListStateOptions) *Sequencer {
	opts = opts.withDefaults()
	return &Sequencer{client: client, keys: keyspace{prefix: opts.Prefix}, ttl: opts.TTL}
}

func (s *Sequencer) Next(ctx context.Context, key listing.Key) (uint64, error) {
	seqKey := s.keys.sequence(key)
	index := s.keys.index(key.SessionID)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, seqKey)
		p.PExpire(ctx, seqKey, s.ttl)
		p.SAdd(ctx, index, seqKey)
		p.PExpire(ctx, index, s.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis next sequence: %w", err)
	}
	return uint64(incr.Val()), nil
}

func (s *Sequencer) Latest(ctx context.Context, key listing.Key) (uint64, error) {
	n, err := s.client.Get(ctx, s.keys.sequence(key)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis latest sequence: %w", err)
	}
	return n, nil
}
