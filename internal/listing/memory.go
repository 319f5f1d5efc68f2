package listing

import (
	"context"
	"sync"
)

type memoryEntry struct {
	seq  uint64
	data []byte
}

// MemoryStore is an in-process StateStore used in tests and when Redis is
// not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[Key]memoryEntry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key]memoryEntry)}
}

func (m *MemoryStore) Load(_ context.Context, key Key) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return append([]byte(nil), e.data...), nil
}

func (m *MemoryStore) SaveIfNewer(_ context.Context, key Key, seq uint64, data []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && seq < e.seq {
		return false, nil
	}
	m.entries[key] = memoryEntry{seq: seq, data: append([]byte(nil), data...)}
	return true, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if k.SessionID == sessionID {
			delete(m.entries, k)
		}
	}
	return nil
}

// Len reports how many snapshots are held for the session.
func (m *MemoryStore) Len(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.entries {
		if k.SessionID == sessionID {
			n++
		}
	}
	return n
}

// MemorySequencer is an in-process Sequencer.
type MemorySequencer struct {
	mu   sync.Mutex
	last map[Key]uint64
}

// NewMemorySequencer returns a MemorySequencer starting at zero for every key.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{last: make(map[Key]uint64)}
}

func (s *MemorySequencer) Next(_ context.Context, key Key) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[key]++
	return s.last[key], nil
}

func (s *MemorySequencer) Latest(_ context.Context, key Key) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[key], nil
}

// DeleteSession forgets every counter issued for the session.
func (s *MemorySequencer) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.last {
		if k.SessionID == sessionID {
			delete(s.last, k)
		}
	}
	return nil
}

// Len reports how many counters are held for the session.
func (s *MemorySequencer) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.last {
		if k.SessionID == sessionID {
			n++
		}
	}
	return n
}
