package persistence

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryTranscriptStore is an in-memory implementation of TranscriptStore.
// Suitable for tests and single-process runs.
type MemoryTranscriptStore struct {
	mu        sync.RWMutex
	exchanges map[string][]*Exchange // key: negotiationID + "/" + role
}

// NewMemoryTranscriptStore creates an empty in-memory transcript store.
func NewMemoryTranscriptStore() *MemoryTranscriptStore {
	return &MemoryTranscriptStore{
		exchanges: make(map[string][]*Exchange),
	}
}

func transcriptKey(negotiationID, role string) string {
	return negotiationID + "/" + role
}

// Append persists a single exchange.
func (s *MemoryTranscriptStore) Append(ctx context.Context, ex *Exchange) error {
	if ex == nil {
		return ErrInvalidInput
	}
	cp := *ex
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := transcriptKey(cp.NegotiationID, cp.Role)
	s.exchanges[key] = append(s.exchanges[key], &cp)
	return nil
}

// History returns a role's committed exchanges, oldest first.
func (s *MemoryTranscriptStore) History(ctx context.Context, negotiationID, role string, limit int) ([]*Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.exchanges[transcriptKey(negotiationID, role)]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]*Exchange, len(all))
	copy(out, all)
	return out, nil
}

// NegotiationIDs returns the distinct negotiation IDs with stored history.
func (s *MemoryTranscriptStore) NegotiationIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for key := range s.exchanges {
		id, _, ok := strings.Cut(key, "/")
		if ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// Close is a no-op for the in-memory store.
func (s *MemoryTranscriptStore) Close() error {
	return nil
}
