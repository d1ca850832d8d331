package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
)

// MemoryStore keeps the encoded snapshot in process memory. It mirrors
// the browser-local-storage variant and doubles as the test backend.
// State does not survive a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load decodes the held document, falling back to the empty snapshot.
func (s *MemoryStore) Load(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if len(data) == 0 {
		return domain.NewSnapshot(), nil
	}
	snap := domain.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return domain.NewSnapshot(), nil
	}
	return snap, nil
}

// Save encodes and retains the document.
func (s *MemoryStore) Save(_ context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() {}
