package cache

import (
	"context"
	"sync"
	"time"

	"github.com/farmabill/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore implements shared.IdempotencyStore with a map.
// Suitable for tests and single-instance deployments.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time // notification ID -> entry expiration
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{entries: make(map[string]time.Time)}
}

// MarkProcessed records the notification ID unless a live entry exists
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, notificationID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, exists := s.entries[notificationID]; exists && time.Now().Before(expiresAt) {
		return false, nil
	}
	s.entries[notificationID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether a live entry exists for the notification ID
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, notificationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, exists := s.entries[notificationID]
	if !exists || time.Now().After(expiresAt) {
		return false, nil
	}
	return true, nil
}

// Release removes the entry for a notification ID
func (s *InMemoryIdempotencyStore) Release(_ context.Context, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, notificationID)
	return nil
}

// Prune drops expired entries. Callers may run it periodically on
// long-lived stores.
func (s *InMemoryIdempotencyStore) Prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, expiresAt := range s.entries {
		if now.After(expiresAt) {
			delete(s.entries, id)
		}
	}
}

// Size returns the number of stored entries
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
