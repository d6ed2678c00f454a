package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	billingapp "github.com/farmabill/backend/internal/application/billing"
)

var _ billingapp.DocumentStore = (*StubDocumentStore)(nil)

// StubDocumentStore keeps documents in memory. Used in development and tests
// where no object storage is available.
type StubDocumentStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

// NewStubDocumentStore creates an empty in-memory store
func NewStubDocumentStore() *StubDocumentStore {
	return &StubDocumentStore{
		objects: make(map[string][]byte),
		baseURL: "https://storage.invalid",
	}
}

// Upload stores the document in memory
func (s *StubDocumentStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

// DownloadURL returns a fake URL pointing at the stub host
func (s *StubDocumentStore) DownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return fmt.Sprintf("%s/%s", s.baseURL, key), expiresAt, nil
}

// Exists reports whether the document was uploaded
func (s *StubDocumentStore) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Delete removes the document from memory
func (s *StubDocumentStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Get returns the stored document, for assertions in tests
func (s *StubDocumentStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}
