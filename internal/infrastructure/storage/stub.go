// Package storage provides object storage implementations for product images.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	catalogapp "github.com/retailpos/backend/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*StubImageStorage)(nil)

// StubImageStorage keeps images in memory. Used in development and tests
// when no object storage backend is configured.
type StubImageStorage struct {
	// BaseURL is the base for generated download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubImageStorage creates a new in-memory image store
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Upload stores image bytes under the given key
func (s *StubImageStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.objects[key] = buf
	s.mu.Unlock()
	return nil
}

// DownloadURL generates a stable fake URL for a stored image
func (s *StubImageStorage) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(15 * time.Minute)
	return s.BaseURL + "/" + key, expiresAt, nil
}

// Delete removes an image
func (s *StubImageStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Has reports whether a key is stored, for tests
func (s *StubImageStorage) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}
