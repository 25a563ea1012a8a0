package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/taxdesk/backend/internal/application/ingestion"
)

// Ensure StubDocumentStorage implements DocumentStorage
var _ ingestion.DocumentStorage = (*StubDocumentStorage)(nil)

// StubDocumentStorage keeps uploaded documents in memory. It backs local
// development and tests where no S3-compatible backend is running.
type StubDocumentStorage struct {
	// BaseURL is the base URL for generated download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubDocumentStorage creates a new StubDocumentStorage
func NewStubDocumentStorage() *StubDocumentStorage {
	return &StubDocumentStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Upload stores a document in memory
func (s *StubDocumentStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[storageKey] = stored
	return nil
}

// GenerateDownloadURL generates a fake presigned URL for a stored document
func (s *StubDocumentStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)
	return url, expiresAt, nil
}

// DeleteObject removes a document from memory
func (s *StubDocumentStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists checks if a document was uploaded
func (s *StubDocumentStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// Get returns a stored document's content, for tests and local inspection
func (s *StubDocumentStorage) Get(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	return data, ok
}
