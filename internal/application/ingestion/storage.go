package ingestion

import (
	"context"
	"time"
)

// DocumentStorage defines the interface for archiving source documents.
// This interface is implemented by the infrastructure layer (S3 or the stub).
type DocumentStorage interface {
	// Upload stores a document under the given storage key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL generates a presigned URL for retrieving a document.
	// Returns the download URL and its expiration time.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes a document from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if a document exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
