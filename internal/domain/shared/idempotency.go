package shared

import (
	"context"
	"time"
)

// IdempotencyStore tracks keys that have already been processed so repeated
// statement uploads and webhook deliveries do not create duplicate records.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL. Returns true if the
	// key was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether a key has already been processed.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
