package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxdesk/backend/internal/infrastructure/config"
)

func validStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Provider:        "s3",
		Bucket:          "taxdesk-documents",
		Region:          "ap-south-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		ForcePathStyle:  true,
	}
}

func TestNewS3DocumentStorage(t *testing.T) {
	t.Run("constructs client from config", func(t *testing.T) {
		storage, err := NewS3DocumentStorage(validStorageConfig())
		require.NoError(t, err)
		assert.Equal(t, "taxdesk-documents", storage.GetBucket())
	})

	t.Run("rejects nil config", func(t *testing.T) {
		_, err := NewS3DocumentStorage(nil)
		assert.Error(t, err)
	})

	t.Run("rejects missing bucket", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.Bucket = ""
		_, err := NewS3DocumentStorage(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.SecretAccessKey = ""
		_, err := NewS3DocumentStorage(cfg)
		assert.Error(t, err)
	})
}
