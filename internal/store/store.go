package store

import (
	"context"
	"time"
)

// Upload is a completed file transfer recorded for the operator dashboard.
type Upload struct {
	ID         int64
	Filename   string
	StoredPath string
	Size       int64
	Uploader   string
	CreatedAt  time.Time
}

// Store persists upload records. Chat messages are intentionally not
// persisted; only transfer metadata is kept.
type Store interface {
	// RecordUpload inserts a completed upload and returns its ID.
	RecordUpload(ctx context.Context, up *Upload) (int64, error)

	// ListUploads returns the most recent uploads, newest first.
	ListUploads(ctx context.Context, limit int) ([]Upload, error)

	// Close releases the underlying database.
	Close() error
}
