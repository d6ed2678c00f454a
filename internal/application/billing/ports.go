package billing

import (
	"context"
	"time"
)

// DocumentStore persists rendered invoice documents. Implemented by the
// S3-backed store and an in-memory stub in infrastructure/storage.
type DocumentStore interface {
	// Upload stores a document under key
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// DownloadURL returns a time-limited URL for fetching the document
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)

	// Exists reports whether a document is stored under key
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the document under key
	Delete(ctx context.Context, key string) error
}

// InvoiceRenderer produces a printable document for a transaction.
// Implemented by the HTML renderer in infrastructure/invoice.
type InvoiceRenderer interface {
	Render(ctx context.Context, data *InvoiceData) ([]byte, error)
}
