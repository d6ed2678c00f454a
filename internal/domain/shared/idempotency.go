package shared

import (
	"context"
	"time"
)

// IdempotencyStore deduplicates externally-delivered notifications such as
// payment gateway webhooks, which may arrive more than once.
type IdempotencyStore interface {
	// MarkProcessed records a notification ID for ttl. It returns true when
	// the ID was newly recorded and false when it was already present, in
	// which case the caller must skip processing.
	MarkProcessed(ctx context.Context, notificationID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a notification ID has been recorded
	IsProcessed(ctx context.Context, notificationID string) (bool, error)

	// Release removes a recorded notification ID so a later delivery can
	// claim it again. Callers use it when processing failed after the ID
	// was marked, so the gateway retry is not swallowed as a duplicate.
	Release(ctx context.Context, notificationID string) error
}
