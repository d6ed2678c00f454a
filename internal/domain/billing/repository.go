package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/shared"
)

// Repository is the persistence contract for the transaction aggregate
type Repository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Transaction, error)
	// FindByGatewayPaymentID resolves a webhook callback to its transaction;
	// gateway payment ids are globally unique so no tenant scope applies.
	FindByGatewayPaymentID(ctx context.Context, paymentID string) (*Transaction, error)
	// FindByGatewayPreferenceID resolves a checkout preference to its
	// transaction. The first webhook for a payment arrives before the
	// payment id has been recorded, so the preference id is the fallback
	// correlation key.
	FindByGatewayPreferenceID(ctx context.Context, preferenceID string) (*Transaction, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Transaction], error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) (shared.Paginated[*Transaction], error)
	FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Transaction], error)
	Save(ctx context.Context, t *Transaction) error
	// SaveWithLock persists with an optimistic version check and returns
	// ConcurrencyConflictError when the row was modified concurrently.
	SaveWithLock(ctx context.Context, t *Transaction) error
	// NextSequence atomically allocates the next number in the
	// (tenant, type, day) counter.
	NextSequence(ctx context.Context, tenantID uuid.UUID, txType Type, day time.Time) (int, error)
}
