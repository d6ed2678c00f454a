package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/shared"
)

// Repository is the persistence contract for the client aggregate. All
// lookups are scoped by tenant; uniqueness of (tenant, phone) is enforced
// here, not in the aggregate.
type Repository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindByPhone(ctx context.Context, tenantID uuid.UUID, normalizedPhone string) (*Client, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Client], error)
	FindWithDebt(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Client], error)
	FindByTag(ctx context.Context, tenantID uuid.UUID, tag string, filter shared.Filter) (shared.Paginated[*Client], error)
	Search(ctx context.Context, tenantID uuid.UUID, query string, filter shared.Filter) (shared.Paginated[*Client], error)
	Save(ctx context.Context, c *Client) error
	// SaveWithLock persists with an optimistic version check and returns
	// ConcurrencyConflictError when the row was modified concurrently.
	SaveWithLock(ctx context.Context, c *Client) error
}
