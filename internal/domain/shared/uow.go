package shared

import "context"

// UnitOfWork runs a function inside a single atomic storage transaction.
// Repository calls made with the context passed to fn join that transaction,
// so multi-aggregate writes commit or roll back together.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
