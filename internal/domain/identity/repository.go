package identity

import (
	"context"

	"github.com/google/uuid"
)

// PharmacyRepository is the persistence contract for pharmacy tenants
type PharmacyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Pharmacy, error)
	FindByName(ctx context.Context, name string) (*Pharmacy, error)
	Save(ctx context.Context, p *Pharmacy) error
}

// UserRepository is the persistence contract for user accounts. Email is
// unique per pharmacy.
type UserRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
}
