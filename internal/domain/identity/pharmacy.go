package identity

import (
	"strings"

	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// PharmacyStatus represents the status of a pharmacy tenant
type PharmacyStatus string

const (
	PharmacyStatusActive    PharmacyStatus = "active"
	PharmacyStatusInactive  PharmacyStatus = "inactive"
	PharmacyStatusSuspended PharmacyStatus = "suspended"
)

// IsValid checks if the status is a known value
func (s PharmacyStatus) IsValid() bool {
	switch s {
	case PharmacyStatusActive, PharmacyStatusInactive, PharmacyStatusSuspended:
		return true
	}
	return false
}

// Pharmacy is the tenant aggregate. Every client, transaction and user in
// the system is scoped to exactly one pharmacy.
type Pharmacy struct {
	shared.BaseAggregateRoot
	Name            string
	BusinessName    string
	TaxID           string
	ContactEmail    string
	ContactPhone    string
	Address         string
	DefaultCurrency valueobject.Currency
	Status          PharmacyStatus
	Notes           string
}

// NewPharmacy registers a pharmacy tenant with its default billing currency
func NewPharmacy(name string, currency valueobject.Currency) (*Pharmacy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "pharmacy name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("name", "pharmacy name cannot exceed 200 characters")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("currency", "invalid default currency")
	}

	p := &Pharmacy{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		DefaultCurrency:   currency,
		Status:            PharmacyStatusActive,
	}

	p.AddDomainEvent(NewPharmacyRegisteredEvent(p))
	return p, nil
}

// IsActive reports whether the pharmacy may operate
func (p *Pharmacy) IsActive() bool {
	return p.Status == PharmacyStatusActive
}

// Suspend suspends the pharmacy (payment or compliance issues)
func (p *Pharmacy) Suspend() {
	if p.Status == PharmacyStatusSuspended {
		return
	}
	p.Status = PharmacyStatusSuspended
	p.MarkUpdated()
	p.IncrementVersion()
}

// Activate reactivates a suspended or inactive pharmacy
func (p *Pharmacy) Activate() {
	if p.Status == PharmacyStatusActive {
		return
	}
	p.Status = PharmacyStatusActive
	p.MarkUpdated()
	p.IncrementVersion()
}

// Deactivate deactivates the pharmacy
func (p *Pharmacy) Deactivate() {
	if p.Status == PharmacyStatusInactive {
		return
	}
	p.Status = PharmacyStatusInactive
	p.MarkUpdated()
	p.IncrementVersion()
}

// UpdateContactInfo replaces the contact fields
func (p *Pharmacy) UpdateContactInfo(email, phone, address string) {
	p.ContactEmail = strings.TrimSpace(email)
	p.ContactPhone = strings.TrimSpace(phone)
	p.Address = strings.TrimSpace(address)
	p.MarkUpdated()
	p.IncrementVersion()
}
