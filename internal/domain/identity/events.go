package identity

import (
	"github.com/farmabill/backend/internal/domain/shared"
)

// Event types for the identity context
const (
	EventPharmacyRegistered = "pharmacy.registered"
)

// PharmacyRegisteredEvent is emitted when a pharmacy tenant signs up
type PharmacyRegisteredEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// NewPharmacyRegisteredEvent creates a pharmacy registered event
func NewPharmacyRegisteredEvent(p *Pharmacy) *PharmacyRegisteredEvent {
	return &PharmacyRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPharmacyRegistered, "Pharmacy", p.ID, p.ID),
		Name:            p.Name,
		Currency:        string(p.DefaultCurrency),
	}
}
