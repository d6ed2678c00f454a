package client

import (
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// Event types for the client aggregate
const (
	EventClientCreated            = "client.created"
	EventClientCharged            = "client.charged"
	EventClientPaymentReceived    = "client.payment_received"
	EventClientStatusChanged      = "client.status_changed"
	EventClientCreditLimitChanged = "client.credit_limit_changed"
)

const aggregateTypeClient = "Client"

// ClientCreatedEvent is emitted when a client is registered
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Phone       string `json:"phone"`
	DisplayName string `json:"display_name"`
}

// NewClientCreatedEvent creates a client created event
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientCreated, aggregateTypeClient, c.ID, c.TenantID),
		Phone:           c.Phone.Normalized(),
		DisplayName:     c.DisplayName(),
	}
}

// ClientChargedEvent is emitted when a charge is applied to the ledger
type ClientChargedEvent struct {
	shared.BaseDomainEvent
	Amount      valueobject.Money `json:"amount"`
	Description string            `json:"description,omitempty"`
	NewBalance  valueobject.Money `json:"new_balance"`
}

// NewClientChargedEvent creates a client charged event
func NewClientChargedEvent(c *Client, amount valueobject.Money, description string) *ClientChargedEvent {
	return &ClientChargedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientCharged, aggregateTypeClient, c.ID, c.TenantID),
		Amount:          amount,
		Description:     description,
		NewBalance:      c.Balance.CurrentBalance(),
	}
}

// ClientPaymentReceivedEvent is emitted when a payment is applied
type ClientPaymentReceivedEvent struct {
	shared.BaseDomainEvent
	Amount     valueobject.Money `json:"amount"`
	NewBalance valueobject.Money `json:"new_balance"`
}

// NewClientPaymentReceivedEvent creates a payment received event
func NewClientPaymentReceivedEvent(c *Client, amount valueobject.Money) *ClientPaymentReceivedEvent {
	return &ClientPaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientPaymentReceived, aggregateTypeClient, c.ID, c.TenantID),
		Amount:          amount,
		NewBalance:      c.Balance.CurrentBalance(),
	}
}

// ClientStatusChangedEvent is emitted on a status transition
type ClientStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// NewClientStatusChangedEvent creates a status changed event
func NewClientStatusChangedEvent(c *Client, oldStatus, newStatus Status) *ClientStatusChangedEvent {
	return &ClientStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientStatusChanged, aggregateTypeClient, c.ID, c.TenantID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// ClientCreditLimitChangedEvent is emitted when the credit limit changes
type ClientCreditLimitChangedEvent struct {
	shared.BaseDomainEvent
	OldLimit valueobject.Money `json:"old_limit"`
	NewLimit valueobject.Money `json:"new_limit"`
}

// NewClientCreditLimitChangedEvent creates a credit limit changed event
func NewClientCreditLimitChangedEvent(c *Client, oldLimit, newLimit valueobject.Money) *ClientCreditLimitChangedEvent {
	return &ClientCreditLimitChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientCreditLimitChanged, aggregateTypeClient, c.ID, c.TenantID),
		OldLimit:        oldLimit,
		NewLimit:        newLimit,
	}
}
