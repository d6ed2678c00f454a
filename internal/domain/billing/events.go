package billing

import (
	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// Event types for the transaction aggregate
const (
	EventTransactionCreated   = "transaction.created"
	EventTransactionPaid      = "transaction.paid"
	EventTransactionFailed    = "transaction.failed"
	EventTransactionCancelled = "transaction.cancelled"
	EventTransactionRefunded  = "transaction.refunded"
)

const aggregateTypeTransaction = "Transaction"

// TransactionCreatedEvent is emitted when a transaction is created
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID    uuid.UUID         `json:"client_id"`
	Number      string            `json:"number"`
	Type        Type              `json:"transaction_type"`
	TotalAmount valueobject.Money `json:"total_amount"`
}

// NewTransactionCreatedEvent creates a transaction created event
func NewTransactionCreatedEvent(t *Transaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransactionCreated, aggregateTypeTransaction, t.ID, t.TenantID),
		ClientID:        t.ClientID,
		Number:          t.Number,
		Type:            t.Type,
		TotalAmount:     t.TotalAmount,
	}
}

// TransactionPaidEvent is emitted when a payment completes
type TransactionPaidEvent struct {
	shared.BaseDomainEvent
	ClientID      uuid.UUID         `json:"client_id"`
	Number        string            `json:"number"`
	TotalAmount   valueobject.Money `json:"total_amount"`
	PaymentMethod string            `json:"payment_method"`
}

// NewTransactionPaidEvent creates a transaction paid event
func NewTransactionPaidEvent(t *Transaction) *TransactionPaidEvent {
	return &TransactionPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransactionPaid, aggregateTypeTransaction, t.ID, t.TenantID),
		ClientID:        t.ClientID,
		Number:          t.Number,
		TotalAmount:     t.TotalAmount,
		PaymentMethod:   t.PaymentMethod,
	}
}

// TransactionFailedEvent is emitted when a payment attempt fails
type TransactionFailedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason,omitempty"`
}

// NewTransactionFailedEvent creates a transaction failed event
func NewTransactionFailedEvent(t *Transaction, reason string) *TransactionFailedEvent {
	return &TransactionFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransactionFailed, aggregateTypeTransaction, t.ID, t.TenantID),
		Number:          t.Number,
		Reason:          reason,
	}
}

// TransactionCancelledEvent is emitted when a transaction is cancelled
type TransactionCancelledEvent struct {
	shared.BaseDomainEvent
	Number      string    `json:"number"`
	CancelledBy uuid.UUID `json:"cancelled_by"`
	Reason      string    `json:"reason,omitempty"`
}

// NewTransactionCancelledEvent creates a transaction cancelled event
func NewTransactionCancelledEvent(t *Transaction, cancelledBy uuid.UUID, reason string) *TransactionCancelledEvent {
	return &TransactionCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransactionCancelled, aggregateTypeTransaction, t.ID, t.TenantID),
		Number:          t.Number,
		CancelledBy:     cancelledBy,
		Reason:          reason,
	}
}

// TransactionRefundedEvent is emitted when a completed transaction is refunded
type TransactionRefundedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason,omitempty"`
}

// NewTransactionRefundedEvent creates a transaction refunded event
func NewTransactionRefundedEvent(t *Transaction, reason string) *TransactionRefundedEvent {
	return &TransactionRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransactionRefunded, aggregateTypeTransaction, t.ID, t.TenantID),
		Number:          t.Number,
		Reason:          reason,
	}
}
