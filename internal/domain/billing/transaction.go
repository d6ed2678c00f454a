package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// Type classifies a financial transaction
type Type string

const (
	TypeInvoice    Type = "invoice"
	TypePayment    Type = "payment"
	TypeCreditNote Type = "credit_note"
	TypeDebitNote  Type = "debit_note"
)

// IsValid checks if the type is a known value
func (t Type) IsValid() bool {
	switch t {
	case TypeInvoice, TypePayment, TypeCreditNote, TypeDebitNote:
		return true
	}
	return false
}

// IsCharge reports whether the type increases the client's debt
func (t Type) IsCharge() bool {
	return t == TypeInvoice || t == TypeDebitNote
}

// PaymentStatus is the state of a transaction in the payment lifecycle
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsValid checks if the status is a known value
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCancelled || s == PaymentStatusRefunded
}

// itemTolerance is the rounding slack allowed between an item total and
// quantity times unit price.
var itemTolerance = decimal.NewFromFloat(0.01)

// TransactionItem is a single line item on a transaction
type TransactionItem struct {
	Name      string
	Quantity  int64
	UnitPrice valueobject.Money
	Total     valueobject.Money
}

// NewTransactionItem creates a validated line item. The total must equal
// quantity times unit price within a 0.01 tolerance.
func NewTransactionItem(name string, quantity int64, unitPrice, total valueobject.Money) (TransactionItem, error) {
	if name == "" {
		return TransactionItem{}, shared.NewValidationError("name", "item name cannot be empty")
	}
	if quantity <= 0 {
		return TransactionItem{}, shared.NewValidationError("quantity", "quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return TransactionItem{}, shared.NewValidationError("unit_price", "unit price cannot be negative")
	}

	expected := unitPrice.MultiplyByInt(quantity)
	diff, err := total.Subtract(expected)
	if err != nil {
		return TransactionItem{}, err
	}
	if diff.Abs().Amount().GreaterThan(itemTolerance) {
		return TransactionItem{}, shared.NewValidationError("total",
			fmt.Sprintf("total %s doesn't match quantity * unit_price = %s", total, expected))
	}

	return TransactionItem{Name: name, Quantity: quantity, UnitPrice: unitPrice, Total: total}, nil
}

// Transaction is the aggregate for one financial event: invoice, payment,
// credit note or debit note. Amount fields are fixed at creation; only the
// payment status, payment metadata and gateway correlation fields change
// afterwards.
type Transaction struct {
	shared.TenantAggregateRoot

	ClientID uuid.UUID
	Number   string
	Type     Type

	// Amounts; all share the total's currency
	Amount         *valueobject.Money
	TaxAmount      valueobject.Money
	DiscountAmount valueobject.Money
	TotalAmount    valueobject.Money

	PaymentMethod string
	PaymentStatus PaymentStatus

	// Payment gateway correlation
	GatewayPaymentID    string
	GatewayPaymentLink  string
	GatewayPreferenceID string

	Description string
	Items       []TransactionItem

	// Invoice document
	InvoiceDocumentPath string
	InvoiceSentAt       *time.Time

	TransactionDate time.Time
	DueDate         *time.Time
	PaidAt          *time.Time

	CancelledAt *time.Time
	CancelledBy *uuid.UUID

	Metadata map[string]string
}

// NewTransactionParams carries the creation-time fields of a transaction
type NewTransactionParams struct {
	PharmacyID  uuid.UUID
	ClientID    uuid.UUID
	Number      string
	Type        Type
	TotalAmount valueobject.Money

	Amount         *valueobject.Money
	TaxAmount      *valueobject.Money
	DiscountAmount *valueobject.Money

	Description     string
	TransactionDate time.Time
	DueDate         *time.Time
}

// NewTransaction creates a pending transaction. The transaction date
// defaults to today when unset.
func NewTransaction(params NewTransactionParams) (*Transaction, error) {
	if params.PharmacyID == uuid.Nil {
		return nil, shared.NewValidationError("pharmacy_id", "transaction must belong to a pharmacy")
	}
	if params.ClientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "transaction must reference a client")
	}
	if params.Number == "" {
		return nil, shared.NewValidationError("transaction_number", "transaction number cannot be empty")
	}
	if !params.Type.IsValid() {
		return nil, shared.NewValidationError("transaction_type", fmt.Sprintf("invalid transaction type: %s", params.Type))
	}
	if params.TotalAmount.IsNegative() && params.Type.IsCharge() {
		return nil, shared.NewValidationError("total_amount", fmt.Sprintf("%s cannot have negative amount", params.Type))
	}

	currency := params.TotalAmount.Currency()

	tax := valueobject.Zero(currency)
	if params.TaxAmount != nil {
		tax = *params.TaxAmount
	}
	discount := valueobject.Zero(currency)
	if params.DiscountAmount != nil {
		discount = *params.DiscountAmount
	}

	for field, m := range map[string]*valueobject.Money{
		"amount":          params.Amount,
		"tax_amount":      &tax,
		"discount_amount": &discount,
	} {
		if m != nil && m.Currency() != currency {
			return nil, shared.NewValidationError(field, "currency mismatch in transaction amounts")
		}
	}

	txDate := params.TransactionDate
	if txDate.IsZero() {
		txDate = time.Now()
	}

	tx := &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(params.PharmacyID),
		ClientID:            params.ClientID,
		Number:              params.Number,
		Type:                params.Type,
		Amount:              params.Amount,
		TaxAmount:           tax,
		DiscountAmount:      discount,
		TotalAmount:         params.TotalAmount,
		PaymentStatus:       PaymentStatusPending,
		Description:         params.Description,
		Items:               make([]TransactionItem, 0),
		TransactionDate:     txDate,
		DueDate:             params.DueDate,
		Metadata:            make(map[string]string),
	}

	tx.AddDomainEvent(NewTransactionCreatedEvent(tx))
	return tx, nil
}

// IsPaid reports whether the transaction completed payment
func (t *Transaction) IsPaid() bool {
	return t.PaymentStatus == PaymentStatusCompleted
}

// IsPending reports whether payment is still pending
func (t *Transaction) IsPending() bool {
	return t.PaymentStatus == PaymentStatusPending
}

// IsCancelled reports whether the transaction was cancelled
func (t *Transaction) IsCancelled() bool {
	return t.PaymentStatus == PaymentStatusCancelled
}

// IsOverdue reports whether an unpaid, uncancelled transaction has passed
// its due date.
func (t *Transaction) IsOverdue() bool {
	if t.DueDate == nil || t.IsPaid() || t.IsCancelled() {
		return false
	}
	return time.Now().After(endOfDay(*t.DueDate))
}

// DaysOverdue returns the number of days past due, or 0
func (t *Transaction) DaysOverdue() int {
	if !t.IsOverdue() {
		return 0
	}
	return int(truncateToDay(time.Now()).Sub(truncateToDay(*t.DueDate)).Hours() / 24)
}

func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}

func truncateToDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// CalculateTotal recomputes the total from the base amount (or the item
// sum when no base amount is set) plus tax minus discount.
func (t *Transaction) CalculateTotal() (valueobject.Money, error) {
	base := valueobject.Zero(t.TotalAmount.Currency())
	if t.Amount != nil {
		base = *t.Amount
	} else {
		for _, item := range t.Items {
			summed, err := base.Add(item.Total)
			if err != nil {
				return valueobject.Money{}, err
			}
			base = summed
		}
	}

	withTax, err := base.Add(t.TaxAmount)
	if err != nil {
		return valueobject.Money{}, err
	}
	return withTax.Subtract(t.DiscountAmount)
}

// MarkAsPaid completes the payment, recording the method and timestamp.
// Allowed from pending and failed; completed, cancelled and refunded
// transactions reject the transition.
func (t *Transaction) MarkAsPaid(method string, paidAt *time.Time) error {
	if t.IsPaid() || t.PaymentStatus.IsTerminal() {
		return shared.NewInvalidStateTransitionError("transaction", string(t.PaymentStatus), string(PaymentStatusCompleted))
	}

	when := time.Now()
	if paidAt != nil {
		when = *paidAt
	}

	t.PaymentStatus = PaymentStatusCompleted
	t.PaymentMethod = method
	t.PaidAt = &when
	t.MarkUpdated()
	t.IncrementVersion()
	t.AddDomainEvent(NewTransactionPaidEvent(t))
	return nil
}

// MarkAsFailed records a failed payment attempt. Failed is not terminal; a
// later MarkAsPaid may still succeed.
func (t *Transaction) MarkAsFailed(reason string) error {
	if t.PaymentStatus.IsTerminal() {
		return shared.NewInvalidStateTransitionError("transaction", string(t.PaymentStatus), string(PaymentStatusFailed))
	}

	t.PaymentStatus = PaymentStatusFailed
	if reason != "" {
		t.Metadata["failure_reason"] = reason
	}
	t.MarkUpdated()
	t.IncrementVersion()
	t.AddDomainEvent(NewTransactionFailedEvent(t, reason))
	return nil
}

// Cancel cancels the transaction, recording who did it and why. Completed
// and refunded transactions cannot be cancelled; cancelling twice is a
// no-op.
func (t *Transaction) Cancel(cancelledBy uuid.UUID, reason string) error {
	if t.IsCancelled() {
		return nil
	}
	if t.IsPaid() || t.PaymentStatus == PaymentStatusRefunded {
		return shared.NewInvalidStateTransitionError("transaction", string(t.PaymentStatus), string(PaymentStatusCancelled))
	}

	now := time.Now()
	t.PaymentStatus = PaymentStatusCancelled
	t.CancelledAt = &now
	t.CancelledBy = &cancelledBy
	if reason != "" {
		t.Metadata["cancellation_reason"] = reason
	}
	t.MarkUpdated()
	t.IncrementVersion()
	t.AddDomainEvent(NewTransactionCancelledEvent(t, cancelledBy, reason))
	return nil
}

// Refund refunds a completed transaction
func (t *Transaction) Refund(reason string) error {
	if !t.IsPaid() {
		return shared.NewInvalidStateTransitionError("transaction", string(t.PaymentStatus), string(PaymentStatusRefunded))
	}

	t.PaymentStatus = PaymentStatusRefunded
	if reason != "" {
		t.Metadata["refund_reason"] = reason
	}
	t.MarkUpdated()
	t.IncrementVersion()
	t.AddDomainEvent(NewTransactionRefundedEvent(t, reason))
	return nil
}

// AddItem appends a line item. The item currency must match the
// transaction currency.
func (t *Transaction) AddItem(item TransactionItem) error {
	if item.Total.Currency() != t.TotalAmount.Currency() {
		return shared.NewValidationError("items",
			fmt.Sprintf("item currency %s doesn't match transaction currency %s", item.Total.Currency(), t.TotalAmount.Currency()))
	}

	t.Items = append(t.Items, item)
	t.MarkUpdated()
	t.IncrementVersion()
	return nil
}

// SetGatewayDetails records the payment gateway correlation ids. Empty
// arguments leave the existing values in place.
func (t *Transaction) SetGatewayDetails(paymentID, paymentLink, preferenceID string) {
	if paymentID != "" {
		t.GatewayPaymentID = paymentID
	}
	if paymentLink != "" {
		t.GatewayPaymentLink = paymentLink
	}
	if preferenceID != "" {
		t.GatewayPreferenceID = preferenceID
	}
	t.MarkUpdated()
	t.IncrementVersion()
}

// AttachInvoiceDocument records where the rendered invoice is stored
func (t *Transaction) AttachInvoiceDocument(path string) {
	t.InvoiceDocumentPath = path
	t.MarkUpdated()
	t.IncrementVersion()
}

// MarkInvoiceSent stamps the time the invoice went out to the client
func (t *Transaction) MarkInvoiceSent() {
	now := time.Now()
	t.InvoiceSentAt = &now
	t.MarkUpdated()
	t.IncrementVersion()
}
