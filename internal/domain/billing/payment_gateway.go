package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment gateway errors surfaced by adapters
var (
	ErrGatewayNotConfigured   = errors.New("payment: gateway not configured")
	ErrGatewayRequestFailed   = errors.New("payment: gateway request failed")
	ErrGatewayInvalidResponse = errors.New("payment: invalid gateway response")
	ErrGatewayInvalidCallback = errors.New("payment: invalid callback signature")
	ErrGatewayPaymentNotFound = errors.New("payment: payment not found in gateway")
)

// GatewayPaymentStatus is the payment state as reported by the gateway
type GatewayPaymentStatus string

const (
	GatewayPaymentPending   GatewayPaymentStatus = "pending"
	GatewayPaymentApproved  GatewayPaymentStatus = "approved"
	GatewayPaymentRejected  GatewayPaymentStatus = "rejected"
	GatewayPaymentCancelled GatewayPaymentStatus = "cancelled"
	GatewayPaymentRefunded  GatewayPaymentStatus = "refunded"
)

// CreatePreferenceRequest asks the gateway for a hosted checkout link for a
// pending transaction.
type CreatePreferenceRequest struct {
	TenantID          uuid.UUID
	TransactionID     uuid.UUID
	TransactionNumber string
	Amount            decimal.Decimal
	Currency          string
	Title             string
	Description       string
	PayerPhone        string
	NotificationURL   string
	ExpiresAt         time.Time
}

// PaymentPreference is the gateway's checkout handle for a transaction
type PaymentPreference struct {
	PreferenceID string
	PaymentLink  string
	ExpiresAt    time.Time
}

// GatewayPayment is the gateway's view of one payment attempt
type GatewayPayment struct {
	PaymentID         string
	PreferenceID      string
	TransactionNumber string
	Status            GatewayPaymentStatus
	Amount            decimal.Decimal
	Currency          string
	PaymentMethod     string
	PaidAt            *time.Time
}

// WebhookNotification is a parsed, signature-verified gateway callback
type WebhookNotification struct {
	EventID   string
	EventType string
	PaymentID string
	Received  time.Time
}

// PaymentGateway is the port to the external payment provider. The
// MercadoPago adapter in infrastructure/payment implements it.
type PaymentGateway interface {
	// CreatePreference creates a hosted checkout preference and returns
	// the link the client pays through.
	CreatePreference(ctx context.Context, req *CreatePreferenceRequest) (*PaymentPreference, error)

	// GetPayment fetches the current state of a payment from the gateway
	GetPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)

	// VerifyWebhook checks the callback signature and parses the
	// notification. Returns ErrGatewayInvalidCallback on a bad signature.
	VerifyWebhook(payload []byte, signature, requestID string) (*WebhookNotification, error)
}
