package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/domain/client"
	"github.com/farmabill/backend/internal/domain/shared"
)

const (
	// preferenceTTL is how long a checkout link stays payable
	preferenceTTL = 48 * time.Hour
	// webhookDedupTTL is how long a processed notification id is remembered
	webhookDedupTTL = 7 * 24 * time.Hour
)

// PaymentService drives the payment gateway integration: checkout link
// creation for pending transactions and idempotent webhook processing.
type PaymentService struct {
	transactions billing.Repository
	clients      client.Repository
	gateway      billing.PaymentGateway
	idempotency  shared.IdempotencyStore
	uow          shared.UnitOfWork
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	transactions billing.Repository,
	clients client.Repository,
	gateway billing.PaymentGateway,
	idempotency shared.IdempotencyStore,
	uow shared.UnitOfWork,
) *PaymentService {
	return &PaymentService{
		transactions: transactions,
		clients:      clients,
		gateway:      gateway,
		idempotency:  idempotency,
		uow:          uow,
	}
}

// CreatePaymentLink asks the gateway for a hosted checkout preference for a
// pending transaction and records the correlation ids on it.
func (s *PaymentService) CreatePaymentLink(ctx context.Context, pharmacyID, transactionID uuid.UUID) (*PaymentLinkResponse, error) {
	tx, err := s.transactions.FindByID(ctx, pharmacyID, transactionID)
	if err != nil {
		return nil, err
	}
	if !tx.IsPending() {
		return nil, shared.NewBusinessRuleViolation("payment_link",
			fmt.Sprintf("payment link requires a pending transaction, got %s", tx.PaymentStatus))
	}

	c, err := s.clients.FindByID(ctx, pharmacyID, tx.ClientID)
	if err != nil {
		return nil, err
	}

	title := tx.Description
	if title == "" {
		title = fmt.Sprintf("Factura %s", tx.Number)
	}

	preference, err := s.gateway.CreatePreference(ctx, &billing.CreatePreferenceRequest{
		TenantID:          pharmacyID,
		TransactionID:     tx.ID,
		TransactionNumber: tx.Number,
		Amount:            tx.TotalAmount.Amount(),
		Currency:          string(tx.TotalAmount.Currency()),
		Title:             title,
		Description:       tx.Description,
		PayerPhone:        c.Phone.Normalized(),
		ExpiresAt:         time.Now().Add(preferenceTTL),
	})
	if err != nil {
		return nil, err
	}

	tx.SetGatewayDetails("", preference.PaymentLink, preference.PreferenceID)
	if err := s.transactions.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	return &PaymentLinkResponse{
		TransactionID: tx.ID,
		PreferenceID:  preference.PreferenceID,
		PaymentLink:   preference.PaymentLink,
		ExpiresAt:     preference.ExpiresAt,
	}, nil
}

// ProcessWebhook verifies a gateway callback, deduplicates it, fetches the
// payment state and applies it to the transaction and the client ledger.
// Redelivered notifications are acknowledged without reprocessing.
func (s *PaymentService) ProcessWebhook(ctx context.Context, payload []byte, signature, requestID string) (*WebhookResult, error) {
	notification, err := s.gateway.VerifyWebhook(payload, signature, requestID)
	if err != nil {
		return nil, err
	}

	first, err := s.idempotency.MarkProcessed(ctx, notification.EventID, webhookDedupTTL)
	if err != nil {
		return nil, err
	}
	if !first {
		return &WebhookResult{EventID: notification.EventID, Processed: false}, nil
	}

	tx, err := s.handleNotification(ctx, notification.PaymentID)
	if err != nil {
		// The notification id was claimed but the work did not land.
		// Release the claim so the gateway retry is processed instead of
		// being swallowed as a duplicate.
		if releaseErr := s.idempotency.Release(ctx, notification.EventID); releaseErr != nil {
			return nil, errors.Join(err, releaseErr)
		}
		return nil, err
	}

	return &WebhookResult{
		EventID:       notification.EventID,
		Processed:     true,
		TransactionID: &tx.ID,
		PaymentStatus: string(tx.PaymentStatus),
	}, nil
}

// handleNotification fetches the payment state from the gateway and applies
// it to the correlated transaction.
func (s *PaymentService) handleNotification(ctx context.Context, paymentID string) (*billing.Transaction, error) {
	payment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	tx, err := s.resolveTransaction(ctx, payment)
	if err != nil {
		return nil, err
	}

	if err := s.applyPaymentState(ctx, tx, payment); err != nil {
		return nil, err
	}
	return tx, nil
}

// resolveTransaction correlates a gateway payment to a transaction: by
// payment id for redeliveries, falling back to the preference id for the
// first notification of a payment.
func (s *PaymentService) resolveTransaction(ctx context.Context, payment *billing.GatewayPayment) (*billing.Transaction, error) {
	tx, err := s.transactions.FindByGatewayPaymentID(ctx, payment.PaymentID)
	if err == nil {
		return tx, nil
	}

	var notFound *shared.EntityNotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}
	if payment.PreferenceID == "" {
		return nil, err
	}
	return s.transactions.FindByGatewayPreferenceID(ctx, payment.PreferenceID)
}

func (s *PaymentService) applyPaymentState(ctx context.Context, tx *billing.Transaction, payment *billing.GatewayPayment) error {
	tx.SetGatewayDetails(payment.PaymentID, "", payment.PreferenceID)

	switch payment.Status {
	case billing.GatewayPaymentApproved:
		if tx.IsPaid() {
			return s.transactions.SaveWithLock(ctx, tx)
		}

		method := payment.PaymentMethod
		if method == "" {
			method = "mercadopago"
		}
		if err := tx.MarkAsPaid(method, payment.PaidAt); err != nil {
			return err
		}

		c, err := s.clients.FindByID(ctx, tx.TenantID, tx.ClientID)
		if err != nil {
			return err
		}
		if err := c.ApplyPayment(tx.TotalAmount); err != nil {
			return err
		}

		// The transaction state and the ledger credit commit together.
		return s.uow.Do(ctx, func(ctx context.Context) error {
			if err := s.transactions.SaveWithLock(ctx, tx); err != nil {
				return err
			}
			return s.clients.SaveWithLock(ctx, c)
		})

	case billing.GatewayPaymentRejected:
		if err := tx.MarkAsFailed("payment rejected by gateway"); err != nil {
			return err
		}
		return s.transactions.SaveWithLock(ctx, tx)

	case billing.GatewayPaymentCancelled:
		if err := tx.MarkAsFailed("payment cancelled by payer"); err != nil {
			return err
		}
		return s.transactions.SaveWithLock(ctx, tx)

	case billing.GatewayPaymentRefunded:
		if err := tx.Refund("refunded by gateway"); err != nil {
			return err
		}
		return s.transactions.SaveWithLock(ctx, tx)

	default:
		// Still pending at the gateway; only the correlation ids changed.
		return s.transactions.SaveWithLock(ctx, tx)
	}
}
