package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/domain/client"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// TransactionService handles the transaction lifecycle: creation with
// number allocation and ledger effects, payment completion, cancellation,
// refunds and failures.
type TransactionService struct {
	transactions billing.Repository
	clients      client.Repository
	uow          shared.UnitOfWork
	validator    *client.Validator
	numbers      *billing.NumberGenerator
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactions billing.Repository, clients client.Repository, uow shared.UnitOfWork) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		clients:      clients,
		uow:          uow,
		validator:    client.NewValidator(),
		numbers:      billing.NewNumberGenerator(),
	}
}

// Create creates a transaction for a client. Invoices and debit notes are
// validated against the client's credit and charged to the ledger
// immediately; payments and credit notes touch the ledger when they
// complete. The transaction number comes from the atomic per-(pharmacy,
// type, day) counter, so concurrent creations never collide.
func (s *TransactionService) Create(ctx context.Context, pharmacyID uuid.UUID, req CreateTransactionRequest) (*TransactionResponse, error) {
	c, err := s.clients.FindByID(ctx, pharmacyID, req.ClientID)
	if err != nil {
		return nil, err
	}

	currency := c.Balance.Currency()
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	total, err := valueobject.NewMoney(req.TotalAmount, currency)
	if err != nil {
		return nil, err
	}

	txType := billing.Type(req.Type)
	if txType.IsCharge() {
		if err := s.validator.ValidateForTransaction(c, total); err != nil {
			return nil, err
		}
	}

	var amount, tax, discount *valueobject.Money
	if amount, err = optionalMoney(req.Amount, currency); err != nil {
		return nil, err
	}
	if tax, err = optionalMoney(req.TaxAmount, currency); err != nil {
		return nil, err
	}
	if discount, err = optionalMoney(req.DiscountAmount, currency); err != nil {
		return nil, err
	}

	now := time.Now()
	seq, err := s.transactions.NextSequence(ctx, pharmacyID, txType, now)
	if err != nil {
		return nil, err
	}
	number, err := s.numbers.Generate(txType, seq, now)
	if err != nil {
		return nil, err
	}

	tx, err := billing.NewTransaction(billing.NewTransactionParams{
		PharmacyID:     pharmacyID,
		ClientID:       req.ClientID,
		Number:         number,
		Type:           txType,
		TotalAmount:    total,
		Amount:         amount,
		TaxAmount:      tax,
		DiscountAmount: discount,
		Description:    req.Description,
		DueDate:        req.DueDate,
	})
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		unitPrice, err := valueobject.NewMoney(item.UnitPrice, currency)
		if err != nil {
			return nil, err
		}
		itemTotal, err := valueobject.NewMoney(item.Total, currency)
		if err != nil {
			return nil, err
		}
		txItem, err := billing.NewTransactionItem(item.Name, item.Quantity, unitPrice, itemTotal)
		if err != nil {
			return nil, err
		}
		if err := tx.AddItem(txItem); err != nil {
			return nil, err
		}
	}

	if txType.IsCharge() {
		if err := c.ApplyCharge(total, req.Description); err != nil {
			return nil, err
		}
	}

	// The ledger charge and the transaction row commit together; a failure
	// on either leaves both untouched.
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if txType.IsCharge() {
			if err := s.clients.SaveWithLock(ctx, c); err != nil {
				return err
			}
		}
		return s.transactions.Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// GetByID retrieves a transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, pharmacyID, transactionID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactions.FindByID(ctx, pharmacyID, transactionID)
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// List retrieves transactions with pagination, optionally scoped to one
// client.
func (s *TransactionService) List(ctx context.Context, pharmacyID uuid.UUID, filter TransactionListFilter) (shared.Paginated[TransactionResponse], error) {
	repoFilter := filter.ToFilter()

	var (
		page shared.Paginated[*billing.Transaction]
		err  error
	)
	if filter.ClientID != nil {
		page, err = s.transactions.FindByClient(ctx, pharmacyID, *filter.ClientID, repoFilter)
	} else {
		page, err = s.transactions.FindAll(ctx, pharmacyID, repoFilter)
	}
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	return ToTransactionResponses(page), nil
}

// ListOverdue retrieves unpaid transactions past their due date
func (s *TransactionService) ListOverdue(ctx context.Context, pharmacyID uuid.UUID, filter TransactionListFilter) (shared.Paginated[TransactionResponse], error) {
	page, err := s.transactions.FindOverdue(ctx, pharmacyID, filter.ToFilter())
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	return ToTransactionResponses(page), nil
}

// MarkPaid completes a transaction's payment and credits the client ledger
// with the paid amount.
func (s *TransactionService) MarkPaid(ctx context.Context, pharmacyID, transactionID uuid.UUID, req MarkPaidRequest) (*TransactionResponse, error) {
	tx, err := s.transactions.FindByID(ctx, pharmacyID, transactionID)
	if err != nil {
		return nil, err
	}
	c, err := s.clients.FindByID(ctx, pharmacyID, tx.ClientID)
	if err != nil {
		return nil, err
	}

	if err := tx.MarkAsPaid(req.PaymentMethod, req.PaidAt); err != nil {
		return nil, err
	}
	if err := c.ApplyPayment(tx.TotalAmount); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.transactions.SaveWithLock(ctx, tx); err != nil {
			return err
		}
		return s.clients.SaveWithLock(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// Cancel cancels a transaction. The ledger is left untouched: pending
// charges are reconciled through credit notes, not silent reversals.
func (s *TransactionService) Cancel(ctx context.Context, pharmacyID, transactionID, cancelledBy uuid.UUID, req CancelTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.transactions.FindByID(ctx, pharmacyID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Cancel(cancelledBy, req.Reason); err != nil {
		return nil, err
	}
	if err := s.transactions.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// Refund refunds a completed transaction
func (s *TransactionService) Refund(ctx context.Context, pharmacyID, transactionID uuid.UUID, req RefundTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.transactions.FindByID(ctx, pharmacyID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Refund(req.Reason); err != nil {
		return nil, err
	}
	if err := s.transactions.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// MarkFailed records a failed payment attempt; the transaction may still
// complete through a later MarkPaid.
func (s *TransactionService) MarkFailed(ctx context.Context, pharmacyID, transactionID uuid.UUID, req FailTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.transactions.FindByID(ctx, pharmacyID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := tx.MarkAsFailed(req.Reason); err != nil {
		return nil, err
	}
	if err := s.transactions.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

func optionalMoney(amount *decimal.Decimal, currency valueobject.Currency) (*valueobject.Money, error) {
	if amount == nil {
		return nil, nil
	}
	m, err := valueobject.NewMoney(*amount, currency)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
