package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/domain/client"
	"github.com/farmabill/backend/internal/domain/identity"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// downloadURLTTL is how long generated invoice download links stay valid
const downloadURLTTL = 15 * time.Minute

// InvoiceService renders invoice documents and stores them in the document
// store, recording the storage path on the transaction.
type InvoiceService struct {
	transactions billing.Repository
	clients      client.Repository
	pharmacies   identity.PharmacyRepository
	renderer     InvoiceRenderer
	store        DocumentStore
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	transactions billing.Repository,
	clients client.Repository,
	pharmacies identity.PharmacyRepository,
	renderer InvoiceRenderer,
	store DocumentStore,
) *InvoiceService {
	return &InvoiceService{
		transactions: transactions,
		clients:      clients,
		pharmacies:   pharmacies,
		renderer:     renderer,
		store:        store,
	}
}

// Generate renders the invoice document for a transaction, uploads it and
// records the storage path. Regenerating overwrites the stored document.
func (s *InvoiceService) Generate(ctx context.Context, pharmacyID, transactionID uuid.UUID) (*InvoiceDocumentResponse, error) {
	tx, err := s.transactions.FindByID(ctx, pharmacyID, transactionID)
	if err != nil {
		return nil, err
	}
	c, err := s.clients.FindByID(ctx, pharmacyID, tx.ClientID)
	if err != nil {
		return nil, err
	}
	pharmacy, err := s.pharmacies.FindByID(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	document, err := s.renderer.Render(ctx, buildInvoiceData(pharmacy, c, tx))
	if err != nil {
		return nil, err
	}

	key := invoiceKey(pharmacyID, tx.Number)
	if err := s.store.Upload(ctx, key, document, "text/html; charset=utf-8"); err != nil {
		return nil, err
	}

	tx.AttachInvoiceDocument(key)
	if err := s.transactions.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.store.DownloadURL(ctx, key, downloadURLTTL)
	if err != nil {
		return nil, err
	}

	return &InvoiceDocumentResponse{
		TransactionID: tx.ID,
		DocumentPath:  key,
		DownloadURL:   url,
		ExpiresAt:     expiresAt,
	}, nil
}

// DownloadURL returns a fresh time-limited link to an already generated
// invoice document.
func (s *InvoiceService) DownloadURL(ctx context.Context, pharmacyID, transactionID uuid.UUID) (*InvoiceDocumentResponse, error) {
	tx, err := s.transactions.FindByID(ctx, pharmacyID, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.InvoiceDocumentPath == "" {
		return nil, shared.NewEntityNotFoundError("invoice_document", transactionID.String())
	}

	url, expiresAt, err := s.store.DownloadURL(ctx, tx.InvoiceDocumentPath, downloadURLTTL)
	if err != nil {
		return nil, err
	}

	return &InvoiceDocumentResponse{
		TransactionID: tx.ID,
		DocumentPath:  tx.InvoiceDocumentPath,
		DownloadURL:   url,
		ExpiresAt:     expiresAt,
	}, nil
}

func invoiceKey(pharmacyID uuid.UUID, number string) string {
	return fmt.Sprintf("invoices/%s/%s.html", pharmacyID, number)
}

func buildInvoiceData(pharmacy *identity.Pharmacy, c *client.Client, tx *billing.Transaction) *InvoiceData {
	items := make([]InvoiceItem, 0, len(tx.Items))
	for _, item := range tx.Items {
		items = append(items, InvoiceItem{
			Description: item.Name,
			Quantity:    int(item.Quantity),
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	currency := tx.TotalAmount.Currency()
	subtotal := tx.TotalAmount
	if tx.Amount != nil {
		subtotal = *tx.Amount
	}

	return &InvoiceData{
		PharmacyName:    pharmacy.Name,
		PharmacyTaxID:   pharmacy.TaxID,
		PharmacyAddress: pharmacy.Address,
		Number:          tx.Number,
		IssuedAt:        tx.TransactionDate,
		DueDate:         tx.DueDate,
		ClientName:      c.DisplayName(),
		ClientPhone:     c.Phone.Normalized(),
		Items:           items,
		Subtotal:        subtotal,
		TaxAmount:       orZero(tx.TaxAmount, currency),
		Discount:        orZero(tx.DiscountAmount, currency),
		TotalAmount:     tx.TotalAmount,
		Notes:           tx.Description,
	}
}

func orZero(m valueobject.Money, currency valueobject.Currency) valueobject.Money {
	if m.Currency() == "" {
		return valueobject.Zero(currency)
	}
	return m
}
