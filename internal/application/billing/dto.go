package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/domain/shared"
)

// TransactionItemRequest is one line item on a new transaction
type TransactionItemRequest struct {
	Name      string          `json:"name" binding:"required,min=1,max=200"`
	Quantity  int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
	Total     decimal.Decimal `json:"total" binding:"required"`
}

// CreateTransactionRequest creates a new transaction for a client
type CreateTransactionRequest struct {
	ClientID       uuid.UUID                `json:"client_id" binding:"required"`
	Type           string                   `json:"type" binding:"required,oneof=invoice payment credit_note debit_note"`
	TotalAmount    decimal.Decimal          `json:"total_amount" binding:"required"`
	Amount         *decimal.Decimal         `json:"amount"`
	TaxAmount      *decimal.Decimal         `json:"tax_amount"`
	DiscountAmount *decimal.Decimal         `json:"discount_amount"`
	Currency       string                   `json:"currency" binding:"omitempty,currency"`
	Description    string                   `json:"description" binding:"max=500"`
	DueDate        *time.Time               `json:"due_date"`
	Items          []TransactionItemRequest `json:"items" binding:"dive"`
}

// MarkPaidRequest completes a transaction's payment
type MarkPaidRequest struct {
	PaymentMethod string     `json:"payment_method" binding:"required,min=1,max=50"`
	PaidAt        *time.Time `json:"paid_at"`
}

// CancelTransactionRequest cancels a pending transaction
type CancelTransactionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RefundTransactionRequest refunds a completed transaction
type RefundTransactionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// FailTransactionRequest records a failed payment attempt
type FailTransactionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// TransactionListFilter carries list parameters from the query string
type TransactionListFilter struct {
	ClientID *uuid.UUID `form:"client_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the request filter to the repository filter
func (f TransactionListFilter) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	return filter
}

// TransactionItemResponse is one line item in API responses
type TransactionItemResponse struct {
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// TransactionResponse is a transaction in API responses
type TransactionResponse struct {
	ID                  uuid.UUID                 `json:"id"`
	PharmacyID          uuid.UUID                 `json:"pharmacy_id"`
	ClientID            uuid.UUID                 `json:"client_id"`
	Number              string                    `json:"number"`
	Type                string                    `json:"type"`
	Amount              *decimal.Decimal          `json:"amount,omitempty"`
	TaxAmount           decimal.Decimal           `json:"tax_amount"`
	DiscountAmount      decimal.Decimal           `json:"discount_amount"`
	TotalAmount         decimal.Decimal           `json:"total_amount"`
	Currency            string                    `json:"currency"`
	PaymentMethod       string                    `json:"payment_method"`
	PaymentStatus       string                    `json:"payment_status"`
	GatewayPaymentID    string                    `json:"gateway_payment_id,omitempty"`
	GatewayPaymentLink  string                    `json:"gateway_payment_link,omitempty"`
	GatewayPreferenceID string                    `json:"gateway_preference_id,omitempty"`
	Description         string                    `json:"description"`
	Items               []TransactionItemResponse `json:"items"`
	InvoiceDocumentPath string                    `json:"invoice_document_path,omitempty"`
	InvoiceSentAt       *time.Time                `json:"invoice_sent_at,omitempty"`
	TransactionDate     time.Time                 `json:"transaction_date"`
	DueDate             *time.Time                `json:"due_date,omitempty"`
	PaidAt              *time.Time                `json:"paid_at,omitempty"`
	CancelledAt         *time.Time                `json:"cancelled_at,omitempty"`
	IsOverdue           bool                      `json:"is_overdue"`
	DaysOverdue         int                       `json:"days_overdue"`
	Metadata            map[string]string         `json:"metadata,omitempty"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
	Version             int                       `json:"version"`
}

// PaymentLinkResponse is the gateway checkout handle for a transaction
type PaymentLinkResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	PreferenceID  string    `json:"preference_id"`
	PaymentLink   string    `json:"payment_link"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// InvoiceDocumentResponse points at a stored invoice document
type InvoiceDocumentResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	DocumentPath  string    `json:"document_path"`
	DownloadURL   string    `json:"download_url"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// WebhookResult reports the outcome of processing a gateway callback
type WebhookResult struct {
	EventID       string     `json:"event_id"`
	Processed     bool       `json:"processed"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	PaymentStatus string     `json:"payment_status,omitempty"`
}

// ToTransactionResponse maps a domain transaction to its API representation
func ToTransactionResponse(t *billing.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, TransactionItemResponse{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount(),
			Total:     item.Total.Amount(),
		})
	}

	var amount *decimal.Decimal
	if t.Amount != nil {
		a := t.Amount.Amount()
		amount = &a
	}

	return TransactionResponse{
		ID:                  t.ID,
		PharmacyID:          t.TenantID,
		ClientID:            t.ClientID,
		Number:              t.Number,
		Type:                string(t.Type),
		Amount:              amount,
		TaxAmount:           t.TaxAmount.Amount(),
		DiscountAmount:      t.DiscountAmount.Amount(),
		TotalAmount:         t.TotalAmount.Amount(),
		Currency:            string(t.TotalAmount.Currency()),
		PaymentMethod:       t.PaymentMethod,
		PaymentStatus:       string(t.PaymentStatus),
		GatewayPaymentID:    t.GatewayPaymentID,
		GatewayPaymentLink:  t.GatewayPaymentLink,
		GatewayPreferenceID: t.GatewayPreferenceID,
		Description:         t.Description,
		Items:               items,
		InvoiceDocumentPath: t.InvoiceDocumentPath,
		InvoiceSentAt:       t.InvoiceSentAt,
		TransactionDate:     t.TransactionDate,
		DueDate:             t.DueDate,
		PaidAt:              t.PaidAt,
		CancelledAt:         t.CancelledAt,
		IsOverdue:           t.IsOverdue(),
		DaysOverdue:         t.DaysOverdue(),
		Metadata:            t.Metadata,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
		Version:             t.Version,
	}
}

// ToTransactionResponses maps a page of domain transactions
func ToTransactionResponses(page shared.Paginated[*billing.Transaction]) shared.Paginated[TransactionResponse] {
	items := make([]TransactionResponse, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, ToTransactionResponse(t))
	}
	return shared.Paginated[TransactionResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
