package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// TransactionModel is the persistence model for the transaction aggregate
type TransactionModel struct {
	TenantAggregateModel
	ClientID uuid.UUID    `gorm:"type:uuid;not null;index"`
	// (pharmacy_id, number) uniqueness is enforced by the migrations
	Number   string       `gorm:"type:varchar(30);not null;index"`
	Type     billing.Type `gorm:"type:varchar(20);not null;index"`

	Amount         decimal.NullDecimal   `gorm:"type:decimal(18,2)"`
	TaxAmount      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount    decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Currency       valueobject.Currency  `gorm:"type:varchar(3);not null;default:'ARS'"`
	PaymentMethod  string                `gorm:"type:varchar(50)"`
	PaymentStatus  billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`

	GatewayPaymentID    string `gorm:"type:varchar(100);index"`
	GatewayPaymentLink  string `gorm:"type:text"`
	GatewayPreferenceID string `gorm:"type:varchar(100)"`

	Description string `gorm:"type:text"`
	Items       string `gorm:"type:jsonb"`

	InvoiceDocumentPath string `gorm:"type:text"`
	InvoiceSentAt       *time.Time

	TransactionDate time.Time `gorm:"not null;index"`
	DueDate         *time.Time
	PaidAt          *time.Time

	CancelledAt *time.Time
	CancelledBy *uuid.UUID `gorm:"type:uuid"`

	Metadata string `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// itemRecord is the JSON shape of one persisted line item
type itemRecord struct {
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() (*billing.Transaction, error) {
	total, err := valueobject.NewMoney(m.TotalAmount, m.Currency)
	if err != nil {
		return nil, fmt.Errorf("rehydrate transaction %s: %w", m.ID, err)
	}
	tax, err := valueobject.NewMoney(m.TaxAmount, m.Currency)
	if err != nil {
		return nil, fmt.Errorf("rehydrate transaction %s: %w", m.ID, err)
	}
	discount, err := valueobject.NewMoney(m.DiscountAmount, m.Currency)
	if err != nil {
		return nil, fmt.Errorf("rehydrate transaction %s: %w", m.ID, err)
	}

	var amount *valueobject.Money
	if m.Amount.Valid {
		a, err := valueobject.NewMoney(m.Amount.Decimal, m.Currency)
		if err != nil {
			return nil, fmt.Errorf("rehydrate transaction %s: %w", m.ID, err)
		}
		amount = &a
	}

	items := make([]billing.TransactionItem, 0)
	if m.Items != "" {
		var records []itemRecord
		if err := json.Unmarshal([]byte(m.Items), &records); err != nil {
			return nil, fmt.Errorf("rehydrate transaction %s items: %w", m.ID, err)
		}
		for _, rec := range records {
			unitPrice, err := valueobject.NewMoney(rec.UnitPrice, m.Currency)
			if err != nil {
				return nil, fmt.Errorf("rehydrate transaction %s items: %w", m.ID, err)
			}
			itemTotal, err := valueobject.NewMoney(rec.Total, m.Currency)
			if err != nil {
				return nil, fmt.Errorf("rehydrate transaction %s items: %w", m.ID, err)
			}
			items = append(items, billing.TransactionItem{
				Name:      rec.Name,
				Quantity:  rec.Quantity,
				UnitPrice: unitPrice,
				Total:     itemTotal,
			})
		}
	}

	metadata := make(map[string]string)
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("rehydrate transaction %s metadata: %w", m.ID, err)
		}
	}

	return &billing.Transaction{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ClientID:            m.ClientID,
		Number:              m.Number,
		Type:                m.Type,
		Amount:              amount,
		TaxAmount:           tax,
		DiscountAmount:      discount,
		TotalAmount:         total,
		PaymentMethod:       m.PaymentMethod,
		PaymentStatus:       m.PaymentStatus,
		GatewayPaymentID:    m.GatewayPaymentID,
		GatewayPaymentLink:  m.GatewayPaymentLink,
		GatewayPreferenceID: m.GatewayPreferenceID,
		Description:         m.Description,
		Items:               items,
		InvoiceDocumentPath: m.InvoiceDocumentPath,
		InvoiceSentAt:       m.InvoiceSentAt,
		TransactionDate:     m.TransactionDate,
		DueDate:             m.DueDate,
		PaidAt:              m.PaidAt,
		CancelledAt:         m.CancelledAt,
		CancelledBy:         m.CancelledBy,
		Metadata:            metadata,
	}, nil
}

// FromDomain populates the persistence model from a domain Transaction
func (m *TransactionModel) FromDomain(t *billing.Transaction) error {
	m.FromTenantAggregateRoot(t.TenantAggregateRoot)
	m.ClientID = t.ClientID
	m.Number = t.Number
	m.Type = t.Type
	m.TaxAmount = t.TaxAmount.Amount()
	m.DiscountAmount = t.DiscountAmount.Amount()
	m.TotalAmount = t.TotalAmount.Amount()
	m.Currency = t.TotalAmount.Currency()
	m.PaymentMethod = t.PaymentMethod
	m.PaymentStatus = t.PaymentStatus
	m.GatewayPaymentID = t.GatewayPaymentID
	m.GatewayPaymentLink = t.GatewayPaymentLink
	m.GatewayPreferenceID = t.GatewayPreferenceID
	m.Description = t.Description
	m.InvoiceDocumentPath = t.InvoiceDocumentPath
	m.InvoiceSentAt = t.InvoiceSentAt
	m.TransactionDate = t.TransactionDate
	m.DueDate = t.DueDate
	m.PaidAt = t.PaidAt
	m.CancelledAt = t.CancelledAt
	m.CancelledBy = t.CancelledBy

	m.Amount = decimal.NullDecimal{}
	if t.Amount != nil {
		m.Amount = decimal.NullDecimal{Decimal: t.Amount.Amount(), Valid: true}
	}

	records := make([]itemRecord, len(t.Items))
	for i, item := range t.Items {
		records[i] = itemRecord{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount(),
			Total:     item.Total.Amount(),
		}
	}
	encodedItems, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("serialize transaction %s items: %w", t.ID, err)
	}
	m.Items = string(encodedItems)

	metadata := t.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	encodedMeta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("serialize transaction %s metadata: %w", t.ID, err)
	}
	m.Metadata = string(encodedMeta)
	return nil
}

// TransactionModelFromDomain creates a persistence model from a domain Transaction
func TransactionModelFromDomain(t *billing.Transaction) (*TransactionModel, error) {
	m := &TransactionModel{}
	if err := m.FromDomain(t); err != nil {
		return nil, err
	}
	return m, nil
}

// TransactionModelsToDomain converts a slice of models
func TransactionModelsToDomain(txModels []TransactionModel) ([]*billing.Transaction, error) {
	txs := make([]*billing.Transaction, len(txModels))
	for i := range txModels {
		t, err := txModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		txs[i] = t
	}
	return txs, nil
}

// TransactionCounterModel backs the per-day transaction number sequences.
// One row per (pharmacy, type, period); the counter advances atomically with
// an upsert.
type TransactionCounterModel struct {
	PharmacyID      uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TransactionType billing.Type `gorm:"type:varchar(20);primaryKey"`
	Period          string       `gorm:"type:varchar(8);primaryKey"`
	Counter         int          `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (TransactionCounterModel) TableName() string {
	return "transaction_counters"
}
