package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/client"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// ClientModel is the persistence model for the client aggregate. The balance
// snapshot is flattened into amount columns plus a shared currency.
type ClientModel struct {
	TenantAggregateModel
	// (pharmacy_id, phone) uniqueness is enforced by the migrations
	Phone       string               `gorm:"type:varchar(20);not null;index"`
	Balance     decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	CreditLimit decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null;default:'ARS'"`
	Status      client.Status        `gorm:"type:varchar(20);not null;default:'active';index"`

	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	Email     string `gorm:"type:varchar(200)"`
	TaxID     string `gorm:"type:varchar(50)"`

	WhatsAppName            string `gorm:"type:varchar(200)"`
	WhatsAppOptedIn         bool   `gorm:"not null;default:true"`
	LastWhatsAppInteraction *time.Time

	Tags       string `gorm:"type:jsonb"`
	Notes      string `gorm:"type:text"`
	ExternalID string `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client
func (m *ClientModel) ToDomain() (*client.Client, error) {
	phone, err := valueobject.PhoneFromNormalized(m.Phone)
	if err != nil {
		return nil, fmt.Errorf("rehydrate client %s: %w", m.ID, err)
	}

	balanceAmount, err := valueobject.NewMoney(m.Balance, m.Currency)
	if err != nil {
		return nil, fmt.Errorf("rehydrate client %s: %w", m.ID, err)
	}
	limitAmount, err := valueobject.NewMoney(m.CreditLimit, m.Currency)
	if err != nil {
		return nil, fmt.Errorf("rehydrate client %s: %w", m.ID, err)
	}
	balance, err := client.NewClientBalance(balanceAmount, limitAmount)
	if err != nil {
		return nil, fmt.Errorf("rehydrate client %s: %w", m.ID, err)
	}

	tags := make([]string, 0)
	if m.Tags != "" {
		if err := json.Unmarshal([]byte(m.Tags), &tags); err != nil {
			return nil, fmt.Errorf("rehydrate client %s tags: %w", m.ID, err)
		}
	}

	return &client.Client{
		TenantAggregateRoot:     m.ToTenantAggregateRoot(),
		Phone:                   phone,
		Balance:                 balance,
		Status:                  m.Status,
		FirstName:               m.FirstName,
		LastName:                m.LastName,
		Email:                   m.Email,
		TaxID:                   m.TaxID,
		WhatsAppName:            m.WhatsAppName,
		WhatsAppOptedIn:         m.WhatsAppOptedIn,
		LastWhatsAppInteraction: m.LastWhatsAppInteraction,
		Tags:                    tags,
		Notes:                   m.Notes,
		ExternalID:              m.ExternalID,
	}, nil
}

// FromDomain populates the persistence model from a domain Client
func (m *ClientModel) FromDomain(c *client.Client) error {
	m.FromTenantAggregateRoot(c.TenantAggregateRoot)
	m.Phone = c.Phone.Normalized()
	m.Balance = c.Balance.CurrentBalance().Amount()
	m.CreditLimit = c.Balance.CreditLimit().Amount()
	m.Currency = c.Balance.Currency()
	m.Status = c.Status
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.TaxID = c.TaxID
	m.WhatsAppName = c.WhatsAppName
	m.WhatsAppOptedIn = c.WhatsAppOptedIn
	m.LastWhatsAppInteraction = c.LastWhatsAppInteraction
	m.Notes = c.Notes
	m.ExternalID = c.ExternalID

	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("serialize client %s tags: %w", c.ID, err)
	}
	m.Tags = string(encoded)
	return nil
}

// ClientModelFromDomain creates a persistence model from a domain Client
func ClientModelFromDomain(c *client.Client) (*ClientModel, error) {
	m := &ClientModel{}
	if err := m.FromDomain(c); err != nil {
		return nil, err
	}
	return m, nil
}

// ClientModelsToDomain converts a slice of models, failing on the first bad row
func ClientModelsToDomain(clientModels []ClientModel) ([]*client.Client, error) {
	clients := make([]*client.Client, len(clientModels))
	for i := range clientModels {
		c, err := clientModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		clients[i] = c
	}
	return clients, nil
}
