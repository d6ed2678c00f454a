package client

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// Status represents the lifecycle status of a client
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusBlocked   Status = "blocked"
	StatusSuspended Status = "suspended"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusBlocked, StatusSuspended:
		return true
	}
	return false
}

// Client is the aggregate root for a pharmacy customer. It owns the credit
// ledger and enforces that balance mutations only happen under valid
// business conditions.
type Client struct {
	shared.TenantAggregateRoot

	Phone   valueobject.Phone
	Balance ClientBalance
	Status  Status

	// Optional personal information
	FirstName string
	LastName  string
	Email     string
	TaxID     string

	// WhatsApp integration
	WhatsAppName            string
	WhatsAppOptedIn         bool
	LastWhatsAppInteraction *time.Time

	// Metadata
	Tags       []string
	Notes      string
	ExternalID string
}

// NewClient creates a new active client for the given pharmacy.
// Phone/tenant uniqueness is enforced by the repository, not here.
func NewClient(pharmacyID uuid.UUID, phone valueobject.Phone, balance ClientBalance) (*Client, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.NewValidationError("pharmacy_id", "client must belong to a pharmacy")
	}
	if phone.IsZero() {
		return nil, shared.NewValidationError("phone", "client must have a phone number")
	}

	c := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(pharmacyID),
		Phone:               phone,
		Balance:             balance,
		Status:              StatusActive,
		WhatsAppOptedIn:     true,
		Tags:                make([]string, 0),
	}

	c.AddDomainEvent(NewClientCreatedEvent(c))
	return c, nil
}

// FullName returns first + last name, falling back to whichever is set,
// then to the WhatsApp profile name.
func (c *Client) FullName() string {
	if c.FirstName != "" && c.LastName != "" {
		return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
	}
	if c.FirstName != "" {
		return c.FirstName
	}
	if c.LastName != "" {
		return c.LastName
	}
	return c.WhatsAppName
}

// DisplayName returns the best available name for display
func (c *Client) DisplayName() string {
	if name := c.FullName(); name != "" {
		return name
	}
	if c.Phone.Value() != "" {
		return c.Phone.Value()
	}
	return "Unknown"
}

// OwesMoney reports whether the client has outstanding debt
func (c *Client) OwesMoney() bool {
	return c.Balance.OwesMoney()
}

// CreditExceeded reports whether the client has exceeded their credit limit
func (c *Client) CreditExceeded() bool {
	return c.Balance.IsCreditExceeded()
}

// CanMakePurchase checks status and affordability without mutating anything
func (c *Client) CanMakePurchase(amount valueobject.Money) (bool, error) {
	if c.Status != StatusActive {
		return false, nil
	}
	return c.Balance.CanPurchase(amount)
}

// ApplyCharge charges the client account. The client must be active and the
// charge must fit within the available credit; on failure the balance is
// left untouched.
func (c *Client) ApplyCharge(amount valueobject.Money, description string) error {
	if c.Status != StatusActive {
		return shared.NewValidationError("status", fmt.Sprintf("cannot charge client with status %s", c.Status))
	}

	ok, err := c.Balance.CanPurchase(amount)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewCreditLimitExceededError(amount.String(), c.Balance.AvailableCredit().String())
	}

	newBalance, err := c.Balance.ApplyCharge(amount)
	if err != nil {
		return err
	}

	c.Balance = newBalance
	c.MarkUpdated()
	c.IncrementVersion()
	c.AddDomainEvent(NewClientChargedEvent(c, amount, description))
	return nil
}

// ApplyPayment credits the client account. Payments are always permitted,
// whatever the status; they reduce debt or build up credit.
func (c *Client) ApplyPayment(amount valueobject.Money) error {
	newBalance, err := c.Balance.ApplyPayment(amount)
	if err != nil {
		return err
	}

	c.Balance = newBalance
	c.MarkUpdated()
	c.IncrementVersion()
	c.AddDomainEvent(NewClientPaymentReceivedEvent(c, amount))
	return nil
}

// UpdateCreditLimit replaces the credit limit. Business-rule checks beyond
// non-negativity (active status, no decrease while in debt) live in the
// Validator.
func (c *Client) UpdateCreditLimit(newLimit valueobject.Money) error {
	if newLimit.IsNegative() {
		return shared.NewValidationError("credit_limit", "credit limit cannot be negative")
	}

	oldLimit := c.Balance.CreditLimit()
	newBalance, err := c.Balance.UpdateCreditLimit(newLimit)
	if err != nil {
		return err
	}

	c.Balance = newBalance
	c.MarkUpdated()
	c.IncrementVersion()
	c.AddDomainEvent(NewClientCreditLimitChangedEvent(c, oldLimit, newLimit))
	return nil
}

// Activate activates the client account. No-op if already active.
func (c *Client) Activate() {
	c.setStatus(StatusActive)
}

// Deactivate deactivates the client account. No-op if already inactive.
func (c *Client) Deactivate() {
	c.setStatus(StatusInactive)
}

// Block blocks the client account (fraud, non-payment). No-op if already blocked.
func (c *Client) Block() {
	c.setStatus(StatusBlocked)
}

// Suspend temporarily restricts the client account. No-op if already suspended.
func (c *Client) Suspend() {
	c.setStatus(StatusSuspended)
}

func (c *Client) setStatus(target Status) {
	if c.Status == target {
		return
	}

	oldStatus := c.Status
	c.Status = target
	c.MarkUpdated()
	c.IncrementVersion()
	c.AddDomainEvent(NewClientStatusChangedEvent(c, oldStatus, target))
}

// Delete soft-deletes the client: tombstone plus forced inactive status.
// Clients are never physically destroyed.
func (c *Client) Delete() {
	if c.IsDeleted() {
		return
	}

	c.Status = StatusInactive
	c.MarkDeleted()
	c.IncrementVersion()
}

// AddTag appends a tag if not already present
func (c *Client) AddTag(tag string) {
	if tag == "" || c.HasTag(tag) {
		return
	}
	c.Tags = append(c.Tags, tag)
	c.MarkUpdated()
	c.IncrementVersion()
}

// RemoveTag removes a tag if present
func (c *Client) RemoveTag(tag string) {
	for i, t := range c.Tags {
		if t == tag {
			c.Tags = append(c.Tags[:i], c.Tags[i+1:]...)
			c.MarkUpdated()
			c.IncrementVersion()
			return
		}
	}
}

// HasTag checks if the client carries the given tag
func (c *Client) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PersonalInfo carries optional profile fields for a partial update
type PersonalInfo struct {
	FirstName *string
	LastName  *string
	Email     *string
	TaxID     *string
	Notes     *string
}

// UpdatePersonalInfo applies the non-nil fields of the update
func (c *Client) UpdatePersonalInfo(info PersonalInfo) {
	if info.FirstName != nil {
		c.FirstName = *info.FirstName
	}
	if info.LastName != nil {
		c.LastName = *info.LastName
	}
	if info.Email != nil {
		c.Email = *info.Email
	}
	if info.TaxID != nil {
		c.TaxID = *info.TaxID
	}
	if info.Notes != nil {
		c.Notes = *info.Notes
	}
	c.MarkUpdated()
	c.IncrementVersion()
}

// RecordWhatsAppInteraction stamps the last interaction and optionally
// refreshes the profile name
func (c *Client) RecordWhatsAppInteraction(name string) {
	now := time.Now()
	c.LastWhatsAppInteraction = &now
	if name != "" {
		c.WhatsAppName = name
	}
	c.MarkUpdated()
	c.IncrementVersion()
}

// OptInWhatsApp enables WhatsApp communications
func (c *Client) OptInWhatsApp() {
	c.WhatsAppOptedIn = true
	c.MarkUpdated()
	c.IncrementVersion()
}

// OptOutWhatsApp disables WhatsApp communications
func (c *Client) OptOutWhatsApp() {
	c.WhatsAppOptedIn = false
	c.MarkUpdated()
	c.IncrementVersion()
}
