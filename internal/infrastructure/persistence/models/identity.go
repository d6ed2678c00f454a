package models

import (
	"time"

	"github.com/farmabill/backend/internal/domain/identity"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// PharmacyModel is the persistence model for pharmacy tenants
type PharmacyModel struct {
	AggregateModel
	Name            string                  `gorm:"type:varchar(200);not null;uniqueIndex"`
	BusinessName    string                  `gorm:"type:varchar(200)"`
	TaxID           string                  `gorm:"type:varchar(50)"`
	ContactEmail    string                  `gorm:"type:varchar(200)"`
	ContactPhone    string                  `gorm:"type:varchar(50)"`
	Address         string                  `gorm:"type:text"`
	DefaultCurrency valueobject.Currency    `gorm:"type:varchar(3);not null;default:'ARS'"`
	Status          identity.PharmacyStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes           string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PharmacyModel) TableName() string {
	return "pharmacies"
}

// ToDomain converts the persistence model to a domain Pharmacy
func (m *PharmacyModel) ToDomain() *identity.Pharmacy {
	return &identity.Pharmacy{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		BusinessName:      m.BusinessName,
		TaxID:             m.TaxID,
		ContactEmail:      m.ContactEmail,
		ContactPhone:      m.ContactPhone,
		Address:           m.Address,
		DefaultCurrency:   m.DefaultCurrency,
		Status:            m.Status,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Pharmacy
func (m *PharmacyModel) FromDomain(p *identity.Pharmacy) {
	m.FromAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.BusinessName = p.BusinessName
	m.TaxID = p.TaxID
	m.ContactEmail = p.ContactEmail
	m.ContactPhone = p.ContactPhone
	m.Address = p.Address
	m.DefaultCurrency = p.DefaultCurrency
	m.Status = p.Status
	m.Notes = p.Notes
}

// PharmacyModelFromDomain creates a persistence model from a domain Pharmacy
func PharmacyModelFromDomain(p *identity.Pharmacy) *PharmacyModel {
	m := &PharmacyModel{}
	m.FromDomain(p)
	return m
}

// UserModel is the persistence model for user accounts
type UserModel struct {
	TenantAggregateModel
	Email          string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string              `gorm:"type:varchar(100);not null"`
	DisplayName    string              `gorm:"type:varchar(200)"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		DisplayName:         m.DisplayName,
		Status:              m.Status,
		LastLoginAt:         m.LastLoginAt,
		FailedAttempts:      m.FailedAttempts,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromTenantAggregateRoot(u.TenantAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
