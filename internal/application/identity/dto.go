package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/identity"
	"github.com/farmabill/backend/internal/infrastructure/auth"
)

// RegisterPharmacyRequest registers a new pharmacy tenant with its first
// admin user.
type RegisterPharmacyRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Currency     string `json:"currency" binding:"omitempty,currency"`
	BusinessName string `json:"business_name" binding:"max=200"`
	TaxID        string `json:"tax_id" binding:"max=50"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200"`
	ContactPhone string `json:"contact_phone" binding:"max=50"`
	Address      string `json:"address" binding:"max=500"`

	AdminEmail       string `json:"admin_email" binding:"required,email,max=200"`
	AdminPassword    string `json:"admin_password" binding:"required,min=8,max=72"`
	AdminDisplayName string `json:"admin_display_name" binding:"max=200"`
}

// LoginRequest authenticates a user
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a fresh pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// PharmacyResponse is a pharmacy in API responses
type PharmacyResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	BusinessName    string    `json:"business_name"`
	TaxID           string    `json:"tax_id"`
	ContactEmail    string    `json:"contact_email"`
	ContactPhone    string    `json:"contact_phone"`
	Address         string    `json:"address"`
	DefaultCurrency string    `json:"default_currency"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserResponse is a user account in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	PharmacyID  uuid.UUID  `json:"pharmacy_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// RegisterPharmacyResponse returns the new tenant, its admin and a token
// pair so registration logs straight in.
type RegisterPharmacyResponse struct {
	Pharmacy PharmacyResponse `json:"pharmacy"`
	Admin    UserResponse     `json:"admin"`
	Tokens   *auth.TokenPair  `json:"tokens"`
}

// LoginResponse returns the authenticated user and a token pair
type LoginResponse struct {
	User   UserResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// ToPharmacyResponse maps a domain pharmacy to its API representation
func ToPharmacyResponse(p *identity.Pharmacy) PharmacyResponse {
	return PharmacyResponse{
		ID:              p.ID,
		Name:            p.Name,
		BusinessName:    p.BusinessName,
		TaxID:           p.TaxID,
		ContactEmail:    p.ContactEmail,
		ContactPhone:    p.ContactPhone,
		Address:         p.Address,
		DefaultCurrency: string(p.DefaultCurrency),
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
	}
}

// ToUserResponse maps a domain user to its API representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		PharmacyID:  u.TenantID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
	}
}
