package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/client"
	"github.com/farmabill/backend/internal/domain/shared"
)

// CreateClientRequest registers a new client for the pharmacy
type CreateClientRequest struct {
	Phone       string           `json:"phone" binding:"required,min=6,max=20"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	Currency    string           `json:"currency" binding:"omitempty,currency"`
	FirstName   string           `json:"first_name" binding:"max=100"`
	LastName    string           `json:"last_name" binding:"max=100"`
	Email       string           `json:"email" binding:"omitempty,email,max=200"`
	TaxID       string           `json:"tax_id" binding:"max=50"`
	Tags        []string         `json:"tags"`
	Notes       string           `json:"notes"`
	ExternalID  string           `json:"external_id" binding:"max=100"`
}

// UpdateClientRequest applies a partial update to the client profile
type UpdateClientRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Email     *string `json:"email" binding:"omitempty,email,max=200"`
	TaxID     *string `json:"tax_id" binding:"omitempty,max=50"`
	Notes     *string `json:"notes"`
}

// UpdateCreditLimitRequest changes the client's credit limit
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
}

// AddTagRequest attaches a tag to the client
type AddTagRequest struct {
	Tag string `json:"tag" binding:"required,min=1,max=50"`
}

// ClientListFilter carries list/search parameters from the query string
type ClientListFilter struct {
	Search   string `form:"search"`
	Tag      string `form:"tag"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the request filter to the repository filter
func (f ClientListFilter) ToFilter() shared.Filter {
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
	filter.Search = f.Search
	return filter
}

// ClientResponse is a client in API responses
type ClientResponse struct {
	ID              uuid.UUID       `json:"id"`
	PharmacyID      uuid.UUID       `json:"pharmacy_id"`
	Phone           string          `json:"phone"`
	Balance         decimal.Decimal `json:"balance"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	TotalDebt       decimal.Decimal `json:"total_debt"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	DisplayName     string          `json:"display_name"`
	Email           string          `json:"email"`
	TaxID           string          `json:"tax_id"`
	Tags            []string        `json:"tags"`
	Notes           string          `json:"notes"`
	ExternalID      string          `json:"external_id"`
	OwesMoney       bool            `json:"owes_money"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CreditScoreResponse is the validator's assessment of a client
type CreditScoreResponse struct {
	ClientID         uuid.UUID       `json:"client_id"`
	Score            float64         `json:"score"`
	ShouldWarn       bool            `json:"should_warn"`
	AvailableCredit  decimal.Decimal `json:"available_credit"`
	TotalDebt        decimal.Decimal `json:"total_debt"`
	RecommendedLimit decimal.Decimal `json:"recommended_limit"`
}

// ToClientResponse maps a domain client to its API representation
func ToClientResponse(c *client.Client) ClientResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return ClientResponse{
		ID:              c.ID,
		PharmacyID:      c.TenantID,
		Phone:           c.Phone.Normalized(),
		Balance:         c.Balance.CurrentBalance().Amount(),
		CreditLimit:     c.Balance.CreditLimit().Amount(),
		AvailableCredit: c.Balance.AvailableCredit().Amount(),
		TotalDebt:       c.Balance.TotalDebt().Amount(),
		Currency:        string(c.Balance.Currency()),
		Status:          string(c.Status),
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		DisplayName:     c.DisplayName(),
		Email:           c.Email,
		TaxID:           c.TaxID,
		Tags:            tags,
		Notes:           c.Notes,
		ExternalID:      c.ExternalID,
		OwesMoney:       c.OwesMoney(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// ToClientResponses maps a page of domain clients
func ToClientResponses(page shared.Paginated[*client.Client]) shared.Paginated[ClientResponse] {
	items := make([]ClientResponse, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, ToClientResponse(c))
	}
	return shared.Paginated[ClientResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
