package client

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/client"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// Service handles client-related business operations
type Service struct {
	clients   client.Repository
	validator *client.Validator
}

// NewService creates a new client Service
func NewService(clients client.Repository) *Service {
	return &Service{
		clients:   clients,
		validator: client.NewValidator(),
	}
}

// Create registers a new client for the pharmacy. Phone numbers are unique
// within a pharmacy.
func (s *Service) Create(ctx context.Context, pharmacyID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	phone, err := valueobject.NewPhone(req.Phone)
	if err != nil {
		return nil, err
	}

	existing, err := s.clients.FindByPhone(ctx, pharmacyID, phone.Normalized())
	if err != nil {
		var notFound *shared.EntityNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if existing != nil {
		return nil, shared.NewDuplicateEntityError("client", "phone", phone.Normalized())
	}

	currency := valueobject.ARS
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	limitAmount := decimal.Zero
	if req.CreditLimit != nil {
		limitAmount = *req.CreditLimit
	}
	limit, err := valueobject.NewMoney(limitAmount, currency)
	if err != nil {
		return nil, err
	}
	balance, err := client.NewClientBalance(valueobject.Zero(currency), limit)
	if err != nil {
		return nil, err
	}

	c, err := client.NewClient(pharmacyID, phone, balance)
	if err != nil {
		return nil, err
	}

	c.FirstName = req.FirstName
	c.LastName = req.LastName
	c.Email = req.Email
	c.TaxID = req.TaxID
	c.Notes = req.Notes
	c.ExternalID = req.ExternalID
	for _, tag := range req.Tags {
		c.AddTag(tag)
	}

	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *Service) GetByID(ctx context.Context, pharmacyID, clientID uuid.UUID) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, pharmacyID, clientID)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// GetByPhone retrieves a client by normalized phone number
func (s *Service) GetByPhone(ctx context.Context, pharmacyID uuid.UUID, rawPhone string) (*ClientResponse, error) {
	phone, err := valueobject.NewPhone(rawPhone)
	if err != nil {
		return nil, err
	}

	c, err := s.clients.FindByPhone(ctx, pharmacyID, phone.Normalized())
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// List retrieves clients with pagination, optionally filtered by tag or a
// free-text search.
func (s *Service) List(ctx context.Context, pharmacyID uuid.UUID, filter ClientListFilter) (shared.Paginated[ClientResponse], error) {
	repoFilter := filter.ToFilter()

	var (
		page shared.Paginated[*client.Client]
		err  error
	)
	switch {
	case filter.Tag != "":
		page, err = s.clients.FindByTag(ctx, pharmacyID, filter.Tag, repoFilter)
	case filter.Search != "":
		page, err = s.clients.Search(ctx, pharmacyID, filter.Search, repoFilter)
	default:
		page, err = s.clients.FindAll(ctx, pharmacyID, repoFilter)
	}
	if err != nil {
		return shared.Paginated[ClientResponse]{}, err
	}
	return ToClientResponses(page), nil
}

// ListDebtors retrieves clients with outstanding debt
func (s *Service) ListDebtors(ctx context.Context, pharmacyID uuid.UUID, filter ClientListFilter) (shared.Paginated[ClientResponse], error) {
	page, err := s.clients.FindWithDebt(ctx, pharmacyID, filter.ToFilter())
	if err != nil {
		return shared.Paginated[ClientResponse]{}, err
	}
	return ToClientResponses(page), nil
}

// Update applies a partial profile update
func (s *Service) Update(ctx context.Context, pharmacyID, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, pharmacyID, clientID)
	if err != nil {
		return nil, err
	}

	c.UpdatePersonalInfo(client.PersonalInfo{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		TaxID:     req.TaxID,
		Notes:     req.Notes,
	})

	if err := s.clients.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// Delete soft-deletes a client
func (s *Service) Delete(ctx context.Context, pharmacyID, clientID uuid.UUID) error {
	c, err := s.clients.FindByID(ctx, pharmacyID, clientID)
	if err != nil {
		return err
	}

	c.Delete()
	return s.clients.SaveWithLock(ctx, c)
}

// UpdateCreditLimit changes the client's credit limit after validating the
// change against status and outstanding debt.
func (s *Service) UpdateCreditLimit(ctx context.Context, pharmacyID, clientID uuid.UUID, req UpdateCreditLimitRequest) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, pharmacyID, clientID)
	if err != nil {
		return nil, err
	}

	newLimit, err := valueobject.NewMoney(req.CreditLimit, c.Balance.Currency())
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateForCreditIncrease(c, newLimit); err != nil {
		return nil, err
	}
	if err := c.UpdateCreditLimit(newLimit); err != nil {
		return nil, err
	}

	if err := s.clients.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// ChangeStatus moves the client to the target status
func (s *Service) ChangeStatus(ctx context.Context, pharmacyID, clientID uuid.UUID, target client.Status) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, pharmacyID, clientID)
	if err != nil {
		return nil, err
	}

	switch target {
	case client.StatusActive:
		c.Activate()
	case client.StatusInactive:
		c.Deactivate()
	case client.StatusBlocked:
		c.Block()
	case client.StatusSuspended:
		c.Suspend()
	default:
		return nil, shared.NewValidationError("status", "invalid client status")
	}

	if err := s.clients.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// AddTag attaches a tag to the client; adding an existing tag is a no-op
func (s *Service) AddTag(ctx context.Context, pharmacyID, clientID uuid.UUID, tag string) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, pharmacyID, clientID)
	if err != nil {
		return nil, err
	}

	c.AddTag(tag)
	if err := s.clients.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// RemoveTag detaches a tag from the client
func (s *Service) RemoveTag(ctx context.Context, pharmacyID, clientID uuid.UUID, tag string) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, pharmacyID, clientID)
	if err != nil {
		return nil, err
	}

	c.RemoveTag(tag)
	if err := s.clients.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// CreditScore computes the validator's assessment of the client, including
// a recommended credit limit based on the given purchase history volume.
func (s *Service) CreditScore(ctx context.Context, pharmacyID, clientID uuid.UUID, purchaseHistoryTotal decimal.Decimal) (*CreditScoreResponse, error) {
	c, err := s.clients.FindByID(ctx, pharmacyID, clientID)
	if err != nil {
		return nil, err
	}

	history, err := valueobject.NewMoney(purchaseHistoryTotal, c.Balance.Currency())
	if err != nil {
		return nil, err
	}

	return &CreditScoreResponse{
		ClientID:         c.ID,
		Score:            s.validator.CalculateCreditScore(c),
		ShouldWarn:       s.validator.ShouldSendCreditWarning(c),
		AvailableCredit:  c.Balance.AvailableCredit().Amount(),
		TotalDebt:        c.Balance.TotalDebt().Amount(),
		RecommendedLimit: s.validator.RecommendCreditLimit(c, history).Amount(),
	}, nil
}
