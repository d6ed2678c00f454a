package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/identity"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
	"github.com/farmabill/backend/internal/infrastructure/auth"
)

// Service handles pharmacy registration and user authentication
type Service struct {
	pharmacies identity.PharmacyRepository
	users      identity.UserRepository
	jwt        *auth.JWTService
	blacklist  auth.TokenBlacklist
}

// NewService creates a new identity Service
func NewService(
	pharmacies identity.PharmacyRepository,
	users identity.UserRepository,
	jwt *auth.JWTService,
	blacklist auth.TokenBlacklist,
) *Service {
	return &Service{
		pharmacies: pharmacies,
		users:      users,
		jwt:        jwt,
		blacklist:  blacklist,
	}
}

// RegisterPharmacy registers a pharmacy tenant together with its first
// admin user and returns tokens for the new account.
func (s *Service) RegisterPharmacy(ctx context.Context, req RegisterPharmacyRequest) (*RegisterPharmacyResponse, error) {
	if existing, err := s.pharmacies.FindByName(ctx, req.Name); err != nil {
		var notFound *shared.EntityNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	} else if existing != nil {
		return nil, shared.NewDuplicateEntityError("pharmacy", "name", req.Name)
	}

	if existing, err := s.users.FindByEmail(ctx, req.AdminEmail); err != nil {
		var notFound *shared.EntityNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	} else if existing != nil {
		return nil, shared.NewDuplicateEntityError("user", "email", req.AdminEmail)
	}

	pharmacy, err := identity.NewPharmacy(req.Name, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}
	pharmacy.BusinessName = req.BusinessName
	pharmacy.TaxID = req.TaxID
	pharmacy.UpdateContactInfo(req.ContactEmail, req.ContactPhone, req.Address)

	admin, err := identity.NewUser(pharmacy.ID, req.AdminEmail, req.AdminPassword, req.AdminDisplayName)
	if err != nil {
		return nil, err
	}

	if err := s.pharmacies.Save(ctx, pharmacy); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, admin); err != nil {
		return nil, err
	}

	tokens, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		PharmacyID: pharmacy.ID,
		UserID:     admin.ID,
		Email:      admin.Email,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterPharmacyResponse{
		Pharmacy: ToPharmacyResponse(pharmacy),
		Admin:    ToUserResponse(admin),
		Tokens:   tokens,
	}, nil
}

// GetPharmacy retrieves the authenticated tenant
func (s *Service) GetPharmacy(ctx context.Context, pharmacyID uuid.UUID) (*PharmacyResponse, error) {
	pharmacy, err := s.pharmacies.FindByID(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	response := ToPharmacyResponse(pharmacy)
	return &response, nil
}

// Login authenticates a user and issues a token pair. Failed attempts are
// counted on the account, so the user is persisted either way.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		var notFound *shared.EntityNotFoundError
		if errors.As(err, &notFound) {
			return nil, shared.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	pharmacy, err := s.pharmacies.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if !pharmacy.IsActive() {
		return nil, shared.NewUnauthorizedError("pharmacy is not active")
	}

	checkErr := user.CheckPassword(req.Password)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if checkErr != nil {
		return nil, checkErr
	}

	tokens, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		PharmacyID: user.TenantID,
		UserID:     user.ID,
		Email:      user.Email,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:   ToUserResponse(user),
		Tokens: tokens,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewUnauthorizedError("invalid refresh token")
	}

	if claims.ID != "" {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.NewUnauthorizedError("refresh token has been revoked")
		}
	}

	tokens, err := s.jwt.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		return nil, shared.NewUnauthorizedError("invalid refresh token")
	}
	return tokens, nil
}

// Logout revokes the presented tokens for the remainder of their lifetime
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwt.ValidateAccessToken(accessToken); err == nil && claims.ID != "" {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			return err
		}
	}

	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil || claims.ID == "" {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL())
}
