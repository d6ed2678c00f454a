package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmabill/backend/internal/domain/identity"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
	"github.com/farmabill/backend/internal/infrastructure/auth"
	"github.com/farmabill/backend/internal/infrastructure/config"
)

// MockPharmacyRepository is a mock implementation of identity.PharmacyRepository
type MockPharmacyRepository struct {
	mock.Mock
}

func (m *MockPharmacyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Pharmacy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Pharmacy), args.Error(1)
}

func (m *MockPharmacyRepository) FindByName(ctx context.Context, name string) (*identity.Pharmacy, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Pharmacy), args.Error(1)
}

func (m *MockPharmacyRepository) Save(ctx context.Context, p *identity.Pharmacy) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newTestService(pharmacies *MockPharmacyRepository, users *MockUserRepository) *Service {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-unit-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "farmabill-test",
	})
	return NewService(pharmacies, users, jwtService, auth.NewInMemoryTokenBlacklist())
}

func TestRegisterPharmacy(t *testing.T) {
	ctx := context.Background()
	pharmacies := new(MockPharmacyRepository)
	users := new(MockUserRepository)
	svc := newTestService(pharmacies, users)

	pharmacies.On("FindByName", ctx, "Farmacia Central").
		Return(nil, shared.NewEntityNotFoundError("pharmacy", "Farmacia Central"))
	users.On("FindByEmail", ctx, "admin@central.test").
		Return(nil, shared.NewEntityNotFoundError("user", "admin@central.test"))
	pharmacies.On("Save", ctx, mock.AnythingOfType("*identity.Pharmacy")).Return(nil)
	users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	resp, err := svc.RegisterPharmacy(ctx, RegisterPharmacyRequest{
		Name:          "Farmacia Central",
		AdminEmail:    "admin@central.test",
		AdminPassword: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Farmacia Central", resp.Pharmacy.Name)
	assert.Equal(t, "ARS", resp.Pharmacy.DefaultCurrency)
	assert.Equal(t, resp.Pharmacy.ID, resp.Admin.PharmacyID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
}

func TestRegisterPharmacyDuplicateName(t *testing.T) {
	ctx := context.Background()
	pharmacies := new(MockPharmacyRepository)
	users := new(MockUserRepository)
	svc := newTestService(pharmacies, users)

	existing, err := identity.NewPharmacy("Farmacia Central", valueobject.ARS)
	require.NoError(t, err)
	pharmacies.On("FindByName", ctx, "Farmacia Central").Return(existing, nil)

	_, err = svc.RegisterPharmacy(ctx, RegisterPharmacyRequest{
		Name:          "Farmacia Central",
		AdminEmail:    "admin@central.test",
		AdminPassword: "s3cret-pass",
	})
	var dup *shared.DuplicateEntityError
	require.ErrorAs(t, err, &dup)
	pharmacies.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLoginAndRefresh(t *testing.T) {
	ctx := context.Background()
	pharmacies := new(MockPharmacyRepository)
	users := new(MockUserRepository)
	svc := newTestService(pharmacies, users)

	pharmacy, err := identity.NewPharmacy("Farmacia Central", valueobject.ARS)
	require.NoError(t, err)
	user, err := identity.NewUser(pharmacy.ID, "owner@central.test", "s3cret-pass", "Dueño")
	require.NoError(t, err)

	users.On("FindByEmail", ctx, "owner@central.test").Return(user, nil)
	pharmacies.On("FindByID", ctx, pharmacy.ID).Return(pharmacy, nil)
	users.On("Save", ctx, user).Return(nil)

	resp, err := svc.Login(ctx, LoginRequest{Email: "owner@central.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "owner@central.test", resp.User.Email)
	assert.NotNil(t, resp.User.LastLoginAt)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: resp.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	pharmacies := new(MockPharmacyRepository)
	users := new(MockUserRepository)
	svc := newTestService(pharmacies, users)

	pharmacy, err := identity.NewPharmacy("Farmacia Central", valueobject.ARS)
	require.NoError(t, err)
	user, err := identity.NewUser(pharmacy.ID, "owner@central.test", "s3cret-pass", "")
	require.NoError(t, err)

	users.On("FindByEmail", ctx, "owner@central.test").Return(user, nil)
	pharmacies.On("FindByID", ctx, pharmacy.ID).Return(pharmacy, nil)
	users.On("Save", ctx, user).Return(nil)

	_, err = svc.Login(ctx, LoginRequest{Email: "owner@central.test", Password: "wrong"})
	var unauthorized *shared.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)

	// The failed attempt is persisted on the account
	assert.Equal(t, 1, user.FailedAttempts)
	users.AssertCalled(t, "Save", ctx, user)
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	ctx := context.Background()
	pharmacies := new(MockPharmacyRepository)
	users := new(MockUserRepository)
	svc := newTestService(pharmacies, users)

	users.On("FindByEmail", ctx, "ghost@central.test").
		Return(nil, shared.NewEntityNotFoundError("user", "ghost@central.test"))

	_, err := svc.Login(ctx, LoginRequest{Email: "ghost@central.test", Password: "whatever"})
	var unauthorized *shared.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	pharmacies := new(MockPharmacyRepository)
	users := new(MockUserRepository)
	svc := newTestService(pharmacies, users)

	pharmacy, err := identity.NewPharmacy("Farmacia Central", valueobject.ARS)
	require.NoError(t, err)
	user, err := identity.NewUser(pharmacy.ID, "owner@central.test", "s3cret-pass", "")
	require.NoError(t, err)

	users.On("FindByEmail", ctx, "owner@central.test").Return(user, nil)
	pharmacies.On("FindByID", ctx, pharmacy.ID).Return(pharmacy, nil)
	users.On("Save", ctx, user).Return(nil)

	resp, err := svc.Login(ctx, LoginRequest{Email: "owner@central.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Tokens.AccessToken, resp.Tokens.RefreshToken))

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: resp.Tokens.RefreshToken})
	var unauthorized *shared.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
}
