package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmabill/backend/internal/domain/identity"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/infrastructure/persistence/models"
)

// GormPharmacyRepository implements identity.PharmacyRepository using GORM
type GormPharmacyRepository struct {
	db *gorm.DB
}

// NewGormPharmacyRepository creates a new GormPharmacyRepository
func NewGormPharmacyRepository(db *gorm.DB) *GormPharmacyRepository {
	return &GormPharmacyRepository{db: db}
}

func (r *GormPharmacyRepository) conn(ctx context.Context) *gorm.DB {
	return dbConn(ctx, r.db)
}

// FindByID finds a pharmacy by ID
func (r *GormPharmacyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Pharmacy, error) {
	var model models.PharmacyModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("pharmacy", id.String())
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a pharmacy by its exact name
func (r *GormPharmacyRepository) FindByName(ctx context.Context, name string) (*identity.Pharmacy, error) {
	var model models.PharmacyModel
	if err := r.conn(ctx).First(&model, "name = ?", strings.TrimSpace(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("pharmacy", name)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a pharmacy
func (r *GormPharmacyRepository) Save(ctx context.Context, p *identity.Pharmacy) error {
	return r.conn(ctx).Save(models.PharmacyModelFromDomain(p)).Error
}

var _ identity.PharmacyRepository = (*GormPharmacyRepository)(nil)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) conn(ctx context.Context) *gorm.DB {
	return dbConn(ctx, r.db)
}

// FindByID finds a user by ID within a pharmacy
func (r *GormUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.conn(ctx).
		Where("pharmacy_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("user", id.String())
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email. Emails are stored lowercased and are
// globally unique, so login does not need a tenant.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.conn(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("user", email)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return r.conn(ctx).Save(models.UserModelFromDomain(u)).Error
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
