package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmabill/backend/internal/domain/client"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/infrastructure/persistence/models"
)

// GormClientRepository implements client.Repository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) conn(ctx context.Context) *gorm.DB {
	return dbConn(ctx, r.db)
}

// FindByID finds a client by ID within a pharmacy
func (r *GormClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*client.Client, error) {
	var model models.ClientModel
	if err := r.conn(ctx).
		Where("pharmacy_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("client", id.String())
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByPhone finds a client by normalized phone within a pharmacy
func (r *GormClientRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, normalizedPhone string) (*client.Client, error) {
	if normalizedPhone == "" {
		return nil, shared.NewValidationError("phone", "phone cannot be empty")
	}
	var model models.ClientModel
	if err := r.conn(ctx).
		Where("pharmacy_id = ? AND phone = ?", tenantID, normalizedPhone).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("client", normalizedPhone)
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll lists clients for a pharmacy
func (r *GormClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*client.Client], error) {
	return r.findPage(filter, r.tenantScope(ctx, tenantID))
}

// FindWithDebt lists clients whose balance is negative
func (r *GormClientRepository) FindWithDebt(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*client.Client], error) {
	return r.findPage(filter, r.tenantScope(ctx, tenantID).Where("balance < 0"))
}

// FindByTag lists clients carrying a tag
func (r *GormClientRepository) FindByTag(ctx context.Context, tenantID uuid.UUID, tag string, filter shared.Filter) (shared.Paginated[*client.Client], error) {
	// Tags are stored as a JSON array; a LIKE over the serialized form
	// works on both Postgres and SQLite.
	pattern := `%"` + tag + `"%`
	return r.findPage(filter, r.tenantScope(ctx, tenantID).Where("tags LIKE ?", pattern))
}

// Search matches name, phone or email
func (r *GormClientRepository) Search(ctx context.Context, tenantID uuid.UUID, query string, filter shared.Filter) (shared.Paginated[*client.Client], error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	scope := r.tenantScope(ctx, tenantID).Where(
		"first_name LIKE ? OR last_name LIKE ? OR whats_app_name LIKE ? OR phone LIKE ? OR email LIKE ?",
		pattern, pattern, pattern, pattern, pattern)
	return r.findPage(filter, scope)
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, c *client.Client) error {
	model, err := models.ClientModelFromDomain(c)
	if err != nil {
		return err
	}
	if err := r.conn(ctx).Save(model).Error; err != nil {
		return err
	}
	c.SyncLoadedVersion()
	return nil
}

// SaveWithLock persists with an optimistic version check. The row must
// still hold the version the aggregate was loaded with; how many mutators
// ran since the load (including none, for idempotent no-ops) is irrelevant.
func (r *GormClientRepository) SaveWithLock(ctx context.Context, c *client.Client) error {
	model, err := models.ClientModelFromDomain(c)
	if err != nil {
		return err
	}

	result := r.conn(ctx).
		Model(&models.ClientModel{}).
		Where("id = ? AND version = ?", c.ID, c.LoadedVersion()).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflictError("client", c.ID.String())
	}
	c.SyncLoadedVersion()
	return nil
}

func (r *GormClientRepository) tenantScope(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.conn(ctx).
		Model(&models.ClientModel{}).
		Where("pharmacy_id = ?", tenantID).
		Where("deleted_at IS NULL")
}

func (r *GormClientRepository) findPage(filter shared.Filter, scope *gorm.DB) (shared.Paginated[*client.Client], error) {
	var empty shared.Paginated[*client.Client]
	filter = normalizeFilter(filter)

	var total int64
	if err := scope.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, err
	}

	var clientModels []models.ClientModel
	if err := applyFilter(scope, filter).Find(&clientModels).Error; err != nil {
		return empty, err
	}

	clients, err := models.ClientModelsToDomain(clientModels)
	if err != nil {
		return empty, err
	}
	return shared.NewPaginated(clients, total, filter.Page, filter.PageSize), nil
}

var _ client.Repository = (*GormClientRepository)(nil)
