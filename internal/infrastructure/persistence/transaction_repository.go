package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements billing.Repository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) conn(ctx context.Context) *gorm.DB {
	return dbConn(ctx, r.db)
}

// FindByID finds a transaction by ID within a pharmacy
func (r *GormTransactionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Transaction, error) {
	var model models.TransactionModel
	if err := r.conn(ctx).
		Where("pharmacy_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("transaction", id.String())
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByNumber finds a transaction by its number within a pharmacy
func (r *GormTransactionRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Transaction, error) {
	var model models.TransactionModel
	if err := r.conn(ctx).
		Where("pharmacy_id = ? AND number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("transaction", number)
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByGatewayPaymentID resolves a gateway payment to its transaction.
// Gateway payment ids are globally unique, so there is no tenant scope.
func (r *GormTransactionRepository) FindByGatewayPaymentID(ctx context.Context, paymentID string) (*billing.Transaction, error) {
	if paymentID == "" {
		return nil, shared.NewValidationError("gateway_payment_id", "payment id cannot be empty")
	}
	var model models.TransactionModel
	if err := r.conn(ctx).
		Where("gateway_payment_id = ?", paymentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("transaction", paymentID)
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByGatewayPreferenceID resolves a checkout preference to its
// transaction. Used as the fallback correlation key for the first webhook
// delivery, before the payment id has been recorded.
func (r *GormTransactionRepository) FindByGatewayPreferenceID(ctx context.Context, preferenceID string) (*billing.Transaction, error) {
	if preferenceID == "" {
		return nil, shared.NewValidationError("gateway_preference_id", "preference id cannot be empty")
	}
	var model models.TransactionModel
	if err := r.conn(ctx).
		Where("gateway_preference_id = ?", preferenceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewEntityNotFoundError("transaction", preferenceID)
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll lists transactions for a pharmacy
func (r *GormTransactionRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.Transaction], error) {
	return r.findPage(filter, r.tenantScope(ctx, tenantID))
}

// FindByClient lists a client's transactions
func (r *GormTransactionRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.Transaction], error) {
	return r.findPage(filter, r.tenantScope(ctx, tenantID).Where("client_id = ?", clientID))
}

// FindOverdue lists unpaid transactions past their due date
func (r *GormTransactionRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.Transaction], error) {
	scope := r.tenantScope(ctx, tenantID).
		Where("payment_status IN ?", []billing.PaymentStatus{billing.PaymentStatusPending, billing.PaymentStatusFailed}).
		Where("due_date IS NOT NULL AND due_date < ?", startOfToday())
	return r.findPage(filter, scope)
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, t *billing.Transaction) error {
	model, err := models.TransactionModelFromDomain(t)
	if err != nil {
		return err
	}
	if err := r.conn(ctx).Save(model).Error; err != nil {
		return err
	}
	t.SyncLoadedVersion()
	return nil
}

// SaveWithLock persists with an optimistic version check against the
// version the aggregate was loaded with, so flows that run several
// mutators before saving (the webhook path runs two) still match the row.
func (r *GormTransactionRepository) SaveWithLock(ctx context.Context, t *billing.Transaction) error {
	model, err := models.TransactionModelFromDomain(t)
	if err != nil {
		return err
	}

	result := r.conn(ctx).
		Model(&models.TransactionModel{}).
		Where("id = ? AND version = ?", t.ID, t.LoadedVersion()).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflictError("transaction", t.ID.String())
	}
	t.SyncLoadedVersion()
	return nil
}

// NextSequence atomically advances the (pharmacy, type, day) counter and
// returns the new value. The upsert makes concurrent allocations race
// inside the database, so two callers never see the same number.
func (r *GormTransactionRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, txType billing.Type, day time.Time) (int, error) {
	var counter int
	err := r.conn(ctx).Raw(`
		INSERT INTO transaction_counters (pharmacy_id, transaction_type, period, counter)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (pharmacy_id, transaction_type, period)
		DO UPDATE SET counter = transaction_counters.counter + 1
		RETURNING counter`,
		tenantID, txType, day.Format("20060102"),
	).Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter, nil
}

func (r *GormTransactionRepository) tenantScope(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.conn(ctx).
		Model(&models.TransactionModel{}).
		Where("pharmacy_id = ?", tenantID)
}

func (r *GormTransactionRepository) findPage(filter shared.Filter, scope *gorm.DB) (shared.Paginated[*billing.Transaction], error) {
	var empty shared.Paginated[*billing.Transaction]
	filter = normalizeFilter(filter)

	var total int64
	if err := scope.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, err
	}

	var txModels []models.TransactionModel
	if err := applyFilter(scope, filter).Find(&txModels).Error; err != nil {
		return empty, err
	}

	txs, err := models.TransactionModelsToDomain(txModels)
	if err != nil {
		return empty, err
	}
	return shared.NewPaginated(txs, total, filter.Page, filter.PageSize), nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

var _ billing.Repository = (*GormTransactionRepository)(nil)
