package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/domain/client"
	"github.com/farmabill/backend/internal/domain/identity"
	"github.com/farmabill/backend/internal/domain/shared"
)

// MockTransactionRepository is a mock implementation of billing.Repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Transaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Transaction, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByGatewayPaymentID(ctx context.Context, paymentID string) (*billing.Transaction, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByGatewayPreferenceID(ctx context.Context, preferenceID string) (*billing.Transaction, error) {
	args := m.Called(ctx, preferenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.Transaction], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*billing.Transaction]), args.Error(1)
}

func (m *MockTransactionRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.Transaction], error) {
	args := m.Called(ctx, tenantID, clientID, filter)
	return args.Get(0).(shared.Paginated[*billing.Transaction]), args.Error(1)
}

func (m *MockTransactionRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.Transaction], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*billing.Transaction]), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, t *billing.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveWithLock(ctx context.Context, t *billing.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, txType billing.Type, day time.Time) (int, error) {
	args := m.Called(ctx, tenantID, txType, day)
	return args.Int(0), args.Error(1)
}

// MockClientRepository is a mock implementation of client.Repository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, normalizedPhone string) (*client.Client, error) {
	args := m.Called(ctx, tenantID, normalizedPhone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*client.Client], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*client.Client]), args.Error(1)
}

func (m *MockClientRepository) FindWithDebt(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*client.Client], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*client.Client]), args.Error(1)
}

func (m *MockClientRepository) FindByTag(ctx context.Context, tenantID uuid.UUID, tag string, filter shared.Filter) (shared.Paginated[*client.Client], error) {
	args := m.Called(ctx, tenantID, tag, filter)
	return args.Get(0).(shared.Paginated[*client.Client]), args.Error(1)
}

func (m *MockClientRepository) Search(ctx context.Context, tenantID uuid.UUID, query string, filter shared.Filter) (shared.Paginated[*client.Client], error) {
	args := m.Called(ctx, tenantID, query, filter)
	return args.Get(0).(shared.Paginated[*client.Client]), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

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

// MockPaymentGateway is a mock implementation of billing.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreatePreference(ctx context.Context, req *billing.CreatePreferenceRequest) (*billing.PaymentPreference, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentPreference), args.Error(1)
}

func (m *MockPaymentGateway) GetPayment(ctx context.Context, paymentID string) (*billing.GatewayPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.GatewayPayment), args.Error(1)
}

func (m *MockPaymentGateway) VerifyWebhook(payload []byte, signature, requestID string) (*billing.WebhookNotification, error) {
	args := m.Called(payload, signature, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.WebhookNotification), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, notificationID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, notificationID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, notificationID string) (bool, error) {
	args := m.Called(ctx, notificationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, notificationID string) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}

// passthroughUOW runs the function directly; atomicity is covered by the
// repository tests against a real database.
type passthroughUOW struct{}

func (passthroughUOW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// trackingUOW records how often Do runs and whether it is currently active,
// so tests can assert which writes share a unit of work.
type trackingUOW struct {
	calls  int
	active bool
}

func (u *trackingUOW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	u.active = true
	defer func() { u.active = false }()
	return fn(ctx)
}

// MockInvoiceRenderer is a mock implementation of InvoiceRenderer
type MockInvoiceRenderer struct {
	mock.Mock
}

func (m *MockInvoiceRenderer) Render(ctx context.Context, data *InvoiceData) ([]byte, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockDocumentStore is a mock implementation of DocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockDocumentStore) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockDocumentStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
