package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/domain/identity"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

func TestGenerateInvoice(t *testing.T) {
	ctx := context.Background()
	pharmacyID := uuid.New()
	txRepo := new(MockTransactionRepository)
	clientRepo := new(MockClientRepository)
	pharmacyRepo := new(MockPharmacyRepository)
	renderer := new(MockInvoiceRenderer)
	store := new(MockDocumentStore)
	svc := NewInvoiceService(txRepo, clientRepo, pharmacyRepo, renderer, store)

	pharmacy, err := identity.NewPharmacy("Farmacia San Martín", valueobject.ARS)
	require.NoError(t, err)
	c := newDomainClient(t, pharmacyID, "5000")
	c.FirstName = "María"
	c.LastName = "García"
	tx := newDomainTransaction(t, pharmacyID, c.ID, billing.TypeInvoice, "1500")

	txRepo.On("FindByID", ctx, pharmacyID, tx.ID).Return(tx, nil)
	clientRepo.On("FindByID", ctx, pharmacyID, c.ID).Return(c, nil)
	pharmacyRepo.On("FindByID", ctx, pharmacyID).Return(pharmacy, nil)

	rendered := []byte("<html>factura</html>")
	renderer.On("Render", ctx, mock.MatchedBy(func(data *InvoiceData) bool {
		return data.Number == tx.Number &&
			data.PharmacyName == "Farmacia San Martín" &&
			data.ClientName == "María García"
	})).Return(rendered, nil)

	key := fmt.Sprintf("invoices/%s/%s.html", pharmacyID, tx.Number)
	store.On("Upload", ctx, key, rendered, "text/html; charset=utf-8").Return(nil)
	txRepo.On("SaveWithLock", ctx, tx).Return(nil)

	expiry := time.Now().Add(15 * time.Minute)
	store.On("DownloadURL", ctx, key, mock.AnythingOfType("time.Duration")).
		Return("https://storage.test/"+key, expiry, nil)

	resp, err := svc.Generate(ctx, pharmacyID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, key, resp.DocumentPath)
	assert.Equal(t, "https://storage.test/"+key, resp.DownloadURL)
	assert.Equal(t, key, tx.InvoiceDocumentPath)

	txRepo.AssertExpectations(t)
	store.AssertExpectations(t)
	renderer.AssertExpectations(t)
}

func TestDownloadURLRequiresGeneratedDocument(t *testing.T) {
	ctx := context.Background()
	pharmacyID := uuid.New()
	txRepo := new(MockTransactionRepository)
	store := new(MockDocumentStore)
	svc := NewInvoiceService(txRepo, new(MockClientRepository), new(MockPharmacyRepository), new(MockInvoiceRenderer), store)

	tx := newDomainTransaction(t, pharmacyID, uuid.New(), billing.TypeInvoice, "1500")
	txRepo.On("FindByID", ctx, pharmacyID, tx.ID).Return(tx, nil)

	_, err := svc.DownloadURL(ctx, pharmacyID, tx.ID)
	var notFound *shared.EntityNotFoundError
	require.ErrorAs(t, err, &notFound)
	store.AssertNotCalled(t, "DownloadURL", mock.Anything, mock.Anything, mock.Anything)
}
