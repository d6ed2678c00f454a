package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/farmabill/backend/internal/domain/shared"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// SaveWithLock must guard the UPDATE with the version the aggregate was
// loaded with, so a concurrent writer makes the statement match zero rows.
func TestClientSaveWithLockQueryShape(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormClientRepository(db)

	c := newTestClient(t, uuid.New(), "+5491122334455", "1000")
	c.SyncLoadedVersion() // as if freshly loaded at version 1
	c.Block()             // version 2; the lock still targets version 1

	mock.ExpectExec(`UPDATE "clients" SET .* WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveWithLock(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientSaveWithLockZeroRowsIsConflict(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormClientRepository(db)

	c := newTestClient(t, uuid.New(), "+5491122334455", "1000")
	c.SyncLoadedVersion()
	c.Block()

	mock.ExpectExec(`UPDATE "clients" SET .* WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveWithLock(context.Background(), c)
	var conflict *shared.ConcurrencyConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A load-mutate-save cycle that runs no effective mutator (version
// unchanged) must still match the stored row instead of reporting a
// phantom conflict.
func TestClientSaveWithLockIdempotentNoOp(t *testing.T) {
	ctx := context.Background()
	repo := NewGormClientRepository(openTestDB(t))
	pharmacyID := uuid.New()

	c := newTestClient(t, pharmacyID, "+5491122334455", "1000")
	c.AddTag("vip")
	require.NoError(t, repo.Save(ctx, c))

	loaded, err := repo.FindByID(ctx, pharmacyID, c.ID)
	require.NoError(t, err)

	loaded.Activate()      // already active
	loaded.AddTag("vip")   // already tagged
	loaded.RemoveTag("no") // never tagged
	require.Equal(t, loaded.LoadedVersion(), loaded.Version)

	require.NoError(t, repo.SaveWithLock(ctx, loaded))

	again, err := repo.FindByID(ctx, pharmacyID, loaded.ID)
	require.NoError(t, err)
	assert.Equal(t, loaded.Version, again.Version)
}

// A single save may carry several mutations, each bumping the version; the
// lock predicate must not assume exactly one bump since the load.
func TestTransactionSaveWithLockSeveralMutations(t *testing.T) {
	ctx := context.Background()
	repo := NewGormTransactionRepository(openTestDB(t))
	pharmacyID := uuid.New()

	tx := newTestTransaction(t, pharmacyID, "INV-20260315-0010", "1200")
	require.NoError(t, repo.Save(ctx, tx))

	loaded, err := repo.FindByID(ctx, pharmacyID, tx.ID)
	require.NoError(t, err)

	loaded.SetGatewayDetails("mp-555", "", "pref-9")
	require.NoError(t, loaded.MarkAsPaid("credit_card", nil))
	require.Greater(t, loaded.Version, loaded.LoadedVersion()+1)

	require.NoError(t, repo.SaveWithLock(ctx, loaded))

	again, err := repo.FindByID(ctx, pharmacyID, loaded.ID)
	require.NoError(t, err)
	assert.True(t, again.IsPaid())
	assert.Equal(t, "mp-555", again.GatewayPaymentID)

	// A stale copy loaded before those mutations still conflicts.
	stale, err := repo.FindByGatewayPreferenceID(ctx, "pref-9")
	require.NoError(t, err)
	require.NoError(t, again.Refund("devolución"))
	require.NoError(t, repo.SaveWithLock(ctx, again))

	require.NoError(t, stale.MarkAsFailed("tarjeta rechazada"))
	err = repo.SaveWithLock(ctx, stale)
	var conflict *shared.ConcurrencyConflictError
	assert.ErrorAs(t, err, &conflict)
}

// After a successful locked save the aggregate can keep mutating and save
// again without a reload.
func TestClientSaveWithLockConsecutiveSaves(t *testing.T) {
	ctx := context.Background()
	repo := NewGormClientRepository(openTestDB(t))
	pharmacyID := uuid.New()

	c := newTestClient(t, pharmacyID, "+5491122334455", "1000")
	require.NoError(t, repo.Save(ctx, c))

	loaded, err := repo.FindByID(ctx, pharmacyID, c.ID)
	require.NoError(t, err)

	loaded.Block()
	require.NoError(t, repo.SaveWithLock(ctx, loaded))

	loaded.Activate()
	require.NoError(t, repo.SaveWithLock(ctx, loaded))
}
