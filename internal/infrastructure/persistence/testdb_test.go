package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/farmabill/backend/internal/infrastructure/persistence/models"
)

// openTestDB opens an in-memory SQLite database with the full schema.
// SQLite understands the ON CONFLICT ... RETURNING upsert the counter
// allocation relies on, so the repositories run unmodified.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.PharmacyModel{},
		&models.UserModel{},
		&models.ClientModel{},
		&models.TransactionModel{},
		&models.TransactionCounterModel{},
	))
	return db
}
