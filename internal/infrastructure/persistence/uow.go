package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/farmabill/backend/internal/domain/shared"
)

type txContextKey struct{}

// GormUnitOfWork implements shared.UnitOfWork on a GORM transaction. The
// transaction handle travels in the context, so the repositories in this
// package transparently join it.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do runs fn inside a database transaction. Nested calls reuse the
// transaction already in the context instead of opening a new one.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbConn returns the transaction carried by the context when inside a unit
// of work, and the repository's own connection otherwise.
func dbConn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)
