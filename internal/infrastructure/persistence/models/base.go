// Package models contains the GORM persistence models and their mappings to
// and from the domain aggregates.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/shared"
)

// BaseModel maps the domain BaseEntity
type BaseModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
	DeletedAt *time.Time `gorm:"index"`
}

// FromBaseEntity populates the model from a domain BaseEntity
func (m *BaseModel) FromBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
	m.DeletedAt = e.DeletedAt
}

// ToBaseEntity converts the model to a domain BaseEntity
func (m *BaseModel) ToBaseEntity() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: m.DeletedAt,
	}
}

// AggregateModel extends BaseModel with the optimistic-lock version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromAggregateRoot populates the model from a domain BaseAggregateRoot
func (m *AggregateModel) FromAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot converts the model to a domain BaseAggregateRoot. The
// stored version is remembered as the optimistic-lock baseline.
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.RehydrateBaseAggregateRoot(m.ToBaseEntity(), m.Version)
}

// TenantAggregateModel extends AggregateModel with the pharmacy tenant scope
type TenantAggregateModel struct {
	AggregateModel
	PharmacyID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromTenantAggregateRoot populates the model from a domain TenantAggregateRoot
func (m *TenantAggregateModel) FromTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.FromAggregateRoot(t.BaseAggregateRoot)
	m.PharmacyID = t.TenantID
}

// ToTenantAggregateRoot converts the model to a domain TenantAggregateRoot
func (m *TenantAggregateModel) ToTenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: m.ToAggregateRoot(),
		TenantID:          m.PharmacyID,
	}
}
