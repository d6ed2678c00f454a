package storage

import (
	"fmt"

	"go.uber.org/zap"

	billingapp "github.com/farmabill/backend/internal/application/billing"
	infraconfig "github.com/farmabill/backend/internal/infrastructure/config"
)

// NewDocumentStore selects the storage backend from configuration
func NewDocumentStore(cfg infraconfig.StorageConfig, logger *zap.Logger) (billingapp.DocumentStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3DocumentStore(cfg, logger)
	case "stub":
		return NewStubDocumentStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
