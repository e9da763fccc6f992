package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Le-Yoy/brendt-store-sub001/internal/config"
)

type FactoryResult struct {
	Driver  string
	Durable Tier
}

// DurableFromConfig builds the durable tier selected by STORAGE_DRIVER.
// db may be nil unless the driver is "db".
func DurableFromConfig(ctx context.Context, cfg config.Config, db *gorm.DB) (FactoryResult, error) {
	switch cfg.StorageDriver {
	case "", "db":
		if db == nil {
			return FactoryResult{}, fmt.Errorf("storage driver db requires a database connection")
		}
		t := NewDBTier(db)
		if err := t.Migrate(ctx); err != nil {
			return FactoryResult{}, fmt.Errorf("migrate client_records: %w", err)
		}
		return FactoryResult{Driver: "db", Durable: t}, nil

	case "local":
		return FactoryResult{Driver: "local", Durable: NewFileTier(cfg.LocalStateDir)}, nil

	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET required")
		}
		t, err := NewS3Tier(ctx, S3Config{
			Region: cfg.S3Region,
			Bucket: cfg.S3Bucket,
			Prefix: cfg.S3Prefix,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Durable: t}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.StorageDriver)
	}
}
