package infra

import (
	"fmt"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create or update the inventory tables, then applies idempotent SQL patches
// that AutoMigrate cannot express (partial indexes on soft-deleted rows).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates the schema. Also used by integration tests against a
// throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.CategoryItem{},
		&model.Item{},
		&model.StockItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that AutoMigrate does not cover. Every statement
// is guarded so re-running on an already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Listings always filter on deleted_at IS NULL; partial indexes keep
		// those scans cheap once soft-deleted rows accumulate.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_category_item_live') THEN
		    CREATE INDEX idx_category_item_live ON category_item (created_at DESC) WHERE deleted_at IS NULL;
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_item_live') THEN
		    CREATE INDEX idx_item_live ON item (created_at DESC) WHERE deleted_at IS NULL;
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_item_live') THEN
		    CREATE INDEX idx_stock_item_live ON stock_item (created_at DESC) WHERE deleted_at IS NULL;
		  END IF;
		END $$`,
		// Join columns for the item and stock listings.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_item_category') THEN
		    CREATE INDEX idx_item_category ON item (category_item_id);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_item_item') THEN
		    CREATE INDEX idx_stock_item_item ON stock_item (item_id);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
