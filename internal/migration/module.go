// Package migration applies the database schema.
package migration

import (
	"context"
	"time"

	auditdomain "github.com/billforgelabs/billforge/internal/audit/domain"
	tierdomain "github.com/billforgelabs/billforge/internal/packagetier/domain"
	ruledomain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

// Run migrates the schema. On postgres a session advisory lock serializes
// concurrent migrators so only one replica applies the schema at startup.
func Run(db *gorm.DB, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if db.Dialector.Name() == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		unlock, err := acquireAdvisoryLock(ctx, sqlDB)
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				log.Named("migration").Warn("failed to release advisory lock", zap.Error(err))
			}
		}()
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&ruledomain.RuleRecord{},
		&tierdomain.PackageTier{},
		&auditdomain.CallLog{},
	); err != nil {
		return err
	}
	log.Named("migration").Info("schema migrated")
	return nil
}
