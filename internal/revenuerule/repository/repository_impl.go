package repository

import (
	"context"
	"time"

	domain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Upsert(ctx context.Context, db *gorm.DB, record *domain.RuleRecord) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "account_service_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"document":   record.Document,
			"updated_at": time.Now().UTC(),
		}),
	}).Create(record).Error
}

func (r *repository) FindByAccountService(ctx context.Context, db *gorm.DB, accountID, accountServiceID string) (*domain.RuleRecord, error) {
	var record domain.RuleRecord
	err := db.WithContext(ctx).Model(&domain.RuleRecord{}).
		Where("account_id = ? AND account_service_id = ?", accountID, accountServiceID).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, accountID, accountServiceID string) error {
	return db.WithContext(ctx).
		Where("account_id = ? AND account_service_id = ?", accountID, accountServiceID).
		Delete(&domain.RuleRecord{}).Error
}
