package repository

import (
	"context"
	"time"

	auditdomain "github.com/billforgelabs/billforge/internal/audit/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() auditdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, log *auditdomain.CallLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *repository) ListBetween(ctx context.Context, db *gorm.DB, start, end time.Time, endpoints []string) ([]auditdomain.CallLog, error) {
	query := db.WithContext(ctx).Model(&auditdomain.CallLog{}).
		Where("created_at >= ? AND created_at < ?", start, end)
	if len(endpoints) > 0 {
		query = query.Where("endpoint IN ?", endpoints)
	}

	var logs []auditdomain.CallLog
	if err := query.Order("created_at ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
